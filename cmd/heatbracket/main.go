package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goserg/heatbracket/internal/config"
	"github.com/goserg/heatbracket/internal/logger"
	"github.com/goserg/heatbracket/internal/service"
	"github.com/goserg/heatbracket/internal/storage/sqlite"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type app struct {
	cfg     config.Config
	log     *logrus.Logger
	storage *sqlite.Storage
	service *service.TournamentService
}

func main() {
	if err := newCLI(&app{}, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newCLI(a *app, w io.Writer) *cli.App {
	return &cli.App{
		Name:   "heatbracket",
		Usage:  "run 12 player, 2 round racing tournaments",
		Writer: w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultPath,
				Usage:   "path to the TOML config file",
			},
		},
		Before:   a.setup,
		After:    a.close,
		Commands: a.commands(),
	}
}

func (a *app) setup(c *cli.Context) error {
	cfg, err := config.New(c.String("config"))
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(cfg.Log)

	a.storage, err = sqlite.New(a.log, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.service = service.New(a.storage, a.storage, cfg.Storage, a.log)
	return nil
}

func (a *app) close(_ *cli.Context) error {
	if a.storage == nil {
		return nil
	}
	return a.storage.Close()
}

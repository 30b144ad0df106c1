package main

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goserg/heatbracket/internal/domain"
	"github.com/goserg/heatbracket/internal/export"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func (a *app) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "create",
			Usage:     "create a tournament",
			ArgsUsage: "<name>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kind",
					Value: string(domain.KindLive),
					Usage: "live or simulation",
				},
			},
			Action: a.create,
		},
		{
			Name:      "inscribe",
			Usage:     "register the 12 players of a tournament",
			ArgsUsage: "<tournament id> [names...]",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:  "file",
					Usage: "read player names from a file, one per line",
				},
			},
			Action: a.inscribe,
		},
		{
			Name:      "show",
			Usage:     "show a tournament with its player ids",
			ArgsUsage: "<tournament id>",
			Action:    a.show,
		},
		{
			Name:      "submit",
			Usage:     "submit the next round from a JSON file",
			ArgsUsage: "<tournament id> <round.json>",
			Action:    a.submit,
		},
		{
			Name:      "edit-round",
			Usage:     "replace a submitted round from a JSON file",
			ArgsUsage: "<tournament id> <round.json>",
			Action:    a.editRound,
		},
		{
			Name:      "standings",
			Usage:     "print the final standings",
			ArgsUsage: "<tournament id>",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:  "xlsx",
					Usage: "also write the standings to a spreadsheet",
				},
			},
			Action: a.standings,
		},
		{
			Name:  "list",
			Usage: "list tournaments, newest first",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "all",
					Aliases: []string{"a"},
					Usage:   "include archived tournaments",
				},
			},
			Action: a.list,
		},
		{
			Name:      "archive",
			Usage:     "archive a tournament",
			ArgsUsage: "<tournament id>",
			Action:    a.archive,
		},
		{
			Name:      "restore",
			Usage:     "bring an archived tournament back",
			ArgsUsage: "<tournament id>",
			Action:    a.restore,
		},
		{
			Name:      "delete",
			Usage:     "delete a tournament",
			ArgsUsage: "<tournament id>",
			Action:    a.deleteTournament,
		},
		{
			Name:  "export",
			Usage: "write every tournament to a JSON snapshot",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Usage:   "output file, stdout when empty",
				},
			},
			Action: a.exportSnapshot,
		},
		{
			Name:      "import",
			Usage:     "replace every tournament with a JSON snapshot",
			ArgsUsage: "<snapshot.json>",
			Action:    a.importSnapshot,
		},
		{
			Name:  "backups",
			Usage: "automatic backups",
			Subcommands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "list backups, newest first",
					Action: a.listBackups,
				},
				{
					Name:      "restore",
					Usage:     "replace every tournament with a backup",
					ArgsUsage: "<backup id>",
					Action:    a.restoreBackup,
				},
			},
		},
		{
			Name:      "simulate",
			Usage:     "play a tournament with random players and results",
			ArgsUsage: "[name]",
			Flags: []cli.Flag{
				&cli.Int64Flag{
					Name:  "seed",
					Usage: "random seed, config value or current time when zero",
				},
			},
			Action: a.simulate,
		},
		{
			Name:   "career",
			Usage:  "print the leaderboard across completed live tournaments",
			Action: a.career,
		},
	}
}

func tournamentID(c *cli.Context) (uuid.UUID, error) {
	if c.NArg() < 1 {
		return uuid.Nil, errors.New("tournament id is required")
	}
	id, err := uuid.Parse(c.Args().First())
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid tournament id: %w", err)
	}
	return id, nil
}

func (a *app) create(c *cli.Context) error {
	name := strings.Join(c.Args().Slice(), " ")
	t, err := a.service.Create(c.Context, name, domain.Kind(c.String("kind")))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, t.ID)
	return nil
}

func (a *app) inscribe(c *cli.Context) error {
	id, err := tournamentID(c)
	if err != nil {
		return err
	}
	names := c.Args().Tail()
	if path := c.Path("file"); path != "" {
		fromFile, err := readNames(path)
		if err != nil {
			return err
		}
		names = append(names, fromFile...)
	}
	t, err := a.service.Inscribe(c.Context, id, names)
	if err != nil {
		return err
	}
	return printTournament(c.App.Writer, t)
}

func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			names = append(names, line)
		}
	}
	return names, sc.Err()
}

func (a *app) show(c *cli.Context) error {
	id, err := tournamentID(c)
	if err != nil {
		return err
	}
	t, err := a.service.Get(c.Context, id)
	if err != nil {
		return err
	}
	return printTournament(c.App.Writer, t)
}

func readRound(c *cli.Context) (domain.Round, error) {
	if c.NArg() < 2 {
		return domain.Round{}, errors.New("round file is required")
	}
	data, err := os.ReadFile(c.Args().Get(1))
	if err != nil {
		return domain.Round{}, err
	}
	var round domain.Round
	if err := json.Unmarshal(data, &round); err != nil {
		return domain.Round{}, fmt.Errorf("decode round: %w", err)
	}
	return round, nil
}

func (a *app) submit(c *cli.Context) error {
	id, err := tournamentID(c)
	if err != nil {
		return err
	}
	round, err := readRound(c)
	if err != nil {
		return err
	}
	t, err := a.service.SubmitRound(c.Context, id, round)
	if err != nil {
		return err
	}
	return printTournament(c.App.Writer, t)
}

func (a *app) editRound(c *cli.Context) error {
	id, err := tournamentID(c)
	if err != nil {
		return err
	}
	round, err := readRound(c)
	if err != nil {
		return err
	}
	t, err := a.service.EditRound(c.Context, id, round)
	if err != nil {
		return err
	}
	return printTournament(c.App.Writer, t)
}

func (a *app) standings(c *cli.Context) error {
	id, err := tournamentID(c)
	if err != nil {
		return err
	}
	s, err := a.service.Standings(c.Context, id)
	if err != nil {
		return err
	}
	if path := c.Path("xlsx"); path != "" {
		data, err := export.StandingsXLSX(s.Tournament, s.Rankings)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
	}
	return printStandings(c.App.Writer, s)
}

func (a *app) list(c *cli.Context) error {
	tournaments, err := a.service.List(c.Context, c.Bool("all"))
	if err != nil {
		return err
	}
	return printTournaments(c.App.Writer, tournaments)
}

func (a *app) archive(c *cli.Context) error {
	id, err := tournamentID(c)
	if err != nil {
		return err
	}
	_, err = a.service.Archive(c.Context, id)
	return err
}

func (a *app) restore(c *cli.Context) error {
	id, err := tournamentID(c)
	if err != nil {
		return err
	}
	_, err = a.service.Restore(c.Context, id)
	return err
}

func (a *app) deleteTournament(c *cli.Context) error {
	id, err := tournamentID(c)
	if err != nil {
		return err
	}
	return a.service.Delete(c.Context, id)
}

func (a *app) exportSnapshot(c *cli.Context) error {
	data, err := a.service.Export(c.Context)
	if err != nil {
		return err
	}
	if path := c.Path("out"); path != "" {
		return os.WriteFile(path, data, 0o644)
	}
	_, err = c.App.Writer.Write(append(data, '\n'))
	return err
}

func (a *app) importSnapshot(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("snapshot file is required")
	}
	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}
	return a.service.Import(c.Context, data)
}

func (a *app) listBackups(c *cli.Context) error {
	backups, err := a.service.Backups(c.Context)
	if err != nil {
		return err
	}
	return printBackups(c.App.Writer, backups)
}

func (a *app) restoreBackup(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("backup id is required")
	}
	id, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid backup id: %w", err)
	}
	return a.service.RestoreBackup(c.Context, id)
}

func (a *app) simulate(c *cli.Context) error {
	seed := c.Int64("seed")
	if seed == 0 {
		seed = a.cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	name := strings.Join(c.Args().Slice(), " ")
	if name == "" {
		name = "Simulation " + time.Now().Format(time.DateOnly)
	}
	t, err := a.service.Simulate(c.Context, name, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	a.log.WithField("seed", seed).Debug("simulation seed")
	s, err := a.service.Standings(c.Context, t.ID)
	if err != nil {
		return err
	}
	return printStandings(c.App.Writer, s)
}

func (a *app) career(c *cli.Context) error {
	entries, err := a.service.Career(c.Context)
	if err != nil {
		return err
	}
	return printCareer(c.App.Writer, entries)
}

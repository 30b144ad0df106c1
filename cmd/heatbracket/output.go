package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goserg/heatbracket/internal/career"
	"github.com/goserg/heatbracket/internal/domain"
	"github.com/goserg/heatbracket/internal/scoring"
	"github.com/goserg/heatbracket/internal/service"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func status(t domain.Tournament) string {
	var parts []string
	switch {
	case t.Completed:
		parts = append(parts, "completed")
	case len(t.Players) == 0:
		parts = append(parts, "awaiting players")
	default:
		parts = append(parts, fmt.Sprintf("round %d next", t.NextRound()))
	}
	if t.Archived {
		parts = append(parts, "archived")
	}
	return strings.Join(parts, ", ")
}

func printTournaments(w io.Writer, tournaments []domain.Tournament) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tKIND\tDATE\tSTATUS")
	for _, t := range tournaments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Kind, t.CreatedAt.Local().Format(time.DateOnly), status(t))
	}
	return tw.Flush()
}

func printTournament(w io.Writer, t domain.Tournament) error {
	fmt.Fprintf(w, "%s (%s, %s)\n\n", t.Name, t.Kind, status(t))
	tw := newTable(w)
	fmt.Fprint(tw, "PLAYER ID\tNAME\tMASTERY")
	for _, r := range t.Rounds {
		fmt.Fprintf(tw, "\tROUND %d", r.Number)
	}
	fmt.Fprintln(tw)
	for _, p := range t.Players {
		fmt.Fprintf(tw, "%s\t%s\t%.2f", p.ID, p.Name, p.Mastery)
		for _, r := range t.Rounds {
			res, _ := r.ResultFor(p.ID)
			fmt.Fprintf(tw, "\t%s %s", scoring.FormatPosition(res.Position), scoring.FormatBonus(r.DifficultyBonus[p.ID]))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func printStandings(w io.Writer, s service.Standings) error {
	fmt.Fprintf(w, "%s\n\n", s.Tournament.Name)
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tPLAYER\tROUND 1\tROUND 2\tPOINTS\tBONUS\tSCORE")
	for i, r := range s.Rankings {
		p, _ := s.Tournament.Player(r.PlayerID)
		fmt.Fprintf(tw, "%d\t%s\t%s (%d)\t%s (%d)\t%d\t%s\t%.2f\n",
			i+1, p.Name,
			scoring.FormatPosition(r.Round1.Position), r.Round1.Points,
			scoring.FormatPosition(r.Round2.Position), r.Round2.Points,
			r.TotalPoints, scoring.FormatBonus(r.DifficultyBonus), r.CombinedScore(),
		)
	}
	return tw.Flush()
}

func printBackups(w io.Writer, backups []domain.Backup) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCREATED\tSIZE")
	for _, b := range backups {
		fmt.Fprintf(tw, "%d\t%s\t%d B\n", b.ID, b.CreatedAt.Local().Format(time.DateTime), len(b.Data))
	}
	return tw.Flush()
}

func printCareer(w io.Writer, entries []career.Entry) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tPLAYER\tPLAYED\tWINS\tPOINTS\tMASTERY\tELO\tGLICKO-2")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%.2f\t%d\t%.0f ± %.0f\n",
			i+1, e.Name, e.Tournaments, e.Wins, e.Points, e.Mastery, e.EloRating,
			e.Glicko2.Rating, 2*e.Glicko2.Deviation,
		)
	}
	return tw.Flush()
}

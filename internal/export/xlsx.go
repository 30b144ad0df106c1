package export

import (
	"github.com/goserg/heatbracket/internal/domain"
	"github.com/goserg/heatbracket/internal/scoring"

	"github.com/xuri/excelize/v2"
)

const standingsSheet = "Standings"

var standingsHeader = []interface{}{
	"Rank", "Player", "Round 1", "Points 1", "Round 2", "Points 2", "Total", "Bonus", "Final",
}

// StandingsXLSX renders the final standings of t as a spreadsheet.
func StandingsXLSX(t domain.Tournament, rankings []scoring.Ranking) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", standingsSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(standingsSheet, "A1", &standingsHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(standingsSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	for i, r := range rankings {
		name := r.PlayerID.String()
		if p, ok := t.Player(r.PlayerID); ok {
			name = p.Name
		}
		row := []interface{}{
			i + 1,
			name,
			scoring.FormatPosition(r.Round1.Position),
			r.Round1.Points,
			scoring.FormatPosition(r.Round2.Position),
			r.Round2.Points,
			r.TotalPoints,
			scoring.RoundBonus(r.DifficultyBonus),
			scoring.RoundBonus(r.CombinedScore()),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(standingsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

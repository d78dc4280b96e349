package excel

import (
	"fmt"
	"strconv"
	"time"

	"github.com/derekprior/tourney/internal/config"
	"github.com/derekprior/tourney/internal/schedule"
	"github.com/derekprior/tourney/internal/store"
	"github.com/xuri/excelize/v2"
)

const (
	roundsSheet    = "Rounds"
	standingsSheet = "Standings"
	dateLayout     = "01/02/2006"
)

var roundsHeaders = []string{"Round", "Date", "Day", "Home", "Away", "Result"}

// Generate creates an Excel workbook with every round, the standings, and
// per-team sheets.
func Generate(cfg *config.Config, state *store.State, assignments []schedule.Assignment) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	f.SetDefaultFont("Arial")

	if err := writeRoundsSheet(f, assignments, schedule.Blackouts(cfg)); err != nil {
		return nil, fmt.Errorf("writing rounds sheet: %w", err)
	}

	if err := writeStandingsSheet(f, state); err != nil {
		return nil, fmt.Errorf("writing standings sheet: %w", err)
	}

	if err := writeTeamSheets(f, state, assignments); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

type styles struct {
	header int
	cell   int
	center int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return s, err
	}
	s.cell, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	if err != nil {
		return s, err
	}
	s.center, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 16, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return s, err
}

func writeHeader(f *excelize.File, sheet string, headers []string, st styles) error {
	for i, h := range headers {
		if err := f.SetCellValue(sheet, cellRef(i+1, 1), h); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), st.header)
}

func writeRow(f *excelize.File, sheet string, row int, values []any, style int) error {
	for i, v := range values {
		if err := f.SetCellValue(sheet, cellRef(i+1, row), v); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(values), row), style)
}

func formatDate(d time.Time) (date, day string) {
	if d.IsZero() {
		return "", ""
	}
	return d.Format(dateLayout), d.Format("Mon")
}

// resultLabel names the winner, "Draw", or nothing for an unplayed match.
func resultLabel(m store.Match) string {
	switch m.Result {
	case store.ResultHome:
		return m.Home
	case store.ResultAway:
		return m.Away
	case store.ResultDraw:
		return store.DrawLabel
	}
	return ""
}

func writeRoundsSheet(f *excelize.File, assignments []schedule.Assignment, blackouts []schedule.Blackout) error {
	sheet := roundsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := writeHeader(f, sheet, roundsHeaders, st); err != nil {
		return err
	}

	for i, a := range assignments {
		row := i + 2
		date, day := formatDate(a.Date)
		values := []any{a.Match.Round + 1, date, day, a.Match.Home, a.Match.Away, resultLabel(a.Match)}
		if err := writeRow(f, sheet, row, values, st.center); err != nil {
			return err
		}
	}

	// Blackouts are listed after the matches with the reason in the Home column.
	for i, b := range blackouts {
		row := len(assignments) + i + 3
		date, day := formatDate(b.Date)
		if err := writeRow(f, sheet, row, []any{"", date, day, b.Reason}, st.cell); err != nil {
			return err
		}
	}

	// Set column widths (sized for Arial 16)
	widths := map[string]float64{"A": 10, "B": 18, "C": 8, "D": 28, "E": 28, "F": 28}
	for col, w := range widths {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	// Conditional formatting: matches waiting for a result get light red
	if len(assignments) == 0 {
		return nil
	}
	redFill, err := f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
	})
	if err != nil {
		return err
	}
	lastRow := len(assignments) + 1
	return f.SetConditionalFormat(sheet, fmt.Sprintf("F2:F%d", lastRow), []excelize.ConditionalFormatOptions{
		{
			Type:     "formula",
			Criteria: `AND($D2<>"",$F2="")`,
			Format:   &redFill,
		},
	})
}

func writeStandingsSheet(f *excelize.File, state *store.State) error {
	sheet := standingsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st, err := newStyles(f)
	if err != nil {
		return err
	}

	headers := []string{"Rank", "Team", "Played", "Won", "Drawn", "Lost", "Points"}
	if err := writeHeader(f, sheet, headers, st); err != nil {
		return err
	}

	for i, s := range state.Standings() {
		values := []any{i + 1, s.Team, s.Played, s.Won, s.Drawn, s.Lost, s.Points}
		if err := writeRow(f, sheet, i+2, values, st.center); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 8); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "G", 12)
}

func writeTeamSheets(f *excelize.File, state *store.State, assignments []schedule.Assignment) error {
	st, err := newStyles(f)
	if err != nil {
		return err
	}

	for _, team := range state.SeededTeams() {
		sheet := team
		if idx, _ := f.GetSheetIndex(sheet); idx >= 0 {
			return fmt.Errorf("team %q clashes with the %q sheet", team, sheet)
		}
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("sheet for %q: %w", team, err)
		}

		headers := []string{"Round", "Date", "Day", "Opponent", "Home/Away", "Result"}
		if err := writeHeader(f, sheet, headers, st); err != nil {
			return err
		}

		row := 2
		for _, a := range assignments {
			m := a.Match
			opponent, homeAway := m.Away, "Home"
			switch team {
			case m.Home:
			case m.Away:
				opponent, homeAway = m.Home, "Away"
			default:
				continue
			}

			date, day := formatDate(a.Date)
			values := []any{m.Round + 1, date, day, opponent, homeAway, teamResult(m, team)}
			if err := writeRow(f, sheet, row, values, st.cell); err != nil {
				return err
			}
			row++
		}

		// Set column widths (sized for Arial 16)
		widths := map[string]float64{"A": 10, "B": 18, "C": 8, "D": 28, "E": 14, "F": 10}
		for col, w := range widths {
			if err := f.SetColWidth(sheet, col, col, w); err != nil {
				return err
			}
		}
	}

	return nil
}

func teamResult(m store.Match, team string) string {
	switch m.Result {
	case store.ResultNone:
		return ""
	case store.ResultDraw:
		return "D"
	}
	if resultLabel(m) == team {
		return "W"
	}
	return "L"
}

// RoundRow is a match read back from the Rounds sheet. Row is the 1-based
// spreadsheet row.
type RoundRow struct {
	Row   int
	Match store.Match
}

// ReadRounds parses the Rounds sheet of a workbook written by Generate.
// Blackout rows are skipped.
func ReadRounds(f *excelize.File) ([]RoundRow, error) {
	rows, err := f.GetRows(roundsSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", roundsSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", roundsSheet)
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[h] = i
	}
	for _, h := range []string{"Round", "Home", "Away"} {
		if _, ok := cols[h]; !ok {
			return nil, fmt.Errorf("%s: missing %q column", roundsSheet, h)
		}
	}
	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var out []RoundRow
	for i, row := range rows[1:] {
		rowNum := i + 2
		roundCell := cell(row, "Round")
		if roundCell == "" {
			continue // blank separator or blackout
		}
		round, err := strconv.Atoi(roundCell)
		if err != nil || round < 1 {
			return nil, fmt.Errorf("row %d: invalid round %q", rowNum, roundCell)
		}

		m := store.Match{Round: round - 1, Home: cell(row, "Home"), Away: cell(row, "Away")}
		if m.Home == "" || m.Away == "" {
			return nil, fmt.Errorf("row %d: match needs both teams", rowNum)
		}
		switch res := cell(row, "Result"); res {
		case "":
		case m.Home:
			m.Result = store.ResultHome
		case m.Away:
			m.Result = store.ResultAway
		case store.DrawLabel:
			m.Result = store.ResultDraw
		default:
			return nil, fmt.Errorf("row %d: result %q is neither team nor %q", rowNum, res, store.DrawLabel)
		}
		out = append(out, RoundRow{Row: rowNum, Match: m})
	}
	return out, nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

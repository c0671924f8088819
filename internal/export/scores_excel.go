// Package export renders the weekly conduct-score workbook handed out to
// teachers: one row per student with the derived score and this week's
// add/deduct totals.
package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

type ScoreRow struct {
	StudentID    string
	Name         string
	Class        string
	CurrentScore int
	WeekAdded    int
	WeekDeducted int
}

var scoreHeader = []string{"Student ID", "Name", "Class", "Current Score", "Added This Week", "Deducted This Week"}

// BuildScoresWorkbook lays the rows out on a single sheet with a bold
// filtered header, the same shape the original export produced.
func BuildScoresWorkbook(week int, rows []ScoreRow) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := fmt.Sprintf("Week %d", week)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	for c, h := range scoreHeader {
		cell := colName(c+1) + "1"
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	end := colName(len(scoreHeader)) + "1"
	_ = f.SetCellStyle(sheet, "A1", end, bold)
	_ = f.AutoFilter(sheet, "A1:"+end, nil)

	for r, row := range rows {
		values := []string{
			row.StudentID, row.Name, row.Class,
			strconv.Itoa(row.CurrentScore), strconv.Itoa(row.WeekAdded), strconv.Itoa(row.WeekDeducted),
		}
		for c, val := range values {
			cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
			if err := f.SetCellStr(sheet, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// Width heuristic: header length vs the first rows of data.
	for c := 1; c <= len(scoreHeader); c++ {
		maxim := len(scoreHeader[c-1])
		for r := 0; r < minim(50, len(rows)); r++ {
			if c == 2 {
				if l := len(rows[r].Name); l > maxim {
					maxim = l
				}
			}
		}
		w := float64(maxim) * 0.9
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		_ = f.SetColWidth(sheet, colName(c), colName(c), w)
	}
	return f, nil
}

func ScoresFilename(week int) string {
	return fmt.Sprintf("conduct_scores_week_%d.xlsx", week)
}

// colName maps 1 -> A, 27 -> AA.
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

func minim(a, b int) int {
	if a < b {
		return a
	}
	return b
}

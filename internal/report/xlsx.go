package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"hcroi/internal/features"
	"hcroi/internal/learn"
)

const (
	sheetDerived     = "Derived"
	sheetLeaderboard = "Leaderboard"
	sheetImportance  = "Importance"
	sheetScenarios   = "Scenarios"
)

// Workbook renders the derived table, model leaderboard, feature importance
// and scenario means as an Excel workbook.
func Workbook(in Input) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetDerived); err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}

	cols := in.Frame.Columns()
	header := []string{features.ColStateCode, features.ColStateName}
	for _, c := range cols {
		header = append(header, c.Name)
	}
	rows := make([][]any, in.Frame.Len())
	for i := range rows {
		rec := in.Frame.Row(i).Record
		row := []any{rec.Code, rec.Name}
		for _, c := range cols {
			v, err := in.Frame.Value(i, c.Name)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		rows[i] = row
	}
	if err := writeSheet(f, sheetDerived, header, rows); err != nil {
		return nil, err
	}

	var board, weights [][]any
	names := features.FeatureNames()
	for _, s := range in.Selections {
		for i, sc := range s.Scores {
			board = append(board, []any{s.Target, sc.Model, sc.MeanR2, sc.StdR2, sc.MSE, sc.MAE, i == s.Best})
		}
		for rank, w := range learn.Rank(names, s.Importance) {
			weights = append(weights, []any{s.Target, rank + 1, w.Feature, w.Importance})
		}
	}
	if err := newSheet(f, sheetLeaderboard, []string{"target", "model", "mean_r2", "std_r2", "mse", "mae", "selected"}, board); err != nil {
		return nil, err
	}
	if err := newSheet(f, sheetImportance, []string{"target", "rank", "feature", "importance"}, weights); err != nil {
		return nil, err
	}

	scenHeader := []string{"scenario", "states"}
	for _, s := range in.Selections {
		scenHeader = append(scenHeader, s.Target)
	}
	var scen [][]any
	for _, sum := range in.Summaries {
		row := []any{sum.Scenario, sum.States}
		for _, s := range in.Selections {
			row = append(row, sum.Means[s.Target])
		}
		scen = append(scen, row)
	}
	if err := newSheet(f, sheetScenarios, scenHeader, scen); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("workbook sheet %s: %w", sheet, err)
	}
	return writeSheet(f, sheet, header, rows)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	for j, h := range header {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("workbook sheet %s: %w", sheet, err)
		}
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("workbook sheet %s: %w", sheet, err)
			}
		}
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 18)
}

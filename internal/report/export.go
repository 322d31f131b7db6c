package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"churnkit/app"
)

var curveHeaders = []string{
	"period", "churn_probability", "survival", "retention_rate", "observed_retention",
}

func curveRows(report *app.CohortReport) [][]interface{} {
	rows := make([][]interface{}, 0, len(report.Curve))
	for _, point := range report.Curve {
		row := []interface{}{
			point.Period,
			point.ChurnProbability,
			point.Survival,
			point.RetentionRate,
			nil,
		}
		if point.ObservedRetention != nil {
			row[4] = *point.ObservedRetention
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteXLSX exports the projected curves as a single-sheet workbook.
func WriteXLSX(path string, report *app.CohortReport) error {
	f := excelize.NewFile()

	sheet := "Curves"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	// Header row
	for i, h := range curveHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	// Data rows
	for r, row := range curveRows(report) {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

// WriteCSV exports the projected curves as CSV with the same columns as the
// workbook export.
func WriteCSV(path string, report *app.CohortReport) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(curveHeaders); err != nil {
		return err
	}
	for _, point := range report.Curve {
		observed := ""
		if point.ObservedRetention != nil {
			observed = strconv.FormatFloat(*point.ObservedRetention, 'f', 6, 64)
		}
		record := []string{
			strconv.Itoa(point.Period),
			strconv.FormatFloat(point.ChurnProbability, 'f', 6, 64),
			strconv.FormatFloat(point.Survival, 'f', 6, 64),
			strconv.FormatFloat(point.RetentionRate, 'f', 6, 64),
			observed,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}

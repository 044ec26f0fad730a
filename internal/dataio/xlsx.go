package dataio

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteFitReportXLSX writes a workbook with a Summary sheet of fit
// parameters and a Data sheet listing the samples next to the fitted
// model and its residual. model may be nil to skip those columns.
func WriteFitReportXLSX(path string, rep FitReport, s Series, model []float64) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if model != nil && len(model) != len(s.X) {
		return fmt.Errorf("dataio: %d model values for %d samples", len(model), len(s.X))
	}

	f := excelize.NewFile()

	type kv struct {
		name  string
		value any
	}
	var rows []kv
	if rep.Input != "" {
		rows = append(rows, kv{"Input", rep.Input})
	}
	rows = append(rows,
		kv{"Samples", rep.Samples},
		kv{"Threshold", rep.Threshold},
		kv{"CurveFit", rep.CurveFit},
		kv{"XOffset", rep.XOffset},
		kv{"LeverArm", rep.LeverArm},
		kv{"Coupling [ueV]", rep.Coupling},
		kv{"InitialScore", rep.InitialScore},
		kv{"Score", rep.Score},
		kv{"Iterations", rep.Iterations},
		kv{"FuncEvals", rep.FuncEvals},
		kv{"Converged", rep.Converged},
	)

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)
	f.SetCellValue(summary, "A1", "Name")
	f.SetCellValue(summary, "B1", "Value")
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetCellValue(summary, cell, row.name)
		cell, _ = excelize.CoordinatesToCellName(2, i+2)
		f.SetCellValue(summary, cell, row.value)
	}

	data := "Data"
	f.NewSheet(data)

	headers := []string{"No", "x", "y"}
	if s.Weights != nil {
		headers = append(headers, "weight")
	}
	if model != nil {
		headers = append(headers, "model", "residual")
	}
	for j, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		f.SetCellValue(data, cell, h)
	}

	for i := range s.X {
		values := []any{i + 1, s.X[i], s.Y[i]}
		if s.Weights != nil {
			values = append(values, s.Weights[i])
		}
		if model != nil {
			values = append(values, model[i], s.Y[i]-model[i])
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(data, cell, v)
		}
	}

	return f.SaveAs(path)
}

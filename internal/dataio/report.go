package dataio

import (
	"encoding/json"
	"os"
)

// FitReport is the serializable outcome of a barrier fit.
type FitReport struct {
	Input        string  `json:"input,omitempty"`
	Samples      int     `json:"samples"`
	Threshold    float64 `json:"threshold"`
	CurveFit     bool    `json:"curve_fit"`
	XOffset      float64 `json:"x_offset"`
	LeverArm     float64 `json:"lever_arm"`
	Coupling     float64 `json:"coupling_uev"`
	InitialScore float64 `json:"initial_score"`
	Score        float64 `json:"score"`
	Iterations   int     `json:"iterations"`
	FuncEvals    int     `json:"func_evals"`
	Converged    bool    `json:"converged"`
}

// WriteFitReportJSON writes the report as indented JSON.
func WriteFitReportJSON(path string, rep FitReport) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

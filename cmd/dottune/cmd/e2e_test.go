package cmd

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenDotLab/dottune/internal/dataio"
	"github.com/OpenDotLab/dottune/pkg/pat"
)

// runCommand executes the root command with args and returns the captured
// stdout. The environment is pointed at an empty HOME so a developer's
// config file cannot leak into the test.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("DOTTUNE_CONFIG", "")

	resetFlags()

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Read in background to prevent pipe buffer from blocking on Windows
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	// Restore stdout and wait for reader
	w.Close()
	os.Stdout = old
	<-done

	return buf.String(), err
}

// resetFlags restores every package-level flag variable to its default so
// values cannot accumulate between tests.
func resetFlags() {
	verbosity = 0
	configPath = ""

	fitXOffset = 0
	fitLeverArm = 40
	fitCoupling = 10
	fitThreshold = 0
	fitCost = ""
	fitCurveFit = false
	fitOutJSON = ""
	fitOutXLSX = ""

	synthKind = "pat"
	synthOut = ""
	synthSamples = 0
	synthSeed = 1
	synthXOffset = 0
	synthLeverArm = 40
	synthCoupling = 20
	synthXMin = -3
	synthXMax = 3
	synthNoise = 0
	synthRateUp = 10e3
	synthRateDown = 15e3
	synthSampleRate = 1e6

	rtsSampleRate = 0
	rtsMinSep = 2
	rtsMaxSep = 7
	rtsMinDuration = 5
	rtsNumBins = 0

	pulseFile = ""
	pulseVars = nil
	pulseRate = 1e9
	pulseOut = ""

	awgBackendType = ""
	awgVID = 0
	awgPID = 0
	awgChannels = nil
	awgChannel = 1
	awgOn = false
	awgOff = false
	awgUpFile = ""
	awgUpVars = nil
	awgUpRate = 1e9
}

// TestSynthFitE2E generates a clean synthetic scan, fits it back and checks
// the recovered parameters through the JSON report.
func TestSynthFitE2E(t *testing.T) {
	dir := t.TempDir()
	scan := filepath.Join(dir, "scan.csv")
	report := filepath.Join(dir, "fit.json")

	out, err := runCommand(t, "synth", "--x0", "0.5", "--coupling", "20", "--samples", "120", "--out", scan)
	if err != nil {
		t.Fatalf("synth failed: %v\nOutput: %s", err, out)
	}
	if !strings.Contains(out, "Wrote 120 barrier-scan samples") {
		t.Errorf("synth output missing sample count: %q", out)
	}

	out, err = runCommand(t, "fit", scan, "--x0", "1", "--leverarm", "38", "--coupling", "30", "--out", report)
	if err != nil {
		t.Fatalf("fit failed: %v\nOutput: %s", err, out)
	}
	for _, want := range []string{"Barrier fit", "lever arm", "coupling", "score:", "converged"} {
		if !strings.Contains(out, want) {
			t.Errorf("fit output missing %q\nGot:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var rep dataio.FitReport
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("report not valid JSON: %v", err)
	}
	if math.Abs(rep.Coupling-20) > 0.1 {
		t.Errorf("recovered coupling = %v, want 20", rep.Coupling)
	}
	if math.Abs(rep.LeverArm-40) > 0.2 {
		t.Errorf("recovered lever arm = %v, want 40", rep.LeverArm)
	}
	if math.Abs(rep.XOffset-0.5) > 0.05 {
		t.Errorf("recovered x offset = %v, want 0.5", rep.XOffset)
	}
	if rep.Threshold != pat.DefaultThreshold {
		t.Errorf("report threshold = %v, want the default %v", rep.Threshold, pat.DefaultThreshold)
	}
}

// TestFitXLSXReport checks the XLSX export path produces a file.
func TestFitXLSXReport(t *testing.T) {
	dir := t.TempDir()
	scan := filepath.Join(dir, "scan.csv")
	workbook := filepath.Join(dir, "report.xlsx")

	if out, err := runCommand(t, "synth", "--coupling", "15", "--out", scan); err != nil {
		t.Fatalf("synth failed: %v\nOutput: %s", err, out)
	}
	out, err := runCommand(t, "fit", scan, "--coupling", "20", "--xlsx", workbook)
	if err != nil {
		t.Fatalf("fit failed: %v\nOutput: %s", err, out)
	}
	info, err := os.Stat(workbook)
	if err != nil {
		t.Fatalf("workbook not written: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("workbook is empty")
	}
}

// TestRTSE2E generates a telegraph trace and analyzes it, inferring the
// sample rate from the time column.
func TestRTSE2E(t *testing.T) {
	dir := t.TempDir()
	trace := filepath.Join(dir, "trace.csv")

	out, err := runCommand(t, "synth", "--kind", "rts", "--out", trace)
	if err != nil {
		t.Fatalf("synth failed: %v\nOutput: %s", err, out)
	}
	if !strings.Contains(out, "telegraph samples") {
		t.Errorf("synth output missing kind: %q", out)
	}

	out, err = runCommand(t, "rts", trace, "-v")
	if err != nil {
		t.Fatalf("rts failed: %v\nOutput: %s", err, out)
	}
	for _, want := range []string{
		"Inferred sample rate 1e+06",
		"Telegraph analysis",
		"down dwell:",
		"up dwell:",
		"tunnel rates:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rts output missing %q\nGot:\n%s", want, out)
		}
	}
}

// TestPulseE2E renders built-in templates and a pulse-table file.
func TestPulseE2E(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name: "square to csv",
			args: []string{"pulse", "square",
				"--var", "period=1e-6", "--var", "amplitude=0.5",
				"--out", filepath.Join(dir, "square.csv")},
			wantContain: []string{"Rendered template \"square\"", "1000 samples", "Wrote samples"},
		},
		{
			name: "sawtooth summary",
			args: []string{"pulse", "sawtooth", "-v",
				"--var", "period=1e-6", "--var", "amplitude=0.5", "--var", "width=0.95"},
			wantContain: []string{"Rendered template \"sawtooth\"", "value range"},
		},
		{
			name:    "unknown template",
			args:    []string{"pulse", "triangle"},
			wantErr: true,
		},
		{
			name:    "missing variable",
			args:    []string{"pulse", "square", "--var", "period=1e-6"},
			wantErr: true,
		},
		{
			name:    "bad variable binding",
			args:    []string{"pulse", "square", "--var", "period"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, out)
				return
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(out, want) {
					t.Errorf("Output missing %q\nGot:\n%s", want, out)
				}
			}
		})
	}
}

// TestPulseFileE2E renders a user-defined pulse table.
func TestPulseFileE2E(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "steps.pulse")
	src := `pulse steps {
    0 -> 0
    period/2 -> level
    period -> 0 linear
}
`
	if err := os.WriteFile(table, []byte(src), 0644); err != nil {
		t.Fatalf("write pulse table: %v", err)
	}

	out, err := runCommand(t, "pulse", "--file", table,
		"--var", "period=1e-6", "--var", "level=0.25",
		"--rate", "1e8")
	if err != nil {
		t.Fatalf("pulse failed: %v\nOutput: %s", err, out)
	}
	if !strings.Contains(out, "Rendered template \"steps\"") {
		t.Errorf("output missing template name: %q", out)
	}
	if !strings.Contains(out, "100 samples") {
		t.Errorf("output missing sample count: %q", out)
	}
}

// TestAWGE2E exercises the generator commands against the simulator backend.
func TestAWGE2E(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name: "info",
			args: []string{"awg", "info", "--backend", "sim"},
			wantContain: []string{
				"Generator Information:",
				"Simulated AWG",
				"Keysight",
				"M3202A",
				"Channels: [1 2 3 4]",
				"Sampling: 1e+09 Hz",
			},
		},
		{
			name: "upload",
			args: []string{"awg", "upload", "square", "--backend", "sim", "--channel", "2",
				"--var", "period=1e-6", "--var", "amplitude=0.5"},
			wantContain: []string{"Uploaded template \"square\" to channel 2"},
		},
		{
			name:        "enable all outputs",
			args:        []string{"awg", "output", "--on", "--backend", "sim"},
			wantContain: []string{"All outputs enabled"},
		},
		{
			name:        "disable one output",
			args:        []string{"awg", "output", "--off", "--channel", "3", "--backend", "sim"},
			wantContain: []string{"Outputs [3] disabled"},
		},
		{
			name:        "set rate",
			args:        []string{"awg", "rate", "1.1e9", "--backend", "sim"},
			wantContain: []string{"Sampling rate set to 1.1e+09 Hz"},
		},
		{
			name:        "query gain",
			args:        []string{"awg", "gain", "--channel", "1", "--backend", "sim"},
			wantContain: []string{"Channel 1 gain: 1"},
		},
		{
			name:        "set gain",
			args:        []string{"awg", "gain", "0.5", "--channel", "1", "--backend", "sim"},
			wantContain: []string{"Channel 1 gain set to 0.5"},
		},
		{
			name:        "delete",
			args:        []string{"awg", "delete", "--backend", "sim"},
			wantContain: []string{"Deleted all waveforms"},
		},
		{
			name:        "run",
			args:        []string{"awg", "run", "--backend", "sim"},
			wantContain: []string{"Generator running"},
		},
		{
			name:        "stop",
			args:        []string{"awg", "stop", "--backend", "sim"},
			wantContain: []string{"Generator stopped"},
		},
		{
			name:    "output needs a direction",
			args:    []string{"awg", "output", "--backend", "sim"},
			wantErr: true,
		},
		{
			name:    "rate outside bounds",
			args:    []string{"awg", "rate", "9e9", "--backend", "sim"},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			args:    []string{"awg", "info", "--backend", "gpib"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, out)
				return
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(out, want) {
					t.Errorf("Output missing %q\nGot:\n%s", want, out)
				}
			}
		})
	}
}

// TestConfigDefaultsE2E checks that a config file supplies flag defaults
// and that explicit flags still win.
func TestConfigDefaultsE2E(t *testing.T) {
	dir := t.TempDir()
	scan := filepath.Join(dir, "scan.csv")
	if out, err := runCommand(t, "synth", "--out", scan); err != nil {
		t.Fatalf("synth failed: %v\nOutput: %s", err, out)
	}

	// A config file naming a nonexistent cost makes the fit fail, proving
	// the value was read from the file.
	cfgPath := filepath.Join(dir, "dottune.yaml")
	if err := os.WriteFile(cfgPath, []byte("fit:\n  cost: nonsense\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := runCommand(t, "fit", scan, "--config", cfgPath)
	if err == nil || !strings.Contains(err.Error(), "nonsense") {
		t.Fatalf("err = %v, want the configured cost name rejected", err)
	}

	// An explicit flag overrides the configured cost.
	out, err := runCommand(t, "fit", scan, "--config", cfgPath, "--cost", "huber")
	if err != nil {
		t.Fatalf("fit failed: %v\nOutput: %s", err, out)
	}
	if !strings.Contains(out, "Barrier fit") {
		t.Errorf("output missing fit summary: %q", out)
	}
}

// TestFitErrorsE2E checks error paths surface as command errors.
func TestFitErrorsE2E(t *testing.T) {
	if _, err := runCommand(t, "fit", "/nonexistent/scan.csv"); err == nil {
		t.Errorf("expected error for a missing input file")
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(bad, []byte("x,y\n1,2,3,4\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := runCommand(t, "fit", bad); err == nil {
		t.Errorf("expected error for a malformed series")
	}

	scan := filepath.Join(dir, "scan.csv")
	if out, err := runCommand(t, "synth", "--out", scan); err != nil {
		t.Fatalf("synth failed: %v\nOutput: %s", err, out)
	}
	if _, err := runCommand(t, "fit", scan, "--cost", "tukey"); err == nil {
		t.Errorf("expected error for an unknown cost name")
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/OpenDotLab/dottune/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbosity  int
	configPath string

	// cfg holds the loaded configuration file defaults. Flags that the
	// user leaves unset fall back to these values.
	cfg = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "dottune",
	Short: "Quantum-dot tuning analysis tools",
	Long: `dottune analyses quantum-dot tuning measurements: it fits the
photon-assisted-tunneling barrier model to extract tunnel couplings,
characterizes random telegraph signals, generates synthetic scans, and
drives arbitrary waveform generators with pulse-table waveforms.

Examples:
  dottune fit scan.csv --leverarm 40 --coupling 30    # Fit a PAT scan
  dottune synth --coupling 20 --out scan.csv          # Synthetic scan data
  dottune rts trace.csv --sample-rate 1e6             # Telegraph analysis
  dottune pulse sawtooth --var period=1e-6 --var amplitude=0.5 --var width=0.95
  dottune awg info --backend sim                      # Generator status`,
	Version: "0.4.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output (repeat for more detail)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $DOTTUNE_CONFIG, ./dottune.yaml, ~/.config/dottune/config.yaml)")
}

// loadConfig resolves the configuration file before any command runs. An
// explicit --config path must exist; the search-path locations are optional.
func loadConfig() {
	if configPath != "" {
		loaded, path, err := config.LoadFromPath(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dottune: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
		if verbosity >= 2 {
			fmt.Printf("Using config file %s\n", path)
		}
		return
	}

	loaded, path, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dottune: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded
	if path != "" && verbosity >= 2 {
		fmt.Printf("Using config file %s\n", path)
	}
}

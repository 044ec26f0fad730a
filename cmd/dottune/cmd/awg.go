package cmd

import (
	"fmt"
	"strconv"

	"github.com/OpenDotLab/dottune/pkg/awg"
	"github.com/spf13/cobra"
)

var (
	awgBackendType string
	awgVID         uint16
	awgPID         uint16

	awgChannels []int
	awgChannel  int
	awgOn       bool
	awgOff      bool
	awgUpFile   string
	awgUpVars   []string
	awgUpRate   float64
)

var awgCmd = &cobra.Command{
	Use:   "awg",
	Short: "Control an arbitrary waveform generator",
	Long: `Control an arbitrary waveform generator backend: query its state,
upload pulse-table waveforms, switch outputs, and set the sampling clock
and channel gains.

The backend is selected with --backend:
  sim     in-memory simulator (no hardware required)
  usbtmc  Tektronix AWG5014-family instrument on the USB Test &
          Measurement Class, addressed with --vid/--pid

Examples:
  dottune awg info --backend sim
  dottune awg devices
  dottune awg upload square --channel 1 --var period=1e-6 --var amplitude=0.5
  dottune awg output --on --channel 1 --channel 2
  dottune awg rate 1.2e9
  dottune awg gain 0.5 --channel 1
  dottune awg run`,
}

func init() {
	rootCmd.AddCommand(awgCmd)

	awgCmd.PersistentFlags().StringVarP(&awgBackendType, "backend", "b", "", "generator backend (sim, usbtmc)")
	awgCmd.PersistentFlags().Uint16Var(&awgVID, "vid", 0, "USB vendor ID for the usbtmc backend (default Tektronix)")
	awgCmd.PersistentFlags().Uint16Var(&awgPID, "pid", 0, "USB product ID for the usbtmc backend (default AWG5014)")

	awgCmd.AddCommand(awgInfoCmd)
	awgCmd.AddCommand(awgDevicesCmd)
	awgCmd.AddCommand(awgUploadCmd)
	awgCmd.AddCommand(awgOutputCmd)
	awgCmd.AddCommand(awgRateCmd)
	awgCmd.AddCommand(awgGainCmd)
	awgCmd.AddCommand(awgDeleteCmd)
	awgCmd.AddCommand(awgRunCmd)
	awgCmd.AddCommand(awgStopCmd)

	awgUploadCmd.Flags().IntVar(&awgChannel, "channel", 1, "target channel")
	awgUploadCmd.Flags().StringVar(&awgUpFile, "file", "", "pulse-table file defining the template")
	awgUploadCmd.Flags().StringArrayVar(&awgUpVars, "var", nil, "template variable binding name=value (repeatable)")
	awgUploadCmd.Flags().Float64Var(&awgUpRate, "rate", 1e9, "render sample rate in Hz")

	awgOutputCmd.Flags().IntSliceVar(&awgChannels, "channel", nil, "channels to switch (default: all)")
	awgOutputCmd.Flags().BoolVar(&awgOn, "on", false, "enable the outputs")
	awgOutputCmd.Flags().BoolVar(&awgOff, "off", false, "disable the outputs")

	awgGainCmd.Flags().IntVar(&awgChannel, "channel", 1, "target channel")
}

// createBackend builds the selected generator backend. The returned closer
// releases backend resources; it is a no-op for the simulator.
func createBackend() (awg.Backend, func() error, error) {
	backendType := awgBackendType
	if backendType == "" {
		backendType = cfg.AWG.Backend
	}

	switch backendType {
	case "sim", "simulator":
		if verbosity >= 1 {
			fmt.Println("Using simulator backend")
		}
		return awg.NewSimBackend(), func() error { return nil }, nil

	case "usbtmc", "tek", "tektronix":
		vid, pid := awgVID, awgPID
		if vid == 0 {
			vid = cfg.AWG.VID
		}
		if pid == 0 {
			pid = cfg.AWG.PID
		}
		if vid == 0 {
			vid = awg.VendorIDTektronix
		}
		if pid == 0 {
			pid = awg.ProductIDAWG5014
		}
		if verbosity >= 1 {
			fmt.Printf("Opening USBTMC instrument (VID:0x%04X PID:0x%04X)...\n", vid, pid)
		}
		transport, err := awg.NewUSBTMC(vid, pid)
		if err != nil {
			return nil, nil, fmt.Errorf("open instrument: %w", err)
		}
		backend, err := awg.NewTek5014Backend(transport)
		if err != nil {
			return nil, nil, err
		}
		return backend, backend.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend type: %s (supported: sim, usbtmc)", backendType)
	}
}

var awgInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show generator identity and capabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, closer, err := createBackend()
		if err != nil {
			return err
		}
		defer closer()

		info, err := backend.Info()
		if err != nil {
			return fmt.Errorf("query info: %w", err)
		}
		fmt.Printf("Generator Information:\n")
		fmt.Printf("  Name:     %s\n", info.Name)
		fmt.Printf("  Vendor:   %s\n", info.Vendor)
		fmt.Printf("  Model:    %s\n", info.Model)
		if info.SerialNumber != "" {
			fmt.Printf("  Serial:   %s\n", info.SerialNumber)
		}
		if info.Firmware != "" {
			fmt.Printf("  Firmware: %s\n", info.Firmware)
		}
		fmt.Printf("  Channels: %v\n", info.Channels)
		fmt.Printf("  Markers:  %v\n", info.Markers)
		if info.Notes != "" {
			fmt.Printf("  Notes:    %s\n", info.Notes)
		}

		rate, err := backend.SamplingRate()
		if err != nil && err != awg.ErrNotImplemented {
			return fmt.Errorf("query sampling rate: %w", err)
		}
		if err == nil {
			fmt.Printf("  Sampling: %.6g Hz\n", rate)
		}
		return nil
	},
}

var awgDevicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List USB instruments exposing a USBTMC interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := awg.Enumerate()
		if err != nil {
			return fmt.Errorf("enumerate instruments: %w", err)
		}
		if len(devices) == 0 {
			fmt.Println("No USBTMC instruments found.")
			return nil
		}
		fmt.Println("Detected USBTMC instruments:")
		for _, d := range devices {
			fmt.Printf("  - %s (VID:PID %04X:%04X", d.Description, d.VID, d.PID)
			if d.SerialNumber != "" {
				fmt.Printf(", serial %s", d.SerialNumber)
			}
			fmt.Println(")")
		}
		return nil
	},
}

var awgUploadCmd = &cobra.Command{
	Use:   "upload [template]",
	Short: "Render a pulse template and load it on a channel",
	Long: `Render a pulse template (a built-in name or a --file pulse table) at the
given sample rate, upload the waveform to the generator, and assign it to
the channel's sequence.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tpl, err := resolveTemplate(awgUpFile, args)
		if err != nil {
			return err
		}
		vars, err := parseVars(awgUpVars)
		if err != nil {
			return err
		}

		backend, closer, err := createBackend()
		if err != nil {
			return err
		}
		defer closer()

		if err := awg.UploadTemplate(backend, awgChannel, tpl, vars, awgUpRate); err != nil {
			return fmt.Errorf("upload template: %w", err)
		}
		fmt.Printf("Uploaded template %q to channel %d\n", tpl.Name, awgChannel)
		if verbosity >= 1 {
			if samples, err := tpl.Sample(vars, awgUpRate); err == nil {
				fmt.Printf("  %d samples at %.4g Hz\n", len(samples), awgUpRate)
			}
		}
		return nil
	},
}

var awgOutputCmd = &cobra.Command{
	Use:   "output",
	Short: "Enable or disable channel outputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if awgOn == awgOff {
			return fmt.Errorf("pass exactly one of --on or --off")
		}
		backend, closer, err := createBackend()
		if err != nil {
			return err
		}
		defer closer()

		if awgOn {
			err = backend.EnableOutputs(awgChannels...)
		} else {
			err = backend.DisableOutputs(awgChannels...)
		}
		if err != nil {
			return fmt.Errorf("switch outputs: %w", err)
		}

		state := "disabled"
		if awgOn {
			state = "enabled"
		}
		if len(awgChannels) == 0 {
			fmt.Printf("All outputs %s\n", state)
		} else {
			fmt.Printf("Outputs %v %s\n", awgChannels, state)
		}
		return nil
	},
}

var awgRateCmd = &cobra.Command{
	Use:   "rate [hz]",
	Short: "Show or set the sampling rate",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, closer, err := createBackend()
		if err != nil {
			return err
		}
		defer closer()

		if len(args) == 0 {
			rate, err := backend.SamplingRate()
			if err != nil {
				return fmt.Errorf("query sampling rate: %w", err)
			}
			fmt.Printf("Sampling rate: %.6g Hz\n", rate)
			return nil
		}

		hz, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid rate %q: %v", args[0], err)
		}
		if err := backend.SetSamplingRate(hz); err != nil {
			return fmt.Errorf("set sampling rate: %w", err)
		}
		fmt.Printf("Sampling rate set to %.6g Hz\n", hz)
		return nil
	},
}

var awgGainCmd = &cobra.Command{
	Use:   "gain [value]",
	Short: "Show or set a channel gain",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, closer, err := createBackend()
		if err != nil {
			return err
		}
		defer closer()

		if len(args) == 0 {
			gain, err := backend.Gain(awgChannel)
			if err != nil {
				return fmt.Errorf("query gain: %w", err)
			}
			fmt.Printf("Channel %d gain: %.4g\n", awgChannel, gain)
			return nil
		}

		gain, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid gain %q: %v", args[0], err)
		}
		if err := backend.SetGain(awgChannel, gain); err != nil {
			return fmt.Errorf("set gain: %w", err)
		}
		fmt.Printf("Channel %d gain set to %.4g\n", awgChannel, gain)
		return nil
	},
}

var awgDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete all uploaded waveforms",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, closer, err := createBackend()
		if err != nil {
			return err
		}
		defer closer()

		if err := backend.DeleteWaveforms(); err != nil {
			return fmt.Errorf("delete waveforms: %w", err)
		}
		fmt.Println("Deleted all waveforms")
		return nil
	},
}

var awgRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start waveform output",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, closer, err := createBackend()
		if err != nil {
			return err
		}
		defer closer()

		if err := backend.Run(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
		fmt.Println("Generator running")
		return nil
	},
}

var awgStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop waveform output",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, closer, err := createBackend()
		if err != nil {
			return err
		}
		defer closer()

		if err := backend.Stop(); err != nil {
			return fmt.Errorf("stop: %w", err)
		}
		fmt.Println("Generator stopped")
		return nil
	},
}

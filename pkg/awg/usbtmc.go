package awg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/gousb"
)

const (
	// Tektronix USB identifiers
	VendorIDTektronix = 0x0699
	ProductIDAWG5014  = 0x0356

	// USB Test & Measurement Class interface markers
	TMCInterfaceClass    = 0xFE
	TMCInterfaceSubClass = 0x03

	// Largest response accepted in a single request
	DefaultMaxTransfer = 1 << 20
	DefaultTimeout     = 5 * time.Second
)

// USBTMC handles communication with an instrument attached through the USB
// Test & Measurement Class. It implements Transport.
type USBTMC struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	intf *gousb.Interface

	epOut *gousb.OutEndpoint
	epIn  *gousb.InEndpoint

	maxTransfer int
	timeout     time.Duration
	tag         byte

	vid uint16
	pid uint16
}

// NewUSBTMC opens the instrument with the given USB identifiers.
func NewUSBTMC(vid, pid uint16) (*USBTMC, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("USB error: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("instrument not found (VID:0x%04X PID:0x%04X)", vid, pid)
	}

	// Detach any kernel driver holding the interface (matters on Linux).
	if err := dev.SetAutoDetach(true); err != nil {
		// Not fatal on all platforms
	}

	t := &USBTMC{
		ctx:         ctx,
		dev:         dev,
		maxTransfer: DefaultMaxTransfer,
		timeout:     DefaultTimeout,
		vid:         vid,
		pid:         pid,
	}

	if err := t.claimInterface(); err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}

	return t, nil
}

// claimInterface finds and claims the instrument's TMC interface.
func (t *USBTMC) claimInterface() error {
	cfg, err := t.dev.Config(1)
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}

	tmcIntfNum := -1
	for _, intf := range cfg.Desc.Interfaces {
		if len(intf.AltSettings) > 0 {
			alt := intf.AltSettings[0]
			if alt.Class == TMCInterfaceClass && alt.SubClass == TMCInterfaceSubClass {
				tmcIntfNum = intf.Number
				break
			}
		}
	}

	if tmcIntfNum == -1 {
		return fmt.Errorf("no USBTMC interface on device (VID:0x%04X PID:0x%04X)", t.vid, t.pid)
	}

	intf, err := cfg.Interface(tmcIntfNum, 0)
	if err != nil {
		return fmt.Errorf("failed to claim interface %d: %w", tmcIntfNum, err)
	}
	t.intf = intf

	if err := t.findEndpoints(); err != nil {
		intf.Close()
		return err
	}

	return nil
}

// findEndpoints discovers the bulk IN and OUT endpoints
func (t *USBTMC) findEndpoints() error {
	setting := t.intf.Setting

	var outAddr, inAddr int
	for _, ep := range setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		if ep.Direction == gousb.EndpointDirectionOut && outAddr == 0 {
			outAddr = ep.Number
		}
		if ep.Direction == gousb.EndpointDirectionIn && inAddr == 0 {
			inAddr = ep.Number
		}
	}
	if outAddr == 0 {
		return fmt.Errorf("bulk OUT endpoint not found")
	}
	if inAddr == 0 {
		return fmt.Errorf("bulk IN endpoint not found")
	}

	epOut, err := t.intf.OutEndpoint(outAddr)
	if err != nil {
		return fmt.Errorf("failed to open OUT endpoint: %w", err)
	}
	t.epOut = epOut

	epIn, err := t.intf.InEndpoint(inAddr)
	if err != nil {
		return fmt.Errorf("failed to open IN endpoint: %w", err)
	}
	t.epIn = epIn

	return nil
}

// nextTag returns the next transfer tag. Zero is reserved by the class.
func (t *USBTMC) nextTag() byte {
	t.tag++
	if t.tag == 0 {
		t.tag = 1
	}
	return t.tag
}

// Write sends a device-dependent message to the instrument and reports the
// number of payload bytes accepted.
func (t *USBTMC) Write(data []byte) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	if _, err := t.epOut.WriteContext(ctx, EncodeDevDepMsgOut(t.nextTag(), data)); err != nil {
		return 0, fmt.Errorf("USB write failed: %w", err)
	}
	return len(data), nil
}

// Read requests and receives one device-dependent response message.
func (t *USBTMC) Read() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	tag := t.nextTag()
	if _, err := t.epOut.WriteContext(ctx, EncodeRequestDevDepMsgIn(tag, t.maxTransfer)); err != nil {
		return nil, fmt.Errorf("USB write failed: %w", err)
	}

	buf := make([]byte, TMCHeaderSize+t.maxTransfer)
	n, err := t.epIn.ReadContext(ctx, buf)
	if err != nil {
		return nil, fmt.Errorf("USB read failed: %w", err)
	}

	size, _, err := DecodeDevDepMsgIn(buf[:n], tag)
	if err != nil {
		return nil, err
	}

	payload := append([]byte(nil), buf[TMCHeaderSize:n]...)
	for len(payload) < size {
		m, err := t.epIn.ReadContext(ctx, buf)
		if err != nil {
			return nil, fmt.Errorf("USB read failed: %w", err)
		}
		payload = append(payload, buf[:m]...)
	}
	if len(payload) > size {
		payload = payload[:size]
	}
	return payload, nil
}

// Query sends a command and reads back its response.
func (t *USBTMC) Query(cmd string) (string, error) {
	if !strings.HasSuffix(cmd, "\n") {
		cmd += "\n"
	}
	if _, err := t.Write([]byte(cmd)); err != nil {
		return "", err
	}
	resp, err := t.Read()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(resp)), nil
}

// SetTimeout sets the transfer timeout.
func (t *USBTMC) SetTimeout(timeout time.Duration) {
	t.timeout = timeout
}

// Close releases USB resources
func (t *USBTMC) Close() error {
	if t.intf != nil {
		t.intf.Close()
		t.intf = nil
	}
	if t.dev != nil {
		t.dev.Close()
		t.dev = nil
	}
	if t.ctx != nil {
		t.ctx.Close()
		t.ctx = nil
	}
	return nil
}

// DeviceInfo represents a discovered USB instrument
type DeviceInfo struct {
	VID          uint16
	PID          uint16
	SerialNumber string
	Description  string
}

// Enumerate finds all connected instruments exposing a USBTMC interface.
func Enumerate() ([]DeviceInfo, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	devices := make([]DeviceInfo, 0)

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		for _, cfg := range desc.Configs {
			for _, intf := range cfg.Interfaces {
				for _, alt := range intf.AltSettings {
					if alt.Class == TMCInterfaceClass && alt.SubClass == TMCInterfaceSubClass {
						return true
					}
				}
			}
		}
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	for _, dev := range devs {
		serial, _ := dev.SerialNumber()
		manufacturer, _ := dev.Manufacturer()
		product, _ := dev.Product()

		devices = append(devices, DeviceInfo{
			VID:          uint16(dev.Desc.Vendor),
			PID:          uint16(dev.Desc.Product),
			SerialNumber: serial,
			Description:  fmt.Sprintf("%s %s", manufacturer, product),
		})
		dev.Close()
	}

	return devices, nil
}

package pulse

import (
	"fmt"
	"math"
)

// Interp selects how the waveform approaches an entry from the previous
// one: by holding the previous value or by ramping linearly.
type Interp uint8

const (
	InterpHold Interp = iota
	InterpLinear
)

func (i Interp) String() string {
	if i == InterpLinear {
		return "linear"
	}
	return "hold"
}

// Entry is one row of a pulse table. At time Time the waveform takes the
// value Value; Interp describes the segment leading up to it.
type Entry struct {
	Time   *Expr
	Value  *Expr
	Interp Interp
}

// Template is a named pulse table. The time of the last entry defines the
// total duration.
type Template struct {
	Name    string
	Entries []Entry
}

var builtinParser = func() *Parser {
	p, err := NewParser()
	if err != nil {
		panic(err)
	}
	return p
}()

func mustExpr(src string) *Expr {
	e, err := builtinParser.ParseExpr(src)
	if err != nil {
		panic(fmt.Sprintf("pulse: bad builtin expression %q: %v", src, err))
	}
	return e
}

// Square creates a block wave template: low for the first quarter period,
// high for the middle half, low again for the last quarter. Variables:
// period, amplitude.
func Square(name string) *Template {
	return &Template{Name: name, Entries: []Entry{
		{Time: mustExpr("0"), Value: mustExpr("0")},
		{Time: mustExpr("period/4"), Value: mustExpr("amplitude")},
		{Time: mustExpr("period*3/4"), Value: mustExpr("0")},
		{Time: mustExpr("period"), Value: mustExpr("0")},
	}}
}

// Sawtooth creates a sawtooth template ramping from -amplitude to
// +amplitude over the central fraction width of the period. Variables:
// period, amplitude, width.
func Sawtooth(name string) *Template {
	return &Template{Name: name, Entries: []Entry{
		{Time: mustExpr("0"), Value: mustExpr("0")},
		{Time: mustExpr("period*(1-width)/2"), Value: mustExpr("-amplitude"), Interp: InterpLinear},
		{Time: mustExpr("period*(1-(1-width)/2)"), Value: mustExpr("amplitude"), Interp: InterpLinear},
		{Time: mustExpr("period"), Value: mustExpr("0"), Interp: InterpLinear},
	}}
}

// Hold creates a DC offset template. Variables: period, offset.
func Hold(name string) *Template {
	return &Template{Name: name, Entries: []Entry{
		{Time: mustExpr("0"), Value: mustExpr("offset")},
		{Time: mustExpr("period"), Value: mustExpr("offset")},
	}}
}

// Marker creates a TTL marker template that is high from offset to
// offset+uptime. Variables: period, offset, uptime.
func Marker(name string) *Template {
	return &Template{Name: name, Entries: []Entry{
		{Time: mustExpr("0"), Value: mustExpr("0")},
		{Time: mustExpr("offset"), Value: mustExpr("1")},
		{Time: mustExpr("offset+uptime"), Value: mustExpr("0")},
		{Time: mustExpr("period"), Value: mustExpr("0")},
	}}
}

type renderedEntry struct {
	time   float64
	value  float64
	interp Interp
}

func (t *Template) render(vars map[string]float64) ([]renderedEntry, error) {
	if len(t.Entries) < 2 {
		return nil, fmt.Errorf("pulse: template %q needs at least 2 entries, got %d", t.Name, len(t.Entries))
	}
	rendered := make([]renderedEntry, len(t.Entries))
	for i, e := range t.Entries {
		tv, err := e.Time.Eval(vars)
		if err != nil {
			return nil, fmt.Errorf("pulse: template %q entry %d: %w", t.Name, i, err)
		}
		vv, err := e.Value.Eval(vars)
		if err != nil {
			return nil, fmt.Errorf("pulse: template %q entry %d: %w", t.Name, i, err)
		}
		if i > 0 && tv < rendered[i-1].time {
			return nil, fmt.Errorf("pulse: template %q: entry times decrease at entry %d", t.Name, i)
		}
		rendered[i] = renderedEntry{time: tv, value: vv, interp: e.Interp}
	}
	return rendered, nil
}

// Duration evaluates the total duration of the template, the time of its
// last entry.
func (t *Template) Duration(vars map[string]float64) (float64, error) {
	rendered, err := t.render(vars)
	if err != nil {
		return 0, err
	}
	return rendered[len(rendered)-1].time, nil
}

// Sample renders the template to raw samples at the given rate. Sample k
// takes the waveform value at time k/rateHz.
func (t *Template) Sample(vars map[string]float64, rateHz float64) ([]float64, error) {
	if !(rateHz > 0) {
		return nil, fmt.Errorf("pulse: sample rate must be positive, got %v", rateHz)
	}
	rendered, err := t.render(vars)
	if err != nil {
		return nil, err
	}
	duration := rendered[len(rendered)-1].time
	if !(duration > 0) {
		return nil, fmt.Errorf("pulse: template %q has zero duration", t.Name)
	}

	n := int(math.Round(duration * rateHz))
	if n < 1 {
		n = 1
	}
	samples := make([]float64, n)
	for k := range samples {
		samples[k] = valueAt(rendered, float64(k)/rateHz)
	}
	return samples, nil
}

func valueAt(rendered []renderedEntry, tau float64) float64 {
	if tau < rendered[0].time {
		return rendered[0].value
	}
	for i := 1; i < len(rendered); i++ {
		cur := rendered[i]
		if tau > cur.time {
			continue
		}
		prev := rendered[i-1]
		if cur.interp == InterpLinear {
			if cur.time == prev.time {
				return cur.value
			}
			return prev.value + (cur.value-prev.value)*(tau-prev.time)/(cur.time-prev.time)
		}
		if tau == cur.time {
			return cur.value
		}
		return prev.value
	}
	return rendered[len(rendered)-1].value
}

package awg

import "fmt"

// Setting is a bounded instrument value. The zero Setting is unusable;
// construct one with NewSetting.
type Setting struct {
	unit  string
	value float64
	min   float64
	max   float64
}

// NewSetting creates a setting with the given unit and bounds. It fails
// when the initial value lies outside [min, max].
func NewSetting(unit string, value, min, max float64) (Setting, error) {
	if !(min <= max) {
		return Setting{}, fmt.Errorf("awg: setting bounds inverted: min %v, max %v", min, max)
	}
	s := Setting{unit: unit, min: min, max: max}
	if err := s.Set(value); err != nil {
		return Setting{}, err
	}
	return s, nil
}

// Set updates the value, failing outside the bounds.
func (s *Setting) Set(value float64) error {
	if value < s.min || value > s.max {
		return fmt.Errorf("awg: value %v %s outside [%v, %v]", value, s.unit, s.min, s.max)
	}
	s.value = value
	return nil
}

// Value returns the current value.
func (s Setting) Value() float64 { return s.value }

// Unit returns the unit label.
func (s Setting) Unit() string { return s.unit }

// Min returns the lower bound.
func (s Setting) Min() float64 { return s.min }

// Max returns the upper bound.
func (s Setting) Max() float64 { return s.max }

func (s Setting) String() string {
	return fmt.Sprintf("%g %s", s.value, s.unit)
}

func mustSetting(unit string, value, min, max float64) Setting {
	s, err := NewSetting(unit, value, min, max)
	if err != nil {
		panic(err)
	}
	return s
}

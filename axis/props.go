package axis

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/lotharelvin/ODrive/ascii"
)

// Store is a registry of named, typed scalar properties addressed by dotted
// path, serving the protocol's r and w commands.
type Store struct {
	mu    sync.RWMutex
	props map[string]ascii.Property
}

// NewStore creates an empty property store.
func NewStore() *Store {
	return &Store{props: make(map[string]ascii.Property)}
}

// Register adds a property under the given path, replacing any previous
// registration.
func (s *Store) Register(path string, p ascii.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.props[path] = p
}

// Lookup resolves a property by its dotted path.
func (s *Store) Lookup(path string) (ascii.Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.props[path]
	return p, ok
}

// funcProperty adapts a getter/setter pair to the ascii.Property interface.
// A nil setter makes the property read-only; a nil getter makes it
// write-only. Either case answers the corresponding operation with "not
// implemented" at the protocol level.
type funcProperty struct {
	get func() (string, bool)
	set func(string) bool
}

func (p funcProperty) GetString() (string, bool) {
	if p.get == nil {
		return "", false
	}
	return p.get()
}

func (p funcProperty) SetString(value string) bool {
	if p.set == nil {
		return false
	}
	return p.set(value)
}

// Float64Property binds a float property to getter and setter functions.
// Pass a nil setter for a read-only property.
func Float64Property(get func() float64, set func(float64)) ascii.Property {
	p := funcProperty{}
	if get != nil {
		p.get = func() (string, bool) {
			return fmt.Sprintf("%f", get()), true
		}
	}
	if set != nil {
		p.set = func(value string) bool {
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return false
			}
			set(v)
			return true
		}
	}
	return p
}

// BoolProperty binds a boolean property to getter and setter functions.
func BoolProperty(get func() bool, set func(bool)) ascii.Property {
	p := funcProperty{}
	if get != nil {
		p.get = func() (string, bool) {
			if get() {
				return "1", true
			}
			return "0", true
		}
	}
	if set != nil {
		p.set = func(value string) bool {
			switch value {
			case "1", "true":
				set(true)
			case "0", "false":
				set(false)
			default:
				return false
			}
			return true
		}
	}
	return p
}

// RegisterAxis binds the tunable and observable fields of an axis under the
// given prefix, e.g. "axis0".
func RegisterAxis(s *Store, prefix string, a *Axis) {
	s.Register(prefix+".controller.vel_limit",
		Float64Property(a.VelocityLimit, a.SetVelocityLimit))
	s.Register(prefix+".motor.current_lim",
		Float64Property(a.CurrentLimit, a.SetCurrentLimit))
	s.Register(prefix+".controller.pos_setpoint",
		Float64Property(a.PositionSetpoint, nil))
	s.Register(prefix+".encoder.pos_estimate",
		Float64Property(a.PositionEstimate, nil))
	s.Register(prefix+".encoder.vel_estimate",
		Float64Property(a.VelocityEstimate, nil))
}

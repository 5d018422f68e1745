// Package axis provides the concrete control-plane collaborators consumed by
// the ascii protocol core: per-motor command state, the named property store
// and configuration persistence.
package axis

import (
	"math"
	"sync"
	"time"
)

// Config holds the static parameters of one axis.
type Config struct {
	// CountsPerRev is the encoder resolution used by EncoderToRadians.
	CountsPerRev float64
	// VelocityLimit is the initial velocity limit.
	VelocityLimit float64
	// CurrentLimit is the initial current limit.
	CurrentLimit float64
	// WatchdogTimeout is the liveness window; an axis whose watchdog has not
	// been fed within this window reports expired.
	WatchdogTimeout time.Duration
}

func (c *Config) setDefaults() {
	if c.CountsPerRev == 0 {
		c.CountsPerRev = 8192
	}
	if c.VelocityLimit == 0 {
		c.VelocityLimit = 20000
	}
	if c.CurrentLimit == 0 {
		c.CurrentLimit = 10
	}
	if c.WatchdogTimeout == 0 {
		c.WatchdogTimeout = time.Second
	}
}

// Axis holds the command-side state of one motor.
//
// It is written only from the command-processing context and may be read
// concurrently by a control loop; an RWMutex enforces the
// single-writer/concurrent-reader discipline.
type Axis struct {
	mu  sync.RWMutex
	cfg Config

	posSetpoint float64
	velFF       float64
	currentFF   float64

	velSetpoint     float64
	currentSetpoint float64

	coupledTheta float64
	coupledGamma float64
	kpTheta      float64
	kdTheta      float64
	kpGamma      float64
	kdGamma      float64

	velLimit     float64
	currentLimit float64

	posEstimate float64
	velEstimate float64

	moveGoal float64

	lastFeed time.Time
}

// New creates an axis with the given configuration. Zero-valued fields take
// defaults.
func New(cfg Config) *Axis {
	cfg.setDefaults()
	return &Axis{
		cfg:          cfg,
		velLimit:     cfg.VelocityLimit,
		currentLimit: cfg.CurrentLimit,
		lastFeed:     time.Now(),
	}
}

// SetPositionSetpoint sets the position set-point with velocity and current
// feed-forwards.
func (a *Axis) SetPositionSetpoint(pos, velFF, currentFF float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.posSetpoint = pos
	a.velFF = velFF
	a.currentFF = currentFF
}

// SetVelocitySetpoint sets the velocity set-point with a current
// feed-forward.
func (a *Axis) SetVelocitySetpoint(vel, currentFF float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.velSetpoint = vel
	a.currentFF = currentFF
}

// SetCurrentSetpoint sets the current set-point.
func (a *Axis) SetCurrentSetpoint(current float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.currentSetpoint = current
}

// SetCoupledSetpoints sets the coupled theta/gamma set-points.
func (a *Axis) SetCoupledSetpoints(theta, gamma float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.coupledTheta = theta
	a.coupledGamma = gamma
}

// SetCoupledGains sets the proportional and derivative gains for coupled
// control.
func (a *Axis) SetCoupledGains(kpTheta, kdTheta, kpGamma, kdGamma float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.kpTheta = kpTheta
	a.kdTheta = kdTheta
	a.kpGamma = kpGamma
	a.kdGamma = kdGamma
}

// MoveToPosition initiates a trapezoidal move to the goal position.
func (a *Axis) MoveToPosition(goal float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.moveGoal = goal
}

// FeedWatchdog records command-stream liveness for this axis.
func (a *Axis) FeedWatchdog() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastFeed = time.Now()
}

// WatchdogExpired reports whether the watchdog window has elapsed since the
// last feed.
func (a *Axis) WatchdogExpired(now time.Time) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return now.Sub(a.lastFeed) > a.cfg.WatchdogTimeout
}

// SetVelocityLimit overrides the axis velocity limit.
func (a *Axis) SetVelocityLimit(limit float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.velLimit = limit
}

// SetCurrentLimit overrides the axis current limit.
func (a *Axis) SetCurrentLimit(limit float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.currentLimit = limit
}

// SetEstimates publishes new position and velocity estimates. Called by the
// encoder/control side, not by the command stream.
func (a *Axis) SetEstimates(pos, vel float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.posEstimate = pos
	a.velEstimate = vel
}

// PositionEstimate returns the latest position estimate in encoder counts.
func (a *Axis) PositionEstimate() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.posEstimate
}

// VelocityEstimate returns the latest velocity estimate in counts/s.
func (a *Axis) VelocityEstimate() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.velEstimate
}

// EncoderToRadians converts an encoder count value to radians.
func (a *Axis) EncoderToRadians(counts float64) float64 {
	return counts * 2 * math.Pi / a.cfg.CountsPerRev
}

// PositionSetpoint returns the current position set-point.
func (a *Axis) PositionSetpoint() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.posSetpoint
}

// VelocitySetpoint returns the current velocity set-point.
func (a *Axis) VelocitySetpoint() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.velSetpoint
}

// CurrentSetpoint returns the current current set-point.
func (a *Axis) CurrentSetpoint() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.currentSetpoint
}

// FeedForwards returns the velocity and current feed-forwards.
func (a *Axis) FeedForwards() (velFF, currentFF float64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.velFF, a.currentFF
}

// CoupledSetpoints returns the coupled theta/gamma set-points.
func (a *Axis) CoupledSetpoints() (theta, gamma float64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.coupledTheta, a.coupledGamma
}

// CoupledGains returns the coupled control gains.
func (a *Axis) CoupledGains() (kpTheta, kdTheta, kpGamma, kdGamma float64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.kpTheta, a.kdTheta, a.kpGamma, a.kdGamma
}

// MoveGoal returns the goal of the last trapezoidal move.
func (a *Axis) MoveGoal() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.moveGoal
}

// VelocityLimit returns the current velocity limit.
func (a *Axis) VelocityLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.velLimit
}

// CurrentLimit returns the current current limit.
func (a *Axis) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.currentLimit
}

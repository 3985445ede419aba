package control

// PWM converts a continuous control signal into on/off actuation over a
// repeating cycle of fixed length (leading-edge PWM: the "on" slots are
// the first contiguous slots of each cycle, not distributed pulses).
//
// The sign of the signal selects the actuator: positive drives the
// heater, zero or negative drives the fan. At most one of the two is
// active on any tick.
type PWM struct {
	period  int
	counter int
}

// NewPWM creates a scheduler with the given cycle length in ticks.
// period must be > 0 (validated at startup by config).
func NewPWM(period int) *PWM {
	return &PWM{period: period}
}

// Apply quantizes the signal for the current cycle position, advances
// the cycle counter, and returns the heater/fan commands.
//
// The duty cycle is |signal| capped at 100%. The cycle is divided into
// period slots of 100/period percent each; a slot is active iff its
// leading edge lies below the duty cycle.
func (p *PWM) Apply(signal float64) (heaterOn, fanOn bool) {
	duty := signal
	if duty < 0 {
		duty = -duty
	}
	if duty > 100 {
		duty = 100
	}

	slotWidth := 100.0 / float64(p.period)
	active := float64(p.counter)*slotWidth < duty
	p.Advance()

	if signal > 0 {
		return active, false
	}
	return false, active
}

// Advance moves the cycle counter one tick forward, wrapping modulo the
// period. The counter advances every tick regardless of mode, so Advance
// is called directly when the loop is in manual mode.
func (p *PWM) Advance() {
	p.counter = (p.counter + 1) % p.period
}

// Position returns the current position within the cycle, in [0, period).
func (p *PWM) Position() int {
	return p.counter
}

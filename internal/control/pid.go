package control

// PID is a proportional-integral-derivative controller for the air
// temperature. Positive output means "need heat", negative means "need
// cooling". The integral accumulator is clamped (anti-windup) so a long
// cold start cannot wind it up and cause a large overshoot once the
// error reverses.
//
// Not safe for concurrent use; the control loop is the only caller.
type PID struct {
	kp, ki, kd float64

	// integralLimit bounds the accumulator to [-integralLimit, integralLimit].
	integralLimit float64

	integral  float64
	lastError float64
}

// NewPID creates a controller with the given gains and anti-windup limit.
func NewPID(kp, ki, kd, integralLimit float64) *PID {
	return &PID{kp: kp, ki: ki, kd: kd, integralLimit: integralLimit}
}

// Compute advances the controller by one tick and returns the control
// signal. dt is the elapsed time in seconds and must be > 0.
func (p *PID) Compute(current, setpoint, dt float64) float64 {
	err := setpoint - current

	p.integral += err * dt
	p.integral = clamp(p.integral, -p.integralLimit, p.integralLimit)

	derivative := (err - p.lastError) / dt
	p.lastError = err

	return p.kp*err + p.ki*p.integral + p.kd*derivative
}

// Reset zeroes the accumulator and the stored error. Called when
// automatic mode is re-enabled so control resumes without stale windup.
func (p *PID) Reset() {
	p.integral = 0
	p.lastError = 0
}

package mqtt

import "github.com/sweeney/greenhouse/internal/state"

// FakePublisher records published messages for test assertions.
type FakePublisher struct {
	// Telemetry contains all published snapshots.
	Telemetry []Telemetry

	// Alarms contains all published alarm transitions.
	Alarms []AlarmEvent

	// SystemEvents contains all published lifecycle events.
	SystemEvents []SystemEvent

	// TelemetryPayloads, AlarmPayloads, and SystemPayloads contain the
	// JSON bytes that were published.
	TelemetryPayloads [][]byte
	AlarmPayloads     [][]byte
	SystemPayloads    [][]byte

	// TelemetryError, AlarmError, and SystemError, if set, are returned
	// by the corresponding publish call.
	TelemetryError error
	AlarmError     error
	SystemError    error

	// CommandHandler is the function registered via SubscribeCommands.
	CommandHandler func(state.Command)

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishTelemetry records the snapshot.
func (f *FakePublisher) PublishTelemetry(t Telemetry) error {
	if f.TelemetryError != nil {
		return f.TelemetryError
	}
	f.Telemetry = append(f.Telemetry, t)

	payload, err := FormatTelemetry(t)
	if err != nil {
		return err
	}
	f.TelemetryPayloads = append(f.TelemetryPayloads, payload)
	return nil
}

// PublishAlarm records the alarm transition.
func (f *FakePublisher) PublishAlarm(a AlarmEvent) error {
	if f.AlarmError != nil {
		return f.AlarmError
	}
	f.Alarms = append(f.Alarms, a)

	payload, err := FormatAlarm(a)
	if err != nil {
		return err
	}
	f.AlarmPayloads = append(f.AlarmPayloads, payload)
	return nil
}

// PublishSystem records the lifecycle event.
func (f *FakePublisher) PublishSystem(e SystemEvent) error {
	if f.SystemError != nil {
		return f.SystemError
	}
	f.SystemEvents = append(f.SystemEvents, e)

	payload, err := FormatSystem(e)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// SubscribeCommands registers fn; tests deliver commands with DeliverCommand.
func (f *FakePublisher) SubscribeCommands(fn func(state.Command)) error {
	f.CommandHandler = fn
	return nil
}

// DeliverCommand invokes the registered command handler, simulating an
// inbound broker message.
func (f *FakePublisher) DeliverCommand(cmd state.Command) {
	if f.CommandHandler != nil {
		f.CommandHandler(cmd)
	}
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

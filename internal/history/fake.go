package history

// FakeSink records appended history rows for test assertions.
type FakeSink struct {
	// Records contains all appended records.
	Records []Record

	// AppendError, if set, will be returned by Append.
	AppendError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSink creates a FakeSink for testing.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// Append records the row.
func (f *FakeSink) Append(rec Record) error {
	if f.AppendError != nil {
		return f.AppendError
	}
	f.Records = append(f.Records, rec)
	return nil
}

// Close marks the sink as closed.
func (f *FakeSink) Close() error {
	f.Closed = true
	return nil
}

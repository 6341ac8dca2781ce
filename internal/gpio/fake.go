package gpio

import "errors"

// FakePin is a test double that returns scripted levels.
type FakePin struct {
	// Samples contains scripted raw levels to return. Each call to
	// Level() consumes the next sample; when exhausted, the last sample
	// repeats.
	Samples []bool

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// LevelError, if set, will be returned by Level()
	LevelError error
}

// NewFakePin creates a FakePin with the given samples.
func NewFakePin(samples ...bool) *FakePin {
	return &FakePin{Samples: samples}
}

// Level returns the next scripted sample.
func (f *FakePin) Level() (bool, error) {
	if f.LevelError != nil {
		return false, f.LevelError
	}

	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample, nil
}

// Close marks the pin as closed.
func (f *FakePin) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the pin to the beginning of samples.
func (f *FakePin) Reset() {
	f.index = 0
	f.Closed = false
}

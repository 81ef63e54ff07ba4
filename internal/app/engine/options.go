package engine

// Options represents configuration options for the Engine.
type Options struct {
	// Instrument is the symbol this engine matches. Purely informational;
	// the engine trades whatever it is fed.
	Instrument string
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		Instrument: "ACME",
	}
}

package igor

// Option configures Decode and Load.
type Option func(*config)

type config struct {
	useFileName    bool
	verifyChecksum bool
}

// WithFileName names every decoded wave after the file instead of the wave
// name embedded in its header.
func WithFileName(enabled bool) Option {
	return func(c *config) { c.useFileName = enabled }
}

// WithVerifyChecksum rejects wave records whose header checksum does not
// match with ErrChecksum.
func WithVerifyChecksum() Option {
	return func(c *config) { c.verifyChecksum = true }
}

func applyOptions(opts ...Option) config {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

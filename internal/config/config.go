package config

// Flag selects an optional behaviour of the compiler driver.
type Flag uint8

const (
	// Parallel parses units and builds call graph fragments concurrently.
	Parallel Flag = 1 << iota

	// Annotate prints the verified summary of every loop.
	Annotate

	// Verbose enables debug logging.
	Verbose

	// AllErrors reports every diagnostic instead of stopping at the first one.
	AllErrors
)

// Options configures a compilation.
type Options struct {
	Flags BitMask[Flag]

	// Extension of unit source files resolved by "use".
	Extension string
}

// Default returns the options used by the command line tools.
func Default() Options {
	return Options{
		Flags:     NewBitMask(Parallel),
		Extension: ".ka",
	}
}

func (o Options) Enabled(flag Flag) bool {
	return o.Flags.Enabled(flag)
}

// Verbosity is the commonlog level for these options.
func (o Options) Verbosity() int {
	if o.Enabled(Verbose) {
		return 2
	}
	return 0
}

package format

import "fmt"

// FilterMode selects which threads the rendered document includes.
type FilterMode string

const (
	// FilterAll keeps every thread.
	FilterAll FilterMode = "all"
	// FilterUnresolved keeps only threads the resolution policy reports as
	// still open.
	FilterUnresolved FilterMode = "unresolved"
)

// ParseFilterMode validates a mode string from a flag or configuration value.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(s) {
	case FilterAll, FilterUnresolved:
		return FilterMode(s), nil
	default:
		return "", fmt.Errorf("invalid filter mode %q: must be %q or %q", s, FilterAll, FilterUnresolved)
	}
}

// ApplyFilter narrows threads according to mode. FilterAll returns the input
// unchanged; FilterUnresolved keeps the threads resolved reports false for,
// preserving their order. Modes are validated before the pipeline runs, so
// anything else is a programming error.
func ApplyFilter(threads []Thread, mode FilterMode, resolved ResolutionPolicy) []Thread {
	switch mode {
	case FilterAll:
		return threads
	case FilterUnresolved:
		var open []Thread
		for _, t := range threads {
			if !resolved(t) {
				open = append(open, t)
			}
		}
		return open
	default:
		panic(fmt.Sprintf("unvalidated filter mode %q", mode))
	}
}

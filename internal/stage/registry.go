package stage

import (
	"context"
	"time"

	"github.com/covship/covship/internal/cienv"
)

// Deps carries process-level inputs so stages stay testable without
// environment leakage between tests.
type Deps struct {
	// Env is the immutable environment snapshot for this run.
	Env cienv.Env

	// Stdin holds raw piped report bytes when discovery is bypassed.
	Stdin []byte

	// Now is replaceable in tests; nil means time.Now.
	Now func() time.Time

	// Uploader overrides the default upload client in tests.
	Uploader Uploader

	// Cleanup collects temp paths removed on every exit path.
	Cleanup *Cleanup
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Runner executes a stage.
type Runner func(ctx context.Context, in Envelope, deps Deps) (Envelope, error)

var registry = map[string]Runner{}

// Register adds a stage runner.
func Register(name string, r Runner) {
	registry[name] = r
}

// Run executes a registered stage by name.
func Run(ctx context.Context, name string, in Envelope, deps Deps) (Envelope, error) {
	r, ok := registry[name]
	if !ok {
		return Envelope{}, ErrUnknown{name: name}
	}
	return r(ctx, in, deps)
}

// ErrUnknown is returned when a stage is not found.
type ErrUnknown struct{ name string }

func (e ErrUnknown) Error() string { return "unknown stage: " + e.name }

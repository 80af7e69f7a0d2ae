package stage

import (
	"context"

	"github.com/covship/covship/internal/cienv"
	"github.com/covship/covship/internal/gitinfo"
)

const resolveEnvironmentStage = "resolve-environment"

// resolveEnvironmentRunner folds git state, CI detection and overrides into
// the canonical build metadata record. Resolution never fails: a missing
// repository degrades to empty git fields with a warning.
func resolveEnvironmentRunner(_ context.Context, in Envelope, deps Deps) (Envelope, error) {
	out := in
	if out.Meta == nil {
		out.Meta = &Meta{}
	}

	root := "."
	if out.Meta.Discovery != nil && out.Meta.Discovery.Root != "" {
		root = out.Meta.Discovery.Root
	}

	info, err := gitinfo.Read(root)
	if err != nil {
		appendSanitizedErrors(&out, []Error{{Stage: resolveEnvironmentStage, Message: "git metadata unavailable: " + err.Error()}})
	}

	var cfg cienv.Defaults
	if out.Meta.ConfigDefaults != nil {
		cfg = *out.Meta.ConfigDefaults
	}
	var over cienv.Overrides
	if out.Meta.Overrides != nil {
		over = *out.Meta.Overrides
	}

	md := cienv.Resolve(deps.Env, info, deps.now(), cfg, over)
	out.Meta.Build = &md
	out.Meta.Detected = cienv.Detect(deps.Env)
	return out, nil
}

func init() { Register(resolveEnvironmentStage, resolveEnvironmentRunner) }

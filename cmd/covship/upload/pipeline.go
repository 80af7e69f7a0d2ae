package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/covship/covship/internal/stage"
)

// uploadStages is the fixed stage order for `covship upload`. Discovery order
// is upload order; nothing between the two reorders records.
var uploadStages = []string{
	"load-config",
	"resolve-environment",
	"discover-reports",
	"lua-filter",
	"normalize-reports",
	"assemble-payload",
	"upload-report",
}

// executePipeline runs the fixed upload pipeline.
func executePipeline(ctx context.Context, in stage.Envelope, deps stage.Deps) (stage.Envelope, error) {
	return runStages(ctx, in, uploadStages, deps)
}

// runStages executes the provided list of stage names in order.
func runStages(ctx context.Context, in stage.Envelope, stages []string, deps stage.Deps) (stage.Envelope, error) {
	out := in
	var err error
	for _, name := range stages {
		out, err = stage.Run(ctx, name, out, deps)
		if err != nil {
			return stage.Envelope{}, err
		}
	}
	return out, nil
}

// printEnvelopeOneLine writes the envelope as a single JSON line with HTML
// escaping disabled and errors in deterministic order.
func printEnvelopeOneLine(w io.Writer, env stage.Envelope) error {
	stage.SortEnvelopeErrors(&env)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, buf.String())
	return err
}

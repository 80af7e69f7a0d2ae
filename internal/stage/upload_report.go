package stage

import (
	"context"
	"fmt"
	"os"

	"github.com/covship/covship/internal/cienv"
	"github.com/covship/covship/internal/upload"
)

const uploadReportStage = "upload-report"

// Uploader posts one compressed payload; the concrete client lives in the
// upload package and is replaceable in tests.
type Uploader interface {
	Upload(ctx context.Context, md cienv.Metadata, payload []byte) (upload.Result, error)
}

// uploadReportRunner sends the assembled payload with the resolved metadata.
// On --dry-run the stage is a no-op: everything before it already ran, so
// the printed envelope shows what would have been sent.
func uploadReportRunner(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	out := in
	if out.Meta == nil || out.Meta.Upload == nil {
		return Envelope{}, fmt.Errorf("%s: missing upload configuration", uploadReportStage)
	}
	if out.Meta.Upload.DryRun {
		return out, nil
	}
	if out.Meta.Payload == nil || out.Meta.Payload.GzipPath == "" {
		return Envelope{}, fmt.Errorf("%s: missing payload", uploadReportStage)
	}
	if out.Meta.Build == nil {
		return Envelope{}, fmt.Errorf("%s: missing build metadata", uploadReportStage)
	}

	payload, err := os.ReadFile(out.Meta.Payload.GzipPath)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: %v", uploadReportStage, err)
	}

	uploader := deps.Uploader
	if uploader == nil {
		uploader = upload.NewClient(out.Meta.Upload.Endpoint, out.Meta.Upload.Token, out.Meta.Upload.Attempts)
	}
	res, err := uploader.Upload(ctx, *out.Meta.Build, payload)
	if err != nil {
		// Wrapped so the command layer can classify rejected uploads.
		return Envelope{}, fmt.Errorf("%s: %w", uploadReportStage, err)
	}

	out.Meta.Outcome = &OutcomeMeta{
		ReportURL: res.ReportURL,
		Status:    res.Status,
		Elapsed:   res.Elapsed,
		Attempts:  res.Attempts,
	}
	return out, nil
}

func init() { Register(uploadReportStage, uploadReportRunner) }

package stage

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

const assemblePayloadStage = "assemble-payload"

// assemblePayloadRunner concatenates the normalized blocks, in record order,
// into an exclusive temp file and gzip-compresses it into a second one. Both
// paths are registered with the run's cleanup so they are removed on every
// exit path.
func assemblePayloadRunner(_ context.Context, in Envelope, deps Deps) (Envelope, error) {
	out := in
	if out.Meta == nil {
		out.Meta = &Meta{}
	}

	rawPath, rawBytes, err := writeRawPayload(in.Records, deps.Cleanup)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: %v", assemblePayloadStage, err)
	}
	gzipPath, gzipBytes, err := compressPayload(rawPath, deps.Cleanup)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: %v", assemblePayloadStage, err)
	}

	out.Meta.Payload = &PayloadMeta{
		RawPath:   rawPath,
		GzipPath:  gzipPath,
		Files:     len(in.Records),
		RawBytes:  rawBytes,
		GzipBytes: gzipBytes,
	}
	return out, nil
}

func writeRawPayload(records []Record, cleanup *Cleanup) (string, int64, error) {
	f, err := os.CreateTemp("", "covship-*.txt")
	if err != nil {
		return "", 0, err
	}
	cleanup.Add(f.Name())
	var n int64
	for _, rec := range records {
		w, err := f.Write(rec.Block)
		n += int64(w)
		if err != nil {
			_ = f.Close()
			return "", 0, err
		}
	}
	if err := f.Close(); err != nil {
		return "", 0, err
	}
	return f.Name(), n, nil
}

func compressPayload(rawPath string, cleanup *Cleanup) (string, int64, error) {
	src, err := os.Open(rawPath)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.CreateTemp("", "covship-*.txt.gz")
	if err != nil {
		return "", 0, err
	}
	cleanup.Add(dst.Name())

	gw := gzip.NewWriter(dst)
	if _, err := io.Copy(gw, src); err != nil {
		_ = dst.Close()
		return "", 0, err
	}
	if err := gw.Close(); err != nil {
		_ = dst.Close()
		return "", 0, err
	}
	if err := dst.Close(); err != nil {
		return "", 0, err
	}
	info, err := os.Stat(dst.Name())
	if err != nil {
		return "", 0, err
	}
	return dst.Name(), info.Size(), nil
}

func init() { Register(assemblePayloadStage, assemblePayloadRunner) }

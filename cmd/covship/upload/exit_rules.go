package upload

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/covship/covship/internal/stage"
	"github.com/covship/covship/internal/upload"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
)

type uploadExitError struct {
	code int
	msg  string
}

func (e uploadExitError) Error() string { return e.msg }
func (e uploadExitError) ExitCode() int { return e.code }

// tolerable reports whether err is a terminal outcome the command absorbs by
// default: no usable reports, a rejected upload, or exhausted retries. A
// missing report or a flaky ingestion service must not fail the whole CI job
// unless the user opted into --strict. Configuration defects are never
// tolerable.
func tolerable(err error) bool {
	var terminal *upload.TerminalError
	var exhausted *upload.RetriesExhaustedError
	return errors.Is(err, stage.ErrNoReports) ||
		errors.As(err, &terminal) ||
		errors.As(err, &exhausted)
}

// evaluateUploadExit maps a pipeline error to the command's exit behavior.
// Tolerable errors print a warning and exit zero unless strict; everything
// else propagates as a failure.
func evaluateUploadExit(err error, strict bool, stderr io.Writer) error {
	if err == nil {
		return nil
	}
	if !tolerable(err) {
		return err
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if strict {
		return uploadExitError{code: exitCodeFailure, msg: msg}
	}
	fmt.Fprintln(stderr, "covship: "+msg)
	return nil
}

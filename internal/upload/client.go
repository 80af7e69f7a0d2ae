package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/covship/covship/internal/cienv"
)

// wirePackage is the fixed package identifier sent with every upload so the
// server can attribute payloads to this client.
const wirePackage = "go-covship-1"

// maxResponseBytes bounds how much of a response body is read for
// diagnostics.
const maxResponseBytes = 64 * 1024

// DefaultMaxAttempts bounds the retry loop: the first attempt plus three
// retries for transient server failures.
const DefaultMaxAttempts = 4

// Response is one transport exchange: the HTTP status plus the three-line
// body the server replies with (report URL, echoed status, elapsed seconds).
// A transport-level failure synthesizes a 500 so the retry loop treats a
// dropped connection like any other transient server error.
type Response struct {
	Status    int
	ReportURL string
	Elapsed   float64
	Body      string
}

// Result is the terminal outcome of a successful upload run.
type Result struct {
	ReportURL string
	Elapsed   float64
	Status    int
	Attempts  int
}

// TerminalError is a non-retryable failure: a non-5xx non-201 status or a
// malformed response. Retrying cannot fix a client or configuration defect,
// so the full response is surfaced for diagnosis instead.
type TerminalError struct {
	Status int
	Body   string
}

func (e *TerminalError) Error() string {
	msg := fmt.Sprintf("upload rejected with status %d", e.Status)
	if b := strings.TrimSpace(e.Body); b != "" {
		msg += ": " + b
	}
	return msg
}

// RetriesExhaustedError reports a run that kept hitting retryable server
// failures until the attempt ceiling.
type RetriesExhaustedError struct {
	Attempts int
	Status   int
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("could not upload after %d tries (last status %d)", e.Attempts, e.Status)
}

// linearBackOff implements backoff.BackOff with the 10·n policy: the n-th
// retry waits 10*n units. 5xx is assumed transient server overload, worth a
// short, small number of growing waits.
type linearBackOff struct {
	unit time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(10*b.n) * b.unit
}

func (b *linearBackOff) Reset() { b.n = 0 }

var _ backoff.BackOff = (*linearBackOff)(nil)

// Client posts one compressed coverage payload to the ingestion endpoint.
type Client struct {
	Endpoint string
	Token    string

	// MaxAttempts bounds the retry loop; zero means DefaultMaxAttempts.
	MaxAttempts int

	// HTTPClient defaults to a client with a 5 minute timeout.
	HTTPClient *http.Client

	// Backoff supplies the wait schedule between retryable attempts;
	// nil means the linear 10·n policy with 1 second units.
	Backoff backoff.BackOff

	// Sleep is replaceable in tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

// NewClient returns a client with the default transport and retry policy.
func NewClient(endpoint, token string, maxAttempts int) *Client {
	return &Client{Endpoint: endpoint, Token: token, MaxAttempts: maxAttempts}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 5 * time.Minute}
}

func (c *Client) sleep(d time.Duration) {
	if c.Sleep != nil {
		c.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Upload POSTs the gzip payload, retrying 5xx responses with linear backoff
// up to the attempt ceiling. 201 is the only success status; any other
// non-5xx response is terminal immediately.
func (c *Client) Upload(ctx context.Context, md cienv.Metadata, payload []byte) (Result, error) {
	max := c.MaxAttempts
	if max <= 0 {
		max = DefaultMaxAttempts
	}
	bo := c.Backoff
	if bo == nil {
		bo = &linearBackOff{unit: time.Second}
	}
	bo.Reset()

	var last Response
	for attempt := 1; attempt <= max; attempt++ {
		resp := c.post(ctx, md, payload)
		last = resp
		switch {
		case resp.Status == http.StatusCreated:
			if resp.ReportURL == "" {
				// A 201 without the three-line body is a protocol defect,
				// not a transient failure.
				return Result{}, &TerminalError{Status: resp.Status, Body: resp.Body}
			}
			return Result{ReportURL: resp.ReportURL, Elapsed: resp.Elapsed, Status: resp.Status, Attempts: attempt}, nil
		case resp.Status >= 500:
			if attempt < max {
				c.sleep(bo.NextBackOff())
			}
		default:
			return Result{}, &TerminalError{Status: resp.Status, Body: resp.Body}
		}
	}
	return Result{}, &RetriesExhaustedError{Attempts: max, Status: last.Status}
}

// post performs a single exchange. It never returns an error: status and
// timing are always captured, synthesized as a failure status when the
// connection itself fails.
func (c *Client) post(ctx context.Context, md cienv.Metadata, payload []byte) Response {
	url := strings.TrimRight(c.Endpoint, "/") + "/coverage?" + Query(c.Token, wirePackage, md)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Response{Status: http.StatusInternalServerError, Body: err.Error()}
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("X-Content-Encoding", "gzip")
	req.Header.Set("Accept", "text/plain")

	res, err := c.httpClient().Do(req)
	if err != nil {
		return Response{Status: http.StatusInternalServerError, Body: err.Error()}
	}
	defer func() { _ = res.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	return parseResponse(res.StatusCode, body)
}

// parseResponse decodes the three-line reply: report URL, echoed HTTP
// status, elapsed seconds. Missing lines leave zero values; the caller
// decides whether that is malformed.
func parseResponse(status int, body []byte) Response {
	resp := Response{Status: status, Body: string(body)}
	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	if len(lines) > 0 {
		resp.ReportURL = strings.TrimSpace(lines[0])
	}
	if len(lines) > 2 {
		resp.Elapsed, _ = strconv.ParseFloat(strings.TrimSpace(lines[2]), 64)
	}
	return resp
}

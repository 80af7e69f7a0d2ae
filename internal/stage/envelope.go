package stage

import "github.com/covship/covship/internal/cienv"

// Report format kinds.
const (
	KindPlain = "plain"
	KindGcov  = "gcov"
)

// StdinLocator marks the pseudo-record carrying piped report bytes.
const StdinLocator = "-"

// Error is an accumulated, non-fatal pipeline warning.
type Error struct {
	Stage   string `json:"stage"`
	Locator string `json:"locator,omitempty"`
	Message string `json:"message"`
}

// Record is one discovered coverage report candidate. Block is filled by the
// normalize stage and holds the sentinel-terminated bytes destined for the
// payload; it never serializes.
type Record struct {
	Locator string `json:"locator"`
	Size    int64  `json:"size"`
	Kind    string `json:"kind"`
	Block   []byte `json:"-"`
}

// ConfigMeta holds config-source paths.
type ConfigMeta struct {
	Path    string `json:"path,omitempty"`
	EnvFile string `json:"envFile,omitempty"`
}

// DiscoveryMeta holds discovery options.
type DiscoveryMeta struct {
	Root    string   `json:"root,omitempty"`
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
	Pipe    bool     `json:"pipe,omitempty"`
}

// LuaMeta holds the optional candidate-filter expression.
type LuaMeta struct {
	FilterInline string `json:"filterInline,omitempty"`
}

// UploadMeta holds endpoint configuration. The token never serializes.
type UploadMeta struct {
	Endpoint string `json:"endpoint,omitempty"`
	Token    string `json:"-"`
	Attempts int    `json:"attempts,omitempty"`
	DryRun   bool   `json:"dryRun,omitempty"`
}

// PayloadMeta describes the assembled payload. The temp paths never
// serialize; they are owned by the run and removed on every exit path.
type PayloadMeta struct {
	RawPath   string `json:"-"`
	GzipPath  string `json:"-"`
	Files     int    `json:"files"`
	RawBytes  int64  `json:"rawBytes"`
	GzipBytes int64  `json:"gzipBytes"`
}

// OutcomeMeta is the terminal upload outcome.
type OutcomeMeta struct {
	ReportURL string  `json:"reportUrl,omitempty"`
	Status    int     `json:"status,omitempty"`
	Elapsed   float64 `json:"elapsedSeconds,omitempty"`
	Attempts  int     `json:"attempts,omitempty"`
}

// Meta holds pipeline state with deterministic JSON field order.
type Meta struct {
	Stage     string          `json:"stage,omitempty"`
	Config    *ConfigMeta     `json:"config,omitempty"`
	Discovery *DiscoveryMeta  `json:"discovery,omitempty"`
	Lua       *LuaMeta        `json:"lua,omitempty"`
	Detected  []string        `json:"detected,omitempty"`
	Build     *cienv.Metadata `json:"build,omitempty"`
	Upload    *UploadMeta     `json:"upload,omitempty"`
	Payload   *PayloadMeta    `json:"payload,omitempty"`
	Outcome   *OutcomeMeta    `json:"outcome,omitempty"`

	// Fold inputs for resolve-environment; populated by load-config and
	// the command layer, never serialized.
	ConfigDefaults *cienv.Defaults  `json:"-"`
	Overrides      *cienv.Overrides `json:"-"`
}

// Envelope is the JSON-serializable contract threaded between stages.
// Field order is stable to keep JSON deterministic in tests.
type Envelope struct {
	Records []Record `json:"records"`
	Meta    *Meta    `json:"meta,omitempty"`
	Errors  []Error  `json:"errors,omitempty"`
}

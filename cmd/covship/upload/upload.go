package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/covship/covship/internal/cienv"
	"github.com/covship/covship/internal/stage"
	"github.com/spf13/cobra"
)

var (
	flagRoot      string
	flagConfig    string
	flagEnvFile   string
	flagInclude   []string
	flagExclude   []string
	flagPipe      bool
	flagLuaFilter string

	flagEndpoint string
	flagToken    string
	flagAttempts int
	flagTimeout  time.Duration
	flagDryRun   bool
	flagStrict   bool

	flagService  string
	flagSlug     string
	flagBuild    string
	flagBuildURL string
	flagJob      string
	flagPR       string
	flagBranch   string
	flagLabel    []string
)

// Cmd implements `covship upload`.
var Cmd = &cobra.Command{
	Use:           "upload",
	Short:         "Discover coverage reports and upload them",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if flagTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, flagTimeout)
			defer cancel()
		}

		var stdin []byte
		if flagPipe {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %v", err)
			}
			stdin = b
		}

		cleanup := &stage.Cleanup{}
		defer cleanup.Run()

		deps := stage.Deps{
			Env:     cienv.Snapshot(),
			Stdin:   stdin,
			Cleanup: cleanup,
		}
		out, err := executePipeline(ctx, buildEnvelope(cmd), deps)
		if err != nil {
			return evaluateUploadExit(err, flagStrict, os.Stderr)
		}

		printWarnings(out, os.Stderr)
		if flagDryRun {
			return printEnvelopeOneLine(os.Stdout, out)
		}
		if out.Meta != nil && out.Meta.Outcome != nil {
			fmt.Fprintln(os.Stdout, out.Meta.Outcome.ReportURL)
		}
		return nil
	},
}

// buildEnvelope translates flags into the initial pipeline envelope. Override
// fields are pointers: only flags the user actually set become overrides, so
// an explicitly empty value still overrides while an unset flag does not.
func buildEnvelope(cmd *cobra.Command) stage.Envelope {
	over := &cienv.Overrides{}
	strFlag := func(name string, dst **string, value string) {
		if cmd.Flags().Changed(name) {
			v := value
			*dst = &v
		}
	}
	strFlag("service", &over.ServiceName, flagService)
	strFlag("slug", &over.Slug, flagSlug)
	strFlag("build", &over.BuildID, flagBuild)
	strFlag("build-url", &over.BuildURL, flagBuildURL)
	strFlag("job", &over.ServiceJobID, flagJob)
	strFlag("pr", &over.PullRequestID, flagPR)
	strFlag("branch", &over.Branch, flagBranch)
	if cmd.Flags().Changed("label") {
		over.Labels = append([]string(nil), flagLabel...)
	}

	return stage.Envelope{
		Records: []stage.Record{},
		Meta: &stage.Meta{
			Config: &stage.ConfigMeta{Path: flagConfig, EnvFile: flagEnvFile},
			Discovery: &stage.DiscoveryMeta{
				Root:    flagRoot,
				Include: flagInclude,
				Exclude: flagExclude,
				Pipe:    flagPipe,
			},
			Lua: &stage.LuaMeta{FilterInline: flagLuaFilter},
			Upload: &stage.UploadMeta{
				Endpoint: flagEndpoint,
				Token:    flagToken,
				Attempts: flagAttempts,
				DryRun:   flagDryRun,
			},
			Overrides: over,
		},
	}
}

func printWarnings(out stage.Envelope, w io.Writer) {
	for _, e := range out.Errors {
		if e.Locator != "" {
			fmt.Fprintf(w, "covship: %s: %s: %s\n", e.Stage, e.Locator, e.Message)
			continue
		}
		fmt.Fprintf(w, "covship: %s: %s\n", e.Stage, e.Message)
	}
}

func init() {
	Cmd.Flags().StringVar(&flagRoot, "root", ".", "Directory to search for coverage reports")
	Cmd.Flags().StringVar(&flagConfig, "config", ".covship.yml", "Path to config file")
	Cmd.Flags().StringVar(&flagEnvFile, "env-file", "", "Dotenv file merged into the environment (real environment wins)")
	Cmd.Flags().StringArrayVar(&flagInclude, "include", nil, "Glob of extra report paths to include (repeatable)")
	Cmd.Flags().StringArrayVar(&flagExclude, "exclude", nil, "Glob of paths to exclude from discovery (repeatable)")
	Cmd.Flags().BoolVar(&flagPipe, "pipe", false, "Read a single report from stdin instead of discovering files")
	Cmd.Flags().StringVar(&flagLuaFilter, "lua-filter", "", "Lua predicate over candidates (globals: locator, kind, size)")

	Cmd.Flags().StringVar(&flagEndpoint, "endpoint", "https://coverage.covship.dev", "Ingestion endpoint base URL")
	Cmd.Flags().StringVar(&flagToken, "token", "", "Repository token (overrides environment and config)")
	Cmd.Flags().IntVar(&flagAttempts, "attempts", 0, "Maximum upload attempts (0 = default)")
	Cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Overall run timeout (0 = none)")
	Cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Run everything except the upload and print the envelope")
	Cmd.Flags().BoolVar(&flagStrict, "strict", false, "Exit non-zero when there is nothing to upload or the upload fails")

	Cmd.Flags().StringVar(&flagService, "service", "", "Override the detected CI service name")
	Cmd.Flags().StringVar(&flagSlug, "slug", "", "Override the repository slug (owner/name)")
	Cmd.Flags().StringVar(&flagBuild, "build", "", "Override the build identifier")
	Cmd.Flags().StringVar(&flagBuildURL, "build-url", "", "Override the build URL")
	Cmd.Flags().StringVar(&flagJob, "job", "", "Override the job identifier")
	Cmd.Flags().StringVar(&flagPR, "pr", "", "Override the pull request number")
	Cmd.Flags().StringVar(&flagBranch, "branch", "", "Override the branch name")
	Cmd.Flags().StringArrayVar(&flagLabel, "label", nil, "Label attached to the upload (repeatable)")
}

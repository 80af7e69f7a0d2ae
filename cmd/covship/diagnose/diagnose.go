package diagnose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/covship/covship/internal/cienv"
	"github.com/covship/covship/internal/stage"
	"github.com/spf13/cobra"
)

var (
	flagRoot    string
	flagConfig  string
	flagEnvFile string
)

// Cmd implements `covship diagnose`: resolve the CI environment and git state
// exactly as an upload would, print the result and stop. Nothing touches the
// network.
var Cmd = &cobra.Command{
	Use:           "diagnose",
	Short:         "Print the resolved CI environment without uploading",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := stage.Envelope{
			Records: []stage.Record{},
			Meta: &stage.Meta{
				Config:    &stage.ConfigMeta{Path: flagConfig, EnvFile: flagEnvFile},
				Discovery: &stage.DiscoveryMeta{Root: flagRoot},
			},
		}
		deps := stage.Deps{Env: cienv.Snapshot()}

		out := in
		var err error
		for _, name := range []string{"load-config", "resolve-environment"} {
			out, err = stage.Run(context.Background(), name, out, deps)
			if err != nil {
				return err
			}
		}
		return printEnvelopeOneLine(os.Stdout, out)
	},
}

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

func init() {
	Cmd.Flags().StringVar(&flagRoot, "root", ".", "Directory whose git repository is inspected")
	Cmd.Flags().StringVar(&flagConfig, "config", ".covship.yml", "Path to config file")
	Cmd.Flags().StringVar(&flagEnvFile, "env-file", "", "Dotenv file merged into the environment (real environment wins)")
}

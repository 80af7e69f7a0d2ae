package root

import (
	"github.com/covship/covship/cmd/covship/diagnose"
	"github.com/covship/covship/cmd/covship/upload"
	"github.com/covship/covship/cmd/covship/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for covship.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "covship",
		Short: "CLI: collect coverage reports from a build and ship them to a coverage service",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Subcommands
	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(upload.Cmd)
	cmd.AddCommand(diagnose.Cmd)

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

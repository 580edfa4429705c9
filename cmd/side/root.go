package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sidelith/side/internal/config"
)

// Note: We use a custom help template to make it more brief.
const helpTemplate = `Side CLI - Persistent project context for AI coding assistants.
{{if .UseLine}}
Usage: {{.UseLine}}
{{end}}{{if .HasAvailableLocalFlags}}
Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}{{if .HasAvailableSubCommands}}
Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand)}}  {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}
`

func rootCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "side [OPTIONS]",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(ctx)
		},
		Version: fmt.Sprintf("%s, commit %s", config.Version, config.Commit()),
	}
	cmd.SetVersionTemplate("Side CLI\n{{.Version}}\n")
	cmd.Flags().BoolP("version", "v", false, "Print version information and quit")
	cmd.SetHelpTemplate(helpTemplate)

	cmd.AddCommand(installCommand())
	cmd.AddCommand(authCommand())
	cmd.AddCommand(doctorCommand())
	cmd.AddCommand(versionCommand())
	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Printf("side version %s (commit %s)\n", config.Version, config.Commit())
		},
	}
}

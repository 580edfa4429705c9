package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sidelith/side/internal/config"
	"github.com/sidelith/side/internal/doctor"
	"github.com/sidelith/side/internal/ui"
)

func doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check this machine's Side setup",
		Args:  cobra.NoArgs,
		// Individual check failures are reported, never fatal; the command
		// only errors on being unable to run at all.
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			out := ui.Printer{}
			out.Header("side doctor")

			checks := doctor.New(cwd, config.DefaultDashboardURL).Run(cmd.Context())
			for _, check := range checks {
				switch check.Status {
				case doctor.StatusPass:
					out.Pass("%s: %s", check.Name, check.Detail)
				case doctor.StatusWarn:
					out.Warn("%s: %s", check.Name, check.Detail)
				default:
					out.Fail("%s: %s", check.Name, check.Detail)
				}
			}
			return nil
		},
	}
}

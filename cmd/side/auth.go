package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sidelith/side/internal/apikey"
	"github.com/sidelith/side/internal/config"
	"github.com/sidelith/side/internal/doctor"
	"github.com/sidelith/side/internal/envfile"
	"github.com/sidelith/side/internal/ui"
)

func authCommand() *cobra.Command {
	var keyFlag string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Store your Side API key in this project's .env file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAuth(keyFlag)
		},
	}
	cmd.Flags().StringVar(&keyFlag, "key", "", "API key (prompted when omitted)")
	return cmd
}

func runAuth(key string) error {
	out := ui.Printer{}

	if key == "" {
		out.Info("Generate a key at %s — it is shown exactly once.", config.DefaultDashboardURL)
		if err := openBrowser(config.DefaultDashboardURL); err != nil {
			out.Dim("could not open a browser (%v); visit the URL above", err)
		}
		var err error
		key, err = promptSecret("Paste your API key (sk_...)")
		if err != nil {
			return err
		}
	}

	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, apikey.Prefix+"_") {
		return fmt.Errorf("that does not look like a Side key; expected it to start with %s_", apikey.Prefix)
	}

	if err := envfile.Set(".env", doctor.EnvKeyName, key); err != nil {
		return err
	}

	if tier, ok := apikey.DetectTier(key); ok {
		out.Pass("saved %s (%s tier) to .env", apikey.Hint(key), tier)
	} else {
		out.Pass("saved %s to .env", apikey.Hint(key))
		out.Warn("the key's tier segment is unrecognized; `side doctor` will flag it if it is malformed")
	}
	out.Dim("run `side install` to inject the key into your editor registration")
	return nil
}

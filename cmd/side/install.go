package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sidelith/side/internal/doctor"
	"github.com/sidelith/side/internal/envfile"
	"github.com/sidelith/side/internal/settings"
	"github.com/sidelith/side/internal/ui"
)

func installCommand() *cobra.Command {
	var editorFlag string
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register the Side context server with your editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			editor, err := chooseEditor(editorFlag)
			if err != nil {
				return err
			}
			projectPath, err := chooseProjectPath(projectFlag)
			if err != nil {
				return err
			}
			return runInstall(editor, projectPath)
		},
	}
	cmd.Flags().StringVar(&editorFlag, "editor", "", "Target editor (cursor|vscode); prompted when omitted")
	cmd.Flags().StringVar(&projectFlag, "project-path", "", "Project directory (default: current directory)")
	return cmd
}

func chooseEditor(flag string) (settings.Editor, error) {
	if flag != "" {
		return settings.ParseEditor(flag)
	}
	fmt.Println("Which editor should Side register with?")
	for i, editor := range settings.Editors {
		fmt.Printf("  %d) %s\n", i+1, editor)
	}
	answer, err := promptInput("Editor", "1")
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(settings.Editors) {
		return settings.Editors[n-1], nil
	}
	return settings.ParseEditor(answer)
}

func chooseProjectPath(flag string) (string, error) {
	path := flag
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determining working directory: %w", err)
		}
		path, err = promptInput("Project path", cwd)
		if err != nil {
			return "", err
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving project path: %w", err)
	}
	return abs, nil
}

func runInstall(editor settings.Editor, projectPath string) error {
	out := ui.Printer{}

	env := settings.Environment{
		GOOS:   runtime.GOOS,
		Home:   homeDir(),
		Getenv: os.Getenv,
	}
	path, err := settings.Resolve(env, editor)
	if err != nil {
		return err
	}

	// Pick up a key from a prior `side auth` so the registration works
	// immediately; the placeholder stays empty otherwise.
	key, _ := envfile.Get(filepath.Join(projectPath, ".env"), doctor.EnvKeyName)

	res, err := settings.Install(path, settings.NewRegistration(projectPath, key))
	if err != nil {
		return err
	}

	if res.Backup != "" {
		out.Warn("existing settings could not be parsed; backed up to %s", res.Backup)
	}
	if !res.Written {
		out.Fail("could not write %s: %v", res.Path, res.WriteErr)
		out.Info("Add the following to the %q entry of your %s settings manually:", settings.ServerName, editor)
		fmt.Printf("\n%s\n", res.Rendered)
		// Degraded success: the user has everything needed to finish by
		// hand, so the install flow still exits zero.
		return nil
	}

	out.Pass("registered %s in %s", settings.ServerName, res.Path)
	if key == "" {
		out.Dim("no api key configured yet; run `side auth` and re-run `side install`")
	}
	out.Dim("restart %s to pick up the new context server", editor)
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

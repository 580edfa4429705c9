package settings

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnknownEditor = errors.New("unknown editor")

// Editor identifies a supported IDE.
type Editor string

const (
	EditorCursor Editor = "Cursor"
	EditorVSCode Editor = "VS Code"
)

// Editors lists the supported targets in menu order.
var Editors = []Editor{EditorCursor, EditorVSCode}

// ParseEditor accepts the common spellings of a supported editor name.
func ParseEditor(s string) (Editor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cursor":
		return EditorCursor, nil
	case "vs code", "vscode", "code":
		return EditorVSCode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEditor, s)
}

func (e Editor) String() string { return string(e) }

// appFolder is the vendor directory name under the per-OS config root.
func (e Editor) appFolder() string {
	if e == EditorVSCode {
		return "Code"
	}
	return string(e)
}

// Environment carries the inputs path resolution depends on, so Resolve
// stays pure and deterministic for a given tuple.
type Environment struct {
	GOOS   string
	Home   string
	Getenv func(string) string
}

func (env Environment) getenv(key string) string {
	if env.Getenv == nil {
		return ""
	}
	return env.Getenv(key)
}

// configRoot yields the base directory that holds per-editor user
// configuration for one OS family.
type configRoot func(env Environment) string

// configRoots is keyed by GOOS. Anything not listed falls back to the
// XDG rule, which covers linux and the BSDs alike.
var configRoots = map[string]configRoot{
	"darwin": func(env Environment) string {
		return filepath.Join(env.Home, "Library", "Application Support")
	},
	"windows": func(env Environment) string {
		if appdata := env.getenv("APPDATA"); appdata != "" {
			return appdata
		}
		return filepath.Join(env.Home, "AppData", "Roaming")
	},
}

func xdgConfigRoot(env Environment) string {
	if xdg := env.getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(env.Home, ".config")
}

// Resolve computes the settings.json path for an editor on the current
// platform. Pure: no filesystem access, no process environment reads
// beyond what env carries.
func Resolve(env Environment, editor Editor) (string, error) {
	switch editor {
	case EditorCursor, EditorVSCode:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEditor, string(editor))
	}
	root, ok := configRoots[env.GOOS]
	if !ok {
		root = xdgConfigRoot
	}
	return filepath.Join(root(env), editor.appFolder(), "User", "settings.json"), nil
}

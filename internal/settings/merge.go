package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
)

// ServerName is the key of the managed entry under mcpServers.
const ServerName = "sidelith"

// serversKey is the top-level settings key the merger owns an entry in.
const serversKey = "mcpServers"

// Registration is the server block written under mcpServers.<ServerName>.
type Registration struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
}

// NewRegistration builds the registration for a project directory. The
// path is converted to forward slashes so the JSON stays portable across
// platforms. apiKey may be empty; the placeholder is filled in later by
// `side auth`.
func NewRegistration(projectPath, apiKey string) Registration {
	return Registration{
		Command: "uvx",
		Args:    []string{"side", "--project-path", NormalizePath(projectPath)},
		Env:     map[string]string{"SIDE_API_KEY": apiKey},
	}
}

// NormalizePath converts OS path separators to forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// Document is a settings file held as raw JSON per top-level key, so keys
// this tool does not understand survive the round trip byte for byte.
type Document map[string]json.RawMessage

// Load reads the settings document at path.
//
// A missing file is an empty document. A file that does not parse — even
// after stripping the comments and trailing commas VS Code permits — is
// backed up next to the original and replaced with an empty document;
// availability wins over preserving a file the editor itself can no
// longer read. The backup path is returned so callers can tell the user.
func Load(path string) (Document, string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Document{}, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading settings file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err == nil {
		if doc == nil {
			doc = Document{}
		}
		return doc, "", nil
	}

	backup := fmt.Sprintf("%s.bak.%d", path, time.Now().Unix())
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		// Nothing we can do for the broken original beyond warning; still
		// proceed with a fresh document.
		return Document{}, "", nil
	}
	return Document{}, backup, nil
}

// Merge sets the managed entry under mcpServers, creating the mapping if
// absent. Every other top-level key and every other server entry is left
// untouched. Merging the same registration twice is a no-op.
func Merge(doc Document, reg Registration) (Document, error) {
	if doc == nil {
		doc = Document{}
	}

	servers := map[string]json.RawMessage{}
	if raw, ok := doc[serversKey]; ok {
		if err := json.Unmarshal(raw, &servers); err != nil {
			// mcpServers exists but is not an object; the editor would
			// reject it too, so rebuild the mapping.
			servers = map[string]json.RawMessage{}
		}
	}

	entry, err := json.Marshal(reg)
	if err != nil {
		return nil, fmt.Errorf("encoding server registration: %w", err)
	}
	servers[ServerName] = entry

	merged, err := json.Marshal(servers)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", serversKey, err)
	}
	doc[serversKey] = merged
	return doc, nil
}

// Render serializes the document the way Persist writes it: 4-space
// indent, stable key order. Used for the manual-instructions fallback.
func Render(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	return append(data, '\n'), nil
}

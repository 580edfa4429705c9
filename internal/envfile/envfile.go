// Package envfile maintains the plain KEY="VALUE" .env file the CLI
// writes credentials into. It only understands the subset of dotenv
// syntax it writes itself; unrelated lines pass through untouched.
package envfile

import (
	"fmt"
	"os"
	"strings"
)

// Set writes key="value" into the file at path, replacing an existing
// line for key or appending one. The file is created with 0600 when
// absent; it holds a credential.
func Set(path, key, value string) error {
	var lines []string
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) > 0 {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}

	entry := fmt.Sprintf("%s=%q", key, value)
	replaced := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), key+"=") {
			lines[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, entry)
	}

	out := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Get reads the value for key from the file at path. The second return is
// false when the file or the key is absent.
func Get(path, key string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, key+"=") {
			continue
		}
		value := strings.TrimPrefix(trimmed, key+"=")
		value = strings.Trim(value, `"`)
		return value, true
	}
	return "", false
}

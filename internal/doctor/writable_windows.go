//go:build windows

package doctor

import (
	"os"
	"path/filepath"
)

// No access(2) on Windows; probe with a temp file instead.
func writable(dir string) error {
	f, err := os.CreateTemp(dir, ".side-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

package settings

import (
	"fmt"
	"os"
	"path/filepath"
)

// Persist writes the document to path, creating parent directories as
// needed. The write goes to a temp file in the same directory followed by
// a rename, so an interrupted run never leaves a truncated settings file.
func Persist(path string, doc Document) error {
	data, err := Render(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing settings file: %w", err)
	}
	return nil
}

// Result reports what an Install pass did.
type Result struct {
	// Path of the settings file that was (or should have been) written.
	Path string
	// Backup of an unparsable original, empty when none was needed.
	Backup string
	// Rendered document; printed as manual instructions when Written is
	// false.
	Rendered []byte
	// Written is false when persisting failed and the caller should fall
	// back to manual instructions.
	Written bool
	// WriteErr holds the persist failure when Written is false.
	WriteErr error
}

// Install runs the full resolve-free merge flow against a known settings
// path: load, merge, persist. A persist failure is reported in the Result
// rather than as an error, so installers can degrade to printing the
// block instead of aborting.
func Install(path string, reg Registration) (*Result, error) {
	doc, backup, err := Load(path)
	if err != nil {
		return nil, err
	}
	doc, err = Merge(doc, reg)
	if err != nil {
		return nil, err
	}
	rendered, err := Render(doc)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: path, Backup: backup, Rendered: rendered}
	if err := Persist(path, doc); err != nil {
		res.WriteErr = err
		return res, nil
	}
	res.Written = true
	return res, nil
}

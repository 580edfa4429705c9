package main

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openBrowser launches the system browser at url. Failures are reported
// to the caller, who prints the url for manual use instead.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		if _, err := exec.LookPath("xdg-open"); err != nil {
			return fmt.Errorf("xdg-open not available: %w", err)
		}
		return exec.Command("xdg-open", url).Start()
	}
}

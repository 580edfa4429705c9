// Package doctor runs the environment checklist behind `side doctor`.
// Checks report status lines; none of them aborts the run or fails the
// process.
package doctor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/sidelith/side/internal/apikey"
	"github.com/sidelith/side/internal/envfile"
)

type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	default:
		return "fail"
	}
}

// Check is one line of the checklist.
type Check struct {
	Name   string
	Status Status
	Detail string
}

// EnvKeyName is the .env entry holding the API key.
const EnvKeyName = "SIDE_API_KEY"

// minPython is the oldest interpreter the context server supports.
const minPython = "v3.10"

// Doctor holds the probes as fields so tests can substitute them.
type Doctor struct {
	// Dir is the project directory being checked (holds the .env file).
	Dir string
	// DashboardURL is probed for reachability.
	DashboardURL string

	HTTPClient *http.Client
	LookPath   func(file string) (string, error)
	// PythonVersion runs the interpreter and returns its version output,
	// e.g. "Python 3.11.4".
	PythonVersion func(ctx context.Context, bin string) (string, error)
}

func New(dir, dashboardURL string) *Doctor {
	return &Doctor{
		Dir:          dir,
		DashboardURL: dashboardURL,
		HTTPClient:   &http.Client{Timeout: 3 * time.Second},
		LookPath:     exec.LookPath,
		PythonVersion: func(ctx context.Context, bin string) (string, error) {
			out, err := exec.CommandContext(ctx, bin, "--version").CombinedOutput()
			return strings.TrimSpace(string(out)), err
		},
	}
}

// Run executes every check. It always returns the full list; failures are
// data, not errors.
func (d *Doctor) Run(ctx context.Context) []Check {
	return []Check{
		d.checkEnvFile(),
		d.checkKey(),
		d.checkConnectivity(ctx),
		d.checkPython(ctx),
		d.checkWritable(),
	}
}

func (d *Doctor) envPath() string {
	return filepath.Join(d.Dir, ".env")
}

func (d *Doctor) checkEnvFile() Check {
	check := Check{Name: ".env file"}
	if _, err := os.Stat(d.envPath()); err != nil {
		check.Status = StatusFail
		check.Detail = "not found; run `side auth` to create it"
		return check
	}
	check.Detail = d.envPath()
	return check
}

func (d *Doctor) checkKey() Check {
	check := Check{Name: "api key"}
	key, ok := envfile.Get(d.envPath(), EnvKeyName)
	if !ok {
		check.Status = StatusFail
		check.Detail = EnvKeyName + " not set; run `side auth`"
		return check
	}
	tier, err := apikey.Parse(key)
	if err != nil {
		check.Status = StatusFail
		check.Detail = fmt.Sprintf("stored key is malformed: %v", err)
		return check
	}
	check.Detail = fmt.Sprintf("%s (%s tier)", apikey.Hint(key), tier)
	return check
}

func (d *Doctor) checkConnectivity(ctx context.Context) Check {
	check := Check{Name: "dashboard reachable"}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, d.DashboardURL, nil)
	if err != nil {
		check.Status = StatusWarn
		check.Detail = fmt.Sprintf("bad dashboard url: %v", err)
		return check
	}
	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		check.Status = StatusWarn
		check.Detail = fmt.Sprintf("could not reach %s: %v", d.DashboardURL, err)
		return check
	}
	resp.Body.Close()
	check.Detail = d.DashboardURL
	return check
}

func (d *Doctor) checkPython(ctx context.Context) Check {
	check := Check{Name: "python interpreter"}
	var bin string
	for _, candidate := range []string{"python3", "python"} {
		if path, err := d.LookPath(candidate); err == nil {
			bin = path
			break
		}
	}
	if bin == "" {
		check.Status = StatusFail
		check.Detail = "no python3 or python on PATH (required by the context server)"
		return check
	}

	out, err := d.PythonVersion(ctx, bin)
	if err != nil {
		check.Status = StatusWarn
		check.Detail = fmt.Sprintf("%s: could not determine version: %v", bin, err)
		return check
	}
	version := parsePythonVersion(out)
	if version == "" {
		check.Status = StatusWarn
		check.Detail = fmt.Sprintf("%s: unrecognized version output %q", bin, out)
		return check
	}
	if semver.Compare(version, minPython) < 0 {
		check.Status = StatusFail
		check.Detail = fmt.Sprintf("%s is %s, need %s or newer", bin, version, minPython)
		return check
	}
	check.Detail = fmt.Sprintf("%s (%s)", bin, version)
	return check
}

func (d *Doctor) checkWritable() Check {
	check := Check{Name: "project dir writable"}
	if err := writable(d.Dir); err != nil {
		check.Status = StatusFail
		check.Detail = fmt.Sprintf("%s: %v", d.Dir, err)
		return check
	}
	check.Detail = d.Dir
	return check
}

// parsePythonVersion turns "Python 3.11.4" into the semver form "v3.11.4".
func parsePythonVersion(out string) string {
	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "Python" {
		return ""
	}
	v := "v" + fields[1]
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

package doctor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidelith/side/internal/envfile"
)

func testDoctor(t *testing.T, dashboardURL string) *Doctor {
	t.Helper()
	d := New(t.TempDir(), dashboardURL)
	d.LookPath = func(file string) (string, error) {
		if file == "python3" {
			return "/usr/bin/python3", nil
		}
		return "", errors.New("not found")
	}
	d.PythonVersion = func(context.Context, string) (string, error) {
		return "Python 3.11.4", nil
	}
	return d
}

func byName(t *testing.T, checks []Check, name string) Check {
	t.Helper()
	for _, c := range checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no check named %q", name)
	return Check{}
}

func TestRunAllHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	d := testDoctor(t, srv.URL)
	require.NoError(t, envfile.Set(d.envPath(), EnvKeyName, "sk_pro_0123456789abcdef0123456789abcdef"))

	checks := d.Run(context.Background())
	require.Len(t, checks, 5)
	for _, c := range checks {
		assert.Equal(t, StatusPass, c.Status, "%s: %s", c.Name, c.Detail)
	}
	assert.Contains(t, byName(t, checks, "api key").Detail, "pro tier")
}

func TestMissingEnvFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	d := testDoctor(t, srv.URL)
	checks := d.Run(context.Background())
	assert.Equal(t, StatusFail, byName(t, checks, ".env file").Status)
	assert.Equal(t, StatusFail, byName(t, checks, "api key").Status)
}

func TestMalformedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	d := testDoctor(t, srv.URL)
	require.NoError(t, envfile.Set(d.envPath(), EnvKeyName, "not-a-key"))

	check := byName(t, d.Run(context.Background()), "api key")
	assert.Equal(t, StatusFail, check.Status)
	assert.Contains(t, check.Detail, "malformed")
}

func TestUnreachableDashboardWarnsOnly(t *testing.T) {
	d := testDoctor(t, "http://127.0.0.1:1")
	check := byName(t, d.Run(context.Background()), "dashboard reachable")
	assert.Equal(t, StatusWarn, check.Status)
}

func TestMissingPython(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	d := testDoctor(t, srv.URL)
	d.LookPath = func(string) (string, error) { return "", errors.New("not found") }

	check := byName(t, d.Run(context.Background()), "python interpreter")
	assert.Equal(t, StatusFail, check.Status)
}

func TestOldPython(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	d := testDoctor(t, srv.URL)
	d.PythonVersion = func(context.Context, string) (string, error) {
		return "Python 3.8.10", nil
	}

	check := byName(t, d.Run(context.Background()), "python interpreter")
	assert.Equal(t, StatusFail, check.Status)
	assert.Contains(t, check.Detail, "v3.10")
}

func TestParsePythonVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Python 3.11.4", "v3.11.4"},
		{"Python 3.10", "v3.10"},
		{"python weird", ""},
		{"", ""},
		{"Python banana", ""},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, parsePythonVersion(tc.input))
		})
	}
}

package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/teemow/calhelper/internal/config"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd(&options{})

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{
		"auth", "delete-test-events", "extract-flight", "recent-messages",
		"schedule", "schedule-during", "schedule-flight", "today", "version",
	} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "account", "log-level", "log-format", "metrics-textfile"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
	assert.Equal(t, "g", root.PersistentFlags().Lookup("account").Shorthand)
}

func TestVersionCmd(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	root := newRootCmd(&options{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "calhelper version 1.2.3\n", out.String())
}

func TestPrintError(t *testing.T) {
	var out bytes.Buffer
	printError(&out, &googleapi.Error{Code: http.StatusForbidden, Message: "Rate Limit Exceeded"})
	assert.Equal(t, "Google API error: 403 Rate Limit Exceeded\n", out.String())

	out.Reset()
	printError(&out, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", out.String())
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{" y \n", true},
		{"y", true},
		{"n\n", false},
		{"yes\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := confirm(strings.NewReader(tt.input), &out, "Proceed?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Proceed? (y/n): ", out.String())
	}
}

func TestSession_MissingGoogleCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.opts.googleOptions = nil

	_, _, err := env.run("", "today")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestSession_InvalidAccountFlag(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("", "today", "--account", "../evil")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid account name")
}

func TestSession_JSONLogs(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, err := env.run("", "today", "--log-level", "debug", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"command finished"`)
	assert.Contains(t, stderr, `"command":"today"`)
}

func TestSession_MetricsTextfile(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("INSTRUMENTATION_ENABLED", "true")
	t.Setenv("METRICS_EXPORTER", "prometheus")
	t.Setenv("TRACING_EXPORTER", "none")
	path := filepath.Join(env.dir, "calhelper.prom")

	_, _, err := env.run("", "today", "--metrics-textfile", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "command_invocations")
	assert.Contains(t, string(data), `command="today"`)
	assert.Contains(t, string(data), "google_api_operations")
}

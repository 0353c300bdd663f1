package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const testMe = "me@example.com"

// fakeGoogle serves the Calendar and Gmail endpoints the commands use.
type fakeGoogle struct {
	t *testing.T

	mu       sync.Mutex
	events   []*calendarapi.Event
	busy     map[string]*calendarapi.FreeBusyCalendar
	messages map[string]map[string]any
	raw      map[string]string

	created []*calendarapi.Event
	deleted []string
	queries []string
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	return &fakeGoogle{
		t:        t,
		busy:     map[string]*calendarapi.FreeBusyCalendar{},
		messages: map[string]map[string]any{},
		raw:      map[string]string{},
	}
}

func (f *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/calendars/primary"):
		f.writeJSON(w, map[string]any{"id": testMe})

	case r.Method == http.MethodGet && strings.HasSuffix(path, "/calendars/primary/events"):
		f.queries = append(f.queries, r.URL.RawQuery)
		f.writeJSON(w, &calendarapi.Events{Items: f.events})

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/calendars/primary/events"):
		var ev calendarapi.Event
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&ev))
		f.queries = append(f.queries, r.URL.RawQuery)
		ev.Id = fmt.Sprintf("evt-%d", len(f.created)+1)
		f.created = append(f.created, &ev)
		f.writeJSON(w, &ev)

	case r.Method == http.MethodDelete && strings.Contains(path, "/calendars/primary/events/"):
		f.deleted = append(f.deleted, path[strings.LastIndex(path, "/")+1:])
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/freeBusy"):
		var req calendarapi.FreeBusyRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		calendars := map[string]calendarapi.FreeBusyCalendar{}
		for _, item := range req.Items {
			if cal, ok := f.busy[item.Id]; ok {
				calendars[item.Id] = *cal
			}
		}
		f.writeJSON(w, map[string]any{"calendars": calendars})

	case r.Method == http.MethodGet && strings.HasSuffix(path, "/users/me/messages"):
		f.queries = append(f.queries, r.URL.Query().Get("q"))
		refs := make([]map[string]string, 0, len(f.messages))
		for _, id := range sortedKeys(f.messages) {
			refs = append(refs, map[string]string{"id": id, "threadId": "t-" + id})
		}
		f.writeJSON(w, map[string]any{"messages": refs})

	case r.Method == http.MethodGet && strings.Contains(path, "/users/me/messages/"):
		id := path[strings.LastIndex(path, "/")+1:]
		if r.URL.Query().Get("format") == "raw" {
			f.writeJSON(w, map[string]any{"id": id, "raw": encodeRaw(f.raw[id])})
			return
		}
		f.writeJSON(w, f.messages[id])

	default:
		f.t.Errorf("unexpected request %s %s", r.Method, path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeGoogle) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	require.NoError(f.t, json.NewEncoder(w).Encode(v))
}

func sortedKeys(m map[string]map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

func encodeRaw(raw string) string {
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// defaultLLMConfig names a model tiktoken does not know, so token counts
// are estimated offline.
const defaultLLMConfig = "llm:\n  openai:\n    model: test-model\n"

// testEnv is an isolated configuration plus a fake Google backend.
type testEnv struct {
	t       *testing.T
	dir     string
	cfgPath string
	google  *fakeGoogle
	opts    *options
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	for _, key := range []string{
		"CALHELPER_ACCOUNT", "CALHELPER_CALENDAR", "CALHELPER_TIMEZONE", "CALHELPER_TOKEN_DIR",
		"CALHELPER_LLM_PROVIDER", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_TOKEN_LIMIT",
		"ANTHROPIC_API_KEY", "ANTHROPIC_BASE_URL", "GEMINI_API_KEY",
		"LOG_LEVEL", "LOG_FORMAT", "METRICS_TEXTFILE",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("INSTRUMENTATION_ENABLED", "false")

	dir := t.TempDir()
	env := &testEnv{
		t:       t,
		dir:     dir,
		cfgPath: filepath.Join(dir, "config.yaml"),
		google:  newFakeGoogle(t),
	}
	env.writeConfig(defaultLLMConfig)

	srv := httptest.NewServer(env.google)
	t.Cleanup(srv.Close)

	env.opts = &options{
		googleOptions: []option.ClientOption{
			option.WithEndpoint(srv.URL + "/"),
			option.WithHTTPClient(srv.Client()),
		},
		now: func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	return env
}

// writeConfig writes the base test config followed by extra YAML.
func (e *testEnv) writeConfig(extra string) {
	e.t.Helper()
	base := fmt.Sprintf(`timezone: UTC
flight_cache_file: %s
google:
  token_dir: %s
`, filepath.Join(e.dir, "flight_details.json"), filepath.Join(e.dir, "tokens"))
	require.NoError(e.t, os.WriteFile(e.cfgPath, []byte(base+extra), 0o600))
}

// run executes the command line and returns stdout and stderr.
func (e *testEnv) run(stdin string, args ...string) (string, string, error) {
	e.t.Helper()

	root := newRootCmd(e.opts)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--config", e.cfgPath))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photogrid/internal/eventbus"
	"photogrid/internal/pixabay"
)

const hitsBody = `{"total":2,"totalHits":2,"hits":[
	{"id":1,"webformatURL":"https://cdn.example/1.jpg","tags":"cat"},
	{"id":2,"webformatURL":"https://cdn.example/2.jpg","tags":"kitten"}]}`

// fakeAPI records the terms it was asked for
type fakeAPI struct {
	mu     sync.Mutex
	terms  []string
	status int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.terms = append(f.terms, r.URL.Query().Get("q"))
	status := f.status
	f.mu.Unlock()

	if status != 0 {
		http.Error(w, "boom", status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, hitsBody)
}

func (f *fakeAPI) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.terms...)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"PIXABAY_API_KEY", "PHOTOGRID_BASE_URL", "PHOTOGRID_CACHE", "PHOTOGRID_LOG_FILE", "PHOTOGRID_LOG_LEVEL"} {
		t.Setenv(name, "")
	}
}

// writeConfig creates a config file pointing at baseURL
func writeConfig(t *testing.T, apiKey, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	body := fmt.Sprintf(`
api_key = %q
base_url = %q
debounce_ms = 500
requests_per_minute = 0

[cache]
kind = "none"

[log]
file = ""
level = "warn"
`, apiKey, baseURL)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

// run executes the command tree and returns stdout
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func TestSearchOnce(t *testing.T) {
	clearEnv(t)
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, err := run(t, "", "--config", writeConfig(t, "test-key", srv.URL), "search", "--once", "cats & dogs")
	require.NoError(t, err)

	assert.Equal(t, []string{"cats & dogs"}, api.seen())
	assert.Contains(t, out, `"cats & dogs": 2 photos`)
	assert.Contains(t, out, "https://cdn.example/1.jpg")
	assert.Contains(t, out, "kitten")
}

func TestSearchStdinIsDebounced(t *testing.T) {
	clearEnv(t)
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, err := run(t, "c\nca\ncat\ncats\n", "--config", writeConfig(t, "test-key", srv.URL), "search")
	require.NoError(t, err)

	assert.Equal(t, []string{"cats"}, api.seen(), "edits typed together are one search")
	assert.Contains(t, out, `"cats": 2 photos`)
}

func TestSearchJSONAndLimit(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()
	cfg := writeConfig(t, "test-key", srv.URL)

	out, err := run(t, "", "--config", cfg, "search", "--once", "cats", "--json")
	require.NoError(t, err)
	var res jsonResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "cats", res.Term)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 2, res.Hits[1].ID)

	out, err = run(t, "", "--config", cfg, "search", "--once", "cats", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "... 1 more")
	assert.NotContains(t, out, "2.jpg")
}

func TestSearchOnceFailure(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(&fakeAPI{status: http.StatusInternalServerError})
	defer srv.Close()

	out, err := run(t, "", "--config", writeConfig(t, "test-key", srv.URL), "search", "--once", "cats")
	require.Error(t, err)
	assert.ErrorIs(t, err, pixabay.ErrStatus)
	assert.Empty(t, out)
}

func TestSearchBlankOnceIsNotFetched(t *testing.T) {
	clearEnv(t)
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, err := run(t, "", "--config", writeConfig(t, "test-key", srv.URL), "search", "--once", "   ")
	require.NoError(t, err)
	assert.Empty(t, api.seen())
	assert.Empty(t, out)
}

func TestMissingAPIKey(t *testing.T) {
	clearEnv(t)
	_, err := run(t, "", "--config", writeConfig(t, "", "https://pixabay.com/api/"), "search", "--once", "cats")
	assert.ErrorIs(t, err, pixabay.ErrMissingAPIKey)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()
	t.Setenv("PIXABAY_API_KEY", "from-env")

	_, err := run(t, "", "--config", writeConfig(t, "", srv.URL), "search", "--once", "cats")
	require.NoError(t, err)
	assert.Len(t, api.seen(), 1)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	clearEnv(t)
	_, err := run(t, "", "--config", writeConfig(t, "k", "ftp://example.com"), "search", "--once", "cats")
	assert.Error(t, err)
}

func TestLayoutsCommand(t *testing.T) {
	out, err := run(t, "", "layouts", "nested", "--width", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "== Nested Groups ==")
	assert.Contains(t, out, "Top Channel")
	assert.NotContains(t, out, "== Grid ==")

	out, err = run(t, "", "layouts")
	require.NoError(t, err)
	for _, title := range []string{"== Grid ==", "== Multiple Sections ==", "== Nested Groups =="} {
		assert.Contains(t, out, title)
	}

	_, err = run(t, "", "layouts", "spiral")
	assert.ErrorContains(t, err, "grid, sections, nested")

	_, err = run(t, "", "layouts", "--width", "0")
	assert.Error(t, err)
}

func TestConfigInitShowPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := run(t, "", "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = run(t, "", "--config", path, "config", "init")
	assert.ErrorContains(t, err, "already exists")
	_, err = run(t, "", "--config", path, "config", "init", "--force")
	assert.NoError(t, err)

	t.Setenv("PIXABAY_API_KEY", "abcdefgh")
	out, err = run(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "abcd****")
	assert.NotContains(t, out, "abcdefgh")
	assert.Contains(t, out, `debounce_ms = 1000`)

	out, err = run(t, "", "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestLoadConfigPublishesOnBus(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "test-key", "https://pixabay.com/api/")

	bus := eventbus.New(zerolog.Nop())
	defer bus.Close()
	loaded := make(chan string, 1)
	unsubscribe := bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		loaded <- e.(eventbus.ConfigLoadedEvent).Path
	})
	defer unsubscribe()

	cfg, svc, err := loadConfig(&Options{ConfigPath: path, EnvFile: filepath.Join(t.TempDir(), "missing.env")}, bus)
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.APIKey)

	select {
	case got := <-loaded:
		assert.Equal(t, svc.Path(), got)
	case <-time.After(time.Second):
		t.Fatal("no ConfigLoaded event")
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", maskKey(""))
	assert.Equal(t, "****", maskKey("abc"))
	assert.Equal(t, "abcd****", maskKey("abcdef"))
}

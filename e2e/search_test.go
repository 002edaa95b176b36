//go:build e2e && unix

package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeAPI answers every term with two photos tagged after the term. Terms in
// slow are answered after a delay unless the client gives up first.
type fakeAPI struct {
	mu    sync.Mutex
	terms []string
	slow  map[string]time.Duration
	fail  map[string]bool
}

func newFakeAPI(t *testing.T) (*fakeAPI, string) {
	f := &fakeAPI{slow: map[string]time.Duration{}, fail: map[string]bool{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv.URL
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	f.mu.Lock()
	f.terms = append(f.terms, term)
	delay := f.slow[term]
	fail := f.fail[term]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if fail {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
		return
	}

	tag := strings.ReplaceAll(term, " ", "-")
	fmt.Fprintf(w, `{"total":2,"totalHits":2,"hits":[
		{"id":101,"webformatURL":"http://127.0.0.1/1.jpg","tags":"%s-one"},
		{"id":102,"webformatURL":"http://127.0.0.1/2.jpg","tags":"%s-two"}]}`, tag, tag)
}

func (f *fakeAPI) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.terms...)
}

func TestTypingSearchesOnceTypingPauses(t *testing.T) {
	t.Parallel()
	api, url := newFakeAPI(t)

	tf := NewTUITest(t)
	defer tf.Cleanup()
	defer tf.DumpTailOnFail(t, 4096)
	tf.UseAPI(url)

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready(), "UI should render")

	require.NoError(t, tf.Type("mountains"))
	require.True(t, tf.SeePlain(`2 photos for "mountains"`), "results should arrive")
	require.True(t, tf.SeePlain("mountains-one"))
	require.Equal(t, []string{"mountains"}, api.seen(), "one request per settled term")

	require.NoError(t, tf.SendCtrlC())
	require.NoError(t, tf.WaitExit(3*time.Second))
}

func TestSlowOlderAnswerIsDiscarded(t *testing.T) {
	t.Parallel()
	api, url := newFakeAPI(t)
	api.slow["cat"] = 3 * time.Second

	tf := NewTUITest(t)
	defer tf.Cleanup()
	defer tf.DumpTailOnFail(t, 4096)
	tf.UseAPI(url)

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready())

	require.NoError(t, tf.Type("cat"))
	require.True(t, tf.WaitFor(func(string) bool { return len(api.seen()) == 1 }, 3*time.Second), "first term should be sent")
	require.NoError(t, tf.Type("s"))

	require.True(t, tf.SeePlain(`2 photos for "cats"`))
	require.True(t, tf.SeePlain("1 discarded"), "the superseded answer is counted as discarded")
	require.False(t, tf.OutputContainsPlain(`for "cat"`, 500*time.Millisecond))
}

func TestFailureThenRecovery(t *testing.T) {
	t.Parallel()
	api, url := newFakeAPI(t)
	api.fail["broken"] = true

	tf := NewTUITest(t)
	defer tf.Cleanup()
	defer tf.DumpTailOnFail(t, 4096)
	tf.UseAPI(url)

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready())

	require.NoError(t, tf.Type("broken"))
	require.True(t, tf.SeePlain("search failed"), "failure should be reported")

	require.NoError(t, tf.SendKeys(KeyCtrlU))
	require.NoError(t, tf.Type("ok"))
	require.True(t, tf.SeePlain(`2 photos for "ok"`))
}

func TestPreviewAndMosaic(t *testing.T) {
	t.Parallel()
	_, url := newFakeAPI(t)

	tf := NewTUITest(t)
	defer tf.Cleanup()
	defer tf.DumpTailOnFail(t, 4096)
	tf.UseAPI(url)

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready())
	require.NoError(t, tf.Type("sea"))
	require.True(t, tf.SeePlain(`2 photos for "sea"`))

	require.NoError(t, tf.SendKeys(KeyDown))
	require.NoError(t, tf.SendKeys(KeyEnter))
	require.True(t, tf.SeePlain("Photo #102"), "preview shows the selected photo")

	require.NoError(t, tf.SendKeys(KeyEsc))
	require.NoError(t, tf.SendKeys(KeyCtrlG))
	require.True(t, tf.SeePlain("101"), "mosaic labels tiles with photo ids")
}

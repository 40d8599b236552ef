package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jinkyeom/sciencestop/internal/apperr"
	"github.com/jinkyeom/sciencestop/internal/sse"
	"github.com/jinkyeom/sciencestop/internal/testutil"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	return cfg
}

func TestCheck_ReportsPosts(t *testing.T) {
	_, provider := testutil.TestContent(t, map[string]string{
		"a.md": testutil.Article("A", "2025-02-01", "## One\n\n[00:10] start\n", "categories: [space]"),
		"b.md": testutil.Article("B", "not a date", "Body.\n", "categories: [astrology]"),
	})

	var out bytes.Buffer
	results, err := Check(context.Background(), WithConfig(testConfig(t)), WithProvider(provider), WithOutput(&out))
	if err != nil {
		t.Fatalf("Check: %v\n%s", err, out.String())
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Slug != "a" || results[0].Headings != 1 || results[0].Timestamps != 1 {
		t.Errorf("a = %+v", results[0])
	}
	if len(results[1].Warnings) != 2 {
		t.Errorf("b warnings = %v", results[1].Warnings)
	}

	report := out.String()
	for _, want := range []string{"ok   a (1 headings, 1 timestamps)", `unknown category "astrology"`, "2 posts, 0 failed"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestCheck_StrictEvenWhenConfiguredToSkip(t *testing.T) {
	_, provider := testutil.TestContent(t, map[string]string{
		"good.md":   testutil.Article("Good", "2025-01-01", "ok\n"),
		"broken.md": "---\ntitle: [unclosed\n---\nbody\n",
	})
	cfg := testConfig(t)
	cfg.Content.SkipInvalid = true

	var out bytes.Buffer
	_, err := Check(context.Background(), WithConfig(cfg), WithProvider(provider), WithOutput(&out))
	if !errors.Is(err, apperr.ErrInvalidFrontMatter) {
		t.Fatalf("err = %v, want ErrInvalidFrontMatter", err)
	}
	if !strings.HasPrefix(out.String(), "FAIL load:") {
		t.Errorf("report = %q", out.String())
	}
	if !cfg.Content.SkipInvalid {
		t.Error("Check must not modify the caller's config")
	}
}

func TestBoot_SkipInvalid(t *testing.T) {
	_, provider := testutil.TestContent(t, map[string]string{
		"good.md":   testutil.Article("Good", "2025-01-01", "ok\n"),
		"broken.md": "---\ntitle: [unclosed\n---\nbody\n",
	})
	cfg := testConfig(t)

	app, _ := newApplication([]Option{WithConfig(cfg), WithProvider(provider), WithLogOutput(io.Discard)})
	if _, err := app.boot(context.Background(), false); err == nil {
		t.Fatal("strict boot should fail")
	}

	cfg.Content.SkipInvalid = true
	rt, err := app.boot(context.Background(), false)
	if err != nil {
		t.Fatalf("relaxed boot: %v", err)
	}
	defer rt.Close()
	if n := rt.store.Current().Len(); n != 1 {
		t.Errorf("documents = %d, want 1", n)
	}
}

func TestHandler_HealthAndAPI(t *testing.T) {
	_, provider := testutil.TestContent(t, map[string]string{
		"a.md": testutil.Article("A", "2025-02-01", "Gravity bends light.\n"),
		"b.md": testutil.Article("B", "2025-01-01", "Body.\n"),
	})
	app, err := newApplication([]Option{WithConfig(testConfig(t)), WithProvider(provider), WithLogOutput(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	rt, err := app.boot(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	broker := sse.NewBroker(time.Second)
	defer broker.Close()
	h := rt.handler(broker)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	if w := get("/health/live"); w.Code != http.StatusOK {
		t.Errorf("live = %d", w.Code)
	}

	w := get("/health/ready")
	if w.Code != http.StatusOK {
		t.Fatalf("ready = %d", w.Code)
	}
	var ready map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &ready)
	if ready["documents"] != float64(2) {
		t.Errorf("ready = %v", ready)
	}

	if w := get("/api/posts/a"); w.Code != http.StatusOK {
		t.Errorf("post = %d", w.Code)
	}
	w = get("/api/search?q=Gravity")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"slug":"a"`) {
		t.Errorf("search = %d %s", w.Code, w.Body.String())
	}
}

func TestHandler_ReadyOnlyAfterLoad(t *testing.T) {
	_, provider := testutil.TestContent(t, map[string]string{
		"a.md": testutil.Article("A", "2025-02-01", "Body.\n"),
	})
	app, err := newApplication([]Option{WithConfig(testConfig(t)), WithProvider(provider), WithLogOutput(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	rt, err := app.prepare(true)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	broker := sse.NewBroker(time.Second)
	defer broker.Close()
	h := rt.handler(broker)
	get := func(path string) int {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	if code := get("/health/live"); code != http.StatusOK {
		t.Errorf("live before load = %d", code)
	}
	if code := get("/health/ready"); code != http.StatusServiceUnavailable {
		t.Errorf("ready before load = %d, want 503", code)
	}
	if code := get("/api/posts"); code != http.StatusServiceUnavailable {
		t.Errorf("posts before load = %d, want 503", code)
	}

	if err := rt.load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if code := get("/health/ready"); code != http.StatusOK {
		t.Errorf("ready after load = %d", code)
	}
	if code := get("/api/posts"); code != http.StatusOK {
		t.Errorf("posts after load = %d", code)
	}
}

func TestRun_FailedLoadStopsServer(t *testing.T) {
	_, provider := testutil.TestContent(t, map[string]string{
		"broken.md": "---\ntitle: [unclosed\n---\nbody\n",
	})
	cfg := testConfig(t)
	cfg.App.HTTP.Port = 0

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), WithConfig(cfg), WithProvider(provider), WithLogOutput(io.Discard))
	}()
	select {
	case err := <-done:
		if !errors.Is(err, apperr.ErrInvalidFrontMatter) {
			t.Errorf("err = %v, want ErrInvalidFrontMatter", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not stop after a failed load")
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("Run without config should fail")
	}
}

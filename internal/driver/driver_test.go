package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"hscript/internal/cond"
	"hscript/internal/diag"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func codes(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"ok.html":  `#include "_nav.html" <p class="a">hi</p>`,
		"bad.html": `<p class="a>`,
	})

	res, err := Parse(filepath.Join(dir, "ok.html"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 0 || res.Program == nil || len(res.Program.Decls) != 2 {
		t.Fatalf("unexpected result: bag=%v decls=%v", codes(res.Bag), res.Program)
	}
	if len(res.Timing.Phases) != 2 {
		t.Errorf("expected load and parse phases, got %+v", res.Timing.Phases)
	}

	res, err = Parse(filepath.Join(dir, "bad.html"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"LEX1001"}, codes(res.Bag)); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
	if res.Program != nil {
		t.Errorf("program must be nil after a fatal error")
	}

	if _, err := Parse(filepath.Join(dir, "missing.html"), Options{}); err == nil {
		t.Errorf("expected load error")
	}
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.html":      `<a href="/">home</a>`,
		"sub/b.html":  `<b>`,
		"sub/c.html":  `<c/>`,
		"skip.txt":    `not a template`,
		"sub/_d.html": `#end`,
	})

	_, results, err := ParseDir(context.Background(), dir, Options{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	got := map[string][]string{}
	for _, r := range results {
		rel, _ := filepath.Rel(dir, r.Path)
		got[filepath.ToSlash(rel)] = codes(r.Bag)
	}
	want := map[string][]string{
		"a.html":      nil,
		"sub/b.html":  {"SYN2008"},
		"sub/c.html":  nil,
		"sub/_d.html": nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseDir mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderIncludesAndConditions(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"index.html": `#include "_nav.html"
#if user == "admin"
  <p>admin</p>
#elif user
  <p>user</p>
#else
  <p>guest</p>
#end
#include "footer.html"`,
		"_nav.html":          `<nav><a href="/">home</a></nav>`,
		"shared/footer.html": `<footer/>`,
	})

	tests := []struct {
		vars cond.Vars
		want string
	}{
		{cond.Vars{"user": "admin"}, `<nav><a href="/">home</a></nav><p>admin</p><footer/>`},
		{cond.Vars{"user": "bob"}, `<nav><a href="/">home</a></nav><p>user</p><footer/>`},
		{nil, `<nav><a href="/">home</a></nav><p>guest</p><footer/>`},
	}
	for _, tt := range tests {
		opts := Options{Vars: tt.vars, IncludeDirs: []string{filepath.Join(dir, "shared")}}
		res, err := Render(context.Background(), filepath.Join(dir, "index.html"), opts)
		if err != nil {
			t.Fatal(err)
		}
		if res.Bag.Len() != 0 {
			t.Fatalf("vars %v: unexpected diagnostics %v", tt.vars, codes(res.Bag))
		}
		if got := string(res.Output); got != tt.want {
			t.Errorf("vars %v:\n got %s\nwant %s", tt.vars, got, tt.want)
		}
		if len(res.Includes) != 2 {
			t.Errorf("includes = %v", res.Includes)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"cycle.html":   `#include "_loop.html"`,
		"_loop.html":   `#include "cycle.html"`,
		"missing.html": `#include "nope.html"`,
		"open.html":    `#if a <p/>`,
		"unknown.html": `#bogus "x"`,
		"badinc.html":  `#include "_broken.html"`,
		"_broken.html": `<p`,
	})

	tests := []struct {
		file string
		want string
	}{
		{"cycle.html", "DIR3003"},
		{"missing.html", "DIR3002"},
		{"open.html", "DIR3005"},
		{"unknown.html", "DIR3001"},
		{"badinc.html", "SYN2004"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			res, err := Render(context.Background(), filepath.Join(dir, tt.file), Options{})
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]string{tt.want}, codes(res.Bag)); diff != "" {
				t.Errorf("codes mismatch (-want +got):\n%s", diff)
			}
			if res.Output != nil {
				t.Errorf("output must be nil on error, got %q", res.Output)
			}
		})
	}
}

func TestRenderCache(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"page.html":  `#include "_part.html" <p>body</p>`,
		"_part.html": `<h1>v1</h1>`,
	})
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache, Vars: cond.Vars{"n": 1}}
	page := filepath.Join(dir, "page.html")

	first, err := Render(context.Background(), page, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatalf("first render must miss the cache")
	}
	second, err := Render(context.Background(), page, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || string(second.Output) != string(first.Output) {
		t.Fatalf("expected identical cache hit, got cached=%v %q", second.Cached, second.Output)
	}

	other := opts
	other.Vars = cond.Vars{"n": 2}
	if res, _ := Render(context.Background(), page, other); res.Cached {
		t.Errorf("different vars must not hit the cache")
	}

	writeFiles(t, dir, map[string]string{"_part.html": `<h1>v2</h1>`})
	third, err := Render(context.Background(), page, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Errorf("changed include must invalidate the cache")
	}
	if got, want := string(third.Output), `<h1>v2</h1><p>body</p>`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if res, _ := Render(context.Background(), page, opts); res.Cached {
		t.Errorf("DropAll must empty the cache")
	}
}

func TestRenderDir(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"index.html":     `#include "_nav.html" <main>home</main>`,
		"blog/post.html": `#include "../_nav.html" <article>post</article>`,
		"_nav.html":      `<nav/>`,
		"broken.html":    `<p>`,
	})

	results, err := RenderDir(context.Background(), dir, out, Options{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 roots (partials skipped), got %d", len(results))
	}

	for name, want := range map[string]string{
		"index.html":     `<nav/><main>home</main>`,
		"blog/post.html": `<nav/><article>post</article>`,
	} {
		data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", name, data, want)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "broken.html")); !os.IsNotExist(err) {
		t.Errorf("broken template must not be written, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "_nav.html")); !os.IsNotExist(err) {
		t.Errorf("partials must not be written, stat err = %v", err)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// final возвращает последний статус по каждому файлу.
func (s *recordingSink) final() map[string]Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Status)
	for _, ev := range s.events {
		out[filepath.Base(ev.File)] = ev.Status
	}
	return out
}

func TestRenderDirProgress(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"index.html":  `#include "_nav.html" <main>home</main>`,
		"_nav.html":   `<nav/>`,
		"broken.html": `<p>`,
	})
	roots, err := ListRoots(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "broken.html"), filepath.Join(dir, "index.html")}, roots); diff != "" {
		t.Fatalf("roots mismatch (-want +got):\n%s", diff)
	}

	sink := &recordingSink{}
	if _, err := RenderDir(context.Background(), dir, t.TempDir(), Options{Progress: sink}); err != nil {
		t.Fatal(err)
	}
	want := map[string]Status{"index.html": StatusDone, "broken.html": StatusError}
	if diff := cmp.Diff(want, sink.final()); diff != "" {
		t.Fatalf("final statuses mismatch (-want +got):\n%s", diff)
	}
	queued := 0
	for _, ev := range sink.events {
		if ev.Status == StatusQueued {
			queued++
		}
	}
	if queued != 2 {
		t.Fatalf("queued events = %d, want 2", queued)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"list.html": "<ul>\n  <li>one\n  <li>two\n</ul>",
		"ok.html":   `<div class="x"><p>a</p><br/></div>`,
	})

	res, err := Check(context.Background(), filepath.Join(dir, "list.html"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Fatalf("check failed: %v\n%s", codes(res.Bag), res.Diff)
	}
	if res.Implicit != 2 {
		t.Errorf("Implicit = %d, want 2", res.Implicit)
	}
	if diff := cmp.Diff([]string{"RND5004", "RND5004"}, codes(res.Bag)); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}

	res, err = Check(context.Background(), filepath.Join(dir, "ok.html"), Options{Indent: "  "})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() || res.Bag.Len() != 0 {
		t.Fatalf("check failed: %v\n%s", codes(res.Bag), res.Diff)
	}
	if string(res.First) != string(res.Second) {
		t.Errorf("renders differ:\n%s\n%s", res.First, res.Second)
	}

	results, err := CheckDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if !r.OK() {
			t.Errorf("%s: %v", r.Path, codes(r.Bag))
		}
	}
}

func TestLineDiff(t *testing.T) {
	got := LineDiff("<a>\n<b>\n<c>\n", "<a>\n<B>\n<c>\n")
	want := "--- first\n+++ second\n <a>\n-<b>\n+<B>\n <c>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LineDiff mismatch (-want +got):\n%s", diff)
	}

	inline := LineDiff("<p>old</p>", "<p>new</p>")
	if !strings.Contains(inline, "[-old-]{+new+}") {
		t.Errorf("inline diff = %q", inline)
	}
}

func TestVarsDigest(t *testing.T) {
	a := varsDigest(cond.Vars{"x": "1", "y": true})
	b := varsDigest(cond.Vars{"y": true, "x": "1"})
	if a != b {
		t.Errorf("digest depends on map order")
	}
	if varsDigest(cond.Vars{"x": "1"}) == varsDigest(cond.Vars{"x": 1}) {
		t.Errorf("string and int values must hash differently")
	}
	if stringDigest("ab", "c") == stringDigest("a", "bc") {
		t.Errorf("stringDigest must separate parts")
	}
}

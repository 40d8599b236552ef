package render

import (
	"context"
	"strings"
	"testing"

	"github.com/jinkyeom/sciencestop/internal/models"
)

func render(t *testing.T, body string, opts ...Option) *Page {
	t.Helper()
	page, err := NewEngine(opts...).Render(context.Background(), body)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return page
}

func TestRewriteTimestamps(t *testing.T) {
	cases := map[string]string{
		"intro [04:32] outro":      "intro [04:32](#t272) outro",
		"[00:00]":                  "[00:00](#t0)",
		"[01:05] and [10:00]":      "[01:05](#t65) and [10:00](#t600)",
		"no markers [4:32] [104:32]": "no markers [4:32] [104:32]",
	}
	for in, want := range cases {
		if got := RewriteTimestamps(in); got != want {
			t.Errorf("RewriteTimestamps(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSeekSeconds(t *testing.T) {
	if n, ok := SeekSeconds("#t272"); !ok || n != 272 {
		t.Errorf("SeekSeconds(#t272) = %d, %v", n, ok)
	}
	for _, href := range []string{"#top", "#t", "t272", "#t27x"} {
		if _, ok := SeekSeconds(href); ok {
			t.Errorf("SeekSeconds(%q) should not match", href)
		}
	}
}

func TestStartsWithTimestamp(t *testing.T) {
	for _, s := range []string{"[04:32] intro", "04:32 intro", "\n 12:00"} {
		if !StartsWithTimestamp(s) {
			t.Errorf("%q should start with a timestamp", s)
		}
	}
	for _, s := range []string{"intro 04:32", "4:32 intro", ""} {
		if StartsWithTimestamp(s) {
			t.Errorf("%q should not start with a timestamp", s)
		}
	}
}

func TestRender_HeadingsAndTOC(t *testing.T) {
	page := render(t, "# Title\n\n## Hello World\n\ntext\n\n### Details\n\n#### Deep\n")

	want := []models.Heading{
		{ID: "hello-world", Text: "Hello World", Level: 2},
		{ID: "details", Text: "Details", Level: 3},
	}
	if len(page.TOC) != len(want) {
		t.Fatalf("toc = %+v", page.TOC)
	}
	for i := range want {
		if page.TOC[i] != want[i] {
			t.Errorf("toc[%d] = %+v, want %+v", i, page.TOC[i], want[i])
		}
	}
	if !strings.Contains(page.HTML, `<h2 id="hello-world"><a href="#hello-world" class="anchor" tabindex="-1" aria-hidden="true"></a>Hello World</h2>`) {
		t.Errorf("heading markup missing anchor:\n%s", page.HTML)
	}
}

func TestRender_DuplicateHeadingIDs(t *testing.T) {
	page := render(t, "## Notes\n\n## Notes\n\n### Notes\n")
	ids := []string{}
	for _, h := range page.TOC {
		ids = append(ids, h.ID)
	}
	if got := strings.Join(ids, ","); got != "notes,notes-1,notes-2" {
		t.Errorf("ids = %s", got)
	}
}

func TestRender_TOCTextFlattened(t *testing.T) {
	page := render(t, "## **Big** [Bang](https://example.com) `code`\n\n<h3>raw <b>bold</b></h3>\n")
	want := []models.Heading{
		{ID: "big-bang-code", Text: "Big Bang code", Level: 2},
		{ID: "raw-bold", Text: "raw bold", Level: 3},
	}
	if len(page.TOC) != len(want) {
		t.Fatalf("toc = %+v", page.TOC)
	}
	for i := range want {
		if page.TOC[i] != want[i] {
			t.Errorf("toc[%d] = %+v, want %+v", i, page.TOC[i], want[i])
		}
	}
}

func TestRender_MathHeadingID(t *testing.T) {
	page := render(t, "## Energy $E=mc^2$\n")
	if len(page.TOC) != 1 {
		t.Fatalf("toc = %+v", page.TOC)
	}
	if got := page.TOC[0]; got.ID != "energy-emc2" || got.Text != "Energy E=mc^2" {
		t.Errorf("toc[0] = %+v", got)
	}
}

func TestRender_KoreanHeading(t *testing.T) {
	page := render(t, "## 우주 달력\n\n본문\n")
	if len(page.TOC) != 1 || page.TOC[0].ID != "우주-달력" || page.TOC[0].Text != "우주 달력" {
		t.Errorf("toc = %+v", page.TOC)
	}
}

func TestRender_RawHeadingGetsID(t *testing.T) {
	page := render(t, "## Intro\n\n<h2>Raw Section</h2>\n\n## Raw Section\n")
	if len(page.TOC) != 3 {
		t.Fatalf("toc = %+v", page.TOC)
	}
	if page.TOC[1].ID == "" || page.TOC[1].ID == page.TOC[2].ID {
		t.Errorf("raw heading id not unique: %+v", page.TOC)
	}
}

func TestRender_HardWrapsAndGFM(t *testing.T) {
	page := render(t, "line one\nline two\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n")
	for _, want := range []string{"line one<br/>", "<table>", "<del>gone</del>"} {
		if !strings.Contains(page.HTML, want) {
			t.Errorf("html missing %q:\n%s", want, page.HTML)
		}
	}
}

func TestRender_SeekLinksAndTimestampItems(t *testing.T) {
	page := render(t, "- [00:10] start\n- [01:05] middle\n- plain item\n\nJump to [01:05] again.\n")

	if !strings.Contains(page.HTML, `<span role="link" tabindex="0" data-seek="10" class="seek">00:10</span>`) {
		t.Errorf("seek span missing:\n%s", page.HTML)
	}
	if got := strings.Count(page.HTML, `<li data-timestamp="" class="list-none">`); got != 2 {
		t.Errorf("timestamp items = %d, want 2:\n%s", got, page.HTML)
	}
	if strings.Contains(page.HTML, `href="#t`) {
		t.Error("seek anchors should be rewritten")
	}

	want := []models.Timestamp{{Label: "00:10", Seconds: 10}, {Label: "01:05", Seconds: 65}}
	if len(page.Timestamps) != len(want) {
		t.Fatalf("timestamps = %+v", page.Timestamps)
	}
	for i := range want {
		if page.Timestamps[i] != want[i] {
			t.Errorf("timestamps[%d] = %+v, want %+v", i, page.Timestamps[i], want[i])
		}
	}
}

func TestRender_TimestampInCodeIsLiteral(t *testing.T) {
	page := render(t, "```\n[04:32]\n```\n")
	if len(page.Timestamps) != 0 {
		t.Errorf("timestamps = %+v, want none", page.Timestamps)
	}
	if strings.Contains(page.HTML, "data-seek") {
		t.Error("code block must not contain seek links")
	}
}

func TestRender_VideoEmbed(t *testing.T) {
	page := render(t, `<iframe src="https://www.youtube.com/embed/abc"></iframe>`+"\n")
	if !strings.Contains(page.HTML, `src="https://www.youtube.com/embed/abc?enablejsapi=1&amp;cc_load_policy=1&amp;cc_lang_pref=ko&amp;hl=ko"`) {
		t.Errorf("iframe not decorated:\n%s", page.HTML)
	}

	page = render(t, `<iframe src="https://www.youtube.com/embed/abc?start=5"></iframe>`+"\n", WithCaptionLanguage("en"))
	if !strings.Contains(page.HTML, `start=5&amp;enablejsapi=1&amp;cc_load_policy=1&amp;cc_lang_pref=en&amp;hl=en`) {
		t.Errorf("iframe query not extended:\n%s", page.HTML)
	}

	page = render(t, `<iframe src="https://www.youtube.com/embed/abc?enablejsapi=1"></iframe>`+"\n")
	if strings.Contains(page.HTML, "cc_load_policy") {
		t.Error("already enabled iframe must be left alone")
	}
}

func TestRender_UnsafeMarkupIsLiteral(t *testing.T) {
	cases := map[string]string{
		"script":  "<script>alert(1)</script>\n",
		"style":   "<style>body{display:none}</style>\n",
		"object":  "<object data=\"x.swf\"></object>\n",
		"foreign": "<iframe src=\"https://evil.example/x\"></iframe>\n",
		"base":    "<base href=\"https://evil.example/\">\n",
		"meta":    "<meta http-equiv=\"refresh\" content=\"0;url=https://evil.example\">\n",
		"link":    "<link rel=\"stylesheet\" href=\"https://evil.example/x.css\">\n",
		"form":    "<form action=\"https://evil.example/\"><input name=\"pw\"></form>\n",
		"applet":  "<applet code=\"X.class\"></applet>\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			page := render(t, body)
			tag := strings.TrimPrefix(strings.Fields(body)[0], "<")
			tag = strings.SplitN(tag, ">", 2)[0]
			if strings.Contains(page.HTML, "<"+tag) {
				t.Errorf("%s survived as markup:\n%s", tag, page.HTML)
			}
			if !strings.Contains(page.HTML, "&lt;"+tag) {
				t.Errorf("%s should be shown as text:\n%s", tag, page.HTML)
			}
		})
	}
}

func TestRender_CustomAllowlist(t *testing.T) {
	page := render(t, `<iframe src="https://player.vimeo.com/video/1"></iframe>`+"\n", WithAllowedHosts("player.vimeo.com"))
	if !strings.Contains(page.HTML, "<iframe") {
		t.Errorf("allowed host dropped:\n%s", page.HTML)
	}
}

func TestRender_StripsHandlersAndScriptURLs(t *testing.T) {
	page := render(t, "<p onclick=\"steal()\">hi</p>\n\n[x](javascript:alert(1))\n\n<a href=\" JaVaScRiPt:alert(2)\">y</a>\n")
	for _, bad := range []string{"onclick", "javascript:", "JaVaScRiPt"} {
		if strings.Contains(page.HTML, bad) {
			t.Errorf("html still contains %q:\n%s", bad, page.HTML)
		}
	}
	if !strings.Contains(page.HTML, "hi") {
		t.Error("element content must be kept")
	}
}

func TestRender_StripsDataURLs(t *testing.T) {
	page := render(t, "<a href=\"data:text/html,<b>x</b>\">x</a>\n\n<img src=\" DATA:image/svg+xml,<svg/>\">\n")
	if strings.Contains(strings.ToLower(page.HTML), "data:") {
		t.Errorf("data URL survived:\n%s", page.HTML)
	}
	if !strings.Contains(page.HTML, "<a>x</a>") {
		t.Errorf("link text must be kept:\n%s", page.HTML)
	}
}

func TestRender_Math(t *testing.T) {
	page := render(t, "Energy $E=mc^2$ here.\n\n$$\n\\int_0^1 x\\,dx\n$$\n\nIt costs $5 and $6.\n")
	if !strings.Contains(page.HTML, `<span class="math math-inline">E=mc^2</span>`) {
		t.Errorf("inline math missing:\n%s", page.HTML)
	}
	if !strings.Contains(page.HTML, `<span class="math math-display">\int_0^1 x\,dx</span>`) {
		t.Errorf("display math missing:\n%s", page.HTML)
	}
	if strings.Count(page.HTML, "class=\"math") != 2 {
		t.Errorf("prices must not become math:\n%s", page.HTML)
	}
}

func TestRender_MathKeepsUnderscores(t *testing.T) {
	page := render(t, "$a_1 + b_1$\n")
	if strings.Contains(page.HTML, "<em>") {
		t.Errorf("math must not be parsed as emphasis:\n%s", page.HTML)
	}
}

func TestRender_EmptyBody(t *testing.T) {
	page := render(t, "")
	if page.HTML != "" || len(page.TOC) != 0 || len(page.Timestamps) != 0 {
		t.Errorf("page = %+v", page)
	}
	if page.TOC == nil || page.Timestamps == nil {
		t.Error("empty results should be non-nil slices")
	}
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewEngine().Render(ctx, "# x"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestExtractTOCFromHTML_DuplicateIDs(t *testing.T) {
	toc, err := ExtractTOCFromHTML(`<h2 id="x">A</h2><p>p</p><h3 id="x">B</h3><h2>C  D</h2><h4 id="y">no</h4>`)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.Heading{
		{ID: "x", Text: "A", Level: 2},
		{ID: "x-1", Text: "B", Level: 3},
		{ID: "c-d", Text: "C D", Level: 2},
	}
	if len(toc) != len(want) {
		t.Fatalf("toc = %+v", toc)
	}
	for i := range want {
		if toc[i] != want[i] {
			t.Errorf("toc[%d] = %+v, want %+v", i, toc[i], want[i])
		}
	}
}

func TestSlugger(t *testing.T) {
	s := NewSlugger()
	if got := s.Slug("Hello, World!"); got != "hello-world" {
		t.Errorf("Slug = %q", got)
	}
	if got := s.Slug("hello world"); got != "hello-world-1" {
		t.Errorf("second Slug = %q", got)
	}
	s.Put([]byte("intro"))
	if got := s.Slug("Intro"); got != "intro-1" {
		t.Errorf("Slug after Put = %q", got)
	}
	if got := s.Slug("?!"); got != "heading" {
		t.Errorf("Slug of punctuation = %q", got)
	}
	if !s.Taken("heading") {
		t.Error("heading should be taken")
	}
}

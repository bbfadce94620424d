package optimize

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"imgpath/config"
	"imgpath/markup"
	"imgpath/sidecar"
	"imgpath/variant"
)

const (
	indexHTML = "<html>\n<body>\n  <img src=\"img/a.jpg\" alt=\"a\">\n  <img src=\"img/logo.svg\">\n  <img src=\"img/missing.png\">\n</body>\n</html>\n"
	siteCSS   = ".hero { background: url(img/a.jpg) no-repeat; }\n.logo { background: url(\"img/logo.svg\"); }\n"
	pagePug   = "div.gallery\n  img(src=\"img/a.jpg\" alt=\"a\")\n"
)

// newProject lays out a project with dev asset root, one image with webp
// sibling and three sources, plus a copy under excluded prod directory.
func newProject(t *testing.T) string {
	t.Helper()
	project := t.TempDir()
	dev := filepath.Join(project, "dev")

	writeFile(t, filepath.Join(dev, "img", "a.jpg"), bytes.Repeat([]byte{0xFF}, 100))
	writeFile(t, filepath.Join(dev, "img", "webp", "a.webp"), bytes.Repeat([]byte{0x52}, 60))
	writeFile(t, filepath.Join(dev, "img", "logo.svg"), []byte("<svg/>"))
	writeFile(t, filepath.Join(dev, "index.html"), []byte(indexHTML))
	writeFile(t, filepath.Join(dev, "css", "site.css"), []byte(siteCSS))
	writeFile(t, filepath.Join(dev, "views", "page.pug"), []byte(pagePug))
	writeFile(t, filepath.Join(dev, "prod", "index.html"), []byte(indexHTML))
	return project
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	return cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func snapshot(t *testing.T, project string) map[string]string {
	t.Helper()
	dev := filepath.Join(project, "dev")
	return map[string]string{
		"index.html":      readFile(t, filepath.Join(dev, "index.html")),
		"css/site.css":    readFile(t, filepath.Join(dev, "css", "site.css")),
		"views/page.pug":  readFile(t, filepath.Join(dev, "views", "page.pug")),
		"prod/index.html": readFile(t, filepath.Join(dev, "prod", "index.html")),
	}
}

func TestOptimize_Inline(t *testing.T) {
	project := newProject(t)
	cfg := testConfig(t)

	summary, err := Optimize(context.Background(), project, cfg, Options{}, nil, testLogger(t))
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if summary.Found != 3 || summary.Updated != 3 || summary.Failed != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.Rewritten != 3 || summary.Unresolved != 1 {
		t.Errorf("unexpected reference stats: %+v", summary.Stats)
	}
	if summary.Saved != 120 {
		t.Errorf("Saved = %d, want 120", summary.Saved)
	}
	if len(summary.RunID) == 0 {
		t.Error("run id is empty")
	}

	got := snapshot(t, project)
	html := got["index.html"]
	for _, want := range []string{
		`src="img/webp/a.webp"`,
		`data-webp-src="img/webp/a.webp"`,
		`data-original-src="img/a.jpg"`,
		`data-avif-src="img/avif/a.avif"`,
		`data-original-ext="jpg"`,
		`<img src="img/logo.svg">`,
		`<img src="img/missing.png">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("index.html does not contain %s:\n%s", want, html)
		}
	}
	if strings.Contains(html, "data-image-hash") {
		t.Error("hash must not be embedded without sidecar")
	}

	wantCSS := ".hero { background: url(img/webp/a.webp) no-repeat; }\n.logo { background: url(\"img/logo.svg\"); }\n"
	if got["css/site.css"] != wantCSS {
		t.Errorf("site.css = %q, want %q", got["css/site.css"], wantCSS)
	}
	if strings.Contains(got["css/site.css"], "data-") {
		t.Error("stylesheets never get markers")
	}
	if pug := got["views/page.pug"]; !strings.Contains(pug, `src="img/webp/a.webp"`) || !strings.Contains(pug, `data-webp-priority="1"`) {
		t.Errorf("unexpected page.pug:\n%s", pug)
	}
	if got["prod/index.html"] != indexHTML {
		t.Error("excluded directory was modified")
	}
	if _, err := os.Stat(filepath.Join(project, "dev", "image-variants.json")); !os.IsNotExist(err) {
		t.Error("sidecar must not be written when disabled")
	}
}

func TestOptimize_Idempotent(t *testing.T) {
	project := newProject(t)
	cfg := testConfig(t)

	if _, err := Optimize(context.Background(), project, cfg, Options{}, nil, testLogger(t)); err != nil {
		t.Fatalf("first Optimize() error = %v", err)
	}
	first := snapshot(t, project)

	summary, err := Optimize(context.Background(), project, cfg, Options{}, nil, testLogger(t))
	if err != nil {
		t.Fatalf("second Optimize() error = %v", err)
	}
	if summary.Updated != 0 || summary.Unchanged != 3 {
		t.Errorf("second run changed files: %+v", summary)
	}
	for name, text := range snapshot(t, project) {
		if text != first[name] {
			t.Errorf("%s differs after second run:\n%s\nwas:\n%s", name, text, first[name])
		}
	}
}

func TestOptimize_DryRun(t *testing.T) {
	project := newProject(t)
	before := snapshot(t, project)

	cfg := testConfig(t)
	cfg.Annotate.Sidecar = true

	summary, err := Optimize(context.Background(), project, cfg, Options{DryRun: true}, nil, testLogger(t))
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if !summary.DryRun || summary.Updated != 3 || summary.Records != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if len(summary.Sidecar) != 0 {
		t.Errorf("sidecar reported as written: %s", summary.Sidecar)
	}
	for name, text := range snapshot(t, project) {
		if text != before[name] {
			t.Errorf("%s was modified in dry run", name)
		}
	}
	if _, err := os.Stat(filepath.Join(project, "dev", "image-variants.json")); !os.IsNotExist(err) {
		t.Error("sidecar written in dry run")
	}
}

func readSidecar(t *testing.T, path string) map[string]sidecar.Record {
	t.Helper()
	var records map[string]sidecar.Record
	if err := json.Unmarshal([]byte(readFile(t, path)), &records); err != nil {
		t.Fatalf("Failed to decode sidecar: %v", err)
	}
	return records
}

func TestOptimize_SidecarOnly(t *testing.T) {
	project := newProject(t)
	cfg := testConfig(t)
	cfg.Annotate.Inline = false
	cfg.Annotate.Sidecar = true
	cfg.Annotate.EmbedHash = true

	summary, err := Optimize(context.Background(), project, cfg, Options{}, nil, testLogger(t))
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}

	wantPath := filepath.Join(project, "dev", "image-variants.json")
	if summary.Sidecar != wantPath || summary.Records != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	html := readFile(t, filepath.Join(project, "dev", "index.html"))
	if !strings.Contains(html, `<img src="img/webp/a.webp" alt="a">`) {
		t.Errorf("visible path not updated:\n%s", html)
	}
	if strings.Contains(html, "data-") {
		t.Errorf("markers written in sidecar only mode:\n%s", html)
	}

	records := readSidecar(t, wantPath)
	rec, ok := records[sidecar.Key("img/a.jpg")]
	if len(records) != 1 || !ok {
		t.Fatalf("unexpected records: %+v", records)
	}
	if rec.Original != "img/a.jpg" || rec.OriginalExt != "jpg" || rec.Optimal != "img/webp/a.webp" {
		t.Errorf("unexpected record: %+v", rec)
	}
	avif := rec.Formats[variant.FormatAvif.String()]
	if avif.Exists || avif.Size != nil || avif.Priority != 3 || avif.Path != "img/avif/a.avif" {
		t.Errorf("unexpected avif entry: %+v", avif)
	}
	webp := rec.Formats[variant.FormatWebp.String()]
	if !webp.Exists || webp.Size == nil || *webp.Size != 60 || webp.Priority != 1 {
		t.Errorf("unexpected webp entry: %+v", webp)
	}

	// already optimal references trace back to the same original
	first := readFile(t, wantPath)
	summary, err = Optimize(context.Background(), project, cfg, Options{}, nil, testLogger(t))
	if err != nil {
		t.Fatalf("second Optimize() error = %v", err)
	}
	if summary.Updated != 0 {
		t.Errorf("second run changed files: %+v", summary)
	}
	if second := readFile(t, wantPath); second != first {
		t.Errorf("sidecar differs after second run:\n%s\nwas:\n%s", second, first)
	}
}

func TestOptimize_EmbedHash(t *testing.T) {
	project := newProject(t)
	cfg := testConfig(t)
	cfg.Annotate.Sidecar = true
	cfg.Annotate.EmbedHash = true
	cfg.Sidecar.Path = "meta/{{ .Project | lower }}.{{ .Format }}"
	cfg.Sidecar.Format = config.SidecarFormatYaml

	summary, err := Optimize(context.Background(), project, cfg, Options{}, nil, testLogger(t))
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}

	want := filepath.Join(project, "dev", "meta", strings.ToLower(filepath.Base(project))+".yaml")
	if summary.Sidecar != want {
		t.Errorf("Sidecar = %s, want %s", summary.Sidecar, want)
	}
	key := sidecar.Key("img/a.jpg")
	if data := readFile(t, want); !strings.HasPrefix(data, key+":") {
		t.Errorf("unexpected yaml sidecar:\n%s", data)
	}
	if html := readFile(t, filepath.Join(project, "dev", "index.html")); !strings.Contains(html, `data-image-hash="`+key+`"`) {
		t.Errorf("hash marker missing:\n%s", html)
	}
}

func TestOptimize_WorkersDeterministic(t *testing.T) {
	run := func(workers int) (map[string]string, string) {
		project := newProject(t)
		// more sources referencing the same image, last write wins
		for i := range 8 {
			name := filepath.Join(project, "dev", "pages", "p"+string(rune('a'+i))+".html")
			writeFile(t, name, []byte(indexHTML))
		}
		cfg := testConfig(t)
		cfg.Annotate.Sidecar = true
		cfg.Engine.Workers = workers

		if _, err := Optimize(context.Background(), project, cfg, Options{}, nil, testLogger(t)); err != nil {
			t.Fatalf("Optimize() error = %v", err)
		}
		return snapshot(t, project), readFile(t, filepath.Join(project, "dev", "image-variants.json"))
	}

	seqFiles, seqSidecar := run(1)
	parFiles, parSidecar := run(4)
	if seqSidecar != parSidecar {
		t.Errorf("sidecar depends on number of workers:\n%s\nvs\n%s", seqSidecar, parSidecar)
	}
	for name, text := range seqFiles {
		if parFiles[name] != text {
			t.Errorf("%s depends on number of workers", name)
		}
	}
}

func TestOptimize_Strict(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, "dev", "img", "a.jpg"), []byte("x"))
	cfg := testConfig(t)

	summary, err := Optimize(context.Background(), project, cfg, Options{}, nil, testLogger(t))
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if summary.Found != 0 {
		t.Errorf("Found = %d, want 0", summary.Found)
	}

	if _, err := Optimize(context.Background(), project, cfg, Options{Strict: true}, nil, testLogger(t)); err == nil {
		t.Error("expected error in strict mode when nothing was found")
	}
}

func TestOptimize_MissingRoot(t *testing.T) {
	cfg := testConfig(t)
	summary, err := Optimize(context.Background(), t.TempDir(), cfg, Options{}, nil, testLogger(t))
	if err == nil {
		t.Fatal("expected error for missing asset root")
	}
	if summary != nil {
		t.Error("summary must be nil when processing did not start")
	}
}

func TestOptimize_Locked(t *testing.T) {
	project := newProject(t)
	cfg := testConfig(t)

	lock := flock.New(lockPath(filepath.Join(project, "dev")))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("Failed to take lock: %v", err)
	}

	_, err = Optimize(context.Background(), project, cfg, Options{}, nil, testLogger(t))
	if err == nil || !strings.Contains(err.Error(), "another run") {
		t.Errorf("expected lock error, got %v", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}
	if _, err := Optimize(context.Background(), project, cfg, Options{}, nil, testLogger(t)); err != nil {
		t.Errorf("Optimize() after unlock error = %v", err)
	}
}

func TestOptimize_Canceled(t *testing.T) {
	project := newProject(t)
	before := snapshot(t, project)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Optimize(ctx, project, testConfig(t), Options{}, nil, testLogger(t)); err == nil {
		t.Error("expected error for canceled context")
	}
	for name, text := range snapshot(t, project) {
		if text != before[name] {
			t.Errorf("%s was modified after cancel", name)
		}
	}
}

func TestOptimize_ByteOrderMark(t *testing.T) {
	project := newProject(t)
	name := filepath.Join(project, "dev", "index.html")
	raw, err := encodeSource(indexHTML, encUTF16LittleEndian)
	if err != nil {
		t.Fatalf("encodeSource() error = %v", err)
	}
	writeFile(t, name, raw)

	if _, err := Optimize(context.Background(), project, testConfig(t), Options{}, nil, testLogger(t)); err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}

	out, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if detectUTF(out) != encUTF16LittleEndian {
		t.Fatal("byte order mark was lost")
	}
	text, _, err := decodeSource(out)
	if err != nil {
		t.Fatalf("decodeSource() error = %v", err)
	}
	if !strings.Contains(text, `data-webp-src="img/webp/a.webp"`) {
		t.Errorf("source was not annotated:\n%s", text)
	}
}

func TestProcessFile_Failures(t *testing.T) {
	p := &processor{
		engine: markup.NewEngine(markup.Annotation{Inline: true},
			func(string) variant.Ranked { panic("boom") }, nil),
		layout: markup.Layout{TagIndent: 4, BlockIndent: 12},
		log:    testLogger(t),
	}

	res := p.processFile(context.Background(), source{path: filepath.Join(t.TempDir(), "missing.html"), rel: "missing.html"})
	if res.status != statusFailed || res.err == nil {
		t.Errorf("expected read failure, got %+v", res)
	}

	name := filepath.Join(t.TempDir(), "index.html")
	writeFile(t, name, []byte(indexHTML))
	res = p.processFile(context.Background(), source{path: name, rel: "index.html"})
	if res.status != statusFailed || res.err == nil || !strings.Contains(res.err.Error(), "panic") {
		t.Errorf("expected recovered panic, got %+v", res)
	}
	if readFile(t, name) != indexHTML {
		t.Error("file modified after panic")
	}

	broken := append([]byte{0xEF, 0xBB, 0xBF}, []byte("<img src=\"img/a.jpg\" alt=\"\xff\">")...)
	name = filepath.Join(t.TempDir(), "broken.html")
	writeFile(t, name, broken)
	res = p.processFile(context.Background(), source{path: name, rel: "broken.html"})
	if res.status != statusFailed || res.err == nil {
		t.Errorf("expected decode failure, got %+v", res)
	}
	if !bytes.Equal([]byte(readFile(t, name)), broken) {
		t.Error("malformed source was rewritten")
	}

	other := filepath.Join(t.TempDir(), "notes.txt")
	writeFile(t, other, []byte("img/a.jpg"))
	res = p.processFile(context.Background(), source{path: other, rel: "notes.txt"})
	if res.status != statusUnchanged || res.err != nil {
		t.Errorf("unsupported file must be left alone, got %+v", res)
	}
}

func TestSummary_Table(t *testing.T) {
	project := newProject(t)
	summary, err := Optimize(context.Background(), project, testConfig(t), Options{}, nil, testLogger(t))
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}

	out := summary.Table()
	for _, want := range []string{"File", "References", "Unresolved", "index.html", "views/page.pug", "updated", "total", "3 updated", "120 B"} {
		if !strings.Contains(out, want) {
			t.Errorf("table does not contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "REFERENCES") {
		t.Errorf("headers must keep their case:\n%s", out)
	}
	summary.Log(testLogger(t))
}

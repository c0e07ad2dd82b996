package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/mithrel/peacecards/internal/db"
	"github.com/mithrel/peacecards/internal/present/format"
	"github.com/mithrel/peacecards/internal/server"
	"github.com/mithrel/peacecards/pkg/api"
)

// writeConfigTOML writes a config pointing at an isolated data dir. An empty
// dbURL keeps the sqlite default so state persists across commands.
func writeConfigTOML(t *testing.T, dbURL string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	content := `data_dir = "` + strings.ReplaceAll(dir, "\\", "\\\\") + `"
[db]
url = "` + dbURL + `"
`
	if err := os.WriteFile(cfg, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfg
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestCLIDeckListJSON(t *testing.T) {
	cfg := writeConfigTOML(t, "mem://")
	out := mustRun(t, "--config", cfg, "deck", "ls", "--format", "json")

	var decks []api.Deck
	if err := json.Unmarshal([]byte(out), &decks); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if len(decks) != 6 {
		t.Fatalf("want 6 decks, got %d", len(decks))
	}
	if decks[0].Key != "foundation" {
		t.Fatalf("first deck: %q", decks[0].Key)
	}
}

func TestCLIQuery(t *testing.T) {
	cfg := writeConfigTOML(t, "mem://")
	out := mustRun(t, "--config", cfg, "deck", "ls", "--format", "json", "--query", ".[0].key")
	if strings.TrimSpace(out) != `"foundation"` {
		t.Fatalf("unexpected query output: %q", out)
	}

	out = mustRun(t, "--config", cfg, "card", "show", "1", "--format", "json", "--query", ".document.layout")
	if strings.TrimSpace(out) != `"accordion"` {
		t.Fatalf("unexpected query output: %q", out)
	}

	if _, err := run(t, "--config", cfg, "deck", "ls", "--query", ".[0]"); err == nil || !strings.Contains(err.Error(), "--query needs") {
		t.Fatalf("query on plain output should fail, got %v", err)
	}
}

func TestCLIDeckShowPlain(t *testing.T) {
	cfg := writeConfigTOML(t, "mem://")
	out := mustRun(t, "--config", cfg, "deck", "show", "foundation")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.HasPrefix(lines[0], "id") || !strings.Contains(lines[0], "layout") {
		t.Fatalf("missing header: %q", lines[0])
	}
	if !strings.Contains(out, "AEIOU") {
		t.Fatalf("seeded card missing: %q", out)
	}

	out = mustRun(t, "--config", cfg, "deck", "show", "foundation", "--noheaders")
	if strings.HasPrefix(out, "id") {
		t.Fatalf("headers not hidden: %q", out)
	}
}

func TestCLIDeckShowUnknown(t *testing.T) {
	cfg := writeConfigTOML(t, "mem://")
	_, err := run(t, "--config", cfg, "deck", "show", "nope")
	if err == nil || !strings.Contains(err.Error(), `deck "nope" not found`) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestCLICardShowFormats(t *testing.T) {
	cfg := writeConfigTOML(t, "mem://")

	out := mustRun(t, "--config", cfg, "card", "show", "1", "--format", "json")
	var doc format.CardDocument
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if doc.ID != 1 || doc.Document.Layout != "accordion" {
		t.Fatalf("unexpected card: id=%d layout=%s", doc.ID, doc.Document.Layout)
	}
	if len(doc.Document.Sections()) == 0 {
		t.Fatalf("accordion card has no sections")
	}

	out = mustRun(t, "--config", cfg, "card", "show", "1")
	if !strings.HasPrefix(out, "AEIOU - The Vowel Check-In") {
		t.Fatalf("plain output missing title: %q", out)
	}
	if strings.Contains(out, "**") {
		t.Fatalf("plain output kept emphasis markers: %q", out)
	}

	out = mustRun(t, "--config", cfg, "card", "show", "1", "--format", "html")
	if !strings.HasPrefix(out, `<article class="card">`) || !strings.Contains(out, "<details") {
		t.Fatalf("unexpected html: %q", out)
	}
}

func TestCLICardShowDeckFilter(t *testing.T) {
	cfg := writeConfigTOML(t, "mem://")
	out := mustRun(t, "--config", cfg, "card", "show", "1", "--format", "json", "--deck", "foundation")

	var doc format.CardDocument
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if doc.Document.Layout != "accordion" {
		t.Fatalf("own deck idioms should still select accordion, got %s", doc.Document.Layout)
	}
}

func TestCLICardShowErrors(t *testing.T) {
	cfg := writeConfigTOML(t, "mem://")
	if _, err := run(t, "--config", cfg, "card", "show", "abc"); err == nil || !strings.Contains(err.Error(), "invalid card id") {
		t.Fatalf("want invalid id, got %v", err)
	}
	if _, err := run(t, "--config", cfg, "card", "show", "9999"); err == nil || !strings.Contains(err.Error(), "card 9999 not found") {
		t.Fatalf("want not found, got %v", err)
	}
	if _, err := run(t, "--config", cfg, "card", "show", "1", "--format", "xml"); err == nil || !strings.Contains(err.Error(), "invalid --format") {
		t.Fatalf("want invalid format, got %v", err)
	}
}

func TestCLICardFind(t *testing.T) {
	cfg := writeConfigTOML(t, "mem://")
	out := mustRun(t, "--config", cfg, "card", "find", "aeiou", "--format", "json")

	var cards []api.Card
	if err := json.Unmarshal([]byte(out), &cards); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	found := false
	for _, c := range cards {
		found = found || c.Title == "AEIOU - The Vowel Check-In"
	}
	if !found {
		t.Fatalf("unexpected matches: %+v", cards)
	}

	out = mustRun(t, "--config", cfg, "card", "find", "zzzzqqq", "--format", "json")
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("want empty list, got %q", out)
	}
}

func TestCLICardEdit(t *testing.T) {
	cfg := writeConfigTOML(t, "")
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "sed -i s/AEIOU/Vowels/")

	out := mustRun(t, "--config", cfg, "card", "edit", "1")
	if !strings.Contains(out, "Updated card 1: Vowels - The Vowel Check-In") {
		t.Fatalf("unexpected edit output: %q", out)
	}

	out = mustRun(t, "--config", cfg, "card", "show", "1", "--format", "json")
	var c api.Card
	if err := json.Unmarshal([]byte(out), &c); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if c.Title != "Vowels - The Vowel Check-In" {
		t.Fatalf("edit not persisted: %q", c.Title)
	}

	t.Setenv("EDITOR", "true")
	out = mustRun(t, "--config", cfg, "card", "edit", "1")
	if !strings.Contains(out, "No changes.") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCLIConfigGenerateCheckSet(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	path := filepath.Join(dir, "peacecards", "config.toml")

	out := mustRun(t, "--config", path, "config", "generate")
	if !strings.Contains(out, "Wrote "+path) {
		t.Fatalf("unexpected generate output: %q", out)
	}
	if _, err := run(t, "--config", path, "config", "generate"); err == nil {
		t.Fatalf("second generate should refuse to overwrite")
	}
	if _, err := run(t, "--config", path, "config", "generate", "--overwrite"); err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("overwrite without a terminal should ask for --yes, got %v", err)
	}
	out = mustRun(t, "--config", path, "config", "generate", "--overwrite", "--yes")
	if !strings.Contains(out, "Backup: "+path+".bak") {
		t.Fatalf("unexpected overwrite output: %q", out)
	}
	out = mustRun(t, "--config", path, "config", "generate", "--update")
	if !strings.Contains(out, "already up to date") {
		t.Fatalf("unexpected update output: %q", out)
	}

	out = mustRun(t, "--config", path, "config", "check")
	if !strings.Contains(out, "Config OK: "+path) {
		t.Fatalf("unexpected check output: %q", out)
	}

	mustRun(t, "--config", path, "config", "set", "render.width", "80")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "width = 80") {
		t.Fatalf("render.width not written:\n%s", data)
	}

	mustRun(t, "--config", path, "config", "set", "output.format", "xml")
	if _, err := run(t, "--config", path, "config", "check"); err == nil || !strings.Contains(err.Error(), "output.format") {
		t.Fatalf("check should reject output.format, got %v", err)
	}

	if _, err := run(t, "--config", path, "config", "set", "no.such", "1"); err == nil {
		t.Fatalf("unknown key should fail")
	}
}

func TestCLICompletionGenerate(t *testing.T) {
	out := mustRun(t, "completion", "generate", "bash")
	if !strings.Contains(out, "peacecards") {
		t.Fatalf("bash completion missing command name")
	}
	if _, err := run(t, "completion", "generate", "tcsh"); err == nil {
		t.Fatalf("unsupported shell should fail")
	}
}

func TestCLIRemoteCardShowUsesServerFormatting(t *testing.T) {
	ctx := context.Background()
	store, closer, err := db.Open(ctx, "mem://")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = closer.Close() })
	if _, err := store.CreateDeck(ctx, api.Deck{Key: "remote-only", Title: "Remote"}); err != nil {
		t.Fatalf("create deck: %v", err)
	}
	c, err := store.CreateCard(ctx, api.Card{DeckKey: "remote-only", Title: "Served <Card>",
		Content: "🌟 **Affirmation**\nYes\n👁 **Eye Gazing**\nLook"})
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	ts := httptest.NewServer(server.New(viper.New(), store, log.New(io.Discard, "", 0)).Router())
	t.Cleanup(ts.Close)

	cfg := writeConfigTOML(t, "mem://")
	id := strconv.FormatInt(c.ID, 10)
	out := mustRun(t, "--config", cfg, "--remote", ts.URL, "card", "show", id, "--format", "html")
	if !strings.HasPrefix(out, `<article class="card"><h1>Served &lt;Card&gt;</h1>`) {
		t.Fatalf("missing escaped title: %q", out)
	}
	if !strings.Contains(out, "<details") || !strings.Contains(out, "Eye Gazing") {
		t.Fatalf("server fragment missing: %q", out)
	}

	out = mustRun(t, "--config", cfg, "--remote", ts.URL, "card", "show", id, "--format", "json")
	var doc format.CardDocument
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if doc.Document.Layout != "accordion" || len(doc.Document.Sections()) != 2 {
		t.Fatalf("unexpected document: %+v", doc.Document)
	}
}

func TestServeRejectsRemote(t *testing.T) {
	cfg := writeConfigTOML(t, "mem://")
	_, err := run(t, "--config", cfg, "--remote", "http://127.0.0.1:1", "serve")
	if err == nil || !strings.Contains(err.Error(), "local store") {
		t.Fatalf("want local store error, got %v", err)
	}
}

func TestMatchKeys(t *testing.T) {
	keys := []string{"foundation", "listening", "wounds", "owning", "common", "about"}
	if got := matchKeys("", keys); len(got) != len(keys) {
		t.Fatalf("empty input should keep all keys, got %v", got)
	}
	got := matchKeys("fnd", keys)
	if len(got) != 1 || got[0] != "foundation" {
		t.Fatalf("fuzzy match: %v", got)
	}
	if got := matchKeys("xyz", keys); len(got) != 0 {
		t.Fatalf("want no matches, got %v", got)
	}
}

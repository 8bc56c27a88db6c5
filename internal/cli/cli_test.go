package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"meeting-board/internal/config"
	"meeting-board/internal/store"
	"meeting-board/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

var testNow = time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)

func runCLI(t *testing.T, stdin string, args ...string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := newRootCmd(&App{now: func() time.Time { return testNow }})

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type itemsEnvelope struct {
	Data []struct {
		ID     string `json:"id"`
		Text   string `json:"text"`
		Indent int    `json:"indent"`
	} `json:"data"`
}

func setupBoard(t *testing.T) string {
	t.Helper()
	t.Setenv("BOARD_CONFIG_DIR", t.TempDir())
	return t.TempDir()
}

func mustRun(t *testing.T, stdin string, args ...string) []byte {
	t.Helper()
	stdout, stderr, err := runCLI(t, stdin, args...)
	if err != nil {
		t.Fatalf("command failed: board %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	return stdout
}

func listTexts(t *testing.T, dir string, extra ...string) []string {
	t.Helper()
	args := append([]string{"--data-dir", dir}, extra...)
	args = append(args, "list")
	out := mustRun(t, "", args...)
	var env itemsEnvelope
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("unmarshal list output: %v\n%s", err, string(out))
	}
	texts := make([]string, 0, len(env.Data))
	for _, it := range env.Data {
		if it.ID == "" {
			t.Fatalf("expected item id in list output: %s", string(out))
		}
		texts = append(texts, it.Text)
	}
	return texts
}

func TestAddThenList_SQLite(t *testing.T) {
	dir := setupBoard(t)

	mustRun(t, "", "--data-dir", dir, "add", "Budget", "review")
	mustRun(t, "", "--data-dir", dir, "add", "Hiring")

	if diff := cmp.Diff([]string{"Budget review", "Hiring"}, listTexts(t, dir)); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(dir, "board.sqlite")); err != nil {
		t.Fatalf("expected sqlite store file: %v", err)
	}
}

func TestAddThenList_FileStore(t *testing.T) {
	dir := setupBoard(t)

	mustRun(t, "", "--data-dir", dir, "--store", "file", "add", "Agenda")

	if diff := cmp.Diff([]string{"Agenda"}, listTexts(t, dir, "--store", "file")); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(dir, "meeting-board-data.json")); err != nil {
		t.Fatalf("expected file store snapshot: %v", err)
	}
}

func TestList_EmptyBoardHasOneBlankItem(t *testing.T) {
	dir := setupBoard(t)
	if diff := cmp.Diff([]string{""}, listTexts(t, dir)); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestList_YAMLFormat(t *testing.T) {
	dir := setupBoard(t)
	mustRun(t, "", "--data-dir", dir, "add", "Agenda")

	out := string(mustRun(t, "", "--data-dir", dir, "--format", "yaml", "list"))
	if !strings.Contains(out, "text: Agenda") || !strings.Contains(out, "indent: 0") {
		t.Fatalf("expected yaml items, got:\n%s", out)
	}
}

func TestExport_WritesDatedMarkdownFile(t *testing.T) {
	dir := setupBoard(t)
	outDir := t.TempDir()
	mustRun(t, "", "--data-dir", dir, "add", "A")
	mustRun(t, "", "--data-dir", dir, "add", "B")

	out := mustRun(t, "", "--data-dir", dir, "export", "--out", outDir)

	path := filepath.Join(outDir, "meeting-notes-2024-03-05.md")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(b) != "- A\n- B" {
		t.Fatalf("unexpected markdown %q", string(b))
	}
	if !strings.Contains(string(out), "meeting-notes-2024-03-05.md") {
		t.Fatalf("expected path in output, got %s", string(out))
	}
}

func TestExport_StdoutAndHTML(t *testing.T) {
	dir := setupBoard(t)
	mustRun(t, "", "--data-dir", dir, "add", "A <b>bold</b>")

	md := string(mustRun(t, "", "--data-dir", dir, "export", "--stdout"))
	if md != "- A <b>bold</b>\n" {
		t.Fatalf("unexpected markdown %q", md)
	}

	html := string(mustRun(t, "", "--data-dir", dir, "export", "--stdout", "--html"))
	if !strings.Contains(html, "<li>") {
		t.Fatalf("expected list html, got %q", html)
	}
}

func TestDictate_ConsecutivePhrasesExtendOneItem(t *testing.T) {
	dir := setupBoard(t)

	mustRun(t, "hello\n\nworld\n", "--data-dir", dir, "dictate")

	if diff := cmp.Diff([]string{"hello world"}, listTexts(t, dir)); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestDictate_FromFileAfterExistingItem(t *testing.T) {
	dir := setupBoard(t)
	mustRun(t, "", "--data-dir", dir, "add", "Intro")

	f := filepath.Join(t.TempDir(), "phrases.txt")
	if err := os.WriteFile(f, []byte("next steps\n"), 0o644); err != nil {
		t.Fatalf("write phrases: %v", err)
	}
	mustRun(t, "", "--data-dir", dir, "dictate", "--file", f)

	if diff := cmp.Diff([]string{"Intro", "next steps"}, listTexts(t, dir)); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestClear_WithYes(t *testing.T) {
	dir := setupBoard(t)
	mustRun(t, "", "--data-dir", dir, "add", "A")
	mustRun(t, "", "--data-dir", dir, "add", "B")

	mustRun(t, "", "--data-dir", dir, "clear", "--yes")

	if diff := cmp.Diff([]string{""}, listTexts(t, dir)); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestSpeak_EmptyBoardIsAnError(t *testing.T) {
	dir := setupBoard(t)
	_, _, err := runCLI(t, "", "--data-dir", dir, "speak")
	if !errors.Is(err, errNothingToRead) {
		t.Fatalf("expected errNothingToRead, got %v", err)
	}
}

func TestSpeak_RunsConfiguredSynthesizer(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	dir := setupBoard(t)
	t.Setenv("BOARD_SPEECH_COMMAND", "true")
	mustRun(t, "", "--data-dir", dir, "add", "Read me")

	mustRun(t, "", "--data-dir", dir, "speak")
}

func TestConfigFile_SelectsStore(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("BOARD_CONFIG_DIR", cfgDir)
	dataDir := t.TempDir()
	cfg := "store: file\ndata_dir: " + dataDir + "\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	mustRun(t, "", "add", "From config")

	if _, err := os.Stat(filepath.Join(dataDir, "meeting-board-data.json")); err != nil {
		t.Fatalf("expected file store in configured data dir: %v", err)
	}
}

func TestUnknownStoreBackend(t *testing.T) {
	dir := setupBoard(t)
	_, stderr, err := runCLI(t, "", "--data-dir", dir, "--store", "redis", "list")
	if err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if !strings.Contains(string(stderr), "unknown store backend") {
		t.Fatalf("expected backend error on stderr, got %q", string(stderr))
	}
}

type countingKV struct {
	saves int
	data  map[string]string
}

func (c *countingKV) Load(key string) (string, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *countingKV) Save(key, value string) error {
	c.saves++
	if c.data == nil {
		c.data = map[string]string{}
	}
	c.data[key] = value
	return nil
}

func TestTUIOptions_SavesOncePerKeystroke(t *testing.T) {
	kv := &countingKV{}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	app := &App{
		now:    func() time.Time { return testNow },
		openKV: func(string, string) (store.KV, error) { return kv, nil },
		cfg:    &config.Config{Store: store.BackendMemory, SpeechCommand: []string{"true"}},
		log:    logger,
	}

	opt, err := app.tuiOptions()
	if err != nil {
		t.Fatalf("tuiOptions: %v", err)
	}
	m := tui.NewModel(opt)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})

	if kv.saves != 1 {
		t.Fatalf("expected 1 save after one keystroke, got %d", kv.saves)
	}
}

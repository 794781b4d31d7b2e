package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runResult struct {
	code   int
	stdout string
	stderr string
}

// harness runs shelf against an isolated config dir and data file.
type harness struct {
	t         *testing.T
	configDir string
	dataFile  string
	extra     []string
}

func newHarness(t *testing.T, extra ...string) *harness {
	t.Helper()
	t.Setenv(envBackendForTest, "")
	t.Setenv(envLogLevelForTest, "")
	dir := t.TempDir()
	return &harness{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		dataFile:  filepath.Join(dir, "books.txt"),
		extra:     extra,
	}
}

const (
	envBackendForTest  = "SHELF_BACKEND"
	envLogLevelForTest = "SHELF_LOG_LEVEL"
)

func (h *harness) run(stdin string, args ...string) runResult {
	h.t.Helper()
	full := append([]string{"--config-dir", h.configDir, "--data-file", h.dataFile}, h.extra...)
	full = append(full, args...)
	var stdout, stderr bytes.Buffer
	code := Run(full, strings.NewReader(stdin), &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestRun_Scenario(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "list")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Equal(t, "[]\n", r.stdout)

	r = h.run("", "add", "1", "C", "D", "Sci", "1")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Equal(t, `[{"id":1,"title":"C","author":"D","category":"Sci","available":1,"total":1}]`+"\n", r.stdout)

	r = h.run("", "issue", "1")
	require.Equal(t, exitSuccess, r.code, r.stderr)

	r = h.run("", "list")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Equal(t, `[{"id":1,"title":"C","author":"D","category":"Sci","available":0,"total":1}]`+"\n", r.stdout)

	data, err := os.ReadFile(h.dataFile)
	require.NoError(t, err)
	assert.Equal(t, "1,C,D,Sci,0,1\n", string(data))
}

func TestRun_AddKeepsIDOrder(t *testing.T) {
	h := newHarness(t)

	for _, id := range []string{"5", "2", "9"} {
		r := h.run("", "add", id, "T"+id, "A", "C", "1")
		require.Equal(t, exitSuccess, r.code, r.stderr)
	}

	data, err := os.ReadFile(h.dataFile)
	require.NoError(t, err)
	assert.Equal(t, "2,T2,A,C,1,1\n5,T5,A,C,1,1\n9,T9,A,C,1,1\n", string(data))
}

func TestRun_DomainErrors(t *testing.T) {
	const seeded = `[{"id":1,"title":"C","author":"D","category":"Sci","available":1,"total":1}]` + "\n"

	tests := []struct {
		name       string
		args       []string
		wantStderr string
		wantStdout string
	}{
		{"duplicate add", []string{"add", "1", "X", "Y", "Z", "3"}, "Book ID 1 already exists", seeded},
		{"delete missing", []string{"delete", "42"}, "Book with ID 42 not found.", seeded},
		{"issue missing", []string{"issue", "42"}, "Book with ID 42 not found.", seeded},
		{"return over", []string{"return", "1"}, "All copies are already in library", seeded},
		{"negative copies", []string{"add", "2", "X", "Y", "Z", "-1"}, "must not be negative", seeded},
		{"search missing", []string{"search", "42"}, "Book with ID 42 not found.", ""},
		{"non-numeric id", []string{"delete", "abc"}, `invalid book ID "abc"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			r := h.run("", "add", "1", "C", "D", "Sci", "1")
			require.Equal(t, exitSuccess, r.code, r.stderr)
			before, err := os.ReadFile(h.dataFile)
			require.NoError(t, err)

			r = h.run("", tt.args...)
			assert.Equal(t, exitUserError, r.code)
			assert.Contains(t, r.stderr, tt.wantStderr)
			assert.Equal(t, tt.wantStdout, r.stdout)

			after, err := os.ReadFile(h.dataFile)
			require.NoError(t, err)
			assert.Equal(t, string(before), string(after), "rejected mutation must not rewrite the data file")
		})
	}
}

func TestRun_IssueExhausted(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, exitSuccess, h.run("", "add", "1", "C", "D", "Sci", "1").code)
	require.Equal(t, exitSuccess, h.run("", "issue", "1").code)

	r := h.run("", "issue", "1")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "No copies available to issue.")
	assert.Equal(t, `[{"id":1,"title":"C","author":"D","category":"Sci","available":0,"total":1}]`+"\n", r.stdout)
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"frobnicate"}},
		{"add missing args", []string{"add", "1", "C"}},
		{"delete missing id", []string{"delete"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			r := h.run("", tt.args...)
			assert.Equal(t, exitUserError, r.code)
			assert.Contains(t, r.stderr, "Usage:")
			assert.Empty(t, r.stdout)
			assert.NoFileExists(t, h.dataFile)
		})
	}
}

func TestRun_SearchAndTable(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "table")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Equal(t, "No books in the library.\n", r.stdout)

	require.Equal(t, exitSuccess, h.run("", "add", "7", "Dune", "Herbert", "SciFi", "3").code)

	r = h.run("", "search", "7")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Equal(t, `{"id":7,"title":"Dune","author":"Herbert","category":"SciFi","available":3,"total":3}`+"\n", r.stdout)

	r = h.run("", "table")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Dune")
	assert.Contains(t, r.stdout, "3/3")
}

func TestRun_MalformedFileIsTolerated(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.dataFile, []byte("garbage\n3,T,A,C,1,2\n\n"), 0o644))

	r := h.run("", "list")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Equal(t, `[{"id":3,"title":"T","author":"A","category":"C","available":1,"total":2}]`+"\n", r.stdout)
}

func TestRun_OverlongLineKeepsOtherRecords(t *testing.T) {
	h := newHarness(t)
	huge := "2," + strings.Repeat("x", 2<<20) + ",A,C,1,1\n"
	require.NoError(t, os.WriteFile(h.dataFile, []byte("1,Keep,A,C,1,1\n"+huge+"3,Keep,A,C,1,1\n"), 0o644))

	r := h.run("", "add", "9", "New", "A", "C", "1")
	require.Equal(t, exitSuccess, r.code, r.stderr)

	data, err := os.ReadFile(h.dataFile)
	require.NoError(t, err)
	assert.Equal(t, "1,Keep,A,C,1,1\n3,Keep,A,C,1,1\n9,New,A,C,1,1\n", string(data))
}

func TestRun_SaveFailureExitsTwo(t *testing.T) {
	h := newHarness(t)
	// A directory in place of the data file makes the final rename fail.
	require.NoError(t, os.Mkdir(h.dataFile, 0o755))

	r := h.run("", "add", "1", "C", "D", "Sci", "1")
	assert.Equal(t, exitSysError, r.code)
	assert.Equal(t, `[{"id":1,"title":"C","author":"D","category":"Sci","available":1,"total":1}]`+"\n", r.stdout)
	assert.Contains(t, r.stderr, "Error writing")
}

func TestRun_SQLiteBackend(t *testing.T) {
	h := newHarness(t, "--backend", "sqlite")
	h.dataFile = filepath.Join(filepath.Dir(h.dataFile), "books.db")

	require.Equal(t, exitSuccess, h.run("", "add", "2", "B", "A", "C", "2").code)
	require.Equal(t, exitSuccess, h.run("", "add", "1", "C", "D", "Sci", "1").code)
	require.Equal(t, exitSuccess, h.run("", "issue", "2").code)

	r := h.run("", "list")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Equal(t,
		`[{"id":1,"title":"C","author":"D","category":"Sci","available":1,"total":1},{"id":2,"title":"B","author":"A","category":"C","available":1,"total":2}]`+"\n",
		r.stdout)
}

func TestRun_UnknownBackend(t *testing.T) {
	h := newHarness(t, "--backend", "postgres")

	r := h.run("", "list")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "postgres")
}

func TestRun_InitWritesConfig(t *testing.T) {
	h := newHarness(t, "--backend", "sqlite")

	r := h.run("", "init")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "initialized successfully")

	data, err := os.ReadFile(filepath.Join(h.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "data_file: "+h.dataFile)

	r = h.run("", "init")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "already initialized")

	// Without --backend the config file selects sqlite.
	plain := &harness{t: t, configDir: h.configDir, dataFile: h.dataFile}
	require.Equal(t, exitSuccess, plain.run("", "add", "1", "C", "D", "Sci", "1").code)
	sqliteHeader := []byte("SQLite format 3\x00")
	raw, err := os.ReadFile(h.dataFile)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, sqliteHeader))
}

func TestRun_Version(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "version")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.True(t, strings.HasPrefix(r.stdout, "shelf v"))
}

func TestRun_Interactive(t *testing.T) {
	h := newHarness(t)
	export := filepath.Join(t.TempDir(), "export.txt")

	input := strings.Join([]string{
		"1", "5", "Emma", "Austen", "Classic", "2",
		"4", "5",
		"7",
		"0",
	}, "\n") + "\n"

	r := h.run(input, "interactive", "--export-file", export)
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Book added successfully.")
	assert.Contains(t, r.stdout, "Book issued successfully.")
	assert.Contains(t, r.stdout, "Books exported to "+export+" successfully.")

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	assert.Equal(t, "5,Emma,Austen,Classic,1,2\n", string(data))
	assert.NoFileExists(t, h.dataFile, "interactive session must not touch the data file unless exporting to it")
}

func TestRun_InteractiveLoad(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, exitSuccess, h.run("", "add", "3", "T", "A", "C", "1").code)

	r := h.run("3\n3\n", "interactive", "--load")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Book found!")
	assert.Contains(t, r.stdout, "Exiting...")
}

func TestRun_InteractiveInputErrorExitsTwo(t *testing.T) {
	h := newHarness(t)

	r := h.run("1\n4\n"+strings.Repeat("t", 2<<20)+"\n", "interactive")
	assert.Equal(t, exitSysError, r.code)
	assert.Contains(t, r.stderr, "reading input")
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filipembedded/pr-bridge/internal/adapter/driven/github"
)

// isolateEnv clears configuration variables so CLI runs don't pick up the
// host environment.
func isolateEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PRBRIDGE_GITHUB_TOKEN",
		"PRBRIDGE_API_URL",
		"PRBRIDGE_HTTP_TIMEOUT",
		"PRBRIDGE_OUTPUT_DIR",
		"PRBRIDGE_LOG_LEVEL",
		"GITHUB_TOKEN",
		"GH_TOKEN",
	}
	for _, key := range keys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

// runCommand executes the CLI in-process and captures its output streams.
func runCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	root := newRootCommand(&Options{})
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), err
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// newGitHubStub serves the four REST endpoints the fetch command hits for
// octo/demo#5: one open inline thread, one general comment, one approval.
func newGitHubStub(t *testing.T, issuesCalled *bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"number":   5,
			"title":    "Add demo feature",
			"state":    "open",
			"user":     map[string]any{"login": "dev1"},
			"html_url": "https://github.com/octo/demo/pull/5",
			"head":     map[string]any{"ref": "feature/demo"},
			"base":     map[string]any{"ref": "main"},
			"body":     "Implements the demo feature.",
		})
	})
	mux.HandleFunc("/repos/octo/demo/pulls/5/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{
				"id":                 1001,
				"user":               map[string]any{"login": "alice"},
				"author_association": "MEMBER",
				"body":               "Missing error check here.",
				"path":               "main.go",
				"original_line":      3,
				"diff_hunk":          "@@ -1,3 +1,3 @@\n func main() {\n-\tdoWork()\n+\tdoWork(ctx)",
				"html_url":           "https://github.com/octo/demo/pull/5#discussion_r1001",
				"created_at":         "2026-01-10T12:00:00Z",
			},
		})
	})
	mux.HandleFunc("/repos/octo/demo/issues/5/comments", func(w http.ResponseWriter, r *http.Request) {
		*issuesCalled = true
		writeJSON(w, []map[string]any{
			{
				"id":                 2001,
				"user":               map[string]any{"login": "bob"},
				"author_association": "CONTRIBUTOR",
				"body":               "Looking forward to this.",
				"html_url":           "https://github.com/octo/demo/pull/5#issuecomment-2001",
				"created_at":         "2026-01-10T13:00:00Z",
			},
		})
	})
	mux.HandleFunc("/repos/octo/demo/pulls/5/reviews", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{
				"id":           3001,
				"user":         map[string]any{"login": "carol"},
				"state":        "APPROVED",
				"body":         "LGTM",
				"submitted_at": "2026-01-11T09:00:00Z",
			},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetchCommand_ExportsDocument(t *testing.T) {
	isolateEnv(t)
	var issuesCalled bool
	server := newGitHubStub(t, &issuesCalled)
	t.Setenv("PRBRIDGE_API_URL", server.URL)
	dir := t.TempDir()

	stdout, _, err := runCommand(t, "fetch", "https://github.com/octo/demo/pull/5", "--output", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "pr-5-octo-demo.md")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(data)

	assert.Contains(t, doc, "# PR #5: Add demo feature")
	assert.Contains(t, doc, "### Thread 1 — `main.go` (line 3) [**OPEN**]")
	assert.Contains(t, doc, "**@carol** — `APPROVED`")
	assert.Contains(t, doc, "## General PR Comments")
	assert.Contains(t, doc, "Looking forward to this.")
	assert.True(t, issuesCalled)

	assert.Contains(t, stdout, "Saved to: "+path)
	assert.Contains(t, stdout, "Threads shown: 1")
}

func TestFetchCommand_NoGeneralSkipsIssueComments(t *testing.T) {
	isolateEnv(t)
	var issuesCalled bool
	server := newGitHubStub(t, &issuesCalled)
	t.Setenv("PRBRIDGE_API_URL", server.URL)
	dir := t.TempDir()

	_, _, err := runCommand(t, "fetch", "https://github.com/octo/demo/pull/5", "--output", dir, "--no-general")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "pr-5-octo-demo.md"))
	require.NoError(t, err)

	assert.False(t, issuesCalled)
	assert.NotContains(t, string(data), "## General PR Comments")
}

func TestFetchCommand_UnresolvedFilter(t *testing.T) {
	isolateEnv(t)
	var issuesCalled bool
	server := newGitHubStub(t, &issuesCalled)
	t.Setenv("PRBRIDGE_API_URL", server.URL)
	dir := t.TempDir()

	_, _, err := runCommand(t, "fetch", "https://github.com/octo/demo/pull/5", "--output", dir, "--filter", "unresolved")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "pr-5-octo-demo.md"))
	require.NoError(t, err)

	// The stub's single thread has no replies, so it survives the filter.
	assert.Contains(t, string(data), "_1 thread(s) shown (open only)._")
}

func TestFetchCommand_InvalidFilter(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCommand(t, "fetch", "https://github.com/octo/demo/pull/5", "--filter", "bogus")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter mode")
}

func TestFetchCommand_InvalidURL(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCommand(t, "fetch", "https://github.com/octo/demo/issues/5")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PR URL")
}

func TestFetchCommand_OutputDirFromEnv(t *testing.T) {
	isolateEnv(t)
	var issuesCalled bool
	server := newGitHubStub(t, &issuesCalled)
	t.Setenv("PRBRIDGE_API_URL", server.URL)
	dir := filepath.Join(t.TempDir(), "exports")
	t.Setenv("PRBRIDGE_OUTPUT_DIR", dir)

	stdout, _, err := runCommand(t, "fetch", "https://github.com/octo/demo/pull/5")
	require.NoError(t, err)

	path := filepath.Join(dir, "pr-5-octo-demo.md")
	_, err = os.Stat(path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved to: "+path)
}

// --- Tests for resolveOutputPath ---

func TestResolveOutputPath_DefaultName(t *testing.T) {
	ref := github.PRRef{Owner: "octo", Repo: "demo", Number: 5}

	got, err := resolveOutputPath("", "", ref)

	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "pr-5-octo-demo.md", filepath.Base(got))
}

func TestResolveOutputPath_ExistingDirectory(t *testing.T) {
	ref := github.PRRef{Owner: "octo", Repo: "demo", Number: 5}
	dir := t.TempDir()

	got, err := resolveOutputPath(dir, "", ref)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pr-5-octo-demo.md"), got)
}

func TestResolveOutputPath_CreatesExtensionlessPathAsDirectory(t *testing.T) {
	ref := github.PRRef{Owner: "octo", Repo: "demo", Number: 5}
	dir := filepath.Join(t.TempDir(), "reviews")

	got, err := resolveOutputPath(dir, "", ref)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pr-5-octo-demo.md"), got)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveOutputPath_ExplicitFileCreatesParent(t *testing.T) {
	ref := github.PRRef{Owner: "octo", Repo: "demo", Number: 5}
	path := filepath.Join(t.TempDir(), "nested", "out.md")

	got, err := resolveOutputPath(path, "", ref)

	require.NoError(t, err)
	assert.Equal(t, path, got)
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveOutputPath_ExistingExtensionlessFile(t *testing.T) {
	ref := github.PRRef{Owner: "octo", Repo: "demo", Number: 5}
	path := filepath.Join(t.TempDir(), "NOTES")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o644))

	got, err := resolveOutputPath(path, "", ref)

	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestResolveOutputPath_FallbackDirectory(t *testing.T) {
	ref := github.PRRef{Owner: "octo", Repo: "demo", Number: 5}
	dir := filepath.Join(t.TempDir(), "exports")

	got, err := resolveOutputPath("", dir, ref)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pr-5-octo-demo.md"), got)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/tmp/fakehome")

	assert.Equal(t, "/tmp/fakehome", expandHome("~"))
	assert.Equal(t, filepath.Join("/tmp/fakehome", "docs"), expandHome("~/docs"))
	assert.Equal(t, "plain.md", expandHome("plain.md"))
	assert.Equal(t, "/abs/path.md", expandHome("/abs/path.md"))
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/blockmark/internal/present/format"
	"github.com/mithrel/blockmark/pkg/api"
)

const tripExport = `{"recordMap": {"block": {
  "root": {"value": {"id": "root", "type": "page", "properties": {"title": [["Trip"]]}, "content": ["t1", "b1", "b2", "sub"]}},
  "t1":   {"value": {"id": "t1", "type": "text", "parent_id": "root", "properties": {"title": [["Pack light"]]}}},
  "b1":   {"value": {"id": "b1", "type": "bulleted_list", "parent_id": "root", "properties": {"title": [["tent"]]}}},
  "b2":   {"value": {"id": "b2", "type": "bulleted_list", "parent_id": "root", "properties": {"title": [["stove"]]}}},
  "sub":  {"value": {"id": "sub", "type": "page", "parent_id": "root", "properties": {"title": [["Budget"]]}, "content": []}}
}}}`

const tripFragment = `<h1 class="notion-page-block">Trip</h1><div>` +
	`<p class="notion-text-block">Pack light</p>` +
	`<ul><li class="notion-bulleted_list-block">tent</li><li class="notion-bulleted_list-block">stove</li></ul>` +
	`<h1 class="notion-page-block">Budget</h1><div></div>` +
	`</div>`

type env struct {
	dir    string
	config string
	export string
}

// setupEnv writes an isolated config and a sample export file.
func setupEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	quoted := func(p string) string { return `"` + strings.ReplaceAll(p, `\`, `\\`) + `"` }
	cfg := filepath.Join(dir, "config.toml")
	content := "data_dir = " + quoted(dir) + "\n" +
		"db_url = " + quoted("sqlite://"+filepath.Join(dir, "blockmark.db")) + "\n" +
		"[log]\nlevel = \"none\"\n" +
		"[preview]\nwidth = 80\nstyle = \"notty\"\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o600))

	exp := filepath.Join(dir, "trip.json")
	require.NoError(t, os.WriteFile(exp, []byte(tripExport), 0o600))
	return env{dir: dir, config: cfg, export: exp}
}

func run(t *testing.T, e env, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRenderFileFragment(t *testing.T) {
	e := setupEnv(t)
	out, err := run(t, e, "render", e.export, "--fragment")
	require.NoError(t, err, out)
	assert.Equal(t, tripFragment+"\n", out)

	out, err = run(t, e, "render", e.export, "--fragment", "--page", "budget")
	require.NoError(t, err, out)
	assert.Equal(t, `<h1 class="notion-page-block">Budget</h1><div></div>`+"\n", out)
}

func TestRenderDocumentToFile(t *testing.T) {
	e := setupEnv(t)
	dst := filepath.Join(e.dir, "out", "trip.html")
	out, err := run(t, e, "render", e.export, "--out", dst, "--stylesheet", "/notion.css")
	require.NoError(t, err, out)
	assert.Empty(t, out)

	var want bytes.Buffer
	require.NoError(t, format.WriteHTMLDocument(&want, format.DocumentOptions{Title: "Trip", Stylesheet: "/notion.css"}, tripFragment))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, want.String(), string(got))
}

func TestRenderAll(t *testing.T) {
	e := setupEnv(t)
	dst := filepath.Join(e.dir, "site")
	out, err := run(t, e, "render", e.export, "--all", "--out", dst, "--fragment")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Rendered 2 pages")

	budget, err := os.ReadFile(filepath.Join(dst, "budget.html"))
	require.NoError(t, err)
	assert.Equal(t, `<h1 class="notion-page-block">Budget</h1><div></div>`+"\n", string(budget))
	trip, err := os.ReadFile(filepath.Join(dst, "trip.html"))
	require.NoError(t, err)
	assert.Equal(t, tripFragment+"\n", string(trip))

	_, err = run(t, e, "render", e.export, "--all")
	assert.Error(t, err, "--all without --out")
}

func TestRenderMissingSource(t *testing.T) {
	e := setupEnv(t)
	_, err := run(t, e, "render", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no export file or stored export named "nope"`)
}

func TestImportListRenderDelete(t *testing.T) {
	e := setupEnv(t)

	out, err := run(t, e, "import", e.export)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported trip (2 pages, "+api.HashPayload([]byte(tripExport))[:12]+")")

	out, err = run(t, e, "exports", "--output", "json")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"name": "trip"`)

	out, err = run(t, e, "exports", "--noheaders")
	require.NoError(t, err, out)
	assert.True(t, strings.HasPrefix(out, "trip "), out)

	// Stored exports render the same as the file, through the cache.
	for range 2 {
		out, err = run(t, e, "render", "trip", "--fragment")
		require.NoError(t, err, out)
		assert.Equal(t, tripFragment+"\n", out)
	}

	out, err = run(t, e, "exports", "delete", "trip")
	require.NoError(t, err, out)
	assert.Equal(t, "Deleted trip\n", out)

	_, err = run(t, e, "exports", "delete", "trip")
	assert.Error(t, err)
	_, err = run(t, e, "render", "trip")
	assert.Error(t, err)
}

func TestImportRejectsBadPayload(t *testing.T) {
	e := setupEnv(t)
	bad := filepath.Join(e.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"recordMap": 1}`), 0o600))
	_, err := run(t, e, "import", bad, "--name", "bad")
	assert.Error(t, err)

	out, err := run(t, e, "exports", "--output", "ndjson")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPagesListing(t *testing.T) {
	e := setupEnv(t)
	out, err := run(t, e, "pages", e.export)
	require.NoError(t, err, out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id"))
	assert.Contains(t, lines[1], "Budget")
	assert.Contains(t, lines[2], "Trip")
	assert.True(t, strings.HasSuffix(lines[2], "yes"))

	_, err = run(t, e, "pages", e.export, "--output", "yaml")
	assert.Error(t, err)

	// Without a terminal the picker falls back to the plain table.
	tuiOut, err := run(t, e, "pages", e.export, "--output", "tui")
	require.NoError(t, err, tuiOut)
	assert.Equal(t, out, tuiOut)
}

func TestShow(t *testing.T) {
	e := setupEnv(t)
	out, err := run(t, e, "show", e.export)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Trip (root)")
	assert.Contains(t, out, "tent")
	assert.Contains(t, out, "Budget")
}

func TestCompletionScripts(t *testing.T) {
	e := setupEnv(t)
	for _, sh := range []string{"bash", "zsh", "fish"} {
		out, err := run(t, e, "completion", sh)
		require.NoError(t, err, sh)
		assert.Contains(t, out, "blockmark", sh)
	}
	_, err := run(t, e, "completion", "tcsh")
	assert.Error(t, err)
}

func TestPageFileNames(t *testing.T) {
	got := pageFileNames([]api.PageInfo{
		{ID: "a", Title: "Hello World"},
		{ID: "b", Title: "hello world"},
		{ID: "c-1", Title: ""},
		{ID: "", Title: "!!!"},
	})
	assert.Equal(t, []string{"hello-world.html", "hello-world-2.html", "c-1.html", "page.html"}, got)
}

func TestConfigGenerateAndShow(t *testing.T) {
	e := setupEnv(t)

	out, err := run(t, e, "config", "show")
	require.NoError(t, err, out)
	assert.Contains(t, out, "# file: "+e.config)
	assert.Regexp(t, `(?m)^render\.max_depth\s+100$`, out)
	assert.Regexp(t, `(?m)^log\.level\s+none$`, out)

	_, err = run(t, e, "config", "generate")
	require.Error(t, err, "refuses to replace the file named by --config")

	out, err = run(t, e, "config", "generate", "--update")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Backup: "+e.config+".bak")
	updated, err := os.ReadFile(e.config)
	require.NoError(t, err)
	assert.Contains(t, string(updated), "max_depth = 100")
	assert.Contains(t, string(updated), `level = "none"`)

	out, err = run(t, e, "config", "generate", "--update")
	require.NoError(t, err, out)
	assert.Contains(t, out, "already up to date")

	fresh := filepath.Join(e.dir, "fresh", "config.toml")
	out, err = run(t, e, "config", "generate", "-o", fresh)
	require.NoError(t, err, out)
	assert.Equal(t, "Wrote "+fresh+"\n", out)

	_, err = run(t, e, "config", "generate", "-o", fresh, "--overwrite", "--update")
	assert.Error(t, err)
}

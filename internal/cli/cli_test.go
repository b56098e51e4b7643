package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/treescape/pkg/cache"
	"github.com/matzehuels/treescape/pkg/config"
	"github.com/matzehuels/treescape/pkg/scene"
	"github.com/matzehuels/treescape/pkg/starfield"
	"github.com/matzehuels/treescape/pkg/tree"
	"github.com/matzehuels/treescape/pkg/walkthrough"
)

// testEnv isolates config, cache and data directories and writes a config
// file that disables caching and points the store into the temp dir.
func testEnv(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	cfgPath = filepath.Join(dir, "treescape.toml")
	cfg := "[cache]\nbackend = \"none\"\n\n[store]\nbackend = \"sqlite\"\npath = " +
		`"` + filepath.ToSlash(filepath.Join(dir, "trees.db")) + `"` + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return dir, cfgPath
}

// writeSample writes A -> [B, C], B -> [D] to dir/chat.json.
func writeSample(t *testing.T, dir string) string {
	t.Helper()
	f, err := starfield.New("A", v3.Vec{}, nil)
	require.NoError(t, err)
	for _, e := range [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}} {
		_, err := f.Add(e[0], e[1], tree.KindRegular)
		require.NoError(t, err)
	}
	path := filepath.Join(dir, "chat.json")
	require.NoError(t, scene.WriteTreeFile(f.Snapshot(), path))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWalkCommandWritesFormats(t *testing.T) {
	dir, cfg := testEnv(t)
	input := writeSample(t, dir)
	base := filepath.Join(dir, "out", "plan")
	require.NoError(t, os.MkdirAll(filepath.Dir(base), 0o755))

	_, err := execute(t, "--config", cfg, "walk", input, "-f", "json,svg,obj", "-o", base)
	require.NoError(t, err)

	data, err := os.ReadFile(base + ".json")
	require.NoError(t, err)
	var wt scene.Walkthrough
	require.NoError(t, json.Unmarshal(data, &wt))
	require.Len(t, wt.Rooms, 4)
	assert.Equal(t, "D", wt.Rooms[2].ID)

	svg, err := os.ReadFile(base + ".svg")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(svg, []byte("<svg")))

	obj, err := os.ReadFile(base + ".obj")
	require.NoError(t, err)
	assert.Contains(t, string(obj), "\nf ")
}

func TestWalkCommandRejectsBadInput(t *testing.T) {
	dir, cfg := testEnv(t)
	input := writeSample(t, dir)

	_, err := execute(t, "--config", cfg, "walk", input, "-f", "gif")
	assert.Error(t, err)

	_, err = execute(t, "--config", cfg, "walk", input, "--start", "Z")
	assert.ErrorContains(t, err, "unknown start node")
}

func TestPlaceCommand(t *testing.T) {
	dir, cfg := testEnv(t)
	input := writeSample(t, dir)
	out := filepath.Join(dir, "placements.json")
	placed := filepath.Join(dir, "placed.json")

	_, err := execute(t, "--config", cfg, "place", input, "-o", out, "--tree", placed)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var p scene.Placements
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, "A", p.Root)
	assert.Len(t, p.Positions, 4)

	snap, err := scene.ReadTreeFile(placed)
	require.NoError(t, err)
	assert.Equal(t, p.Positions["D"], scene.VecOf(snap.Entries["D"].Position))
}

func TestDotCommand(t *testing.T) {
	dir, cfg := testEnv(t)
	input := writeSample(t, dir)
	out := filepath.Join(dir, "tree.dot")

	_, err := execute(t, "--config", cfg, "dot", input, "-o", out, "--start", "B")
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"B" -> "D"`)
	assert.NotContains(t, string(data), `"C"`)

	_, err = execute(t, "--config", cfg, "dot", input, "-f", "jpg")
	assert.Error(t, err)
}

func TestGrowCommandUsesStore(t *testing.T) {
	dir, cfg := testEnv(t)

	_, err := execute(t, "--config", cfg, "grow", "hub", "--id", "a", "--text", "hello")
	require.NoError(t, err)
	_, err = execute(t, "--config", cfg, "grow", "hub", "--id", "b")
	require.NoError(t, err)
	_, err = execute(t, "--config", cfg, "grow", "hub", "--parent", "a", "--id", "a.1")
	require.NoError(t, err)

	_, err = execute(t, "--config", cfg, "grow", "hub", "--id", "a")
	assert.ErrorIs(t, err, tree.ErrDuplicateNodeID)
	_, err = execute(t, "--config", cfg, "grow", "hub", "--parent", "ghost")
	assert.ErrorIs(t, err, tree.ErrUnknownParent)

	// Stored trees are readable by the other commands.
	out := filepath.Join(dir, "hub.json")
	_, err = execute(t, "--config", cfg, "--stored", "walk", "hub", "-f", "json", "-o", out)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var wt scene.Walkthrough
	require.NoError(t, json.Unmarshal(data, &wt))
	var ids []string
	for _, r := range wt.Rooms {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"hub", "a", "a.1", "b"}, ids)
}

func TestConfigCommands(t *testing.T) {
	dir, cfg := testEnv(t)

	out, err := execute(t, "--config", cfg, "config")
	require.NoError(t, err)
	parsed, err := config.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, cache.BackendNone, parsed.Cache.Backend)

	out, err = execute(t, "--config", cfg, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfg, strings.TrimSpace(out))

	fresh := filepath.Join(dir, "nested", "config.toml")
	_, err = execute(t, "--config", fresh, "config", "init")
	require.NoError(t, err)
	data, err := os.ReadFile(fresh)
	require.NoError(t, err)
	_, err = config.Parse(data)
	assert.NoError(t, err)
}

func TestCachePathFollowsXDG(t *testing.T) {
	dir, _ := testEnv(t)

	out, err := execute(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cache", appName), strings.TrimSpace(out))
}

func TestClearFileCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	fc, err := cache.NewFileCache(dir)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, fc.Set(ctx, "walkthrough:abc", []byte("{}"), 0))
	require.NoError(t, fc.Set(ctx, "placement:def", []byte("{}"), 0))

	require.NoError(t, clearFileCache(dir))
	_, ok, err := fc.Get(ctx, "walkthrough:abc")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, clearFileCache(filepath.Join(t.TempDir(), "missing")))
}

func TestTourModel(t *testing.T) {
	dir := t.TempDir()
	snap, err := scene.ReadTreeFile(writeSample(t, dir))
	require.NoError(t, err)
	res := walkthrough.Build(snap, "", walkthrough.DefaultConfig())

	m := NewTourModel(snap, res)
	assert.Equal(t, "A", m.Current().ID)

	press := func(m TourModel, key tea.KeyType) TourModel {
		next, _ := m.Update(tea.KeyMsg{Type: key})
		return next.(TourModel)
	}
	m = press(m, tea.KeyLeft)
	assert.Equal(t, 0, m.Cursor, "cannot move before the first room")

	m = press(press(m, tea.KeyRight), tea.KeyRight)
	assert.Equal(t, "D", m.Current().ID)
	m = press(press(m, tea.KeyRight), tea.KeyRight)
	assert.Equal(t, "C", m.Current().ID, "cannot move past the last room")

	view := m.View()
	assert.Contains(t, view, "[4/4]")
	assert.Equal(t, 2, depthOf(snap, "D", "A"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotNil(t, cmd)
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, appName)

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestVerboseRaisesLogLevel(t *testing.T) {
	_, cfg := testEnv(t)
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	require.NoError(t, c.Execute(context.Background(), []string{"-v", "--config", cfg, "cache", "path"}))
	assert.Equal(t, LogDebug, c.Logger.GetLevel())
	assert.Contains(t, logs.String(), "loaded config")
}

package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/spotlight/pkg/grid"
)

// testEnv is an isolated config, cache and snapshot directory.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "xdg-cache"))

	cfg := fmt.Sprintf(`
[cache]
dir = '%s'

[storage]
dir = '%s'
`, filepath.Join(dir, "cache"), filepath.Join(dir, "snapshots"))

	path := filepath.Join(dir, "spotlight.toml")
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return testEnv{dir: dir, config: path}
}

func (e testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

func (e testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	p := e.path(name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

// run executes the CLI with args and the environment's config file.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.command()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.config}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// squareItems returns n square items named sq-0, sq-1, ...
func squareItems(n int) []grid.Item {
	items := make([]grid.Item, n)
	for i := range items {
		items[i] = grid.Item{ID: fmt.Sprintf("sq-%d", i), AspectRatio: 1}
	}
	return items
}

const squaresManifest = `
items:
  - id: a
    aspect_ratio: 1
  - id: b
    width: 640
    height: 640
  - id: c
    aspect_ratio: 1
  - id: d
    aspect_ratio: 1
`

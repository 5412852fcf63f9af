package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spotlight/pkg/observability"
)

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Laid out", "items", 420, "rows", 97)

	out := buf.String()
	for _, want := range []string{"Laid out", "items=420", "rows=97", "duration="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress.done() output = %q, missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() without a logger should return log.Default()")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext() should return the attached logger")
	}
}

// runLogged runs the command tree with logs captured in the returned buffer.
func (e testEnv) runLogged(t *testing.T, args ...string) string {
	t.Helper()
	var logs, out bytes.Buffer
	root := New(&logs, LogInfo).command()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v error: %v", args, err)
	}
	return logs.String()
}

func TestLayoutLogging(t *testing.T) {
	t.Cleanup(observability.Reset)
	env := newTestEnv(t)
	manifest := env.write(t, "gallery.yaml", squaresManifest)
	frame := []string{"--width", "400", "--row-height", "200", "--final", "--no-cache", "-o", env.path("out.layout.json")}

	tests := []struct {
		name    string
		verbose bool
		want    []string
		notWant string
	}{
		{"info", false, []string{"Laid out", "items=4", "rows=2", "cached=false"}, "tiled page"},
		{"verbose", true, []string{"Laid out", "tiled page"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"layout", manifest}, frame...)
			if tt.verbose {
				args = append(args, "--verbose")
			}
			logs := env.runLogged(t, args...)
			for _, w := range tt.want {
				if !strings.Contains(logs, w) {
					t.Errorf("logs missing %q:\n%s", w, logs)
				}
			}
			if tt.notWant != "" && strings.Contains(logs, tt.notWant) {
				t.Errorf("logs should not contain %q:\n%s", tt.notWant, logs)
			}
		})
	}
}

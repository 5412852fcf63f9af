package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v1.2.3", "abc123", "2025-01-01"

	got := Get()
	if got != (Info{Version: "v1.2.3", Commit: "abc123", Date: "2025-01-01"}) {
		t.Errorf("Get() = %+v", got)
	}
	if !strings.Contains(String(), "commit: abc123") {
		t.Errorf("String() = %q", String())
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
}

func TestGetDevFallback(t *testing.T) {
	if Get().Version == "" {
		t.Error("Get().Version should never be empty")
	}
}

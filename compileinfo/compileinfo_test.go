package compileinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	info := fromBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.25.0",
		Path:      "github.com/carbocation/snfspectra/cmd/caskspectrum",
		Main:      debug.Module{Path: "github.com/carbocation/snfspectra", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2024-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	got := info.String()
	want := "github.com/carbocation/snfspectra (go1.25.0) commit abc123 from 2024-01-02T03:04:05Z with uncommitted changes"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStringWithoutVCS(t *testing.T) {
	got := Info{Path: "x", Version: "v1.2.3"}.String()
	if got != "x v1.2.3" {
		t.Fatalf("got %q", got)
	}

	if got := (Info{}).String(); !strings.HasPrefix(got, "unknown module") {
		t.Fatalf("got %q", got)
	}
}

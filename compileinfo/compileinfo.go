package compileinfo

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
)

// Info describes the binary: the module it was built from and the VCS state
// at build time, when the toolchain recorded it.
type Info struct {
	Path      string
	Version   string
	GoVersion string
	Revision  string
	Time      string
	Dirty     bool
}

func (i Info) String() string {
	var sb strings.Builder

	name := i.Path
	if name == "" {
		name = "unknown module"
	}
	fmt.Fprintf(&sb, "%s", name)
	if i.Version != "" && i.Version != "(devel)" {
		fmt.Fprintf(&sb, " %s", i.Version)
	}
	if i.GoVersion != "" {
		fmt.Fprintf(&sb, " (%s)", i.GoVersion)
	}
	if i.Revision != "" {
		fmt.Fprintf(&sb, " commit %s", i.Revision)
		if i.Time != "" {
			fmt.Fprintf(&sb, " from %s", i.Time)
		}
		if i.Dirty {
			sb.WriteString(" with uncommitted changes")
		}
	}

	return sb.String()
}

// Get reads the build info embedded by the Go toolchain.
func Get() Info {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{}
	}
	return fromBuildInfo(z)
}

func fromBuildInfo(z *debug.BuildInfo) Info {
	out := Info{
		Path:      z.Main.Path,
		Version:   z.Main.Version,
		GoVersion: z.GoVersion,
	}
	if out.Path == "" {
		out.Path = z.Path
	}

	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Revision = s.Value
		case "vcs.time":
			out.Time = s.Value
		case "vcs.modified":
			out.Dirty = s.Value == "true"
		}
	}

	return out
}

func Fprint(w io.Writer) {
	fmt.Fprintln(w, Get())
}

func PrintToStdErr() {
	Fprint(os.Stderr)
}

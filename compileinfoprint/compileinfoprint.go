// Package compileinfoprint prints the build info to stderr when imported.
package compileinfoprint

import "github.com/carbocation/snfspectra/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}

package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun reports whether the current binary appears to be a `go run`
// build. Those live in the go-build cache, so writing next to a relative
// path would scatter vault files in unpredictable working directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return strings.Contains(exe, string(filepath.Separator)+"go-build")
}

// ResolveVaultPath maps the requested vault path onto the real location.
// When useTemp is set the vault is sandboxed under the system temp dir,
// keyed by the original path's base name so repeated runs reuse it.
func ResolveVaultPath(path string, useTemp bool) string {
	if !useTemp {
		return path
	}
	base := filepath.Base(filepath.Clean(path))
	if base == "." || base == string(filepath.Separator) {
		base = "vault"
	}
	return filepath.Join(os.TempDir(), "clipmemo-dev", base)
}

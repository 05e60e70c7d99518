package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed *.yaml
var PrefabsFS embed.FS

var (
	dirMu sync.RWMutex
	dir   string
)

// SetDir sets the directory searched before the embedded prefabs. Empty
// disables overrides.
func SetDir(p string) {
	dirMu.Lock()
	defer dirMu.Unlock()
	dir = p
}

func Dir() string {
	dirMu.RLock()
	defer dirMu.RUnlock()
	return dir
}

// Load returns the named prefab file, preferring the override directory.
func Load(name string) ([]byte, error) {
	name = cleanName(name)
	if p, ok := overridePath(name); ok {
		if data, err := os.ReadFile(p); err == nil {
			return data, nil
		}
	}
	return PrefabsFS.ReadFile(name)
}

// Overridden lists the prefab names that currently load from disk.
func Overridden() []string {
	var out []string
	for _, n := range Names {
		if p, ok := overridePath(n + ".yaml"); ok {
			if _, err := os.Stat(p); err == nil {
				out = append(out, n)
			}
		}
	}
	return out
}

func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean(filepath.ToSlash(name)), "prefabs/")
}

func overridePath(name string) (string, bool) {
	d := Dir()
	if d == "" {
		return "", false
	}
	return filepath.Join(d, filepath.FromSlash(name)), true
}

package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

var (
	dirMu sync.RWMutex
	dir   string
)

// SetDir sets the directory searched before the embedded blueprints. Empty
// disables overrides.
func SetDir(path string) {
	dirMu.Lock()
	defer dirMu.Unlock()
	dir = path
}

func Dir() string {
	dirMu.RLock()
	defer dirMu.RUnlock()
	return dir
}

var levelFile = regexp.MustCompile(`^level(\d+)\.yaml$`)

// FileName is the blueprint file for level id.
func FileName(id int) string {
	return fmt.Sprintf("level%d.yaml", id)
}

// Load reads and validates the blueprint for level id.
func Load(id int) (*Blueprint, error) {
	return LoadFile(FileName(id))
}

func LoadFile(name string) (*Blueprint, error) {
	data, err := read(name)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if err := bp.Validate(); err != nil {
		return nil, fmt.Errorf("levels: %s: %w", name, err)
	}
	return &bp, nil
}

// IDs lists the bundled level ids in order.
func IDs() []int {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var ids []int
	for _, e := range entries {
		m := levelFile.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// LoadAll loads every bundled blueprint in id order.
func LoadAll() ([]*Blueprint, error) {
	var out []*Blueprint
	for _, id := range IDs() {
		bp, err := Load(id)
		if err != nil {
			return nil, err
		}
		out = append(out, bp)
	}
	return out, nil
}

// Overridden reports whether level id loads from the override directory.
func Overridden(id int) bool {
	d := Dir()
	if d == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(d, FileName(id)))
	return err == nil
}

func read(name string) ([]byte, error) {
	if d := Dir(); d != "" {
		if data, err := os.ReadFile(filepath.Join(d, name)); err == nil {
			return data, nil
		}
	}
	return LevelsFS.ReadFile(name)
}

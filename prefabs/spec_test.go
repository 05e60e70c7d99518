package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoadLibraryEmbedded(t *testing.T) {
	lib, err := LoadLibrary()
	if err != nil {
		t.Fatal(err)
	}
	if len(lib) != len(Names) {
		t.Fatalf("expected %d prefabs, got %d", len(Names), len(lib))
	}

	cases := []struct {
		name    string
		circle  bool
		density float64
		maxHits int
	}{
		{Bird, true, 0.0015, 0},
		{BirdHeavy, true, 0.04, 0},
		{Pig, true, 0.002, 1},
		{PigBoss, true, 0.05, 5},
		{Block, false, 0.005, 2},
		{BlockHeavy, false, 0.08, 6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, ok := lib.Get(c.name)
			if !ok {
				t.Fatalf("missing prefab %s", c.name)
			}
			if spec.Circle() != c.circle {
				t.Fatalf("circle = %v, want %v", spec.Circle(), c.circle)
			}
			if spec.Density != c.density {
				t.Fatalf("density = %v, want %v", spec.Density, c.density)
			}
			if spec.MaxHits != c.maxHits {
				t.Fatalf("max hits = %d, want %d", spec.MaxHits, c.maxHits)
			}
		})
	}
}

func TestApplyOverride(t *testing.T) {
	base := BodySpec{Radius: 15, Density: 0.0015, Drag: 0.02, MaxHits: 2}
	density := 0.04
	hits := 3

	got := base.Apply(Override{Density: &density, MaxHits: &hits})

	if got.Density != 0.04 || got.MaxHits != 3 {
		t.Fatalf("override not applied: %+v", got)
	}
	if got.Radius != 15 || got.Drag != 0.02 {
		t.Fatalf("unset fields should keep prefab values: %+v", got)
	}
	if base.Density != 0.0015 {
		t.Fatalf("Apply must not mutate the receiver")
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{`"#D32F2F"`, color.NRGBA{R: 0xD3, G: 0x2F, B: 0x2F, A: 0xFF}, false},
		{`"00000080"`, color.NRGBA{A: 0x80}, false},
		{`"#123"`, color.NRGBA{}, true},
		{`[1, 2]`, color.NRGBA{}, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var out struct {
				Color YAMLColor `yaml:"color"`
			}
			err := yaml.Unmarshal([]byte("color: "+c.in), &out)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if out.Color.Color != c.want {
				t.Fatalf("got %v, want %v", out.Color.Color, c.want)
			}
		})
	}
}

func TestDiskOverride(t *testing.T) {
	prev := Dir()
	t.Cleanup(func() { SetDir(prev) })

	tmp := t.TempDir()
	SetDir(tmp)
	if err := os.WriteFile(filepath.Join(tmp, "pig.yaml"), []byte("name: pig\nshape: circle\nradius: 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	lib, err := LoadLibrary()
	if err != nil {
		t.Fatal(err)
	}
	if got := lib[Pig].Radius; got != 42 {
		t.Fatalf("expected disk override radius 42, got %v", got)
	}
	if got := lib[Bird].Radius; got != 15 {
		t.Fatalf("embedded prefab should still load, radius %v", got)
	}
	if got := Overridden(); !reflect.DeepEqual(got, []string{Pig}) {
		t.Fatalf("expected only pig overridden, got %v", got)
	}

	SetDir("")
	if got := Overridden(); len(got) != 0 {
		t.Fatalf("expected no overrides without a dir, got %v", got)
	}
}

func TestWatcherBatchesContentChanges(t *testing.T) {
	tmp := t.TempDir()
	w, err := NewWatcher(tmp, "")
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(tmp, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	block := filepath.Join(tmp, "block.yaml")
	pig := filepath.Join(tmp, "pig.yaml")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(block, []byte("name: block\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(pig, []byte("name: pig\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case batch := <-w.Events:
		if !reflect.DeepEqual(batch, []string{block, pig}) {
			t.Fatalf("unexpected batch %v", batch)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for watcher batch")
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatalf("expected events closed")
	}
}

func TestWatcherWithoutDirs(t *testing.T) {
	w, err := NewWatcher("", "")
	if err != nil || w != nil {
		t.Fatalf("expected no watcher and no error, got %v, %v", w, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close on nil watcher: %v", err)
	}
}

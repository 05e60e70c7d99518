package levels

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

var testViewport = Viewport{Width: 1280, Height: 720}

func TestExprEval(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		want    float64
		wantErr bool
	}{
		{"number", "v: 42.5", 42.5, false},
		{"negative", "v: -500", -500, false},
		{"width", "v: width*0.6 - 100", 668, false},
		{"ground", "v: groundY-132", 548, false},
		{"height", "v: height/2", 360, false},
		{"math module", "v: math.floor(width/3)", 426, false},
		{"unknown variable", "v: depth*2", 0, true},
		{"not a number", `v: '"abc"'`, 0, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var doc struct {
				V Expr `yaml:"v"`
			}
			if err := yaml.Unmarshal([]byte(c.yaml), &doc); err != nil {
				t.Fatal(err)
			}
			got, err := doc.V.Eval(context.Background(), testViewport)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestExprRejectsNonScalar(t *testing.T) {
	var doc struct {
		V Expr `yaml:"v"`
	}
	if err := yaml.Unmarshal([]byte("v: [1, 2]"), &doc); err == nil {
		t.Fatalf("expected sequence to be rejected")
	}
}

func TestBundledLevels(t *testing.T) {
	ids := IDs()
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Fatalf("unexpected level ids %v", ids)
	}

	cases := []struct {
		id          int
		projectiles int
		targets     int
		ability     Ability
		links       int
	}{
		{1, 3, 3, AbilityNone, 0},
		{2, 3, 4, AbilitySpeed, 0},
		{3, 4, 8, AbilityBlast, 4},
	}
	for _, c := range cases {
		t.Run(FileName(c.id), func(t *testing.T) {
			bp, err := Load(c.id)
			if err != nil {
				t.Fatal(err)
			}
			if bp.ID != c.id || bp.Projectiles != c.projectiles || bp.Targets != c.targets || bp.Ability != c.ability {
				t.Fatalf("unexpected header %+v", bp)
			}
			r, err := bp.Layout(context.Background(), testViewport)
			if err != nil {
				t.Fatal(err)
			}
			if len(r.Links) != c.links {
				t.Fatalf("expected %d links, got %d", c.links, len(r.Links))
			}
			if math.Abs(r.Launcher.X-256) > 1e-9 || math.Abs(r.Launcher.Y-550) > 1e-9 {
				t.Fatalf("unexpected launcher (%v, %v)", r.Launcher.X, r.Launcher.Y)
			}
			ground, ok := r.Placement("ground")
			if !ok || ground.W != 1280 || ground.Y != 710 {
				t.Fatalf("unexpected ground %+v", ground)
			}
		})
	}
}

func TestLevelOneGeometry(t *testing.T) {
	bp, err := Load(1)
	if err != nil {
		t.Fatal(err)
	}
	r, err := bp.Layout(context.Background(), testViewport)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string][2]float64{
		"col_left":  {668, 619},
		"platform1": {768, 548},
		"pig_top":   {768, 437},
		"post_left": {648, 508},
	}
	for id, pos := range want {
		p, ok := r.Placement(id)
		if !ok {
			t.Fatalf("missing placement %s", id)
		}
		if math.Abs(p.X-pos[0]) > 1e-9 || math.Abs(p.Y-pos[1]) > 1e-9 {
			t.Fatalf("%s at (%v, %v), want %v", id, p.X, p.Y, pos)
		}
	}
	if r.Tuning.Debounce.Milliseconds() != 100 {
		t.Fatalf("expected 100ms debounce, got %v", r.Tuning.Debounce)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Blueprint {
		return &Blueprint{
			ID:          9,
			Projectiles: 1,
			Targets:     1,
			Ability:     AbilityNone,
			Placements: []Placement{
				{ID: "bar", Kind: KindAnchor},
				{ID: "pig", Kind: KindTarget},
			},
			Links: []Link{{A: "bar", B: "pig"}},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Blueprint)
		want   error
	}{
		{"valid", func(*Blueprint) {}, nil},
		{"duplicate id", func(b *Blueprint) { b.Placements[1].ID = "bar" }, ErrDuplicateID},
		{"unknown link", func(b *Blueprint) { b.Links[0].B = "ghost" }, ErrUnknownLink},
		{"target count", func(b *Blueprint) { b.Targets = 2 }, ErrTargetCount},
		{"no projectiles", func(b *Blueprint) { b.Projectiles = 0 }, ErrNoProjectiles},
		{"unknown ability", func(b *Blueprint) { b.Ability = "laser" }, ErrUnknownAbility},
		{"unknown kind", func(b *Blueprint) { b.Placements[0].Kind = "cloud" }, ErrUnknownKind},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			bp := valid()
			c.mutate(bp)
			err := bp.Validate()
			if c.want == nil {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
		})
	}
}

func TestLayoutWrapsPlacementID(t *testing.T) {
	bp := &Blueprint{
		ID:          9,
		Projectiles: 1,
		Ability:     AbilityNone,
		Placements:  []Placement{{ID: "wall", Kind: KindTerrain, X: Script("nope+1")}},
	}
	_, err := bp.Layout(context.Background(), testViewport)
	if err == nil {
		t.Fatalf("expected layout error")
	}
	if got := err.Error(); !strings.Contains(got, "wall") {
		t.Fatalf("error should name the placement, got %q", got)
	}
}

func TestDiskOverride(t *testing.T) {
	prev := Dir()
	t.Cleanup(func() { SetDir(prev) })

	tmp := t.TempDir()
	SetDir(tmp)
	data := []byte("id: 1\nname: Custom\nprojectiles: 1\ntargets: 0\nability: none\n")
	if err := os.WriteFile(filepath.Join(tmp, FileName(1)), data, 0o644); err != nil {
		t.Fatal(err)
	}

	bp, err := Load(1)
	if err != nil {
		t.Fatal(err)
	}
	if bp.Name != "Custom" {
		t.Fatalf("expected disk blueprint, got %q", bp.Name)
	}
	if _, err := Load(2); err != nil {
		t.Fatalf("embedded level should still load: %v", err)
	}
	if !Overridden(1) || Overridden(2) {
		t.Fatalf("expected only level 1 overridden")
	}
}


package component

import "testing"

func TestComponentKindNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"struct", TransformComponent.Kind().String(), "Transform"},
		{"launcher", LauncherComponent.Kind().String(), "Launcher"},
		{"builtin", NewComponentKind[int]().String(), "int"},
		{"zero", ComponentKind[Transform]{}.String(), "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, tt.got)
			}
		})
	}
}

func TestComponentKindsAreDistinct(t *testing.T) {
	a, b := NewComponentKind[int](), NewComponentKind[int]()
	if a.ID() == b.ID() || !a.Valid() || !b.Valid() {
		t.Fatalf("expected distinct valid ids, got %d and %d", a.ID(), b.ID())
	}
}

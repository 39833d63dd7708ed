package domain

import "testing"

func TestCityPatch_ApplyDescription(t *testing.T) {
	old, repl := "Old text", "New text"

	tests := []struct {
		name  string
		patch CityPatch
		want  *string
	}{
		{name: "untouched", patch: CityPatch{}, want: &old},
		{name: "replaced", patch: CityPatch{Description: &repl}, want: &repl},
		{name: "cleared", patch: CityPatch{ClearDescription: true}, want: nil},
		{name: "clear wins", patch: CityPatch{Description: &repl, ClearDescription: true}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := old
			c := &City{Description: &desc}
			tt.patch.Apply(c)

			switch {
			case tt.want == nil && c.Description != nil:
				t.Fatalf("expected no description, got %q", *c.Description)
			case tt.want != nil && (c.Description == nil || *c.Description != *tt.want):
				t.Fatalf("expected %q, got %v", *tt.want, c.Description)
			}
		})
	}
}

package targets

import "testing"

func TestNewMapSkipsInvalidLabels(t *testing.T) {
	m := NewMap([]Target{
		{ID: "b1", Label: "A"},
		{ID: "b2", Label: " b "},
		{ID: "b3", Label: "AB"},
		{ID: "b4", Label: ""},
		{ID: "b5", Label: "A"},
		{ID: "b6", Label: " Z "},
	})
	if m.Len() != 2 {
		t.Fatalf("expected 2 mapped letters, got %d", m.Len())
	}
	if id, ok := m.Lookup('A'); !ok || id != "b1" {
		t.Fatalf("expected first target to win for A, got %q", id)
	}
	if id, ok := m.Lookup('Z'); !ok || id != "b6" {
		t.Fatalf("expected trimmed label for Z, got %q", id)
	}
	if _, ok := m.Lookup('B'); ok {
		t.Fatalf("expected lowercase label to be skipped")
	}
}

func TestDefaultRowsCoverAlphabet(t *testing.T) {
	m := NewMap(Flatten(DefaultRows()))
	for r := 'A'; r <= 'Z'; r++ {
		if _, ok := m.Lookup(r); !ok {
			t.Fatalf("letter %q has no target", r)
		}
	}
}

func TestNilMapLookup(t *testing.T) {
	var m *Map
	if _, ok := m.Lookup('A'); ok {
		t.Fatalf("expected nil map to miss")
	}
}

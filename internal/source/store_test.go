package source

import "testing"

func TestStoreEditReplacesText(t *testing.T) {
	s := NewStore(map[string]string{"a.js": "1", "b.js": "2"})

	if err := s.Edit("a.js", "updated"); err != nil {
		t.Fatalf("edit a.js: %v", err)
	}

	text, ok := s.Text("a.js")
	if !ok || text != "updated" {
		t.Fatalf("unexpected text after edit: %q (ok=%v)", text, ok)
	}
	text, _ = s.Text("b.js")
	if text != "2" {
		t.Fatalf("b.js must be untouched, got %q", text)
	}
}

func TestStoreRejectsUndeclaredFile(t *testing.T) {
	s := NewStore(map[string]string{"a.js": "1"})

	if err := s.Edit("ghost.js", "x"); err == nil {
		t.Fatal("expected error editing undeclared file")
	}
	if s.Has("ghost.js") {
		t.Fatal("undeclared file must not join the set")
	}
}

func TestStoreFilenamesSorted(t *testing.T) {
	s := NewStore(map[string]string{"b.js": "", "a.js": "", "c.js": ""})

	names := s.Filenames()
	want := []string{"a.js", "b.js", "c.js"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected order: got %v, want %v", names, want)
		}
	}
}

package history

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Save("budget", "rent = $1200"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	e, err := s.Load("budget")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e.Content != "rent = $1200" || e.ID == "" {
		t.Errorf("loaded %+v", e)
	}
}

func TestSaveOverwritesByName(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Save("nb", "a = 1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save("nb", "a = 2"); err != nil {
		t.Fatal(err)
	}
	e, err := s.Load("nb")
	if err != nil {
		t.Fatal(err)
	}
	if e.Content != "a = 2" {
		t.Errorf("content = %q, want overwrite", e.Content)
	}
	entries, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("%d entries after overwrite", len(entries))
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Load("nothing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Save("nb", "x = 1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("nb"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("nb"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

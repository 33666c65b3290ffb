package session

import "testing"

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	saved := &Session{
		History: []string{"https://one.example", "https://two.example"},
		Current: "https://three.example",
		Forward: []string{"https://four.example"},
	}
	if err := Save(saved); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Current != saved.Current {
		t.Errorf("Current = %q, want %q", loaded.Current, saved.Current)
	}
	if len(loaded.History) != 2 || loaded.History[0] != "https://one.example" {
		t.Errorf("History = %v", loaded.History)
	}
	if len(loaded.Forward) != 1 || loaded.Forward[0] != "https://four.example" {
		t.Errorf("Forward = %v", loaded.Forward)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := Load(); err == nil {
		t.Fatal("Load() with no session file should error")
	}
}

func TestClear(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := Save(&Session{Current: "https://example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("session should be gone after Clear()")
	}

	// Clearing twice is fine
	if err := Clear(); err != nil {
		t.Fatalf("second Clear() error: %v", err)
	}
}

package userconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSelectedServer_RoundTrip(t *testing.T) {
	p := Paths{Home: filepath.Join(t.TempDir(), "home")}

	got, err := p.GetSelectedServer()
	if err != nil {
		t.Fatalf("GetSelectedServer() error: %v", err)
	}
	if got != "" {
		t.Errorf("selected = %q, want empty before any selection", got)
	}

	if err := p.SetSelectedServer("http://localhost:8080/api"); err != nil {
		t.Fatalf("SetSelectedServer() error: %v", err)
	}

	got, err = p.GetSelectedServer()
	if err != nil {
		t.Fatalf("GetSelectedServer() error: %v", err)
	}
	if got != "http://localhost:8080/api" {
		t.Errorf("selected = %q", got)
	}

	path, _ := p.ConfigPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoad_Corrupt(t *testing.T) {
	p := Paths{Home: t.TempDir()}
	path, _ := p.ConfigPath()
	if err := os.WriteFile(path, []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := p.Load(); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestPaths(t *testing.T) {
	p := Paths{Home: "/tmp/nb"}

	session, err := p.SessionFile("localhost_8080_api")
	if err != nil {
		t.Fatal(err)
	}
	if session != "/tmp/nb/sessions/localhost_8080_api.json" {
		t.Errorf("SessionFile() = %q", session)
	}

	db, _ := p.StateDB()
	if db != "/tmp/nb/state.db" {
		t.Errorf("StateDB() = %q", db)
	}
}

package serverselect

import (
	"errors"
	"testing"

	"github.com/nutribattle/nutribattle/internal/cli/config"
	"github.com/nutribattle/nutribattle/internal/cli/userconfig"
)

func twoServers() *config.Config {
	return &config.Config{Servers: []config.Server{
		{URL: "http://localhost:8080/api", Alias: "local"},
		{URL: "https://nutri.example.com/api", Alias: "prod"},
	}}
}

func stubPrompt(t *testing.T, pick int, err error) *int {
	t.Helper()
	calls := 0
	prompt = func(cfg *config.Config) (*config.Server, error) {
		calls++
		if err != nil {
			return nil, err
		}
		return &cfg.Servers[pick], nil
	}
	t.Cleanup(func() { prompt = PromptServerSelection })
	return &calls
}

func TestResolveServer_Alias(t *testing.T) {
	calls := stubPrompt(t, 0, nil)
	paths := userconfig.Paths{Home: t.TempDir()}

	server, err := ResolveServer(twoServers(), "prod", paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.Alias != "prod" {
		t.Errorf("alias = %q, want prod", server.Alias)
	}

	if _, err := ResolveServer(twoServers(), "staging", paths); err == nil {
		t.Errorf("expected unknown alias error")
	}
	if *calls != 0 {
		t.Errorf("prompt called %d times", *calls)
	}
}

func TestResolveServer_RemembersSelection(t *testing.T) {
	calls := stubPrompt(t, 1, nil)
	paths := userconfig.Paths{Home: t.TempDir()}

	server, err := ResolveServer(twoServers(), "", paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.Alias != "prod" {
		t.Errorf("alias = %q, want prod", server.Alias)
	}

	// Second resolution uses the saved choice
	server, err = ResolveServer(twoServers(), "", paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.Alias != "prod" {
		t.Errorf("alias = %q, want prod", server.Alias)
	}
	if *calls != 1 {
		t.Errorf("prompt called %d times, want 1", *calls)
	}
}

func TestResolveServer_SingleServer(t *testing.T) {
	calls := stubPrompt(t, 0, nil)
	paths := userconfig.Paths{Home: t.TempDir()}

	// A stale selection is cleared
	if err := paths.SetSelectedServer("http://gone.example.com"); err != nil {
		t.Fatal(err)
	}

	server, err := ResolveServer(config.DefaultConfig(), "", paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.Alias != "local" {
		t.Errorf("alias = %q, want local", server.Alias)
	}

	selected, _ := paths.GetSelectedServer()
	if selected != "http://localhost:8080/api" {
		t.Errorf("selected = %q", selected)
	}
	if *calls != 0 {
		t.Errorf("prompt called %d times", *calls)
	}
}

func TestResolveServer_PromptCancelled(t *testing.T) {
	stubPrompt(t, 0, errors.New("^C"))

	_, err := ResolveServer(twoServers(), "", userconfig.Paths{Home: t.TempDir()})
	if err == nil {
		t.Errorf("expected error when the prompt is cancelled")
	}
}

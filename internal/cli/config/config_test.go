package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestServer_Scope(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://localhost:8080/api", "localhost_8080_api"},
		{"https://nutri.example.com", "nutri.example.com"},
		{"https://nutri.example.com/api/", "nutri.example.com_api"},
		{"not a url", "not_a_url"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := (Server{URL: tt.url}).Scope(); got != tt.want {
				t.Errorf("Scope() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateServerURL(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		errorContains string
	}{
		{name: "http", url: "http://localhost:8080/api"},
		{name: "https", url: "https://nutri.example.com/api"},
		{name: "empty", url: "", errorContains: "empty"},
		{name: "no scheme", url: "localhost:8080", errorContains: "scheme"},
		{name: "ftp", url: "ftp://example.com", errorContains: "scheme"},
		{name: "no host", url: "http://", errorContains: "missing host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServerURL(tt.url)
			if tt.errorContains == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q but got none", tt.errorContains)
			}
			if !strings.Contains(err.Error(), tt.errorContains) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errorContains)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		shouldError bool
	}{
		{name: "default", cfg: *DefaultConfig()},
		{name: "recommend defaults", cfg: Config{Recommend: RecommendDefaults{K: 3, Mode: "SAME_CATEGORY"}}},
		{name: "k out of range", cfg: Config{Recommend: RecommendDefaults{K: 11}}, shouldError: true},
		{name: "unknown mode", cfg: Config{Recommend: RecommendDefaults{Mode: "RANDOM"}}, shouldError: true},
		{name: "bad server", cfg: Config{Servers: []Server{{URL: "nope"}}}, shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.shouldError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.shouldError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_AddServer(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.AddServer(Server{URL: "https://nutri.example.com/api/", Alias: "prod"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.Servers[1].URL; got != "https://nutri.example.com/api" {
		t.Errorf("URL = %q, want trailing slash trimmed", got)
	}

	if err := cfg.AddServer(Server{URL: "https://nutri.example.com/api"}); err == nil {
		t.Errorf("expected duplicate URL error")
	}
	if err := cfg.AddServer(Server{URL: "https://other.example.com", Alias: "prod"}); err == nil {
		t.Errorf("expected duplicate alias error")
	}

	server, err := cfg.GetServerByURLOrAlias("https://nutri.example.com/api/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.Alias != "prod" {
		t.Errorf("alias = %q, want %q", server.Alias, "prod")
	}

	server, err = cfg.GetServerByURLOrAlias("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.URL != "http://localhost:8080/api" {
		t.Errorf("URL = %q", server.URL)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := DefaultConfig()
	cfg.Recommend = RecommendDefaults{K: 4, Mode: "MIXED"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Servers) != 1 || loaded.Servers[0].Alias != "local" {
		t.Errorf("servers = %+v", loaded.Servers)
	}
	if loaded.Recommend.K != 4 {
		t.Errorf("recommend.k = %d, want 4", loaded.Recommend.K)
	}

	if err := os.WriteFile(path, []byte(`{"servers":[{"url":"ftp://x"}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("expected invalid config error")
	}
}

func TestFindConfigFile_SearchesParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := Save(filepath.Join(root, ConfigFileName), DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	t.Chdir(nested)

	path, err := FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile() error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(root, ConfigFileName))
	got, _ := filepath.EvalSymlinks(path)
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

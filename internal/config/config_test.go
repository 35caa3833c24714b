package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LLM_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.LLMProvider != "openrouter" || cfg.ReportDir != "reports" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MirrorEnabled() {
		t.Error("mirror should be disabled without S3_ENDPOINT")
	}
	if cfg.LLMAPIKey != "test-key" {
		t.Errorf("expected API key from env, got %q", cfg.LLMAPIKey)
	}
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("expected error without API key")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
port: "9090"
llm_provider: ollama
summary_model: llama3.2
generation_model: mistral
llm_timeout: 45s
watch_dir: /srv/inbox
s3_endpoint: minio:9000
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("GENERATION_MODEL", "qwen2.5")
	t.Setenv("WATCH_SETTLE", "500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9090" || cfg.LLMProvider != "ollama" || cfg.SummaryModel != "llama3.2" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.GenerationModel != "qwen2.5" {
		t.Errorf("env should override file, got %q", cfg.GenerationModel)
	}
	if cfg.LLMTimeout != 45*time.Second {
		t.Errorf("unexpected timeout %v", cfg.LLMTimeout)
	}
	if cfg.WatchSettle != 500*time.Millisecond {
		t.Errorf("unexpected settle %v", cfg.WatchSettle)
	}
	if !cfg.MirrorEnabled() {
		t.Error("mirror should be enabled by s3_endpoint")
	}
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	cfg.LLMProvider = "vertex"
	if err := cfg.Validate(); err == nil {
		t.Error("vertex without project should fail")
	}

	cfg.VertexProject = "my-project"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.LLMProvider = "bard"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://a.example.com, ,https://b.example.com ")

	got := getEnvAsList("CORS_ORIGINS", nil)
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Errorf("unexpected origins: %v", got)
	}

	if got := getEnvAsList("UNSET_LIST_FOR_TEST", []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Errorf("expected default, got %v", got)
	}
}

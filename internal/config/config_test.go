package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service")
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for missing supabase env")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_NAME", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("RESUME_BUCKET", "")
	t.Setenv("PHOTO_BUCKET", "")
	t.Setenv("GROQ_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.App.HTTPPort != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.App.HTTPPort)
	}
	if cfg.Supabase.ResumeBucket != "resumes" || cfg.Supabase.PhotoBucket != "photos" {
		t.Fatalf("unexpected bucket defaults: %q %q", cfg.Supabase.ResumeBucket, cfg.Supabase.PhotoBucket)
	}
	if cfg.AI.GroqModel != "llama3-70b-8192" {
		t.Fatalf("unexpected model default: %q", cfg.AI.GroqModel)
	}
	if cfg.Database.ConnectTimeout != 5*time.Second {
		t.Fatalf("unexpected connect timeout: %v", cfg.Database.ConnectTimeout)
	}
}

func TestOriginURL(t *testing.T) {
	cfg := Config{
		App:      AppConfig{Environment: "development"},
		Frontend: FrontendConfig{DevURL: "http://localhost:8080", ProdURL: "https://rosie-frontend.vercel.app"},
	}
	if got := cfg.OriginURL(); got != "http://localhost:8080" {
		t.Fatalf("expected dev origin, got %q", got)
	}

	cfg.App.Environment = "production"
	if got := cfg.OriginURL(); got != "https://rosie-frontend.vercel.app" {
		t.Fatalf("expected prod origin, got %q", got)
	}
}

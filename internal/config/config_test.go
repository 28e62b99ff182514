package config

import "testing"

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_BadRemoteURL(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{Port: 8080},
		Remote: RemoteConfig{URL: "localhost:8000"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for non-http remote url")
	}
}

func TestValidate_ValidRemoteURLs(t *testing.T) {
	for _, url := range []string{"", "http://localhost:8000", "https://search.internal"} {
		t.Run("url="+url, func(t *testing.T) {
			cfg := Config{
				HTTP:   HTTPConfig{Port: 8080},
				Remote: RemoteConfig{URL: url},
			}

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for remote url %q: %v", url, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Index.SliceSize != 5000 {
		t.Errorf("expected SliceSize=5000, got %d", cfg.Index.SliceSize)
	}
	if cfg.Index.ImageSliceSize != 2500 {
		t.Errorf("expected ImageSliceSize=2500, got %d", cfg.Index.ImageSliceSize)
	}
	if cfg.Index.PageSize != 24 {
		t.Errorf("expected PageSize=24, got %d", cfg.Index.PageSize)
	}
	if cfg.Index.Parallelism != 4 {
		t.Errorf("expected Parallelism=4, got %d", cfg.Index.Parallelism)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Index: IndexConfig{SliceSize: 100, ImageSliceSize: 50, PageSize: 10, Parallelism: 2},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Index.SliceSize != 100 {
		t.Errorf("expected SliceSize=100, got %d", cfg.Index.SliceSize)
	}
	if cfg.Index.PageSize != 10 {
		t.Errorf("expected PageSize=10, got %d", cfg.Index.PageSize)
	}
}

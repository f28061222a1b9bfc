package config

import (
	"testing"
)

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CHUNKDEX_TEST_VAR", "hello")

	got := string(expandEnvVars([]byte("a: ${CHUNKDEX_TEST_VAR}\nb: ${MISSING_VAR:-fallback}\nc: ${MISSING_VAR}")))
	want := "a: hello\nb: fallback\nc: "
	if got != want {
		t.Errorf("expandEnvVars = %q, want %q", got, want)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Storage.Path != "chunkdex.db" {
		t.Errorf("storage.path = %q", cfg.Storage.Path)
	}
	if cfg.Ingest.MaxBatchSize != 100 {
		t.Errorf("ingest.max_batch_size = %d", cfg.Ingest.MaxBatchSize)
	}
	if cfg.Embedding.Model == "" {
		t.Error("embedding.model not defaulted")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Embedding: EmbeddingConfig{Dimensions: 1536},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}

	noPort := valid
	noPort.HTTP.Port = 0
	if err := noPort.Validate(); err == nil {
		t.Error("Validate accepted zero port")
	}

	noDims := valid
	noDims.Embedding.Dimensions = 0
	if err := noDims.Validate(); err == nil {
		t.Error("Validate accepted zero dimensions")
	}

	cacheNoAddrs := valid
	cacheNoAddrs.Cache.Enabled = true
	if err := cacheNoAddrs.Validate(); err == nil {
		t.Error("Validate accepted enabled cache without addrs")
	}
}

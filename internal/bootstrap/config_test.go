package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestSetup(t *testing.T) {
	path := writeEnv(t, `SERVER_PORT=9090
REDIS_URL=localhost:6379
MONGO_URI=mongodb://localhost:27017
MONGO_DATABASE=arena_test
LOCAL_CORS=true
`)

	cfg, err := Setup(path)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.RedisUrl != "localhost:6379" {
		t.Errorf("RedisUrl = %q", cfg.RedisUrl)
	}
	if cfg.MongoDatabase != "arena_test" {
		t.Errorf("MongoDatabase = %q, want arena_test", cfg.MongoDatabase)
	}
	if !cfg.IsLocalCors {
		t.Error("IsLocalCors = false, want true")
	}
}

func TestSetupDefaults(t *testing.T) {
	path := writeEnv(t, `REDIS_URL=localhost:6379
MONGO_URI=mongodb://localhost:27017
`)

	cfg, err := Setup(path)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("default ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.MongoDatabase != "poke_arena" {
		t.Errorf("default MongoDatabase = %q, want poke_arena", cfg.MongoDatabase)
	}
}

func TestSetupMissingFile(t *testing.T) {
	if _, err := Setup(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatal("Setup with a missing file did not fail")
	}
}

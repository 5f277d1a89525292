package config

import "testing"

func TestLoadDevelopmentDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("REDIS_URL", "")
	t.Setenv("QUEUE_NAME", "")
	t.Setenv("MODEL", "")

	cfg := Load()

	if cfg.RedisURL != "redis://localhost:6379" {
		t.Fatalf("expected local redis default in development, got %q", cfg.RedisURL)
	}
	if cfg.QueueName != "task_queue" {
		t.Fatalf("expected default queue name, got %q", cfg.QueueName)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %q", cfg.Model)
	}
}

func TestLoadProductionRequiresRedis(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://db/app")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("REDIS_URL", "")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when REDIS_URL is unset in production")
		}
	}()
	Load()
}

func TestLoadProductionRequiresDatabase(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://cache/0")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when DATABASE_URL is unset in production")
		}
	}()
	Load()
}

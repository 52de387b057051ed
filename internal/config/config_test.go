package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOCAL_STORE_ONLY", "BREAKER_COOLDOWN", "RABBITMQ_QUEUE", "RABBIT_QUEUE", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.Port != "8080" || c.LocalStoreOnly || c.BreakerCooldown != 30*time.Second {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.RabbitQueue != "pipeline_events" || c.LogLevel != slog.LevelInfo {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LOCAL_STORE_ONLY", "true")
	t.Setenv("BREAKER_COOLDOWN", "2m")
	t.Setenv("RABBITMQ_QUEUE", "")
	t.Setenv("RABBIT_QUEUE", "legacy_queue")
	t.Setenv("LOG_LEVEL", "DEBUG")

	c := Load()
	if !c.LocalStoreOnly || c.BreakerCooldown != 2*time.Minute {
		t.Fatalf("store flags: %+v", c)
	}
	if c.RabbitQueue != "legacy_queue" {
		t.Fatalf("queue fallback key: %q", c.RabbitQueue)
	}
	if c.LogLevel != slog.LevelDebug {
		t.Fatalf("level: %v", c.LogLevel)
	}
}

func TestParseBool_InvalidKeepsDefault(t *testing.T) {
	t.Setenv("X_FLAG", "talvez")
	if !parseBool("X_FLAG", true) {
		t.Fatal("invalid value should keep default")
	}
}

func TestLoadWSConfig_SharesRabbitKeys(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "amqp://u:p@rabbit:5672/")
	t.Setenv("RABBITMQ_QUEUE", "eventos")
	t.Setenv("WS_PREFETCH", "x")

	c := LoadWSConfig()
	if c.RabbitURI != "amqp://u:p@rabbit:5672/" || c.RabbitQueue != "eventos" {
		t.Fatalf("rabbit: %+v", c)
	}
	if c.ConsumerPrefetch != 50 || c.Addr != ":8090" {
		t.Fatalf("defaults: %+v", c)
	}
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, "").Info("domain_event", "acao", "upsert")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil || rec["acao"] != "upsert" {
		t.Fatalf("json log: %v %s", err, buf.String())
	}

	buf.Reset()
	l := NewLogger(&buf, slog.LevelWarn, "TEXT")
	l.Info("hidden")
	l.Warn("primary_store_failed", "op", "list_companies")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "op=list_companies") {
		t.Fatalf("text log: %q", out)
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.LockWait != 5*time.Second {
		t.Fatalf("expected default lock wait 5s, got %s", cfg.LockWait)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Fatalf("expected default poll interval 500ms, got %s", cfg.PollInterval)
	}
	if cfg.FraudMaxTransfersPerHour != 10 {
		t.Fatalf("expected default max transfers 10, got %d", cfg.FraudMaxTransfersPerHour)
	}
	if cfg.RateLimitRPS != 50 {
		t.Fatalf("expected default rate limit 50 rps, got %d", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 100 {
		t.Fatalf("expected default burst 100, got %d", cfg.RateLimitBurst)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("FRAUD_SUSPICIOUS_HOUR_END", "7")
	t.Setenv("CONSUMER_GROUP_FRAUD", "fraud-eu")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.HTTPPort)
	}
	if cfg.FraudSuspiciousHourEnd != 7 {
		t.Fatalf("expected hour end 7, got %d", cfg.FraudSuspiciousHourEnd)
	}
	if cfg.ConsumerGroupFraud != "fraud-eu" {
		t.Fatalf("expected group fraud-eu, got %s", cfg.ConsumerGroupFraud)
	}
}

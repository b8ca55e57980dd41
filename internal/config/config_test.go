package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Decision.TopK != 3 {
		t.Errorf("Expected default top-k 3, got %d", cfg.Decision.TopK)
	}
	if cfg.Decision.Pass1Workers != 8 {
		t.Errorf("Expected default workers 8, got %d", cfg.Decision.Pass1Workers)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TOP_K", "5")
	t.Setenv("RULE_FILE", "/etc/coarank/rules.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9000" || cfg.Decision.TopK != 5 {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if cfg.Decision.RuleFile != "/etc/coarank/rules.json" {
		t.Errorf("Rule file not applied: %s", cfg.Decision.RuleFile)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("TOP_K", "zero")
	if _, err := Load(); err == nil {
		t.Error("Expected error for non-integer TOP_K")
	}

	t.Setenv("TOP_K", "0")
	if _, err := Load(); err == nil {
		t.Error("Expected error for TOP_K below 1")
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Game.MaxPlayers != 8 {
		t.Errorf("MaxPlayers = %d, want 8", cfg.Game.MaxPlayers)
	}
	if cfg.Game.MinPlayers != 2 {
		t.Errorf("MinPlayers = %d, want 2", cfg.Game.MinPlayers)
	}
	if cfg.Game.SpinMax != 10 {
		t.Errorf("SpinMax = %d, want 10", cfg.Game.SpinMax)
	}
	if cfg.Game.SettleDelay != 3*time.Second {
		t.Errorf("SettleDelay = %v, want 3s", cfg.Game.SettleDelay)
	}
	if cfg.Game.HostAutoJoin {
		t.Error("HostAutoJoin should default to false")
	}
	if !cfg.Game.RestrictSideSpins {
		t.Error("RestrictSideSpins should default to true")
	}
	if got := cfg.GetAddr(); got != "0.0.0.0:8080" {
		t.Errorf("GetAddr() = %q, want %q", got, "0.0.0.0:8080")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_PLAYERS", "4")
	t.Setenv("SETTLE_DELAY_MS", "500")
	t.Setenv("HOST_AUTO_JOIN", "true")
	t.Setenv("ENV", "production")

	cfg := Load()

	if cfg.Game.MaxPlayers != 4 {
		t.Errorf("MaxPlayers = %d, want 4", cfg.Game.MaxPlayers)
	}
	if cfg.Game.SettleDelay != 500*time.Millisecond {
		t.Errorf("SettleDelay = %v, want 500ms", cfg.Game.SettleDelay)
	}
	if !cfg.Game.HostAutoJoin {
		t.Error("HOST_AUTO_JOIN=true not applied")
	}
	if !cfg.IsProduction() {
		t.Error("ENV=production not applied")
	}
}

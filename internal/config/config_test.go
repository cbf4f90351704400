package config

import (
	"testing"

	"github.com/inamate/draft/internal/document"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9090 || cfg.HistoryLimit != 50 || cfg.LogLevel != "info" {
		t.Errorf("cfg = %+v", cfg)
	}

	origins := cfg.Origins()
	if len(origins) != 2 || origins[0] != "http://a.test" || origins[1] != "http://b.test" {
		t.Errorf("Origins() = %q", origins)
	}
}

func TestToolConfig(t *testing.T) {
	cfg := &Config{GridSpacing: 25, SnapDistance: 6, HitTolerance: 3, MinDrag: 1}
	tc := cfg.ToolConfig(document.NewCounter("el"))
	if tc.Snap.GridSpacing != 25 || tc.Snap.SnapDistance != 6 || !tc.Snap.ObjectSnap {
		t.Errorf("snap = %+v", tc.Snap)
	}
	if tc.HitTolerance != 3 || tc.MinDrag != 1 {
		t.Errorf("tolerances = %v, %v", tc.HitTolerance, tc.MinDrag)
	}
}

package controller

import "testing"

func TestStartOptions(t *testing.T) {
	cfg := &StartConfig{}
	WithDiscoverMode()(cfg)
	if cfg.mode != ModeDiscover {
		t.Fatalf("WithDiscoverMode() mode = %v, want %v", cfg.mode, ModeDiscover)
	}

	WithTestMode()(cfg)
	if cfg.mode != ModeTest {
		t.Fatalf("WithTestMode() mode = %v, want %v", cfg.mode, ModeTest)
	}
}

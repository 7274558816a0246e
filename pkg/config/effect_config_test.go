package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/embedded"
)

const shippedConfig = "../../data/effects.yaml"

func TestLoadEffectConfig_MatchesDefaults(t *testing.T) {
	cfg, err := LoadEffectConfig(shippedConfig)
	if err != nil {
		t.Fatalf("LoadEffectConfig failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultEffectConfig()) {
		t.Errorf("data/effects.yaml diverged from DefaultEffectConfig()\n got: %+v\nwant: %+v", cfg, DefaultEffectConfig())
	}
}

func TestDefaultEffectConfigIsValid(t *testing.T) {
	if err := DefaultEffectConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadEffectConfig_MissingFile(t *testing.T) {
	_, err := LoadEffectConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoadEmbeddedEffectConfig(t *testing.T) {
	data, err := os.ReadFile(shippedConfig)
	if err != nil {
		t.Fatal(err)
	}
	embedded.Init(fstest.MapFS{"data/effects.yaml": {Data: data}})
	t.Cleanup(func() { embedded.Init(nil) })

	cfg, err := LoadEmbeddedEffectConfig()
	if err != nil {
		t.Fatalf("LoadEmbeddedEffectConfig failed: %v", err)
	}
	if cfg.Stream.Count != 15 {
		t.Errorf("Expected 15 bubbles, got %d", cfg.Stream.Count)
	}
}

func TestParseEffectConfig_PartialOverride(t *testing.T) {
	cfg, err := ParseEffectConfig([]byte("stream:\n  count: 5\n  stagger: 0.1\n"))
	if err != nil {
		t.Fatalf("ParseEffectConfig failed: %v", err)
	}
	if cfg.Stream.Count != 5 || cfg.Stream.Stagger != 0.1 {
		t.Errorf("override not applied: count=%d stagger=%v", cfg.Stream.Count, cfg.Stream.Stagger)
	}
	if cfg.Stream.CompletionDelay != 4.5 {
		t.Errorf("Expected untouched completionDelay 4.5, got %v", cfg.Stream.CompletionDelay)
	}
	if len(cfg.Burst.Layers) != 4 {
		t.Errorf("Expected default 4 layers, got %d", len(cfg.Burst.Layers))
	}
}

func TestParseEffectConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"malformed", "burst: [", "failed to parse"},
		{"no layers", "burst:\n  layers: []\n", "no layers"},
		{"bad blend", "burst:\n  layers:\n    - {name: a, count: 1, lifetime: 0.5, removeAfter: 0.6, spriteSize: 2, blend: multiply}\n", "blend mode"},
		{"zero count", "burst:\n  layers:\n    - {name: a, count: 0, lifetime: 0.5, removeAfter: 0.6, spriteSize: 2}\n", "count"},
		{"outlives completion", "burst:\n  completionDelay: 0.2\n", "outlives"},
		{"duplicate layer", "burst:\n  layers:\n    - {name: a, count: 1, lifetime: 0.5, removeAfter: 0.6, spriteSize: 2}\n    - {name: a, count: 1, lifetime: 0.5, removeAfter: 0.6, spriteSize: 2}\n", "duplicate"},
		{"bad fade", "stream:\n  fade: \"0,1 oops\"\n", "fade"},
		{"inverted size", "stream:\n  size: {min: 40, max: 20}\n", "size range"},
		{"zero bubbles", "stream:\n  count: 0\n", "count"},
		{"bubble outlives completion", "stream:\n  completionDelay: 4.0\n", "outlives"},
		{"slow bubbles outlive completion", "stream:\n  moveDuration: {min: 2.5, max: 4.0}\n", "outlives"},
		{"negative weight", "theme:\n  weights: {base: -1, accent: 0.3, complementary: 0.1}\n", "weights"},
		{"bad default color", "theme:\n  default: {hue: 2, saturation: 1, brightness: 1, alpha: 1}\n", "default color"},
		{"zero fallback", "viewport:\n  fallbackWidth: 0\n", "fallback size"},
		{"texture alpha", "texture:\n  baseAlpha: 2\n", "base alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEffectConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestStreamConfig_LastBubbleEnd(t *testing.T) {
	s := DefaultEffectConfig().Stream
	// 14 × 0.05 + max(3.8, 3.0)
	if got := s.LastBubbleEnd(); math.Abs(got-4.5) > 1e-9 {
		t.Errorf("Expected last bubble to end at 4.5s, got %v", got)
	}
	if s.LastBubbleEnd() > s.CompletionDelay+1e-9 {
		t.Errorf("Default stream outlives its completion: %v > %v", s.LastBubbleEnd(), s.CompletionDelay)
	}

	s.MoveDuration.Max = 2.8
	// 渐隐曲线更长时取渐隐时长
	if got := s.LastBubbleEnd(); math.Abs(got-3.7) > 1e-9 {
		t.Errorf("Expected fade-bound end 3.7s, got %v", got)
	}
}

func TestParseEffectConfig_NoLayersSentinel(t *testing.T) {
	_, err := ParseEffectConfig([]byte("burst:\n  layers: []\n"))
	if !errors.Is(err, ErrNoLayers) {
		t.Errorf("Expected ErrNoLayers, got %v", err)
	}
}

func TestLayerSpecs(t *testing.T) {
	cfg := DefaultEffectConfig()
	specs, err := cfg.Burst.LayerSpecs()
	if err != nil {
		t.Fatalf("LayerSpecs failed: %v", err)
	}

	want := map[string]struct {
		count int
		blend particle.BlendMode
		color particle.ColorVariant
	}{
		"main":      {100, particle.BlendAdditive, particle.ColorBase},
		"secondary": {80, particle.BlendAlpha, particle.ColorBase},
		"highlight": {50, particle.BlendAdditive, particle.ColorBright},
		"fragment":  {120, particle.BlendAlpha, particle.ColorBase},
	}
	for _, s := range specs {
		w, ok := want[s.Name]
		if !ok {
			t.Errorf("unexpected layer %q", s.Name)
			continue
		}
		if s.Count != w.count || s.Blend != w.blend || s.Color != w.color {
			t.Errorf("layer %s: got count=%d blend=%v color=%v", s.Name, s.Count, s.Blend, s.Color)
		}
		if math.Abs(s.EmissionAngleRange-2*math.Pi) > 1e-12 {
			t.Errorf("layer %s: Expected full 2π emission, got %v", s.Name, s.EmissionAngleRange)
		}
	}

	if total := cfg.Burst.TotalParticles(); total != 350 {
		t.Errorf("Expected 350 particles, got %d", total)
	}
}

func TestStreamHelpers(t *testing.T) {
	s := DefaultEffectConfig().Stream
	if math.Abs(s.DirectionRadians()-math.Pi/2) > 1e-12 {
		t.Errorf("Expected π/2 direction, got %v", s.DirectionRadians())
	}
	if math.Abs(s.SpreadRadians()-math.Pi/3) > 1e-12 {
		t.Errorf("Expected π/3 spread, got %v", s.SpreadRadians())
	}

	fade := s.FadeCurve()
	if fade.Duration() != 3 {
		t.Errorf("Expected 3s fade, got %v", fade.Duration())
	}
	if got := fade.At(0.25); got != 1 {
		t.Errorf("Expected alpha held at 1 during the first 0.5s, got %v", got)
	}

	s.Fade = "garbage"
	if got := s.FadeCurve().At(2); got != 1 {
		t.Errorf("unparsable curve should fall back to opaque, got %v", got)
	}
}

func TestTextureOptions(t *testing.T) {
	opts := DefaultEffectConfig().Texture.Options()
	if opts.BaseAlpha != 0.35 || opts.LowContrastBaseAlpha != 0.25 || opts.ShadowBlur != 2 {
		t.Errorf("unexpected texture options %+v", opts)
	}
}

package config

import "github.com/decker502/bubblefx/pkg/theme"

// DefaultEffectConfig 返回内置默认配置，与 data/effects.yaml 保持一致
func DefaultEffectConfig() *EffectConfig {
	return &EffectConfig{
		Burst: BurstConfig{
			CompletionDelay: 1.5,
			Prewarm:         0.1,
			Layers: []LayerConfig{
				{
					Name: "main", Delay: 0, RemoveAfter: 1.2,
					Count: 100, Lifetime: 0.9, Speed: 180, SpeedRange: 120,
					EmissionAngleRange: 360, AccelY: -120,
					Alpha: 1.0, AlphaRange: 0.2, AlphaSpeed: -1.0,
					Scale: 1.0, ScaleRange: 0.5, ScaleSpeed: -0.4,
					RotationRange: 360, RotationSpeed: 3,
					Blend: "additive", SpriteSize: 8, Color: "base",
				},
				{
					Name: "secondary", Delay: 0.05, RemoveAfter: 1.3,
					Count: 80, Lifetime: 1.1, Speed: 140, SpeedRange: 90,
					EmissionAngleRange: 360, AccelY: -100,
					Alpha: 0.9, AlphaRange: 0.3, AlphaSpeed: -0.8,
					Scale: 1.0, ScaleRange: 0.5, ScaleSpeed: -0.3,
					RotationRange: 360, RotationSpeed: 2,
					Blend: "alpha", SpriteSize: 6, Color: "base",
				},
				{
					Name: "highlight", Delay: 0.1, RemoveAfter: 1.6,
					Count: 50, Lifetime: 1.3, Speed: 90, SpeedRange: 60,
					EmissionAngleRange: 360, AccelY: -60,
					Alpha: 0.95, AlphaRange: 0.2, AlphaSpeed: -0.7,
					Scale: 1.0, ScaleRange: 0.4, ScaleSpeed: -0.2,
					RotationRange: 360, RotationSpeed: 1.5,
					Blend: "additive", SpriteSize: 10, Color: "bright",
				},
				{
					Name: "fragment", Delay: 0.02, RemoveAfter: 0.8,
					Count: 120, Lifetime: 0.6, Speed: 220, SpeedRange: 180,
					EmissionAngleRange: 360, AccelY: -180,
					Alpha: 0.8, AlphaRange: 0.3, AlphaSpeed: -1.3,
					Scale: 1.0, ScaleRange: 0.5, ScaleSpeed: -0.8,
					RotationRange: 360, RotationSpeed: 5,
					Blend: "alpha", SpriteSize: 3, Color: "base",
				},
			},
		},
		Stream: StreamConfig{
			Count:           15,
			Stagger:         0.05,
			CompletionDelay: 4.5,
			Direction:       90,
			Spread:          60,
			Size:            Range{Min: 20, Max: 40},
			Distance:        Range{Min: 200, Max: 400},
			OffsetX:         Range{Min: -150, Max: 150},
			OffsetY:         Range{Min: 50, Max: 150},
			FullOffset:      Range{Min: -150, Max: 150},
			MoveDuration:    Range{Min: 2.5, Max: 3.8},
			SwayAmplitude:   30,
			SwayPhase:       1.0,
			SwayRepeat:      3,
			Fade:            "0,1 0.5,1 1.5,0.7 2.5,0.3 3,0",
			ScaleVariation:  Range{Min: 0.9, Max: 1.1},
			ScalePhase:      1.0,
			ScaleRepeat:     2,
			SoundDelay:      Range{Min: 0.01, Max: 0.02},
			SoundCues:       3,
			SpinPeriod:      8,
			Shimmer: ShimmerConfig{
				Scale:  1.2,
				Alpha:  0.3,
				Period: 1.5,
				Travel: 0.6,
			},
		},
		Texture: TextureConfig{
			BaseAlpha:            0.35,
			LowContrastBaseAlpha: 0.25,
			CenterJitter:         0.1,
			RimAlphaLight:        0.5,
			RimAlphaDark:         0.4,
			HighlightAlphaLight:  0.5,
			HighlightAlphaDark:   0.4,
			ShadowAlpha:          0.15,
			ShadowBlur:           2,
		},
		Theme: ThemeConfig{
			Weights: theme.DefaultWeights,
			Default: theme.BaseColor{Hue: 0.98, Saturation: 0.72, Brightness: 0.96, Alpha: 1},
		},
		Viewport: ViewportConfig{
			FallbackWidth:  1024,
			FallbackHeight: 768,
		},
	}
}

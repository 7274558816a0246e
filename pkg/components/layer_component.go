package components

import (
	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/theme"
)

// LayerComponent is one activated burst layer: an immutable spec bound to an
// origin and a palette. The layer emits its whole count on the first
// update, then never spawns again.
//
// A layer knows nothing about the effect that created it. It removes itself
// (and its particles) through its LifetimeComponent.
type LayerComponent struct {
	Spec    particle.LayerSpec
	Palette theme.Palette

	// Prewarm 发射后立即推进的模拟时间
	Prewarm float64

	// Emitted 为 true 后不再发射；粒子 ID 记录在同实体的 LifetimeComponent.Children
	Emitted bool
}

package components

import (
	"github.com/decker502/bubblefx/pkg/ecs"
	"github.com/decker502/bubblefx/pkg/theme"
)

// ParticleComponent represents a single burst particle.
// Position is managed via a separate PositionComponent.
//
// This is a pure data component following ECS principles - it contains no methods.
type ParticleComponent struct {
	// Owning layer entity
	Layer ecs.EntityID

	// Velocity (速度, 单位/秒) and constant vertical acceleration
	VelocityX float64
	VelocityY float64
	AccelY    float64

	// Rotation (旋转, 弧度)
	Rotation      float64
	RotationSpeed float64 // radians per second

	// Scale 与 Alpha 按速率线性变化，下限为 0
	Scale      float64
	ScaleSpeed float64
	Alpha      float64
	AlphaSpeed float64

	// Lifecycle (生命周期, 秒)
	Age      float64
	Lifetime float64

	// Palette keyed by Age/Lifetime; Red/Green/Blue hold the current sample
	Palette theme.Palette
	Red     float64
	Green   float64
	Blue    float64
}

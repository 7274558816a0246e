package entities

import (
	"image"
	"math"

	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/components"
	"github.com/decker502/bubblefx/pkg/ecs"
	"github.com/decker502/bubblefx/pkg/theme"
	"github.com/decker502/bubblefx/pkg/utils"
)

// NewBurstLayer creates an activated burst layer entity at origin.
// The layer emits its particles on the next ParticleSystem update and
// removes itself, together with its particles, spec.RemoveAfter seconds later.
//
// Parameters:
//   - em: EntityManager instance for creating entities
//   - spec: immutable layer description (already validated)
//   - origin: engine-space position of the burst
//   - palette: the layer's own color palette
//   - prewarm: simulated time spread over particle ages at emission
//   - instanceID: owning effect instance, used for bulk clearing
//
// Example:
//
//	layerID := entities.NewBurstLayer(em, spec, utils.Point{X: 200, Y: 300}, palette, 0.1, inst.ID)
func NewBurstLayer(em *ecs.EntityManager, spec particle.LayerSpec, origin utils.Point, palette theme.Palette, prewarm float64, instanceID uint64) ecs.EntityID {
	layerID := em.CreateEntity()

	em.AddComponent(layerID, &components.PositionComponent{X: origin.X, Y: origin.Y})
	em.AddComponent(layerID, &components.LayerComponent{
		Spec:    spec,
		Palette: palette,
		Prewarm: math.Max(prewarm, 0),
	})
	em.AddComponent(layerID, &components.LifetimeComponent{
		MaxLifetime: spec.RemoveAfter,
		Children:    make([]ecs.EntityID, 0, spec.Count),
	})
	em.AddComponent(layerID, &components.EffectTagComponent{InstanceID: instanceID})

	return layerID
}

// NewBurstParticle spawns one particle of a layer, sampling every ranged
// property from rng (value ± range/2).
//
// The particle starts at origin with age 0; callers advance it by the
// prewarm offset themselves.
func NewBurstParticle(em *ecs.EntityManager, rng particle.Rand, layerID ecs.EntityID, spec particle.LayerSpec, origin utils.Point, palette theme.Palette, img *image.RGBA, instanceID uint64) ecs.EntityID {
	speed := particle.Spread(rng, spec.Speed, spec.SpeedRange)
	angle := particle.Spread(rng, spec.EmissionAngle, spec.EmissionAngleRange)
	alpha := utils.Clamp01(particle.Spread(rng, spec.Alpha, spec.AlphaRange))
	scale := math.Max(particle.Spread(rng, spec.Scale, spec.ScaleRange), 0)
	rotation := particle.Spread(rng, spec.Rotation, spec.RotationRange)

	c, _ := palette.At(0)

	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: origin.X, Y: origin.Y})
	em.AddComponent(id, &components.ParticleComponent{
		Layer:         layerID,
		VelocityX:     speed * math.Cos(angle),
		VelocityY:     speed * math.Sin(angle),
		AccelY:        spec.AccelY,
		Rotation:      rotation,
		RotationSpeed: spec.RotationSpeed,
		Scale:         scale,
		ScaleSpeed:    spec.ScaleSpeed,
		Alpha:         alpha,
		AlphaSpeed:    spec.AlphaSpeed,
		Lifetime:      spec.Lifetime,
		Palette:       palette,
		Red:           c.R,
		Green:         c.G,
		Blue:          c.B,
	})
	em.AddComponent(id, &components.SpriteComponent{
		Image: img,
		Blend: spec.Blend,
		Size:  float64(spec.SpriteSize),
	})
	em.AddComponent(id, &components.EffectTagComponent{InstanceID: instanceID})

	return id
}

package systems

import (
	"image"
	"math"

	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/components"
	"github.com/decker502/bubblefx/pkg/ecs"
	"github.com/decker502/bubblefx/pkg/entities"
	"github.com/decker502/bubblefx/pkg/texture"
	"github.com/decker502/bubblefx/pkg/utils"
)

// ParticleSystem manages burst layers and their particles.
//
// Each frame it:
//  1. Advances existing particles (motion, rotation, alpha, scale, color)
//  2. Emits every pending layer's full particle count at once, with
//     particle ages spread across the layer's prewarm epoch
//
// Particles are removed when their age reaches their lifetime; layers are
// removed (together with their particles) by LifetimeSystem.
type ParticleSystem struct {
	entityManager *ecs.EntityManager
	cache         *texture.Cache
	rng           particle.Rand
}

// NewParticleSystem creates a new particle system.
// cache may be nil, in which case particles carry no sprite image.
func NewParticleSystem(em *ecs.EntityManager, cache *texture.Cache, rng particle.Rand) *ParticleSystem {
	if rng == nil {
		rng = particle.NewRand(0)
	}
	return &ParticleSystem{
		entityManager: em,
		cache:         cache,
		rng:           rng,
	}
}

// Update advances live particles by dt, then emits newly activated layers.
// Particles emitted in this call are not advanced by dt.
func (ps *ParticleSystem) Update(dt float64) {
	ps.updateParticles(dt)
	ps.updateLayers()
}

// ParticleCount returns the number of live particles.
func (ps *ParticleSystem) ParticleCount() int {
	return len(ecs.GetEntitiesWith1[*components.ParticleComponent](ps.entityManager))
}

// updateLayers 发射尚未发射的粒子层（一次性发射全部粒子）
func (ps *ParticleSystem) updateLayers() {
	layers := ecs.GetEntitiesWith3[
		*components.LayerComponent,
		*components.PositionComponent,
		*components.LifetimeComponent,
	](ps.entityManager)

	for _, layerID := range layers {
		layer, _ := ecs.GetComponent[*components.LayerComponent](ps.entityManager, layerID)
		if layer.Emitted {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](ps.entityManager, layerID)
		lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](ps.entityManager, layerID)
		ps.emitLayer(layerID, layer, pos, lifetime)
	}
}

func (ps *ParticleSystem) emitLayer(layerID ecs.EntityID, layer *components.LayerComponent, pos *components.PositionComponent, lifetime *components.LifetimeComponent) {
	layer.Emitted = true

	spec := layer.Spec
	if spec.Count <= 0 {
		return
	}

	var instanceID uint64
	if tag, ok := ecs.GetComponent[*components.EffectTagComponent](ps.entityManager, layerID); ok {
		instanceID = tag.InstanceID
	}

	img := ps.dotImage(spec.SpriteSize)
	origin := utils.Point{X: pos.X, Y: pos.Y}

	for i := 0; i < spec.Count; i++ {
		id := entities.NewBurstParticle(ps.entityManager, ps.rng, layerID, spec,
			origin, layer.Palette, img, instanceID)
		lifetime.Children = append(lifetime.Children, id)

		// 预热：第 i 个粒子相当于在预热窗口内较早出生，age 均匀分布于 [0, Prewarm]
		if layer.Prewarm > 0 {
			age := layer.Prewarm * float64(spec.Count-i) / float64(spec.Count)
			p, _ := ecs.GetComponent[*components.ParticleComponent](ps.entityManager, id)
			pp, _ := ecs.GetComponent[*components.PositionComponent](ps.entityManager, id)
			if !advanceParticle(p, pp, age) {
				ps.entityManager.DestroyEntity(id)
			}
		}
	}
}

func (ps *ParticleSystem) dotImage(size int) *image.RGBA {
	if ps.cache == nil {
		return nil
	}
	return ps.cache.Dot(size)
}

// updateParticles 推进所有存活粒子，到达寿命的粒子标记删除
func (ps *ParticleSystem) updateParticles(dt float64) {
	particles := ecs.GetEntitiesWith2[
		*components.ParticleComponent,
		*components.PositionComponent,
	](ps.entityManager)

	for _, id := range particles {
		p, _ := ecs.GetComponent[*components.ParticleComponent](ps.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](ps.entityManager, id)

		if !advanceParticle(p, pos, dt) {
			ps.entityManager.DestroyEntity(id)
		}
	}
}

// advanceParticle steps one particle by dt and reports whether it is still alive.
func advanceParticle(p *components.ParticleComponent, pos *components.PositionComponent, dt float64) bool {
	p.Age += dt
	if p.Age >= p.Lifetime {
		return false
	}

	pos.X += p.VelocityX * dt
	pos.Y += p.VelocityY * dt
	p.VelocityY += p.AccelY * dt

	p.Rotation += p.RotationSpeed * dt
	p.Alpha = math.Max(p.Alpha+p.AlphaSpeed*dt, 0)
	p.Scale = math.Max(p.Scale+p.ScaleSpeed*dt, 0)

	c, _ := p.Palette.At(p.Age / p.Lifetime)
	p.Red, p.Green, p.Blue = c.R, c.G, c.B
	return true
}

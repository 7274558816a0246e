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

// BubbleParams 创建泡泡所需的全部已采样参数
// 随机采样由调用方（EffectOrchestrator）完成，工厂只负责组装组件
type BubbleParams struct {
	InstanceID uint64
	Index      int

	Color   theme.BaseColor
	Size    int
	Texture *image.RGBA

	Origin       utils.Point
	Target       utils.Point
	MoveDuration float64

	Sway  particle.Curve
	Fade  particle.Curve
	Scale particle.Curve

	SpinSpeed float64

	// Shimmer 为 nil 时不挂光泽层
	Shimmer       *image.RGBA
	ShimmerScale  float64
	ShimmerAlpha  float64
	ShimmerPeriod float64
	ShimmerTravel float64
}

// BubbleLifetime 泡泡在移动和淡出都结束后移除
// 摆动与缩放曲线不参与计算：淡出到 0 后它们不可见，剩余的重复在移除时截断
func BubbleLifetime(moveDuration float64, fade particle.Curve) float64 {
	return math.Max(moveDuration, fade.TotalDuration())
}

// NewBubble 创建泡泡实体
//
// 组件组成：
//   - PositionComponent: 初始位于 Origin
//   - BubbleComponent: 运动、摆动、淡出、缩放参数
//   - SpriteComponent: 泡泡纹理（普通 Alpha 混合）
//   - ShimmerComponent: 可选光泽层
//   - EffectTagComponent: 所属特效实例
func NewBubble(em *ecs.EntityManager, p BubbleParams) ecs.EntityID {
	id := em.CreateEntity()

	em.AddComponent(id, &components.PositionComponent{X: p.Origin.X, Y: p.Origin.Y})
	em.AddComponent(id, &components.BubbleComponent{
		Index:        p.Index,
		Color:        p.Color,
		Size:         p.Size,
		Start:        p.Origin,
		Target:       p.Target,
		MoveDuration: p.MoveDuration,
		Sway:         p.Sway,
		Fade:         p.Fade,
		Scale:        p.Scale,
		SpinSpeed:    p.SpinSpeed,
		Lifetime:     BubbleLifetime(p.MoveDuration, p.Fade),
		Alpha:        p.Fade.At(0),
		ScaleFactor:  1,
	})
	em.AddComponent(id, &components.SpriteComponent{
		Image: p.Texture,
		Blend: particle.BlendAlpha,
		Size:  float64(p.Size),
	})
	if p.Shimmer != nil {
		em.AddComponent(id, &components.ShimmerComponent{
			Image:     p.Shimmer,
			SizeScale: p.ShimmerScale,
			Alpha:     p.ShimmerAlpha,
			Period:    p.ShimmerPeriod,
			Travel:    p.ShimmerTravel,
		})
	}
	em.AddComponent(id, &components.EffectTagComponent{InstanceID: p.InstanceID})

	return id
}

package systems

import (
	"math"

	"github.com/decker502/bubblefx/pkg/components"
	"github.com/decker502/bubblefx/pkg/ecs"
)

// BubbleSystem 驱动吹泡泡特效中的每个泡泡
//
// 每帧：
//   - 位置 = Start→Target 线性插值（MoveDuration 内完成）+ 水平摆动曲线
//   - 透明度、缩放由关键帧曲线求值
//   - 自转与光泽层扫动按时间推进
//   - Age 达到 Lifetime 后删除
type BubbleSystem struct {
	entityManager *ecs.EntityManager
}

// NewBubbleSystem 创建泡泡系统
func NewBubbleSystem(em *ecs.EntityManager) *BubbleSystem {
	return &BubbleSystem{entityManager: em}
}

// Update 推进所有泡泡
func (s *BubbleSystem) Update(dt float64) {
	bubbles := ecs.GetEntitiesWith2[
		*components.BubbleComponent,
		*components.PositionComponent,
	](s.entityManager)

	for _, id := range bubbles {
		bubble, _ := ecs.GetComponent[*components.BubbleComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		bubble.Age += dt
		if bubble.Age >= bubble.Lifetime {
			s.entityManager.DestroyEntity(id)
			continue
		}

		t := 1.0
		if bubble.MoveDuration > 0 {
			t = math.Min(bubble.Age/bubble.MoveDuration, 1)
		}
		p := bubble.Start.Lerp(bubble.Target, t)
		pos.X = p.X + bubble.Sway.At(bubble.Age)
		pos.Y = p.Y

		bubble.Alpha = bubble.Fade.At(bubble.Age)
		bubble.ScaleFactor = 1
		if len(bubble.Scale.Keys) > 0 {
			bubble.ScaleFactor = bubble.Scale.At(bubble.Age)
		}
		bubble.Rotation = math.Mod(bubble.SpinSpeed*bubble.Age, 2*math.Pi)

		if shimmer, ok := ecs.GetComponent[*components.ShimmerComponent](s.entityManager, id); ok {
			shimmer.OffsetX = shimmerOffset(bubble.Age, shimmer.Period, shimmer.Travel) * float64(bubble.Size)
		}
	}
}

// BubbleCount 返回当前泡泡数量
func (s *BubbleSystem) BubbleCount() int {
	return len(ecs.GetEntitiesWith1[*components.BubbleComponent](s.entityManager))
}

// shimmerOffset 光泽层相对偏移（以泡泡尺寸为单位）
// 0 → +travel（period 秒），跳到 −travel，再回到 0（period 秒），循环
func shimmerOffset(age, period, travel float64) float64 {
	if period <= 0 {
		return 0
	}
	u := math.Mod(age, 2*period)
	if u < period {
		return travel * u / period
	}
	return -travel + travel*(u-period)/period
}

// Package viewport 把宿主界面与特效引擎连接起来
//
// 宿主使用屏幕坐标（左上原点）调用 TriggerExplosion / TriggerBlow，
// Viewport 按当前界面尺寸转换为引擎坐标（左下原点）后交给 EffectOrchestrator。
// 界面尺寸退化（0、负数、NaN）时依次回退到宿主显示区域和配置的默认尺寸。
package viewport

import (
	"log"
	"math"

	"github.com/decker502/bubblefx/pkg/systems"
	"github.com/decker502/bubblefx/pkg/utils"
)

// DefaultFallbackSize 配置也无效时使用的最终尺寸
var DefaultFallbackSize = utils.Size{Width: 1024, Height: 768}

// DisplayBoundsFunc 返回宿主显示区域尺寸（例如窗口或显示器大小）
type DisplayBoundsFunc func() utils.Size

// BlowOptions 吹泡泡参数
//
// Direction / Spread 单位为弧度，引擎坐标下 π/2 表示向上。
// Spread 为 0 且未设置 NoSpread 时使用配置的默认扩散角；此时 Direction 为 0
// 也视为未设置，使用默认方向。因此零值 BlowOptions{} 等价于 DefaultBlowOptions()。
// NoSpread 强制无扩散（忽略 Spread），此时 Direction 0 表示向右。
type BlowOptions struct {
	Direction   float64
	Spread      float64
	NoSpread    bool
	OnPlaySound func(cue int)
	OnComplete  func()
}

// Viewport 特效视口
// 非并发安全，所有方法都必须在宿主的 tick 线程上调用
type Viewport struct {
	orchestrator  *systems.EffectOrchestrator
	size          utils.Size
	fallback      utils.Size
	displayBounds DisplayBoundsFunc
}

// New 创建视口
//
// size 为初始界面尺寸（可以是退化值）；displayBounds 可为 nil。
// 回退尺寸取自编排器配置中的 viewport.fallbackWidth/fallbackHeight。
func New(orchestrator *systems.EffectOrchestrator, size utils.Size, displayBounds DisplayBoundsFunc) *Viewport {
	fallback := DefaultFallbackSize
	if cfg := orchestrator.Config(); cfg != nil {
		configured := utils.Size{Width: cfg.Viewport.FallbackWidth, Height: cfg.Viewport.FallbackHeight}
		if !configured.IsDegenerate() {
			fallback = configured
		}
	}

	v := &Viewport{
		orchestrator:  orchestrator,
		fallback:      fallback,
		displayBounds: displayBounds,
	}
	v.Resize(size)
	return v
}

// DefaultBlowOptions 返回配置中的默认方向与扩散角（默认向上 90°，扩散 60°）
func (v *Viewport) DefaultBlowOptions() BlowOptions {
	cfg := &v.orchestrator.Config().Stream
	return BlowOptions{
		Direction: cfg.DirectionRadians(),
		Spread:    cfg.SpreadRadians(),
	}
}

// Orchestrator 返回底层编排器
func (v *Viewport) Orchestrator() *systems.EffectOrchestrator {
	return v.orchestrator
}

// Resize 更新界面尺寸
// 不会取消正在播放的特效；已生成的粒子保持其引擎坐标
func (v *Viewport) Resize(size utils.Size) {
	v.size = size
	if size.IsDegenerate() {
		log.Printf("[Viewport] degenerate size %.0fx%.0f, using %.0fx%.0f",
			size.Width, size.Height, v.Size().Width, v.Size().Height)
	}
}

// Size 返回生效的界面尺寸，始终为正
func (v *Viewport) Size() utils.Size {
	if !v.size.IsDegenerate() {
		return v.size
	}
	if v.displayBounds != nil {
		if b := v.displayBounds(); !b.IsDegenerate() {
			return b
		}
	}
	return v.fallback
}

// ToEngine 将屏幕坐标转换为引擎坐标
// 非有限坐标被替换为界面中心
func (v *Viewport) ToEngine(p utils.Point) utils.Point {
	size := v.Size()
	if !p.IsFinite() {
		log.Printf("[Viewport] non-finite point (%v, %v), using surface center", p.X, p.Y)
		p = utils.Point{X: size.Width / 2, Y: size.Height / 2}
	}
	return utils.ScreenToEngine(p, size)
}

// TriggerExplosion 在屏幕坐标 at 处触发爆炸特效
// 立即返回；onComplete 恰好执行一次
func (v *Viewport) TriggerExplosion(at utils.Point, onComplete func()) {
	v.orchestrator.TriggerBurst(v.ToEngine(at), onComplete)
}

// TriggerBlow 从屏幕坐标 from 处吹出泡泡
// 立即返回；opts.OnComplete 恰好执行一次
//
// 未设置的方向与扩散角取配置默认值（向上 90°，扩散 60°），见 BlowOptions。
func (v *Viewport) TriggerBlow(from utils.Point, opts BlowOptions) {
	direction, spread := opts.Direction, opts.Spread
	switch {
	case opts.NoSpread:
		spread = 0
	case spread == 0:
		defaults := v.DefaultBlowOptions()
		spread = defaults.Spread
		if direction == 0 {
			direction = defaults.Direction
		}
	}
	if math.IsNaN(direction) || math.IsInf(direction, 0) {
		direction = v.DefaultBlowOptions().Direction
	}
	if math.IsNaN(spread) || spread < 0 {
		spread = 0
	}
	if math.IsInf(spread, 1) {
		spread = 2 * math.Pi
	}

	v.orchestrator.TriggerStream(v.ToEngine(from), systems.StreamParams{
		Direction:   direction,
		Spread:      spread,
		OnPlaySound: opts.OnPlaySound,
	}, opts.OnComplete)
}

// SetLowContrastSurface 标记宿主背景为深色/低对比度
func (v *Viewport) SetLowContrastSurface(low bool) {
	v.orchestrator.SetLowContrastSurface(low)
}

// Update 推进特效，dt 为秒
func (v *Viewport) Update(dt float64) {
	v.orchestrator.Update(dt)
}

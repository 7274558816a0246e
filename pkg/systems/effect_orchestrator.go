package systems

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/components"
	"github.com/decker502/bubblefx/pkg/config"
	"github.com/decker502/bubblefx/pkg/ecs"
	"github.com/decker502/bubblefx/pkg/entities"
	"github.com/decker502/bubblefx/pkg/texture"
	"github.com/decker502/bubblefx/pkg/theme"
	"github.com/decker502/bubblefx/pkg/utils"
)

// EffectState 特效编排器状态
type EffectState int

const (
	// StateIdle 没有活动的特效
	StateIdle EffectState = iota
	// StateActive 特效正在播放，完成回调尚未触发
	StateActive
	// StateCompleted 完成回调执行期间的瞬时状态，回调返回后回到 Idle
	StateCompleted
)

func (s EffectState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateActive:
		return "Active"
	case StateCompleted:
		return "Completed"
	default:
		return fmt.Sprintf("EffectState(%d)", int(s))
	}
}

// EffectKind 特效类型
type EffectKind int

const (
	EffectBurst EffectKind = iota
	EffectStream
)

func (k EffectKind) String() string {
	switch k {
	case EffectBurst:
		return "burst"
	case EffectStream:
		return "stream"
	default:
		return fmt.Sprintf("EffectKind(%d)", int(k))
	}
}

// EffectInstance 一次触发产生的特效实例
type EffectInstance struct {
	ID          uint64
	Kind        EffectKind
	Origin      utils.Point
	TriggeredAt float64
	BaseColor   theme.BaseColor

	group      TaskGroup
	onComplete func()
	completed  bool
}

// StreamParams 吹泡泡参数（引擎坐标，弧度）
type StreamParams struct {
	Direction float64
	Spread    float64

	// OnPlaySound 以音效编号 (0..SoundCues-1) 回调，可为 nil
	OnPlaySound func(cue int)
}

// EffectOrchestrator 编排爆炸与吹泡泡特效
//
// 同一时间最多一个活动实例。新触发会立即清除旧实例的全部实体并取消其延时任务，
// 旧实例的完成回调在下一次 Update 中补发（保证每个实例的回调恰好执行一次）。
// 所有方法都必须在宿主的 tick 线程上调用。
type EffectOrchestrator struct {
	entityManager *ecs.EntityManager
	config        *config.EffectConfig
	layerSpecs    []particle.LayerSpec
	fade          particle.Curve

	provider theme.ColorProvider
	resolver *theme.Resolver
	cache    *texture.Cache
	rng      particle.Rand

	scheduler      *Scheduler
	particleSystem *ParticleSystem
	bubbleSystem   *BubbleSystem
	lifetimeSystem *LifetimeSystem

	state       EffectState
	active      *EffectInstance
	last        *EffectInstance // 最近一次触发的实例（完成后仍保留，用于清除残留实体）
	nextID      uint64
	lowContrast bool
}

// NewEffectOrchestrator 创建编排器
//
// provider 为 nil 时使用配置中的默认主题色；cfg 为 nil 时使用内置默认配置。
func NewEffectOrchestrator(em *ecs.EntityManager, cfg *config.EffectConfig, provider theme.ColorProvider, rng particle.Rand) (*EffectOrchestrator, error) {
	if cfg == nil {
		cfg = config.DefaultEffectConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid effect config: %w", err)
	}
	specs, err := cfg.Burst.LayerSpecs()
	if err != nil {
		return nil, fmt.Errorf("failed to build burst layers: %w", err)
	}
	// 按 delay 升序激活；同 delay 保持配置顺序
	sort.SliceStable(specs, func(i, j int) bool { return specs[i].Delay < specs[j].Delay })

	if rng == nil {
		rng = particle.NewRand(0)
	}
	if provider == nil {
		provider = theme.StaticProvider(cfg.Theme.Default)
	}

	cache := texture.NewCache(texture.NewSynthesizer(rng, cfg.Texture.Options()))

	return &EffectOrchestrator{
		entityManager:  em,
		config:         cfg,
		layerSpecs:     specs,
		fade:           cfg.Stream.FadeCurve(),
		provider:       provider,
		resolver:       theme.NewResolver(rng, cfg.Theme.Weights),
		cache:          cache,
		rng:            rng,
		scheduler:      NewScheduler(),
		particleSystem: NewParticleSystem(em, cache, rng),
		bubbleSystem:   NewBubbleSystem(em),
		lifetimeSystem: NewLifetimeSystem(em),
	}, nil
}

// State 返回当前状态
func (o *EffectOrchestrator) State() EffectState {
	return o.state
}

// Active 返回当前活动实例的副本
func (o *EffectOrchestrator) Active() (EffectInstance, bool) {
	if o.active == nil {
		return EffectInstance{}, false
	}
	return *o.active, true
}

// Config 返回生效的配置
func (o *EffectOrchestrator) Config() *config.EffectConfig {
	return o.config
}

// Scheduler 返回内部调度器（虚拟时间）
func (o *EffectOrchestrator) Scheduler() *Scheduler {
	return o.scheduler
}

// EntityManager 返回实体管理器
func (o *EffectOrchestrator) EntityManager() *ecs.EntityManager {
	return o.entityManager
}

// SetColorProvider 替换主题色来源，下一次触发生效
func (o *EffectOrchestrator) SetColorProvider(p theme.ColorProvider) {
	if p == nil {
		p = theme.StaticProvider(o.config.Theme.Default)
	}
	o.provider = p
}

// SetLowContrastSurface 标记宿主背景为深色/低对比度，影响之后生成的泡泡纹理
func (o *EffectOrchestrator) SetLowContrastSurface(low bool) {
	o.lowContrast = low
}

// LowContrastSurface 返回当前背景标记
func (o *EffectOrchestrator) LowContrastSurface() bool {
	return o.lowContrast
}

// TriggerBurst 在 at（引擎坐标）处触发爆炸特效
// 立即返回；onComplete 在 CompletionDelay 后恰好执行一次（可为 nil）
func (o *EffectOrchestrator) TriggerBurst(at utils.Point, onComplete func()) uint64 {
	inst := o.begin(EffectBurst, at, onComplete)

	for _, spec := range o.layerSpecs {
		palette := o.layerPalette(inst.BaseColor, spec.Color)
		o.scheduler.After(spec.Delay, inst.group, func() {
			entities.NewBurstLayer(o.entityManager, spec, at, palette, o.config.Burst.Prewarm, inst.ID)
		})
	}

	o.scheduler.After(o.config.Burst.CompletionDelay, inst.group, func() {
		o.finish(inst)
	})

	log.Printf("[EffectOrchestrator] burst #%d at (%.0f, %.0f), %d layers, base %v",
		inst.ID, at.X, at.Y, len(o.layerSpecs), inst.BaseColor)
	return inst.ID
}

// TriggerStream 从 from（引擎坐标）吹出一串泡泡
// 立即返回；onComplete 在 CompletionDelay 后恰好执行一次（可为 nil）
func (o *EffectOrchestrator) TriggerStream(from utils.Point, params StreamParams, onComplete func()) uint64 {
	inst := o.begin(EffectStream, from, onComplete)
	cfg := &o.config.Stream

	for k := 0; k < cfg.Count; k++ {
		o.scheduler.After(float64(k)*cfg.Stagger, inst.group, func() {
			o.spawnBubble(inst, k, params)
		})
	}

	o.scheduler.After(cfg.CompletionDelay, inst.group, func() {
		o.finish(inst)
	})

	log.Printf("[EffectOrchestrator] stream #%d from (%.0f, %.0f), dir %.2f spread %.2f, %d bubbles",
		inst.ID, from.X, from.Y, params.Direction, params.Spread, cfg.Count)
	return inst.ID
}

// Update 推进虚拟时间并更新所有系统
// 顺序：延时任务 → 粒子 → 泡泡 → 生命周期 → 清理
func (o *EffectOrchestrator) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}

	o.scheduler.Update(dt)
	o.particleSystem.Update(dt)
	o.bubbleSystem.Update(dt)
	o.lifetimeSystem.Update(dt)
	o.entityManager.RemoveMarkedEntities()
}

// begin 结束（取代）当前实例并创建新实例
func (o *EffectOrchestrator) begin(kind EffectKind, origin utils.Point, onComplete func()) *EffectInstance {
	o.supersede()

	o.nextID++
	// 每次触发重新读取主题色
	inst := &EffectInstance{
		ID:          o.nextID,
		Kind:        kind,
		Origin:      origin,
		TriggeredAt: o.scheduler.Now(),
		BaseColor:   o.provider.CurrentBaseColor(),
		group:       o.scheduler.NewGroup(),
		onComplete:  onComplete,
	}
	o.active = inst
	o.last = inst
	o.state = StateActive
	return inst
}

// supersede 立即清除上一个实例残留的全部实体
// 仍在播放的实例同时取消其延时任务，完成回调推迟到下一次 Update
func (o *EffectOrchestrator) supersede() {
	old := o.last
	if old == nil {
		return
	}

	cancelled := o.scheduler.Cancel(old.group)
	removed := o.clearInstance(old.ID)
	if old.completed {
		if removed > 0 {
			log.Printf("[EffectOrchestrator] %s #%d leftovers cleared (%d entities removed)",
				old.Kind, old.ID, removed)
		}
		return
	}
	log.Printf("[EffectOrchestrator] %s #%d superseded (%d tasks cancelled, %d entities removed)",
		old.Kind, old.ID, cancelled, removed)

	o.active = nil
	// 分组 0 不会被取消
	o.scheduler.After(0, 0, func() {
		o.finish(old)
	})
}

// clearInstance 立即移除带有该实例标签的全部实体
func (o *EffectOrchestrator) clearInstance(id uint64) int {
	removed := 0
	for _, e := range ecs.GetEntitiesWith1[*components.EffectTagComponent](o.entityManager) {
		tag, _ := ecs.GetComponent[*components.EffectTagComponent](o.entityManager, e)
		if tag.InstanceID == id {
			o.entityManager.DestroyEntity(e)
			removed++
		}
	}
	o.entityManager.RemoveMarkedEntities()
	return removed
}

// finish 执行完成回调，每个实例最多一次
func (o *EffectOrchestrator) finish(inst *EffectInstance) {
	if inst.completed {
		return
	}
	inst.completed = true

	current := o.active == inst
	if current {
		o.state = StateCompleted
		o.active = nil
	}

	if inst.onComplete != nil {
		inst.onComplete()
	}

	// 回调中可能已触发新特效
	if current && o.active == nil {
		o.state = StateIdle
	}
}

// layerPalette 每层独立生成调色板；高光层使用提亮后的主题色
func (o *EffectOrchestrator) layerPalette(base theme.BaseColor, v particle.ColorVariant) theme.Palette {
	if v == particle.ColorBright {
		return o.resolver.Palette(o.resolver.BrightVariant(base))
	}
	return o.resolver.Palette(base)
}

// spawnBubble 采样并创建第 k 个泡泡，随后安排其音效
func (o *EffectOrchestrator) spawnBubble(inst *EffectInstance, k int, params StreamParams) {
	cfg := &o.config.Stream
	rng := o.rng

	color := o.resolver.PickWeighted(inst.BaseColor)
	size := int(math.Round(particle.RandomInRange(rng, cfg.Size.Min, cfg.Size.Max)))
	if size < 1 {
		size = 1
	}

	jitter := particle.RandomInRange(rng, -params.Spread/2, params.Spread/2)
	dist := particle.RandomInRange(rng, cfg.Distance.Min, cfg.Distance.Max)
	angle := params.Direction + jitter

	var offX, offY float64
	if params.Spread >= 2*math.Pi {
		// 全方向：对称偏移
		offX = particle.RandomInRange(rng, cfg.FullOffset.Min, cfg.FullOffset.Max)
		offY = particle.RandomInRange(rng, cfg.FullOffset.Min, cfg.FullOffset.Max)
	} else {
		offX = particle.RandomInRange(rng, cfg.OffsetX.Min, cfg.OffsetX.Max)
		offY = particle.RandomInRange(rng, cfg.OffsetY.Min, cfg.OffsetY.Max)
	}

	target := utils.Point{
		X: inst.Origin.X + math.Cos(angle)*dist + offX,
		Y: inst.Origin.Y + math.Sin(angle)*dist + offY,
	}
	move := particle.RandomInRange(rng, cfg.MoveDuration.Min, cfg.MoveDuration.Max)

	amp := particle.RandomInRange(rng, -cfg.SwayAmplitude, cfg.SwayAmplitude)
	scale := particle.RandomInRange(rng, cfg.ScaleVariation.Min, cfg.ScaleVariation.Max)

	shimmerImg := o.cache.Shimmer(int(math.Round(float64(size) * cfg.Shimmer.Scale)))

	spin := 0.0
	if cfg.SpinPeriod > 0 {
		spin = 2 * math.Pi / cfg.SpinPeriod
	}

	entities.NewBubble(o.entityManager, entities.BubbleParams{
		InstanceID:    inst.ID,
		Index:         k,
		Color:         color,
		Size:          size,
		Texture:       o.cache.Synthesizer().Bubble(size, color, o.lowContrast),
		Origin:        inst.Origin,
		Target:        target,
		MoveDuration:  move,
		Sway:          swayCurve(amp, cfg.SwayPhase, cfg.SwayRepeat),
		Fade:          o.fade,
		Scale:         pulseCurve(scale, cfg.ScalePhase, cfg.ScaleRepeat),
		SpinSpeed:     spin,
		Shimmer:       shimmerImg,
		ShimmerScale:  cfg.Shimmer.Scale,
		ShimmerAlpha:  cfg.Shimmer.Alpha,
		ShimmerPeriod: cfg.Shimmer.Period,
		ShimmerTravel: cfg.Shimmer.Travel,
	})

	if params.OnPlaySound != nil && cfg.SoundCues > 0 {
		cue := k % cfg.SoundCues
		delay := particle.RandomInRange(rng, cfg.SoundDelay.Min, cfg.SoundDelay.Max)
		o.scheduler.After(delay, inst.group, func() {
			params.OnPlaySound(cue)
		})
	}
}

// swayCurve 水平摆动：0 → +a → −a → 0，每段 phase 秒
func swayCurve(a, phase float64, repeat int) particle.Curve {
	return particle.Curve{
		Keys: []particle.Keyframe{
			{Time: 0, Value: 0},
			{Time: phase, Value: a},
			{Time: 2 * phase, Value: -a},
			{Time: 3 * phase, Value: 0},
		},
		Repeat: repeat,
	}
}

// pulseCurve 缩放脉动：1 → s → 1，每段 phase 秒
func pulseCurve(s, phase float64, repeat int) particle.Curve {
	return particle.Curve{
		Keys: []particle.Keyframe{
			{Time: 0, Value: 1},
			{Time: phase, Value: s},
			{Time: 2 * phase, Value: 1},
		},
		Repeat: repeat,
	}
}

package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/embedded"
	"github.com/decker502/bubblefx/pkg/texture"
	"github.com/decker502/bubblefx/pkg/theme"
)

// DefaultEffectConfigPath 是内置配置在嵌入文件系统中的路径
const DefaultEffectConfigPath = "data/effects.yaml"

// timingEpsilon 时间比较容差，吸收 stagger 累加的浮点误差
const timingEpsilon = 1e-9

// ErrNoLayers 表示爆炸特效没有配置任何粒子层
var ErrNoLayers = errors.New("burst has no layers")

// EffectConfig 特效配置
//
// 汇总爆炸（burst）、吹泡泡（stream）、纹理、配色与视口的全部可调参数。
// 所有时间单位为秒，角度单位为度（rotationSpeed 除外，单位为弧度/秒）。
//
// 配置文件位置: data/effects.yaml
type EffectConfig struct {
	Burst    BurstConfig    `yaml:"burst"`
	Stream   StreamConfig   `yaml:"stream"`
	Texture  TextureConfig  `yaml:"texture"`
	Theme    ThemeConfig    `yaml:"theme"`
	Viewport ViewportConfig `yaml:"viewport"`
}

// BurstConfig 爆炸特效配置
type BurstConfig struct {
	// CompletionDelay 触发后多久回调 onComplete
	CompletionDelay float64 `yaml:"completionDelay"`

	// Prewarm 粒子层激活时预先推进的模拟时间
	Prewarm float64 `yaml:"prewarm"`

	// Layers 粒子层，按 delay 升序激活
	Layers []LayerConfig `yaml:"layers"`
}

// LayerConfig 单个粒子层配置
type LayerConfig struct {
	Name        string  `yaml:"name"`
	Delay       float64 `yaml:"delay"`
	RemoveAfter float64 `yaml:"removeAfter"`

	Count              int     `yaml:"count"`
	Lifetime           float64 `yaml:"lifetime"`
	Speed              float64 `yaml:"speed"`
	SpeedRange         float64 `yaml:"speedRange"`
	EmissionAngle      float64 `yaml:"emissionAngle"`
	EmissionAngleRange float64 `yaml:"emissionAngleRange"`
	AccelY             float64 `yaml:"accelY"`

	Alpha         float64 `yaml:"alpha"`
	AlphaRange    float64 `yaml:"alphaRange"`
	AlphaSpeed    float64 `yaml:"alphaSpeed"`
	Scale         float64 `yaml:"scale"`
	ScaleRange    float64 `yaml:"scaleRange"`
	ScaleSpeed    float64 `yaml:"scaleSpeed"`
	Rotation      float64 `yaml:"rotation"`
	RotationRange float64 `yaml:"rotationRange"`
	RotationSpeed float64 `yaml:"rotationSpeed"`

	Blend      string `yaml:"blend"`
	SpriteSize int    `yaml:"spriteSize"`
	Color      string `yaml:"color"`
}

// Range 闭区间 [Min, Max]
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) validate(name string) error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min > r.Max {
		return fmt.Errorf("%s range invalid: min(%.3f) > max(%.3f)", name, r.Min, r.Max)
	}
	return nil
}

// StreamConfig 吹泡泡特效配置
type StreamConfig struct {
	Count           int     `yaml:"count"`
	Stagger         float64 `yaml:"stagger"`
	CompletionDelay float64 `yaml:"completionDelay"`

	// Direction / Spread 为 TriggerBlow 的默认方向与扩散角（度）
	Direction float64 `yaml:"direction"`
	Spread    float64 `yaml:"spread"`

	Size         Range `yaml:"size"`
	Distance     Range `yaml:"distance"`
	OffsetX      Range `yaml:"offsetX"`
	OffsetY      Range `yaml:"offsetY"`
	FullOffset   Range `yaml:"fullCircleOffset"`
	MoveDuration Range `yaml:"moveDuration"`

	SwayAmplitude float64 `yaml:"swayAmplitude"`
	SwayPhase     float64 `yaml:"swayPhase"`
	SwayRepeat    int     `yaml:"swayRepeat"`

	// Fade 透明度曲线，"时间,值" 关键帧
	Fade string `yaml:"fade"`

	ScaleVariation Range   `yaml:"scaleVariation"`
	ScalePhase     float64 `yaml:"scalePhase"`
	ScaleRepeat    int     `yaml:"scaleRepeat"`

	SoundDelay Range `yaml:"soundDelay"`
	SoundCues  int   `yaml:"soundCues"`

	// SpinPeriod 泡泡自转一圈的时间
	SpinPeriod float64       `yaml:"spinPeriod"`
	Shimmer    ShimmerConfig `yaml:"shimmer"`
}

// ShimmerConfig 泡泡表面光泽层配置
type ShimmerConfig struct {
	Scale  float64 `yaml:"scale"`  // 相对泡泡尺寸
	Alpha  float64 `yaml:"alpha"`  // 整体透明度
	Period float64 `yaml:"period"` // 单程扫动时间
	Travel float64 `yaml:"travel"` // 扫动幅度，相对泡泡尺寸
}

// TextureConfig 纹理合成配置
type TextureConfig struct {
	BaseAlpha            float64 `yaml:"baseAlpha"`
	LowContrastBaseAlpha float64 `yaml:"lowContrastBaseAlpha"`
	CenterJitter         float64 `yaml:"centerJitter"`
	RimAlphaLight        float64 `yaml:"rimAlphaLight"`
	RimAlphaDark         float64 `yaml:"rimAlphaDark"`
	HighlightAlphaLight  float64 `yaml:"highlightAlphaLight"`
	HighlightAlphaDark   float64 `yaml:"highlightAlphaDark"`
	ShadowAlpha          float64 `yaml:"shadowAlpha"`
	ShadowBlur           int     `yaml:"shadowBlur"`
}

// ThemeConfig 配色配置
type ThemeConfig struct {
	Weights theme.Weights   `yaml:"weights"`
	Default theme.BaseColor `yaml:"default"`
}

// ViewportConfig 视口配置
type ViewportConfig struct {
	// FallbackWidth / FallbackHeight 宿主无法提供显示尺寸时使用
	FallbackWidth  float64 `yaml:"fallbackWidth"`
	FallbackHeight float64 `yaml:"fallbackHeight"`
}

// LoadEffectConfig 从文件系统加载特效配置
//
// 文件中未出现的字段保留默认值。
func LoadEffectConfig(path string) (*EffectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect config: %w", err)
	}
	return ParseEffectConfig(data)
}

// LoadEmbeddedEffectConfig 从嵌入文件系统加载内置配置
func LoadEmbeddedEffectConfig() (*EffectConfig, error) {
	data, err := embedded.ReadFile(DefaultEffectConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded effect config: %w", err)
	}
	return ParseEffectConfig(data)
}

// ParseEffectConfig 解析 YAML 并校验
func ParseEffectConfig(data []byte) (*EffectConfig, error) {
	config := DefaultEffectConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse effect config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid effect config: %w", err)
	}
	return config, nil
}

// Validate 验证配置有效性
func (c *EffectConfig) Validate() error {
	if err := c.Burst.validate(); err != nil {
		return fmt.Errorf("burst: %w", err)
	}
	if err := c.Stream.validate(); err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	if c.Texture.BaseAlpha < 0 || c.Texture.BaseAlpha > 1 || c.Texture.LowContrastBaseAlpha < 0 || c.Texture.LowContrastBaseAlpha > 1 {
		return fmt.Errorf("texture: base alpha must be within [0,1]")
	}
	w := c.Theme.Weights
	if w.Base < 0 || w.Accent < 0 || w.Complementary < 0 || w.Base+w.Accent+w.Complementary <= 0 {
		return fmt.Errorf("theme: weights must be non-negative with a positive sum, got %+v", w)
	}
	if !c.Theme.Default.Valid() {
		return fmt.Errorf("theme: default color out of range: %v", c.Theme.Default)
	}
	if !(c.Viewport.FallbackWidth > 0) || !(c.Viewport.FallbackHeight > 0) {
		return fmt.Errorf("viewport: fallback size must be positive, got %.0fx%.0f",
			c.Viewport.FallbackWidth, c.Viewport.FallbackHeight)
	}
	return nil
}

func (b *BurstConfig) validate() error {
	if len(b.Layers) == 0 {
		return ErrNoLayers
	}
	if b.Prewarm < 0 {
		return fmt.Errorf("prewarm must be >= 0, got %.3f", b.Prewarm)
	}
	seen := make(map[string]bool, len(b.Layers))
	for _, l := range b.Layers {
		spec, err := l.Spec()
		if err != nil {
			return err
		}
		if seen[spec.Name] {
			return fmt.Errorf("duplicate layer name %q", spec.Name)
		}
		seen[spec.Name] = true
		if spec.Delay+spec.Lifetime > b.CompletionDelay {
			return fmt.Errorf("layer %q outlives completionDelay %.2f", spec.Name, b.CompletionDelay)
		}
	}
	return nil
}

func (s *StreamConfig) validate() error {
	if s.Count <= 0 {
		return fmt.Errorf("count must be > 0, got %d", s.Count)
	}
	if s.Stagger < 0 {
		return fmt.Errorf("stagger must be >= 0, got %.3f", s.Stagger)
	}
	if s.CompletionDelay <= 0 {
		return fmt.Errorf("completionDelay must be > 0, got %.3f", s.CompletionDelay)
	}
	ranges := []struct {
		name string
		r    Range
	}{
		{"size", s.Size}, {"distance", s.Distance}, {"offsetX", s.OffsetX}, {"offsetY", s.OffsetY},
		{"fullCircleOffset", s.FullOffset}, {"moveDuration", s.MoveDuration},
		{"scaleVariation", s.ScaleVariation}, {"soundDelay", s.SoundDelay},
	}
	for _, r := range ranges {
		if err := r.r.validate(r.name); err != nil {
			return err
		}
	}
	if s.Size.Min <= 0 || s.Size.Max > texture.MaxSize {
		return fmt.Errorf("size must be within (0, %d], got [%.0f, %.0f]", texture.MaxSize, s.Size.Min, s.Size.Max)
	}
	if s.MoveDuration.Min <= 0 {
		return fmt.Errorf("moveDuration must be > 0, got %.3f", s.MoveDuration.Min)
	}
	if s.SoundCues <= 0 {
		return fmt.Errorf("soundCues must be > 0, got %d", s.SoundCues)
	}
	if _, _, err := particle.ParseKeyframes(s.Fade); err != nil {
		return fmt.Errorf("fade: %w", err)
	}
	// 最后一个泡泡必须在完成回调前结束
	if last := s.LastBubbleEnd(); last > s.CompletionDelay+timingEpsilon {
		return fmt.Errorf("last bubble ends at %.2fs, outlives completionDelay %.2f", last, s.CompletionDelay)
	}
	return nil
}

// LastBubbleEnd 返回最后一个泡泡最迟的移除时间（相对触发时刻）
func (s *StreamConfig) LastBubbleEnd() float64 {
	life := math.Max(s.MoveDuration.Max, s.FadeCurve().TotalDuration())
	return float64(s.Count-1)*s.Stagger + life
}

// Spec 将层配置转换为运行时 LayerSpec（角度转换为弧度）
func (l LayerConfig) Spec() (particle.LayerSpec, error) {
	blend, err := particle.ParseBlendMode(l.Blend)
	if err != nil {
		return particle.LayerSpec{}, fmt.Errorf("layer %q: %w", l.Name, err)
	}
	variant, err := particle.ParseColorVariant(l.Color)
	if err != nil {
		return particle.LayerSpec{}, fmt.Errorf("layer %q: %w", l.Name, err)
	}

	spec := particle.LayerSpec{
		Name:               l.Name,
		Delay:              l.Delay,
		RemoveAfter:        l.RemoveAfter,
		Count:              l.Count,
		Lifetime:           l.Lifetime,
		Speed:              l.Speed,
		SpeedRange:         l.SpeedRange,
		EmissionAngle:      degToRad(l.EmissionAngle),
		EmissionAngleRange: degToRad(l.EmissionAngleRange),
		AccelY:             l.AccelY,
		Alpha:              l.Alpha,
		AlphaRange:         l.AlphaRange,
		AlphaSpeed:         l.AlphaSpeed,
		Scale:              l.Scale,
		ScaleRange:         l.ScaleRange,
		ScaleSpeed:         l.ScaleSpeed,
		Rotation:           degToRad(l.Rotation),
		RotationRange:      degToRad(l.RotationRange),
		RotationSpeed:      l.RotationSpeed,
		Blend:              blend,
		SpriteSize:         l.SpriteSize,
		Color:              variant,
	}
	if err := spec.Validate(); err != nil {
		return particle.LayerSpec{}, err
	}
	return spec, nil
}

// LayerSpecs 返回全部层的 LayerSpec，保持配置顺序
func (b *BurstConfig) LayerSpecs() ([]particle.LayerSpec, error) {
	specs := make([]particle.LayerSpec, 0, len(b.Layers))
	for _, l := range b.Layers {
		spec, err := l.Spec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// TotalParticles 返回一次爆炸产生的粒子总数
func (b *BurstConfig) TotalParticles() int {
	n := 0
	for _, l := range b.Layers {
		n += l.Count
	}
	return n
}

// FadeCurve 解析透明度曲线
func (s *StreamConfig) FadeCurve() particle.Curve {
	keys, interp, err := particle.ParseKeyframes(s.Fade)
	if err != nil {
		// Validate 已保证可解析；直接构造的配置回退为恒定不透明
		return particle.Curve{Keys: []particle.Keyframe{{Time: 0, Value: 1}}}
	}
	return particle.Curve{Keys: keys, Interpolation: interp}
}

// DirectionRadians 默认方向（弧度）
func (s *StreamConfig) DirectionRadians() float64 {
	return degToRad(s.Direction)
}

// SpreadRadians 默认扩散角（弧度）
func (s *StreamConfig) SpreadRadians() float64 {
	return degToRad(s.Spread)
}

// Options 转换为纹理合成参数
func (t TextureConfig) Options() texture.Options {
	return texture.Options{
		BaseAlpha:            t.BaseAlpha,
		LowContrastBaseAlpha: t.LowContrastBaseAlpha,
		CenterJitter:         t.CenterJitter,
		RimAlphaLight:        t.RimAlphaLight,
		RimAlphaDark:         t.RimAlphaDark,
		HighlightAlphaLight:  t.HighlightAlphaLight,
		HighlightAlphaDark:   t.HighlightAlphaDark,
		ShadowAlpha:          t.ShadowAlpha,
		ShadowBlur:           t.ShadowBlur,
	}
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

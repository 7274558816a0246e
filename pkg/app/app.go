// Package app 提供特效演示应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
//
// 操作：
//
//	鼠标左键 / 触摸   - 在点击位置触发爆炸
//	鼠标右键 / B      - 从点击位置向上吹泡泡
//	Shift+B           - 向四周吹泡泡
//	H / J             - 主题色相 -30° / +30°
//	D                 - 切换深色背景
//	S                 - 切换音效
//	F11               - 切换全屏
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	fxaudio "github.com/decker502/bubblefx/internal/audio"
	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/config"
	"github.com/decker502/bubblefx/pkg/ecs"
	"github.com/decker502/bubblefx/pkg/game"
	"github.com/decker502/bubblefx/pkg/render"
	"github.com/decker502/bubblefx/pkg/systems"
	"github.com/decker502/bubblefx/pkg/utils"
	"github.com/decker502/bubblefx/pkg/viewport"
)

// 默认窗口尺寸
const (
	WindowWidth  = 1024
	WindowHeight = 768
)

// hueStep H/J 每次偏移的色相（30°）
const hueStep = 1.0 / 12

var (
	lightBackground = color.RGBA{R: 0xf2, G: 0xf4, B: 0xf7, A: 0xff}
	darkBackground  = color.RGBA{R: 0x14, G: 0x16, B: 0x1c, A: 0xff}
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 特效配置文件路径，为空则使用嵌入的 data/effects.yaml
	ConfigPath string
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
	// Dark 启动时使用深色背景（覆盖已保存的设置）
	Dark bool
	// AppName gdata 存储使用的应用名
	AppName string
}

// App 是特效演示应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	entityManager   *ecs.EntityManager
	viewport        *viewport.Viewport
	renderSystem    *render.RenderSystem
	settingsManager *game.SettingsManager
	audioManager    *game.AudioManager

	layoutSize utils.Size
	verbose    bool
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	effectConfig, err := loadEffectConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	// 设置存储失败时进入降级模式（仅内存设置）
	appName := cfg.AppName
	if appName == "" {
		appName = "bubblefx"
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}
	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("设置管理器初始化失败: %w", err)
	}
	if cfg.Dark {
		settingsManager.SetLowContrastSurface(true)
	}

	audioContext := audio.NewContext(fxaudio.SampleRate)
	audioManager := game.NewAudioManager(audioContext, settingsManager)
	audioManager.Preload()
	log.Printf("[App] AudioManager initialized")

	em := ecs.NewEntityManager()
	orchestrator, err := systems.NewEffectOrchestrator(em, effectConfig,
		settingsManager.ColorProvider(), particle.NewRand(cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("特效编排器初始化失败: %w", err)
	}

	vp := viewport.New(orchestrator, utils.Size{Width: WindowWidth, Height: WindowHeight}, monitorBounds)
	vp.SetLowContrastSurface(settingsManager.GetSettings().LowContrastSurface)

	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		entityManager:   em,
		viewport:        vp,
		renderSystem:    render.NewRenderSystem(em),
		settingsManager: settingsManager,
		audioManager:    audioManager,
		verbose:         cfg.Verbose,
	}, nil
}

func loadEffectConfig(path string) (*config.EffectConfig, error) {
	if path != "" {
		c, err := config.LoadEffectConfig(path)
		if err != nil {
			return nil, fmt.Errorf("特效配置加载失败: %w", err)
		}
		log.Printf("[Config] Loaded effect config from %s", path)
		return c, nil
	}
	c, err := config.LoadEmbeddedEffectConfig()
	if err != nil {
		return nil, fmt.Errorf("内置特效配置加载失败: %w", err)
	}
	return c, nil
}

// monitorBounds 返回当前显示器尺寸，用作窗口尺寸退化时的回退值
func monitorBounds() utils.Size {
	m := ebiten.Monitor()
	if m == nil {
		return utils.Size{}
	}
	w, h := m.Size()
	return utils.Size{Width: float64(w), Height: float64(h)}
}

// Update 更新应用逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	a.handleInput()

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.viewport.Update(deltaTime)
	return nil
}

func (a *App) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		a.settingsManager.SetFullscreen(fullscreen)
		a.saveSettings()
	}

	cursor := func() utils.Point {
		x, y := ebiten.CursorPosition()
		return utils.Point{X: float64(x), Y: float64(y)}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		a.explode(cursor())
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		a.explode(utils.Point{X: float64(x), Y: float64(y)})
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		a.blow(cursor(), false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		full := ebiten.IsKeyPressed(ebiten.KeyShift)
		a.blow(cursor(), full)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		a.settingsManager.ShiftHue(-hueStep)
		a.saveSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyJ) {
		a.settingsManager.ShiftHue(hueStep)
		a.saveSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		dark := !a.settingsManager.GetSettings().LowContrastSurface
		a.settingsManager.SetLowContrastSurface(dark)
		a.viewport.SetLowContrastSurface(dark)
		a.saveSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		a.settingsManager.SetSoundEnabled(!a.settingsManager.GetSettings().SoundEnabled)
		a.saveSettings()
	}
}

func (a *App) explode(at utils.Point) {
	a.viewport.TriggerExplosion(at, func() {
		log.Printf("[App] Explosion at (%.0f, %.0f) completed", at.X, at.Y)
	})
}

func (a *App) blow(from utils.Point, fullCircle bool) {
	opts := a.viewport.DefaultBlowOptions()
	if fullCircle {
		opts.Spread = 2 * math.Pi
	}
	opts.OnPlaySound = func(cue int) { a.audioManager.PlayCue(cue) }
	opts.OnComplete = func() {
		log.Printf("[App] Blow from (%.0f, %.0f) completed", from.X, from.Y)
	}
	a.viewport.TriggerBlow(from, opts)
}

func (a *App) saveSettings() {
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: Failed to save settings: %v", err)
	}
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	settings := a.settingsManager.GetSettings()
	if settings.LowContrastSurface {
		screen.Fill(darkBackground)
	} else {
		screen.Fill(lightBackground)
	}

	a.renderSystem.Draw(screen, a.viewport.Size())

	if a.verbose {
		o := a.viewport.Orchestrator()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"state: %s  entities: %d  hue: %.0f°  sound: %v  TPS: %.0f",
			o.State(), a.entityManager.EntityCount(), settings.ThemeColor.Hue*360,
			settings.SoundEnabled, ebiten.ActualTPS()))
	}
}

// Layout 返回逻辑屏幕尺寸
// 逻辑尺寸跟随窗口尺寸，引擎坐标随之变化
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := utils.Size{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	if size != a.layoutSize {
		a.layoutSize = size
		a.viewport.Resize(size)
	}
	eff := a.viewport.Size()
	return int(eff.Width), int(eff.Height)
}

// GetSettingsManager 返回设置管理器
// 用于在应用关闭时保存设置
func (a *App) GetSettingsManager() *game.SettingsManager {
	return a.settingsManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

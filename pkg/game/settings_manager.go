package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/bubblefx/pkg/theme"
)

// EffectSettings 特效宿主的全局设置
type EffectSettings struct {
	// 主题设置
	ThemeColor         theme.BaseColor `yaml:"themeColor"`         // 主题基础色
	LowContrastSurface bool            `yaml:"lowContrastSurface"` // 深色背景（泡泡使用低对比度纹理）

	// 音频设置
	SoundVolume  float64 `yaml:"soundVolume"`  // 音效音量 0.0 ~ 1.0
	SoundEnabled bool    `yaml:"soundEnabled"` // 音效开关

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *EffectSettings {
	return &EffectSettings{
		ThemeColor:   theme.HSB(0.55, 0.7, 0.95),
		SoundVolume:  0.8,
		SoundEnabled: true,
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *EffectSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方检查，加载失败不会返回错误（仅记录日志并使用默认值）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置；
// 读到的主题色无效时替换为默认主题色。
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 从默认值开始反序列化，缺失字段保留默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if !loaded.ThemeColor.Valid() {
		log.Printf("[SettingsManager] Invalid theme color %+v, using default", loaded.ThemeColor)
		loaded.ThemeColor = DefaultSettings().ThemeColor
	}
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *EffectSettings {
	return sm.settings
}

// SetThemeColor 设置主题色
// 无效颜色会先被规范化（色相取模，其余分量截断到 [0,1]）
func (sm *SettingsManager) SetThemeColor(c theme.BaseColor) {
	sm.settings.ThemeColor = c.Clamped()
}

// ShiftHue 将主题色相偏移 delta（单位为整圈的比例）
func (sm *SettingsManager) ShiftHue(delta float64) {
	c := sm.settings.ThemeColor
	sm.settings.ThemeColor = c.WithHue(c.Hue + delta)
}

// SetLowContrastSurface 设置深色背景标记
func (sm *SettingsManager) SetLowContrastSurface(low bool) {
	sm.settings.LowContrastSurface = low
}

// SetSoundVolume 设置音效音量
//
// 音量值会被限制在 0.0 ~ 1.0 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// SetSoundEnabled 设置音效开关
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// ColorProvider 返回读取当前主题色的 theme.ColorProvider
// 每次触发特效时读取，设置变更立即生效
func (sm *SettingsManager) ColorProvider() theme.ColorProvider {
	return SettingsColorProvider{sm}
}

// SettingsColorProvider 以 SettingsManager 的主题色作为特效基础色
type SettingsColorProvider struct {
	Settings *SettingsManager
}

// CurrentBaseColor 实现 theme.ColorProvider
func (p SettingsColorProvider) CurrentBaseColor() theme.BaseColor {
	if p.Settings == nil {
		return DefaultSettings().ThemeColor
	}
	return p.Settings.settings.ThemeColor
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}

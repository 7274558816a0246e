package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/bubblefx/pkg/theme"
)

// openTestGdata 在临时 HOME 下打开 gdata 存储
func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return gdataManager
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings == nil {
		t.Fatal("DefaultSettings() returned nil")
	}
	if !settings.ThemeColor.Valid() {
		t.Errorf("ThemeColor: default %+v is not valid", settings.ThemeColor)
	}
	if settings.SoundVolume != 0.8 {
		t.Errorf("SoundVolume: got %v, want 0.8", settings.SoundVolume)
	}
	if !settings.SoundEnabled {
		t.Error("SoundEnabled: got false, want true")
	}
	if settings.LowContrastSurface {
		t.Error("LowContrastSurface: got true, want false")
	}
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) error: %v", err)
	}

	sm.SetSoundVolume(0.3)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should not fail, got %v", err)
	}
	if got := sm.GetSettings().SoundVolume; got != 0.3 {
		t.Errorf("SoundVolume: got %v, want 0.3", got)
	}
}

// TestSettingsManager_SaveAndLoad 测试设置持久化往返
func TestSettingsManager_SaveAndLoad(t *testing.T) {
	gdataManager := openTestGdata(t, "test_bubblefx_settings")

	sm, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}

	sm.SetThemeColor(theme.HSB(0.1, 0.5, 0.6))
	sm.SetLowContrastSurface(true)
	sm.SetSoundEnabled(false)
	sm.SetSoundVolume(0.25)
	if err := sm.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() reload error: %v", err)
	}
	got := reloaded.GetSettings()
	if got.ThemeColor != theme.HSB(0.1, 0.5, 0.6) {
		t.Errorf("ThemeColor: got %+v", got.ThemeColor)
	}
	if !got.LowContrastSurface || got.SoundEnabled || got.SoundVolume != 0.25 {
		t.Errorf("Unexpected reloaded settings %+v", got)
	}
}

// TestSettingsManager_InvalidStoredColor 测试存储的主题色无效时回退默认值
func TestSettingsManager_InvalidStoredColor(t *testing.T) {
	gdataManager := openTestGdata(t, "test_bubblefx_invalid")

	data := []byte("themeColor:\n  hue: 3\n  saturation: -1\n  brightness: 0.5\n  alpha: 1\nsoundVolume: 7\n")
	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		t.Fatalf("SaveObjectProp error: %v", err)
	}

	sm, _ := NewSettingsManager(gdataManager)
	got := sm.GetSettings()
	if got.ThemeColor != DefaultSettings().ThemeColor {
		t.Errorf("Expected default theme color, got %+v", got.ThemeColor)
	}
	if got.SoundVolume != 1 {
		t.Errorf("Expected volume clamped to 1, got %v", got.SoundVolume)
	}
	// 缺失字段保留默认值
	if !got.SoundEnabled {
		t.Error("Missing soundEnabled should keep default true")
	}
}

// TestSettingsManager_CorruptData 测试无法解析的数据
func TestSettingsManager_CorruptData(t *testing.T) {
	gdataManager := openTestGdata(t, "test_bubblefx_corrupt")
	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte("::: not yaml [")); err != nil {
		t.Fatalf("SaveObjectProp error: %v", err)
	}

	sm := &SettingsManager{gdataManager: gdataManager, settings: DefaultSettings()}
	if err := sm.Load(); err == nil {
		t.Error("Expected unmarshal error for corrupt data")
	}
	if sm.GetSettings().SoundVolume != DefaultSettings().SoundVolume {
		t.Error("Corrupt data should leave default settings")
	}
}

func TestSettingsManager_ShiftHue(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		delta float64
		want  float64
	}{
		{"正向偏移", 0.2, 0.1, 0.3},
		{"跨越 1 回绕", 0.95, 0.1, 0.05},
		{"负向回绕", 0.05, -0.1, 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, _ := NewSettingsManager(nil)
			sm.SetThemeColor(theme.HSB(tt.start, 0.8, 0.8))
			sm.ShiftHue(tt.delta)
			got := sm.GetSettings().ThemeColor.Hue
			if d := got - tt.want; d > 1e-9 || d < -1e-9 {
				t.Errorf("Hue: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampVolume(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0.4, 0.4},
		{1.5, 1},
	}
	for _, tt := range tests {
		if got := clampVolume(tt.in); got != tt.want {
			t.Errorf("clampVolume(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSettingsColorProvider(t *testing.T) {
	sm, _ := NewSettingsManager(nil)
	provider := sm.ColorProvider()

	sm.SetThemeColor(theme.HSB(0.7, 0.6, 0.5))
	if got := provider.CurrentBaseColor(); got != theme.HSB(0.7, 0.6, 0.5) {
		t.Errorf("Provider must reflect the latest theme color, got %+v", got)
	}

	var empty SettingsColorProvider
	if got := empty.CurrentBaseColor(); got != DefaultSettings().ThemeColor {
		t.Errorf("Nil settings should yield the default color, got %+v", got)
	}
}

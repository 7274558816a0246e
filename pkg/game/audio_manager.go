package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"

	fxaudio "github.com/decker502/bubblefx/internal/audio"
)

// AudioManager 音频管理器
// 职责：
//   - 播放泡泡流的提示音（音效由 internal/audio 合成）
//   - 从 SettingsManager 读取音效开关与音量
//
// audio.Context 为 nil 时进入静音模式，所有播放请求直接返回 false。
type AudioManager struct {
	context         *audio.Context
	settingsManager *SettingsManager      // 可为 nil
	cuePlayers      map[int]*audio.Player // 音效播放器缓存（cue 序号 -> 播放器）
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: Ebitengine 音频上下文，可为 nil（静音模式）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		context:         ctx,
		settingsManager: sm,
		cuePlayers:      make(map[int]*audio.Player),
	}
}

// PlayCue 播放第 cue 个泡泡提示音
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlayCue(cue int) bool {
	if !am.soundEnabled() {
		return false
	}

	player := am.getCuePlayer(cue)
	if player == nil {
		return false
	}

	player.SetVolume(am.getSoundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind cue %d: %v", cue, err)
	}
	player.Play()
	return true
}

// SetSoundVolume 设置音效音量并应用到所有缓存的播放器
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
	for _, player := range am.cuePlayers {
		player.SetVolume(clampVolume(volume))
	}
}

// GetSoundVolume 获取当前音效音量
func (am *AudioManager) GetSoundVolume() float64 {
	return am.getSoundVolume()
}

// Preload 预先创建所有提示音播放器
func (am *AudioManager) Preload() {
	for i := 0; i < fxaudio.CueCount; i++ {
		am.getCuePlayer(i)
	}
}

func (am *AudioManager) soundEnabled() bool {
	if am.context == nil {
		return false
	}
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}
	return true
}

// getCuePlayer 获取或创建提示音播放器
func (am *AudioManager) getCuePlayer(cue int) *audio.Player {
	if am.context == nil {
		return nil
	}
	cue %= fxaudio.CueCount
	if cue < 0 {
		cue += fxaudio.CueCount
	}
	if player, exists := am.cuePlayers[cue]; exists {
		return player
	}

	player := am.context.NewPlayerFromBytes(fxaudio.PopCue(cue))
	am.cuePlayers[cue] = player
	log.Printf("[AudioManager] Created player for cue %d", cue)
	return player
}

func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager == nil {
		return DefaultSettings().SoundVolume
	}
	return am.settingsManager.GetSettings().SoundVolume
}

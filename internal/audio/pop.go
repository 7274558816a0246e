// Package audio 合成泡泡音效
//
// 泡泡音效不依赖外部资源文件：每个音效是一段指数衰减的上扫正弦波，
// 输出为 16-bit 小端立体声 PCM，可直接交给 Ebitengine 的 audio.Context。
package audio

import (
	"encoding/binary"
	"math"
)

// SampleRate 合成音效的采样率（Hz），与宿主 audio.Context 保持一致
const SampleRate = 48000

// CueCount 可用音效数量，编排器按气泡序号轮流使用
const CueCount = 3

// cueParams 每个音效的起止频率与时长
var cueParams = [CueCount]struct {
	from, to float64 // Hz
	duration float64 // 秒
}{
	{from: 520, to: 1180, duration: 0.09},
	{from: 640, to: 1420, duration: 0.08},
	{from: 460, to: 980, duration: 0.11},
}

// popAmplitude 峰值振幅（满量程的比例）
const popAmplitude = 0.45

// PopCue 返回第 i 个泡泡音效的 PCM 数据
// i 会按 CueCount 取模，负数同样有效
func PopCue(i int) []byte {
	i %= CueCount
	if i < 0 {
		i += CueCount
	}
	p := cueParams[i]

	n := int(p.duration * SampleRate)
	buf := make([]byte, n*4)
	phase := 0.0
	for s := 0; s < n; s++ {
		t := float64(s) / float64(n)
		freq := p.from + (p.to-p.from)*t
		phase += 2 * math.Pi * freq / SampleRate

		// 5ms 起音，避免爆音
		attack := math.Min(float64(s)/(0.005*SampleRate), 1)
		env := attack * math.Exp(-5*t) * (1 - t)
		v := int16(math.Round(popAmplitude * env * math.Sin(phase) * math.MaxInt16))

		binary.LittleEndian.PutUint16(buf[s*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[s*4+2:], uint16(v))
	}
	return buf
}

// CueDuration 返回第 i 个音效的时长（秒）
func CueDuration(i int) float64 {
	i %= CueCount
	if i < 0 {
		i += CueCount
	}
	return cueParams[i].duration
}

package components

import (
	"image"

	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/theme"
	"github.com/decker502/bubblefx/pkg/utils"
)

// BubbleComponent 一个漂浮的泡泡（吹泡泡特效）
//
// 位置由 Start→Target 线性移动并叠加水平摆动；透明度、缩放由关键帧曲线驱动。
// Age 达到 Lifetime 后由 BubbleSystem 移除。
type BubbleComponent struct {
	Index int // 在本次触发中的序号，决定音效编号
	Color theme.BaseColor
	Size  int

	Start        utils.Point
	Target       utils.Point
	MoveDuration float64

	Sway  particle.Curve // 水平偏移
	Fade  particle.Curve // 透明度
	Scale particle.Curve // 缩放倍数

	SpinSpeed float64 // 弧度/秒

	Age      float64
	Lifetime float64

	// 当前帧的求值结果，供渲染使用
	Alpha       float64
	ScaleFactor float64
	Rotation    float64
}

// ShimmerComponent 泡泡表面来回扫动的光泽层，与 BubbleComponent 挂在同一实体上
type ShimmerComponent struct {
	Image     *image.RGBA
	SizeScale float64 // 光泽层尺寸 / 泡泡尺寸
	Alpha     float64
	Period    float64 // 单程时间（秒）
	Travel    float64 // 单程位移 / 泡泡尺寸

	// 当前水平偏移（单位与泡泡尺寸相同）
	OffsetX float64
}

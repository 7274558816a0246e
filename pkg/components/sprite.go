package components

import (
	"image"

	"github.com/decker502/bubblefx/internal/particle"
)

// SpriteComponent 实体的贴图
//
// 贴图由 texture 包生成，渲染层负责上传到 GPU；同一 *image.RGBA 只上传一次。
type SpriteComponent struct {
	Image *image.RGBA
	Blend particle.BlendMode

	// Size 显示尺寸（引擎单位），0 表示使用贴图像素尺寸
	Size float64
}

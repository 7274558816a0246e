// Package utils 提供特效引擎通用的几何与数值工具函数
//
// coordinates.go 定义两种坐标系统之间的转换：
//   - **屏幕坐标**：宿主界面坐标，原点在左上角，Y 轴向下
//   - **引擎坐标**：粒子模拟与摆放使用，原点在左下角，Y 轴向上
//
// # 核心转换公式
//
//	engineX = screenX
//	engineY = surfaceHeight - screenY
//
// 该转换是自反的：对引擎坐标再做一次即得到屏幕坐标，渲染系统正是这样使用的。
package utils

import "math"

// Point 是二维坐标点
type Point struct {
	X, Y float64
}

// Add 返回 p + q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Lerp 在 p 与 q 之间按 t 线性插值
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: Lerp(p.X, q.X, t), Y: Lerp(p.Y, q.Y, t)}
}

// IsFinite 检查坐标是否为有限值（非 NaN、非 Inf）
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Size 是界面尺寸
type Size struct {
	Width, Height float64
}

// IsDegenerate 宽或高不为正（或非有限值）时返回 true
func (s Size) IsDegenerate() bool {
	return !(s.Width > 0) || !(s.Height > 0) || math.IsInf(s.Width, 0) || math.IsInf(s.Height, 0)
}

// ScreenToEngine 将屏幕坐标（左上原点）转换为引擎坐标（左下原点）
func ScreenToEngine(p Point, surface Size) Point {
	return Point{X: p.X, Y: surface.Height - p.Y}
}

// EngineToScreen 将引擎坐标转换回屏幕坐标
func EngineToScreen(p Point, surface Size) Point {
	return Point{X: p.X, Y: surface.Height - p.Y}
}

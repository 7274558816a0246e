// Package components 定义特效引擎的纯数据组件
//
// 组件只保存状态，不包含逻辑；行为由 pkg/systems 中的系统实现。
// 所有坐标均为引擎坐标（左下原点，Y 轴向上）。
package components

// PositionComponent 实体在引擎坐标中的位置
type PositionComponent struct {
	X float64
	Y float64
}

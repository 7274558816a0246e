package components

// EffectTagComponent 标记实体所属的特效实例
// 新特效触发时，旧实例的所有实体按此标签整体清除
type EffectTagComponent struct {
	InstanceID uint64
}

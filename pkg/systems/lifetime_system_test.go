package systems

import (
	"testing"

	"github.com/decker502/bubblefx/pkg/components"
	"github.com/decker502/bubblefx/pkg/ecs"
)

func TestLifetimeUpdate(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	// 创建测试实体
	id := em.CreateEntity()
	em.AddComponent(id, &components.LifetimeComponent{
		MaxLifetime:     10.0,
		CurrentLifetime: 0,
		IsExpired:       false,
	})

	// 模拟5秒更新
	system.Update(5.0)

	lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](em, id)
	if lifetime.CurrentLifetime != 5.0 {
		t.Errorf("Expected CurrentLifetime=5.0, got %f", lifetime.CurrentLifetime)
	}

	if lifetime.IsExpired {
		t.Error("Entity should not be expired yet")
	}
}

func TestLifetimeExpiration(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	id := em.CreateEntity()
	em.AddComponent(id, &components.LifetimeComponent{
		MaxLifetime: 10.0,
	})

	// 模拟超过最大生命周期
	system.Update(12.0)

	lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](em, id)
	if !lifetime.IsExpired {
		t.Error("Entity should be expired")
	}

	// 清理实体
	em.RemoveMarkedEntities()

	if em.Exists(id) {
		t.Error("Expired entity should be removed")
	}
}

func TestLifetimeMultipleUpdates(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	id := em.CreateEntity()
	em.AddComponent(id, &components.LifetimeComponent{
		MaxLifetime: 1.2,
	})

	for i := 0; i < 11; i++ {
		system.Update(0.1)
	}
	em.RemoveMarkedEntities()
	if !em.Exists(id) {
		t.Fatal("Entity should survive 1.1s of a 1.2s lifetime")
	}

	system.Update(0.2)
	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Entity should be removed after its lifetime")
	}
}

func TestLifetimeDestroysChildren(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	parent := em.CreateEntity()
	child1 := em.CreateEntity()
	child2 := em.CreateEntity()
	unrelated := em.CreateEntity()

	em.AddComponent(parent, &components.LifetimeComponent{
		MaxLifetime: 1.0,
		Children:    []ecs.EntityID{child1, child2},
	})
	em.AddComponent(unrelated, &components.PositionComponent{})

	system.Update(1.0)
	em.RemoveMarkedEntities()

	for _, id := range []ecs.EntityID{parent, child1, child2} {
		if em.Exists(id) {
			t.Errorf("Entity %d should be removed with its parent", id)
		}
	}
	if !em.Exists(unrelated) {
		t.Error("Unrelated entity should not be removed")
	}
}

func TestLifetimeChildAlreadyRemoved(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	parent := em.CreateEntity()
	child := em.CreateEntity()
	em.AddComponent(parent, &components.LifetimeComponent{
		MaxLifetime: 1.0,
		Children:    []ecs.EntityID{child},
	})

	// 子实体提前被删除（例如粒子寿命先到）
	em.DestroyEntity(child)
	em.RemoveMarkedEntities()

	system.Update(2.0)
	em.RemoveMarkedEntities()

	if em.Exists(parent) {
		t.Error("Parent should be removed")
	}
}

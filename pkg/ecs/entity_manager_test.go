package ecs

import (
	"reflect"
	"testing"
)

// 测试用组件
type positionComp struct {
	X, Y float64
}

type velocityComp struct {
	VX, VY float64
}

type tagComp struct {
	Instance uint64
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	if id1 == 0 || id2 == 0 {
		t.Fatalf("entity ID 0 is reserved, got %d and %d", id1, id2)
	}
	if id1 == id2 {
		t.Errorf("expected unique IDs, both were %d", id1)
	}
	if id2 <= id1 {
		t.Errorf("expected increasing IDs, got %d then %d", id1, id2)
	}
	if em.EntityCount() != 2 {
		t.Errorf("EntityCount = %d, want 2", em.EntityCount())
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	em.AddComponent(id, &positionComp{X: 10, Y: 20})

	comp, ok := em.GetComponent(id, reflect.TypeOf(&positionComp{}))
	if !ok {
		t.Fatal("expected component to exist")
	}
	pos := comp.(*positionComp)
	if pos.X != 10 || pos.Y != 20 {
		t.Errorf("got (%v, %v), want (10, 20)", pos.X, pos.Y)
	}

	// 泛型版本
	p, ok := GetComponent[*positionComp](em, id)
	if !ok || p != pos {
		t.Errorf("generic GetComponent mismatch: %v %v", p, ok)
	}

	if _, ok := GetComponent[*velocityComp](em, id); ok {
		t.Error("velocity component should not exist")
	}
}

func TestAddComponentToMissingEntity(t *testing.T) {
	em := NewEntityManager()
	em.AddComponent(EntityID(42), &positionComp{})

	if em.Exists(EntityID(42)) {
		t.Error("AddComponent must not create entities implicitly")
	}
}

func TestHasAndRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &positionComp{})

	if !HasComponent[*positionComp](em, id) {
		t.Fatal("expected position component")
	}
	if HasComponent[*velocityComp](em, id) {
		t.Error("unexpected velocity component")
	}

	RemoveComponent[*positionComp](em, id)
	if HasComponent[*positionComp](em, id) {
		t.Error("position component should be removed")
	}
	if !em.Exists(id) {
		t.Error("removing a component must keep the entity")
	}
}

func TestDestroyEntityIsDeferred(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &positionComp{})

	em.DestroyEntity(id)

	// 标记后仍然存在，直到清理
	if !em.Exists(id) {
		t.Error("entity should survive until RemoveMarkedEntities")
	}

	em.RemoveMarkedEntities()

	if em.Exists(id) {
		t.Error("entity should be removed")
	}
	if _, ok := GetComponent[*positionComp](em, id); ok {
		t.Error("components of removed entity should be gone")
	}
}

func TestGetEntitiesWithIsSorted(t *testing.T) {
	em := NewEntityManager()

	var moving []EntityID
	for i := 0; i < 50; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &positionComp{})
		if i%2 == 0 {
			em.AddComponent(id, &velocityComp{})
			moving = append(moving, id)
		}
	}

	got := GetEntitiesWith2[*positionComp, *velocityComp](em)
	if !reflect.DeepEqual(got, moving) {
		t.Errorf("GetEntitiesWith2 = %v, want %v", got, moving)
	}

	all := GetEntitiesWith1[*positionComp](em)
	if len(all) != 50 {
		t.Errorf("GetEntitiesWith1 returned %d entities, want 50", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i] <= all[i-1] {
			t.Fatalf("result not sorted at %d: %v", i, all)
		}
	}

	if n := len(GetEntitiesWith3[*positionComp, *velocityComp, *tagComp](em)); n != 0 {
		t.Errorf("expected no entity with tag component, got %d", n)
	}
}

func TestDestroyMultipleEntities(t *testing.T) {
	em := NewEntityManager()
	ids := make([]EntityID, 10)
	for i := range ids {
		ids[i] = em.CreateEntity()
		em.AddComponent(ids[i], &tagComp{Instance: uint64(i % 2)})
	}

	for _, id := range GetEntitiesWith1[*tagComp](em) {
		tag, _ := GetComponent[*tagComp](em, id)
		if tag.Instance == 1 {
			em.DestroyEntity(id)
		}
	}
	em.RemoveMarkedEntities()

	if em.EntityCount() != 5 {
		t.Errorf("EntityCount = %d, want 5", em.EntityCount())
	}
	// 再次清理不应有副作用
	em.RemoveMarkedEntities()
	if em.EntityCount() != 5 {
		t.Errorf("second cleanup changed count to %d", em.EntityCount())
	}
}

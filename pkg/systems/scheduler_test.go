package systems

import (
	"reflect"
	"testing"
)

func TestScheduler_OrderByTimeThenInsertion(t *testing.T) {
	s := NewScheduler()
	g := s.NewGroup()
	var order []string

	s.After(0.2, g, func() { order = append(order, "c") })
	s.After(0.1, g, func() { order = append(order, "a") })
	s.After(0.1, g, func() { order = append(order, "b") })
	s.After(0.3, g, func() { order = append(order, "d") })

	s.Update(1.0)

	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Expected order %v, got %v", want, order)
	}
	if s.Pending() != 0 {
		t.Errorf("Expected no pending tasks, got %d", s.Pending())
	}
}

func TestScheduler_ZeroDelayRunsOnNextUpdate(t *testing.T) {
	s := NewScheduler()
	fired := false
	s.After(0, s.NewGroup(), func() { fired = true })

	if fired {
		t.Fatal("Zero-delay task must not run synchronously")
	}
	s.Update(0)
	if !fired {
		t.Error("Zero-delay task should run on the next Update")
	}
}

func TestScheduler_NotDueYet(t *testing.T) {
	s := NewScheduler()
	fired := false
	s.After(0.5, s.NewGroup(), func() { fired = true })

	s.Update(0.25)
	if fired {
		t.Error("Task fired before its time")
	}
	s.Update(0.25)
	if !fired {
		t.Error("Task should fire once its time is reached")
	}
	if s.Now() != 0.5 {
		t.Errorf("Expected Now=0.5, got %v", s.Now())
	}
}

func TestScheduler_Cancel(t *testing.T) {
	s := NewScheduler()
	g1 := s.NewGroup()
	g2 := s.NewGroup()
	var fired []TaskGroup

	s.After(0.1, g1, func() { fired = append(fired, g1) })
	s.After(0.2, g1, func() { fired = append(fired, g1) })
	s.After(0.1, g2, func() { fired = append(fired, g2) })

	if n := s.Cancel(g1); n != 2 {
		t.Errorf("Expected 2 cancelled tasks, got %d", n)
	}
	if s.PendingIn(g1) != 0 || s.PendingIn(g2) != 1 {
		t.Errorf("Unexpected pending counts g1=%d g2=%d", s.PendingIn(g1), s.PendingIn(g2))
	}

	s.Update(1)
	if !reflect.DeepEqual(fired, []TaskGroup{g2}) {
		t.Errorf("Expected only g2 to fire, got %v", fired)
	}
}

func TestScheduler_GroupZeroIsNeverCancelled(t *testing.T) {
	s := NewScheduler()
	fired := false
	s.After(0, 0, func() { fired = true })

	if n := s.Cancel(0); n != 0 {
		t.Errorf("Expected Cancel(0) to cancel nothing, got %d", n)
	}
	s.Update(0)
	if !fired {
		t.Error("Group 0 task should still fire")
	}
}

func TestScheduler_TasksAddedDuringUpdate(t *testing.T) {
	s := NewScheduler()
	g := s.NewGroup()
	var order []int

	s.After(0.1, g, func() {
		order = append(order, 1)
		// 已到期的新任务在同一次 Update 中执行
		s.After(0, g, func() { order = append(order, 2) })
		// 未到期的任务留到以后
		s.After(1, g, func() { order = append(order, 3) })
	})

	s.Update(0.2)
	if !reflect.DeepEqual(order, []int{1, 2}) {
		t.Errorf("Expected [1 2], got %v", order)
	}

	s.Update(1)
	if !reflect.DeepEqual(order, []int{1, 2, 3}) {
		t.Errorf("Expected [1 2 3], got %v", order)
	}
}

func TestScheduler_CancelFromCallback(t *testing.T) {
	s := NewScheduler()
	g := s.NewGroup()
	secondFired := false

	s.After(0.1, g, func() { s.Cancel(g) })
	s.After(0.1, g, func() { secondFired = true })

	s.Update(0.2)
	if secondFired {
		t.Error("Task cancelled by an earlier callback must not run")
	}
}

func TestScheduler_IgnoresNegativeDelta(t *testing.T) {
	s := NewScheduler()
	s.Update(0.5)
	s.Update(-1)
	if s.Now() != 0.5 {
		t.Errorf("Expected Now to stay at 0.5, got %v", s.Now())
	}
}

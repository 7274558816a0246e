package systems

import (
	"math"
	"testing"

	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/components"
	"github.com/decker502/bubblefx/pkg/ecs"
	"github.com/decker502/bubblefx/pkg/entities"
	"github.com/decker502/bubblefx/pkg/utils"
)

func testFade() particle.Curve {
	keys, interp, _ := particle.ParseKeyframes("0,1 0.5,1 1.5,0.7 2.5,0.3 3,0")
	return particle.Curve{Keys: keys, Interpolation: interp}
}

func TestBubbleSystem_LinearMove(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewBubbleSystem(em)

	id := entities.NewBubble(em, entities.BubbleParams{
		Size:         30,
		Origin:       utils.Point{X: 100, Y: 100},
		Target:       utils.Point{X: 100, Y: 500},
		MoveDuration: 4,
		Fade:         testFade(),
	})

	s.Update(2)
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	if math.Abs(pos.X-100) > 1e-9 || math.Abs(pos.Y-300) > 1e-9 {
		t.Errorf("Expected halfway position (100,300), got (%v,%v)", pos.X, pos.Y)
	}

	bubble, _ := ecs.GetComponent[*components.BubbleComponent](em, id)
	if math.Abs(bubble.Alpha-0.5) > 1e-9 {
		t.Errorf("Expected alpha 0.5 at t=2, got %v", bubble.Alpha)
	}

	s.Update(1.9)
	if math.Abs(pos.Y-490) > 1e-9 {
		t.Errorf("Expected Y=490 at t=3.9, got %v", pos.Y)
	}
	if bubble.Alpha != 0 {
		t.Errorf("Expected alpha 0 after fade, got %v", bubble.Alpha)
	}

	s.Update(0.2)
	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Bubble should be removed after move and fade both finish")
	}
}

func TestBubbleSystem_RemovedAfterFadeWhenMoveIsShorter(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewBubbleSystem(em)

	id := entities.NewBubble(em, entities.BubbleParams{
		Origin:       utils.Point{},
		Target:       utils.Point{X: 0, Y: 100},
		MoveDuration: 2.5,
		Fade:         testFade(),
	})

	s.Update(2.75)
	em.RemoveMarkedEntities()
	if !em.Exists(id) {
		t.Fatal("Bubble should survive until its fade completes")
	}
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	if pos.Y != 100 {
		t.Errorf("Expected bubble to rest at target after move, got Y=%v", pos.Y)
	}

	s.Update(0.5)
	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Bubble should be removed once fade completes")
	}
}

func TestBubbleSystem_SwayAndScale(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewBubbleSystem(em)

	id := entities.NewBubble(em, entities.BubbleParams{
		Size:         20,
		Origin:       utils.Point{X: 0, Y: 0},
		Target:       utils.Point{X: 0, Y: 0},
		MoveDuration: 3,
		Sway:         swayCurve(20, 1, 3),
		Fade:         testFade(),
		Scale:        pulseCurve(1.1, 1, 2),
		SpinSpeed:    2 * math.Pi / 8,
	})

	tests := []struct {
		dt        float64
		wantX     float64
		wantScale float64
	}{
		{dt: 0.5, wantX: 10, wantScale: 1.05},
		{dt: 0.5, wantX: 20, wantScale: 1.1},
		{dt: 1.0, wantX: -20, wantScale: 1.0},
		{dt: 0.5, wantX: -10, wantScale: 1.05},
	}

	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	bubble, _ := ecs.GetComponent[*components.BubbleComponent](em, id)
	for _, tt := range tests {
		s.Update(tt.dt)
		if math.Abs(pos.X-tt.wantX) > 1e-9 {
			t.Errorf("age=%.1f: expected sway X=%v, got %v", bubble.Age, tt.wantX, pos.X)
		}
		if math.Abs(bubble.ScaleFactor-tt.wantScale) > 1e-9 {
			t.Errorf("age=%.1f: expected scale %v, got %v", bubble.Age, tt.wantScale, bubble.ScaleFactor)
		}
	}

	if math.Abs(bubble.Rotation-2.5*2*math.Pi/8) > 1e-9 {
		t.Errorf("Expected rotation %v, got %v", 2.5*2*math.Pi/8, bubble.Rotation)
	}
}

func TestShimmerOffset(t *testing.T) {
	tests := []struct {
		age  float64
		want float64
	}{
		{age: 0, want: 0},
		{age: 0.75, want: 0.3},
		{age: 1.5, want: -0.6},
		{age: 2.25, want: -0.3},
		{age: 3.0, want: 0},
	}
	for _, tt := range tests {
		if got := shimmerOffset(tt.age, 1.5, 0.6); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("shimmerOffset(%v) = %v, want %v", tt.age, got, tt.want)
		}
	}

	if got := shimmerOffset(1, 0, 0.6); got != 0 {
		t.Errorf("Expected 0 for zero period, got %v", got)
	}
}

package particle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Keyframe represents a single keyframe in an animation curve.
type Keyframe struct {
	Time  float64 // seconds from the start of the curve
	Value float64 // value at this keyframe
}

// Interpolation modes understood by EvaluateKeyframes.
const (
	InterpLinear        = "Linear"
	InterpEaseIn        = "EaseIn"
	InterpEaseOut       = "EaseOut"
	InterpFastInOutWeak = "FastInOutWeak"
)

var interpolationKeywords = []string{InterpLinear, InterpEaseIn, InterpEaseOut, InterpFastInOutWeak}

// ParseKeyframes parses a curve written as "time,value" pairs separated by
// spaces, optionally preceded or followed by an interpolation keyword:
//
//	"0,1 0.5,1 1.5,0.7 2.5,0.3 3,0"
//	"EaseOut 0,0 1,30"
//
// Times must be non-decreasing.
func ParseKeyframes(s string) ([]Keyframe, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", fmt.Errorf("empty curve")
	}

	interpolation := ""
	keyframes := make([]Keyframe, 0, 8)
	for _, part := range strings.Fields(s) {
		if isInterpolationKeyword(part) {
			if interpolation != "" {
				return nil, "", fmt.Errorf("curve %q: more than one interpolation keyword", s)
			}
			interpolation = part
			continue
		}

		pair := strings.Split(part, ",")
		if len(pair) != 2 {
			return nil, "", fmt.Errorf("curve %q: malformed keyframe %q", s, part)
		}
		t, err := strconv.ParseFloat(pair[0], 64)
		if err != nil {
			return nil, "", fmt.Errorf("curve %q: bad time %q: %w", s, pair[0], err)
		}
		v, err := strconv.ParseFloat(pair[1], 64)
		if err != nil {
			return nil, "", fmt.Errorf("curve %q: bad value %q: %w", s, pair[1], err)
		}
		if n := len(keyframes); n > 0 && t < keyframes[n-1].Time {
			return nil, "", fmt.Errorf("curve %q: time %v goes backwards", s, t)
		}
		keyframes = append(keyframes, Keyframe{Time: t, Value: v})
	}

	if len(keyframes) == 0 {
		return nil, "", fmt.Errorf("curve %q: no keyframes", s)
	}
	return keyframes, interpolation, nil
}

// FormatKeyframes is the inverse of ParseKeyframes.
func FormatKeyframes(keyframes []Keyframe, interpolation string) string {
	parts := make([]string, 0, len(keyframes)+1)
	if interpolation != "" {
		parts = append(parts, interpolation)
	}
	for _, k := range keyframes {
		parts = append(parts, strconv.FormatFloat(k.Time, 'g', -1, 64)+","+strconv.FormatFloat(k.Value, 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}

func isInterpolationKeyword(s string) bool {
	for _, k := range interpolationKeywords {
		if s == k {
			return true
		}
	}
	return false
}

// EvaluateKeyframes returns the interpolated value at time t.
// t is clamped to the curve's own time span, so values before the first
// keyframe or after the last one hold.
func EvaluateKeyframes(keyframes []Keyframe, t float64, interpolation string) float64 {
	if len(keyframes) == 0 {
		return 0
	}
	if len(keyframes) == 1 || t <= keyframes[0].Time {
		return keyframes[0].Value
	}
	last := keyframes[len(keyframes)-1]
	if t >= last.Time {
		return last.Value
	}

	for i := 0; i < len(keyframes)-1; i++ {
		k0 := keyframes[i]
		k1 := keyframes[i+1]
		if t < k0.Time || t > k1.Time {
			continue
		}

		duration := k1.Time - k0.Time
		if duration <= 0 {
			return k1.Value
		}
		ratio := (t - k0.Time) / duration

		switch interpolation {
		case InterpEaseIn:
			ratio = ratio * ratio
		case InterpEaseOut:
			ratio = 1 - (1-ratio)*(1-ratio)
		case InterpFastInOutWeak:
			ratio = ratio * ratio * (3 - 2*ratio)
		}
		return k0.Value + ratio*(k1.Value-k0.Value)
	}

	return last.Value
}

// Curve is a keyframe track that may repeat.
type Curve struct {
	Keys          []Keyframe
	Interpolation string
	Repeat        int // total plays; <= 1 plays once
}

// Duration is the length of one play.
func (c Curve) Duration() float64 {
	if len(c.Keys) == 0 {
		return 0
	}
	return c.Keys[len(c.Keys)-1].Time
}

// TotalDuration is the length of all plays.
func (c Curve) TotalDuration() float64 {
	if c.Repeat <= 1 {
		return c.Duration()
	}
	return c.Duration() * float64(c.Repeat)
}

// At evaluates the curve at t seconds, wrapping repeats.
func (c Curve) At(t float64) float64 {
	d := c.Duration()
	if d > 0 && c.Repeat > 1 && t < c.TotalDuration() {
		t = math.Mod(t, d)
	}
	return EvaluateKeyframes(c.Keys, t, c.Interpolation)
}

// Scaled returns a copy whose values are multiplied by k.
func (c Curve) Scaled(k float64) Curve {
	keys := make([]Keyframe, len(c.Keys))
	for i, kf := range c.Keys {
		keys[i] = Keyframe{Time: kf.Time, Value: kf.Value * k}
	}
	return Curve{Keys: keys, Interpolation: c.Interpolation, Repeat: c.Repeat}
}

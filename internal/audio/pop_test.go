package audio

import (
	"encoding/binary"
	"testing"
)

func TestPopCue_Format(t *testing.T) {
	for i := 0; i < CueCount; i++ {
		pcm := PopCue(i)
		want := int(CueDuration(i)*SampleRate) * 4
		if len(pcm) != want {
			t.Errorf("cue %d: expected %d bytes, got %d", i, want, len(pcm))
		}
		if len(pcm)%4 != 0 {
			t.Errorf("cue %d: length %d is not whole stereo frames", i, len(pcm))
		}
	}
}

func TestPopCue_StereoAndEnvelope(t *testing.T) {
	pcm := PopCue(0)
	frames := len(pcm) / 4

	peak := 0
	for f := 0; f < frames; f++ {
		l := int16(binary.LittleEndian.Uint16(pcm[f*4:]))
		r := int16(binary.LittleEndian.Uint16(pcm[f*4+2:]))
		if l != r {
			t.Fatalf("frame %d: channels differ (%d vs %d)", f, l, r)
		}
		if a := int(l); a > peak {
			peak = a
		} else if -a > peak {
			peak = -a
		}
	}
	if peak == 0 {
		t.Fatal("Expected an audible cue")
	}

	// 首帧静音，尾部衰减到接近 0
	if first := int16(binary.LittleEndian.Uint16(pcm[0:])); first != 0 {
		t.Errorf("Expected silent first frame, got %d", first)
	}
	last := int16(binary.LittleEndian.Uint16(pcm[(frames-1)*4:]))
	if int(last) > peak/10 || -int(last) > peak/10 {
		t.Errorf("Expected decayed tail, got %d (peak %d)", last, peak)
	}
}

func TestPopCue_IndexWraps(t *testing.T) {
	tests := []struct {
		in, same int
	}{
		{3, 0},
		{4, 1},
		{-1, 2},
	}
	for _, tt := range tests {
		if len(PopCue(tt.in)) != len(PopCue(tt.same)) {
			t.Errorf("PopCue(%d) should equal PopCue(%d)", tt.in, tt.same)
		}
	}
}

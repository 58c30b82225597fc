package domain

import "testing"

func signalWithRsrpRssnr(rsrp, rssnr int32) CellSignal {
	return NewCellSignal(FieldUnavailable, rsrp, FieldUnavailable, rssnr, FieldUnavailable, FieldUnavailable)
}

func TestLevelRsrpBoundaries(t *testing.T) {
	tests := []struct {
		name string
		rsrp int32
		want Level
	}{
		{name: "great on exact boundary", rsrp: -95, want: LevelGreat},
		{name: "good just below great", rsrp: -96, want: LevelGood},
		{name: "good on exact boundary", rsrp: -105, want: LevelGood},
		{name: "moderate just below good", rsrp: -106, want: LevelModerate},
		{name: "moderate on exact boundary", rsrp: -115, want: LevelModerate},
		{name: "poor just below moderate", rsrp: -116, want: LevelPoor},
	}

	for _, tt := range tests {
		got := signalWithRsrpRssnr(tt.rsrp, FieldUnavailable).Level()
		if got != tt.want {
			t.Fatalf("%s: rsrp=%d got %v want %v", tt.name, tt.rsrp, got, tt.want)
		}
	}
}

func TestLevelRssnrBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		rssnr int32
		want  Level
	}{
		{name: "great on exact boundary", rssnr: 45, want: LevelGreat},
		{name: "good just below great", rssnr: 44, want: LevelGood},
		{name: "good on exact boundary", rssnr: 10, want: LevelGood},
		{name: "moderate just below good", rssnr: 9, want: LevelModerate},
		{name: "moderate on exact boundary", rssnr: -30, want: LevelModerate},
		{name: "poor just below moderate", rssnr: -31, want: LevelPoor},
	}

	for _, tt := range tests {
		got := signalWithRsrpRssnr(FieldUnavailable, tt.rssnr).Level()
		if got != tt.want {
			t.Fatalf("%s: rssnr=%d got %v want %v", tt.name, tt.rssnr, got, tt.want)
		}
	}
}

func TestLevelCombinesPessimistically(t *testing.T) {
	// rsrp -90 alone is great, rssnr 0 alone is moderate; the worse one wins.
	s := signalWithRsrpRssnr(-90, 0)
	if got := s.Level(); got != LevelModerate {
		t.Fatalf("expected combined level %v, got %v", LevelModerate, got)
	}

	// Symmetric case: strong rssnr dragged down by weak rsrp.
	s = signalWithRsrpRssnr(-116, 50)
	if got := s.Level(); got != LevelPoor {
		t.Fatalf("expected combined level %v, got %v", LevelPoor, got)
	}
}

func TestLevelUsesOnlyReportedSubScore(t *testing.T) {
	if got := signalWithRsrpRssnr(FieldUnavailable, 50).Level(); got != LevelGreat {
		t.Fatalf("expected rssnr-only level %v, got %v", LevelGreat, got)
	}
	if got := signalWithRsrpRssnr(-90, FieldUnavailable).Level(); got != LevelGreat {
		t.Fatalf("expected rsrp-only level %v, got %v", LevelGreat, got)
	}
}

func TestLevelIsNoneWhenNothingReported(t *testing.T) {
	if got := UnknownCellSignal().Level(); got != LevelNone {
		t.Fatalf("expected level %v for empty snapshot, got %v", LevelNone, got)
	}
}

func TestLevelMonotonicInRsrp(t *testing.T) {
	// For fixed rssnr, improving rsrp must never lower the level.
	for _, rssnr := range []int32{FieldUnavailable, -40, 0, 20, 50} {
		prev := LevelNone
		for rsrp := int32(-130); rsrp <= -80; rsrp++ {
			got := signalWithRsrpRssnr(rsrp, rssnr).Level()
			if rsrp > -130 && got < prev {
				t.Fatalf("level dropped from %v to %v at rsrp=%d rssnr=%d", prev, got, rsrp, rssnr)
			}
			prev = got
		}
	}
}

func TestLevelMonotonicInRssnr(t *testing.T) {
	for _, rsrp := range []int32{FieldUnavailable, -120, -110, -100, -90} {
		prev := LevelNone
		for rssnr := int32(-50); rssnr <= 60; rssnr++ {
			got := signalWithRsrpRssnr(rsrp, rssnr).Level()
			if rssnr > -50 && got < prev {
				t.Fatalf("level dropped from %v to %v at rssnr=%d rsrp=%d", prev, got, rssnr, rsrp)
			}
			prev = got
		}
	}
}

func TestAsuLevel(t *testing.T) {
	tests := []struct {
		name string
		rsrp int32
		want int
	}{
		{name: "unknown when rsrp missing", rsrp: FieldUnavailable, want: AsuUnknown},
		{name: "floor on exact bound", rsrp: -140, want: 0},
		{name: "floor saturates below", rsrp: -141, want: 0},
		{name: "ceiling on exact bound", rsrp: -43, want: 97},
		{name: "ceiling saturates above", rsrp: -42, want: 97},
		{name: "linear in the middle", rsrp: -100, want: 40},
		{name: "just above floor", rsrp: -139, want: 1},
		{name: "just below ceiling", rsrp: -44, want: 96},
	}

	for _, tt := range tests {
		s := signalWithRsrpRssnr(tt.rsrp, FieldUnavailable)
		if got := s.AsuLevel(); got != tt.want {
			t.Fatalf("%s: rsrp=%d got %d want %d", tt.name, tt.rsrp, got, tt.want)
		}
	}
}

func TestLevelStringLabels(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelNone, "none"},
		{LevelPoor, "poor"},
		{LevelModerate, "moderate"},
		{LevelGood, "good"},
		{LevelGreat, "great"},
		{Level(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Fatalf("level %d: got %q want %q", int(tt.level), got, tt.want)
		}
	}
}

package itersolve

import "testing"

func linearProjection(slope, offset float64) Projection {
	return ProjectionFunc(func(sk *StepperKinematics, m *Move, t float64) float64 {
		return offset + slope*t
	})
}

func TestRootfindLinearCrossing(t *testing.T) {
	sk := NewStepperKinematics("x", linearProjection(2, 0), AxisX)
	m := &Move{MoveT: 1}

	low := point{0, 0}
	high := point{1, 2}
	got := rootfind(sk, sk.Projection, m, low, high, 1)

	want := 0.5
	if diff := got.t - want; diff > rootfindEps*10 || diff < -rootfindEps*10 {
		t.Fatalf("rootfind crossing: got t=%v, want ~%v", got.t, want)
	}
	if got.p != 1 {
		t.Fatalf("rootfind crossing: got p=%v, want 1", got.p)
	}
}

func TestRootfindHighExactlyOnTarget(t *testing.T) {
	sk := NewStepperKinematics("x", linearProjection(1, 0), AxisX)
	m := &Move{MoveT: 1}

	got := rootfind(sk, sk.Projection, m, point{0, 0}, point{1, 1}, 1)
	if got.t != 1 || got.p != 1 {
		t.Fatalf("rootfind exact-high: got %+v, want {1 1}", got)
	}
}

func TestRootfindUnbracketedTarget(t *testing.T) {
	sk := NewStepperKinematics("x", linearProjection(1, 0), AxisX)
	m := &Move{MoveT: 1}

	low := point{0, 0}
	high := point{1, 0.5}
	got := rootfind(sk, sk.Projection, m, low, high, 2)

	if got.t != low.t || got.p != 2 {
		t.Fatalf("rootfind unbracketed: got %+v, want {%v 2}", got, low.t)
	}
}

func TestSignOf(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{{1, 1}, {-1, -1}, {0, 0}, {0.0001, 1}, {-0.0001, -1}}
	for _, c := range cases {
		if got := signOf(c.in); got != c.want {
			t.Errorf("signOf(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

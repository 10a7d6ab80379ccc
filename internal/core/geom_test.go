package core

import "testing"

func TestDirectionTurns(t *testing.T) {
	tests := []struct {
		d                    Direction
		left, right, reverse Direction
	}{
		{North, West, East, South},
		{East, North, South, West},
		{South, East, West, North},
		{West, South, North, East},
	}

	for _, tc := range tests {
		t.Run(tc.d.String(), func(t *testing.T) {
			if got := tc.d.Left(); got != tc.left {
				t.Errorf("Left() = %v, expected %v", got, tc.left)
			}
			if got := tc.d.Right(); got != tc.right {
				t.Errorf("Right() = %v, expected %v", got, tc.right)
			}
			if got := tc.d.Reverse(); got != tc.reverse {
				t.Errorf("Reverse() = %v, expected %v", got, tc.reverse)
			}
			if got := tc.d.Rotate(RotateLeft).Rotate(RotateRight); got != tc.d {
				t.Errorf("Rotate left then right = %v, expected %v", got, tc.d)
			}
		})
	}
}

func TestDirectionBits(t *testing.T) {
	expected := map[Direction]uint8{North: 1, East: 2, South: 4, West: 8}
	for d, bit := range expected {
		if d.Bit() != bit {
			t.Errorf("%v.Bit() = %d, expected %d", d, d.Bit(), bit)
		}
	}
}

func TestInvalidDirectionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Delta() on an invalid direction should panic")
		}
	}()
	Direction(7).Delta()
}

func TestCellStep(t *testing.T) {
	c := C(2, 2)

	tests := []struct {
		d        Direction
		n        int
		expected Cell
	}{
		{North, 1, C(2, 3)},
		{East, 3, C(5, 2)},
		{South, 2, C(2, 0)},
		{West, 1, C(1, 2)},
	}

	for _, tc := range tests {
		if got := c.Step(tc.d, tc.n); got != tc.expected {
			t.Errorf("Step(%v, %d) = %v, expected %v", tc.d, tc.n, got, tc.expected)
		}
	}
}

func TestCellIndexRoundTrip(t *testing.T) {
	const dim = 6
	for x := 0; x < dim; x++ {
		for y := 0; y < dim; y++ {
			c := C(x, y)
			if got := CellAt(c.Index(dim), dim); got != c {
				t.Errorf("CellAt(Index(%v)) = %v", c, got)
			}
		}
	}
}

func TestSensors(t *testing.T) {
	s := East.Sensors()
	if s != [3]Direction{North, East, South} {
		t.Errorf("East.Sensors() = %v, expected [N E S]", s)
	}
}

func TestParseDirection(t *testing.T) {
	for _, name := range []string{"u", "up", "N", "north"} {
		if d, ok := ParseDirection(name); !ok || d != North {
			t.Errorf("ParseDirection(%q) = %v, %v", name, d, ok)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Error("ParseDirection should reject unknown names")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, -3, 3, -3},
		{15, 0, 10, 10},
		{3, -3, 3, 3},
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	tests := []struct{ a, b, expected int }{
		{0, 3, 0}, {1, 3, 1}, {3, 3, 1}, {4, 3, 2}, {6, 3, 2}, {7, 3, 3},
	}
	for _, tc := range tests {
		if got := CeilDiv(tc.a, tc.b); got != tc.expected {
			t.Errorf("CeilDiv(%d, %d) = %d, expected %d", tc.a, tc.b, got, tc.expected)
		}
	}
}

func TestAbs(t *testing.T) {
	if Abs(5) != 5 {
		t.Error("Abs(5) should be 5")
	}
	if Abs(-5) != 5 {
		t.Error("Abs(-5) should be 5")
	}
	if Abs(0) != 0 {
		t.Error("Abs(0) should be 0")
	}
}

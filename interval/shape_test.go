package interval

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		dbStart, dbEnd, qStart, qEnd PosType
		want                         Shape
		overlap                      bool
	}{
		{100, 200, 150, 250, StartOverlap, true},
		{100, 200, 120, 180, Contained, true},
		{100, 200, 100, 200, Contained, true},
		{100, 200, 50, 150, EndOverlap, true},
		{100, 200, 50, 250, Containing, true},
		{100, 200, 200, 300, StartOverlap, true},
		{100, 200, 0, 100, EndOverlap, true},
		{100, 200, 201, 300, 0, false},
		{100, 200, 0, 99, 0, false},
		{5, 5, 5, 5, Contained, true},
		// Inverted DB interval: the formula is applied unchanged.
		{200, 100, 50, 250, Containing, true},
		{200, 100, 150, 150, 0, false},
	}
	for _, test := range tests {
		got, ok := Classify(test.dbStart, test.dbEnd, test.qStart, test.qEnd)
		expect.EQ(t, ok, test.overlap, test)
		expect.EQ(t, got, test.want, test)
	}
}

// TestClassifyGrid checks every arrangement of small intervals against the
// closed-interval definition of overlap.
func TestClassifyGrid(t *testing.T) {
	const n = 8
	for a := PosType(0); a < n; a++ {
		for b := a; b < n; b++ {
			for c := PosType(0); c < n; c++ {
				for d := c; d < n; d++ {
					shared := false
					for p := a; p <= b; p++ {
						if p >= c && p <= d {
							shared = true
						}
					}
					shape, ok := Classify(a, b, c, d)
					expect.EQ(t, ok, shared, a, b, c, d)
					expect.EQ(t, Overlaps(a, b, c, d), shared)
					if !ok {
						continue
					}
					var want Shape
					switch {
					case c >= a && d <= b:
						want = Contained
					case c >= a:
						want = StartOverlap
					case d <= b:
						want = EndOverlap
					default:
						want = Containing
					}
					expect.EQ(t, shape, want, a, b, c, d)
				}
			}
		}
	}
}

func TestShapeString(t *testing.T) {
	expect.EQ(t, Contained.String(), "Contained")
	expect.EQ(t, Containing.String(), "Containing")
	expect.EQ(t, Shape('x').String(), "Unknown")
	expect.EQ(t, byte(StartOverlap), byte('S'))
	expect.EQ(t, byte(EndOverlap), byte('E'))
}

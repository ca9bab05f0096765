package score

import (
	"math/rand"
	"testing"

	"github.com/yungbote/feedback360-backend/internal/modules/feedback/response"
)

func TestCalculateEmptyHistogramIsZero(t *testing.T) {
	if got := Calculate(response.Histogram{}); got != 0 {
		t.Fatalf("Calculate(empty)=%v", got)
	}
}

func TestCalculateScenarioFiveFiveFour(t *testing.T) {
	h := response.Histogram{Often: 1, Always: 2}
	if got := Calculate(h); got != 4.7 {
		t.Fatalf("Calculate=%v want 4.7", got)
	}
}

func TestCalculateStaysOnScale(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		h := response.Histogram{
			Never:     rng.Intn(4),
			Rarely:    rng.Intn(4),
			Sometimes: rng.Intn(4),
			Often:     rng.Intn(4),
			Always:    rng.Intn(4),
		}
		got := Calculate(h)
		if h.Total() == 0 {
			if got != 0 {
				t.Fatalf("empty histogram scored %v", got)
			}
			continue
		}
		if got < MinScore || got > MaxScore {
			t.Fatalf("Calculate(%+v)=%v out of range", h, got)
		}
		if Round1(got) != got {
			t.Fatalf("Calculate(%+v)=%v not rounded to one decimal", h, got)
		}
	}
}

func TestOverallAveragesSectionMeans(t *testing.T) {
	sections := [][]response.Histogram{
		{{Always: 1}, {Often: 1}},     // 4.5
		{{Sometimes: 1}},              // 3
		{{Never: 1}, {Rarely: 1}, {}}, // (1+2+0)/3 = 1
	}
	if got := Overall(sections); got != 2.8 {
		t.Fatalf("Overall=%v want 2.8", got)
	}
	if got := Overall(nil); got != 0 {
		t.Fatalf("Overall(nil)=%v", got)
	}
	if got := Section(sections[0]); got != 4.5 {
		t.Fatalf("Section=%v", got)
	}
}

func TestDescribeBands(t *testing.T) {
	cases := map[float64]string{4.5: "Excellent", 4.4: "Good", 3.5: "Good", 2.5: "Average", 1.5: "Needs Improvement", 1.4: "Poor", 0: "Poor"}
	for s, want := range cases {
		if got := Describe(s); got != want {
			t.Fatalf("Describe(%v)=%q want %q", s, got, want)
		}
	}
}

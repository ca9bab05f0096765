// Package score turns response histograms into 1-5 leadership scores.
package score

import (
	"math"

	"github.com/yungbote/feedback360-backend/internal/modules/feedback/response"
)

const (
	MinScore = 1.0
	MaxScore = 5.0
)

// Round1 rounds half away from zero to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Calculate is the weighted mean of a histogram on the 1-5 scale, rounded to
// one decimal. An empty histogram scores 0.
func Calculate(h response.Histogram) float64 {
	total := h.Total()
	if total == 0 {
		return 0
	}
	sum := 0
	for _, b := range response.Buckets {
		sum += b.Value() * h.Count(b)
	}
	return Round1(float64(sum) / float64(total))
}

// mean of xs, 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Section averages question scores within one section.
func Section(histograms []response.Histogram) float64 {
	return Round1(sectionMean(histograms))
}

func sectionMean(histograms []response.Histogram) float64 {
	scores := make([]float64, len(histograms))
	for i, h := range histograms {
		scores[i] = Calculate(h)
	}
	return mean(scores)
}

// Overall averages unrounded section means. sections holds each section's
// question histograms.
func Overall(sections [][]response.Histogram) float64 {
	means := make([]float64, len(sections))
	for i, s := range sections {
		means[i] = sectionMean(s)
	}
	return Round1(mean(means))
}

// Describe names the band a score falls in.
func Describe(s float64) string {
	switch {
	case s >= 4.5:
		return "Excellent"
	case s >= 3.5:
		return "Good"
	case s >= 2.5:
		return "Average"
	case s >= 1.5:
		return "Needs Improvement"
	default:
		return "Poor"
	}
}

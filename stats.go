package dsgen

// Summary statistics for the console report.

import (
	"fmt"
	"math"
	"strings"
)

// BBoxStats aggregates bounding box dimensions over a dataset.
type BBoxStats struct {
	MeanWidth  float64
	MeanHeight float64
	MeanArea   float64
	MinArea    float64
	MaxArea    float64
}

// LabelCount is the number of annotations for one category.
type LabelCount struct {
	Name  string
	Count int
}

// StatsReport summarizes a dataset.
type StatsReport struct {
	Images           int
	AnnotatedImages  int
	Annotations      int
	Categories       int
	MeanAnnsPerImage float64
	Labels           []LabelCount // In category table order.
	BBoxes           BBoxStats
}

// Stats computes a summary report for the dataset.
func Stats(data *Dataset) *StatsReport {
	report := &StatsReport{
		Images:      len(data.Images),
		Annotations: len(data.Annotations),
		Categories:  len(data.Categories),
	}

	annotated := make(map[int]bool, len(data.Images))
	counts := make(map[int]int, len(data.Categories))
	var sumW, sumH, sumArea float64
	minArea := math.Inf(1)
	maxArea := math.Inf(-1)

	for _, a := range data.Annotations {
		annotated[a.ImageID] = true
		counts[a.CategoryID]++

		sumW += a.Width()
		sumH += a.Height()
		area := a.Width() * a.Height()
		sumArea += area
		minArea = math.Min(minArea, area)
		maxArea = math.Max(maxArea, area)
	}
	report.AnnotatedImages = len(annotated)

	if n := float64(len(data.Annotations)); n > 0 {
		report.BBoxes = BBoxStats{
			MeanWidth:  sumW / n,
			MeanHeight: sumH / n,
			MeanArea:   sumArea / n,
			MinArea:    minArea,
			MaxArea:    maxArea,
		}
	}
	if len(data.Images) > 0 {
		report.MeanAnnsPerImage = float64(len(data.Annotations)) / float64(len(data.Images))
	}

	for _, c := range data.Categories {
		report.Labels = append(report.Labels, LabelCount{Name: c.Name, Count: counts[c.ID]})
	}

	return report
}

// String renders the report as a multi-line console summary.
func (r *StatsReport) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Images: %d (%d annotated)\n", r.Images, r.AnnotatedImages)
	fmt.Fprintf(&b, "Annotations: %d (%.2f per image)\n", r.Annotations, r.MeanAnnsPerImage)
	fmt.Fprintf(&b, "Categories: %d\n", r.Categories)
	for _, lc := range r.Labels {
		fmt.Fprintf(&b, "  %-12s %d\n", lc.Name, lc.Count)
	}
	if r.Annotations > 0 {
		fmt.Fprintf(&b, "Boxes: mean %.1fx%.1f px, mean area %.0f (min %.0f, max %.0f)",
			r.BBoxes.MeanWidth, r.BBoxes.MeanHeight, r.BBoxes.MeanArea,
			r.BBoxes.MinArea, r.BBoxes.MaxArea)
	}

	return b.String()
}

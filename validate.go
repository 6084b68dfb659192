package dsgen

// Dataset validation: structural integrity (unique IDs, valid references),
// data quality (non-empty names, positive dimensions) and geometric validity
// (finite, non-degenerate boxes inside the image frame).

import (
	"fmt"
	"math"
)

// Severity classifies a validation issue.
type Severity int

const (
	Warning Severity = iota
	Error
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Issue is a single problem found during validation.
type Issue struct {
	Severity Severity
	Message  string
}

// Report collects the issues found for one dataset.
type Report struct {
	Issues []Issue
}

// OK reports whether validation found no errors. Warnings do not fail a
// dataset.
func (r *Report) OK() bool {
	for _, issue := range r.Issues {
		if issue.Severity == Error {
			return false
		}
	}
	return true
}

// Errors counts the issues with severity Error.
func (r *Report) Errors() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == Error {
			n++
		}
	}
	return n
}

func (r *Report) add(s Severity, format string, args ...interface{}) {
	r.Issues = append(r.Issues, Issue{Severity: s, Message: fmt.Sprintf(format, args...)})
}

// The tolerance for floating-point comparisons, in pixels (squared pixels
// for areas).
const geomTolerance = 1e-6

// Validate checks the dataset and returns a report of all issues found.
func Validate(data *Dataset) *Report {
	report := &Report{}

	validateImages(data, report)
	validateCategories(data, report)
	validateAnnotations(data, report)

	return report
}

func validateImages(data *Dataset, report *Report) {
	seen := make(map[int]bool, len(data.Images))

	for _, img := range data.Images {
		if seen[img.ID] {
			report.add(Error, "duplicate image ID %d", img.ID)
		}
		seen[img.ID] = true

		if img.Width <= 0 || img.Height <= 0 {
			report.add(Error, "image %d has invalid dimensions %dx%d", img.ID, img.Width, img.Height)
		}
		if img.FileName == "" {
			report.add(Warning, "image %d has an empty file name", img.ID)
		}
	}
}

func validateCategories(data *Dataset, report *Report) {
	seenIDs := make(map[int]bool, len(data.Categories))
	seenNames := make(map[string]int, len(data.Categories))

	for _, c := range data.Categories {
		if seenIDs[c.ID] {
			report.add(Error, "duplicate category ID %d", c.ID)
		}
		seenIDs[c.ID] = true

		if c.Name == "" {
			report.add(Warning, "category %d has an empty name", c.ID)
			continue
		}
		if first, ok := seenNames[c.Name]; ok {
			report.add(Warning, "duplicate category name %q (also used by category %d)", c.Name, first)
		} else {
			seenNames[c.Name] = c.ID
		}
	}
}

func validateAnnotations(data *Dataset, report *Report) {
	images := data.ImagesByID()
	categories := make(map[int]bool, len(data.Categories))
	for _, c := range data.Categories {
		categories[c.ID] = true
	}

	seen := make(map[int]bool, len(data.Annotations))
	for _, a := range data.Annotations {
		if seen[a.ID] {
			report.add(Error, "duplicate annotation ID %d", a.ID)
		}
		seen[a.ID] = true

		if !categories[a.CategoryID] {
			report.add(Error, "annotation %d references unknown category %d", a.ID, a.CategoryID)
		}

		img, ok := images[a.ImageID]
		if !ok {
			report.add(Error, "annotation %d references unknown image %d", a.ID, a.ImageID)
			continue
		}

		validateBBox(a, img, report)
	}
}

func validateBBox(a Annotation, img Image, report *Report) {
	for _, v := range a.BBox {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			report.add(Error, "annotation %d has a non-finite bounding box", a.ID)
			return
		}
	}

	x, y, w, h := a.BBox[0], a.BBox[1], a.BBox[2], a.BBox[3]
	if w <= 0 || h <= 0 {
		report.add(Error, "annotation %d has a degenerate box %.6gx%.6g", a.ID, w, h)
	}
	if x < 0 || y < 0 ||
			x+w > float64(img.Width)+geomTolerance ||
			y+h > float64(img.Height)+geomTolerance {
		report.add(Error, "annotation %d box exceeds the %dx%d image frame",
			a.ID, img.Width, img.Height)
	}
	if math.Abs(a.Area-w*h) > geomTolerance {
		report.add(Warning, "annotation %d area %.6g does not match w*h %.6g", a.ID, a.Area, w*h)
	}
}

package dsgen

// Synthetic dataset generation.

import (
	"fmt"
	"math/rand"
	"time"
)

// The timestamp layout used for date_captured and date_created fields.
const timestampLayout = "2006-01-02 15:04:05"

// Config holds the generation parameters.
type Config struct {
	NumImages           int
	AnnotationsPerImage int
	ImageWidth          int
	ImageHeight         int
	Seed                int64
}

// DefaultConfig returns the default generation parameters.
func DefaultConfig() Config {
	return Config{
		NumImages:           100,
		AnnotationsPerImage: 5,
		ImageWidth:          640,
		ImageHeight:         480,
		Seed:                42,
	}
}

// Generator produces synthetic datasets. Each Generator owns its random
// source, so multiple generators run independently and deterministically.
//
// Non-positive counts or dimensions in the Config are precondition
// violations; Generate does not guard against them.
type Generator struct {
	cfg Config
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator seeded from cfg.Seed.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		now: time.Now,
	}
}

// randomBBox draws a random box [x, y, w, h] that fits within the image
// frame. Width and height are uniform in [0.1, 0.3) of the respective image
// dimension; x and y are uniform in the remaining space, so x+w < W and
// y+h < H always hold.
func (g *Generator) randomBBox() [4]float64 {
	imgW := float64(g.cfg.ImageWidth)
	imgH := float64(g.cfg.ImageHeight)

	w := 0.1*imgW + g.rng.Float64()*0.2*imgW
	h := 0.1*imgH + g.rng.Float64()*0.2*imgH
	x := g.rng.Float64() * (imgW - w)
	y := g.rng.Float64() * (imgH - h)

	return [4]float64{x, y, w, h}
}

// Generate builds the full dataset in one pass: one image record per index
// 1..NumImages and exactly AnnotationsPerImage annotations per image, with
// sequential annotation IDs starting at 1.
//
// The output is deterministic for a fixed seed, except for the embedded
// date_captured and date_created timestamps, which use wall-clock time.
func (g *Generator) Generate() *Dataset {
	timestamp := g.now().Format(timestampLayout)

	images := make([]Image, 0, g.cfg.NumImages)
	annotations := make([]Annotation, 0, g.cfg.NumImages*g.cfg.AnnotationsPerImage)
	annID := 1

	for imgID := 1; imgID <= g.cfg.NumImages; imgID++ {
		images = append(images, Image{
			ID:           imgID,
			Width:        g.cfg.ImageWidth,
			Height:       g.cfg.ImageHeight,
			FileName:     fmt.Sprintf("image_%06d.jpg", imgID),
			License:      1,
			DateCaptured: timestamp,
		})

		for i := 0; i < g.cfg.AnnotationsPerImage; i++ {
			bbox := g.randomBBox()
			category := fixedCategories[g.rng.Intn(len(fixedCategories))]

			annotations = append(annotations, Annotation{
				ID:           annID,
				ImageID:      imgID,
				CategoryID:   category.ID,
				BBox:         bbox,
				Area:         bbox[2] * bbox[3],
				IsCrowd:      0,
				Segmentation: []interface{}{},
			})
			annID++
		}
	}

	return &Dataset{
		Info: Info{
			Year:        2024,
			Version:     "1.0",
			Description: "Synthetic dataset for testing",
			Contributor: "Dataset Generator",
			DateCreated: timestamp,
		},
		Licenses:    []License{{ID: 1, Name: "dummy_license", URL: ""}},
		Images:      images,
		Annotations: annotations,
		Categories:  FixedCategories(),
	}
}

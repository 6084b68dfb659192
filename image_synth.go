package dsgen

// Dummy image synthesis for generated datasets.

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// The background fill for synthesized images.
var backgroundColor = color.NRGBA{R: 160, G: 160, B: 160, A: 255}

// categoryColors maps category IDs to the fill color of their boxes, so the
// object classes are distinguishable in the fixtures.
var categoryColors = map[int]color.NRGBA{
	1: {R: 220, G: 60, B: 60, A: 255},  // person
	2: {R: 60, G: 60, B: 220, A: 255},  // car
	3: {R: 180, G: 120, B: 40, A: 255}, // dog
	4: {R: 60, G: 180, B: 60, A: 255},  // bicycle
	5: {R: 180, G: 60, B: 180, A: 255}, // chair
}

// SynthesizeImage renders a dummy image for the given record: a uniform
// background with each annotation's bounding box filled in its category
// color.
func SynthesizeImage(img Image, annotations []Annotation) image.Image {
	canvas := imaging.New(img.Width, img.Height, backgroundColor)

	for _, a := range annotations {
		c, ok := categoryColors[a.CategoryID]
		if !ok {
			c = color.NRGBA{R: 80, G: 80, B: 80, A: 255}
		}

		r := image.Rect(
			int(math.Round(a.BBox[0])), int(math.Round(a.BBox[1])),
			int(math.Round(a.BBox[0]+a.BBox[2])), int(math.Round(a.BBox[1]+a.BBox[3])))
		draw.Draw(canvas, r.Intersect(canvas.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
	}

	return canvas
}

// WriteImages synthesizes and writes one JPEG per image record into dirPath,
// creating the directory if needed.
func WriteImages(dirPath string, data *Dataset, jpegQuality int) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("cannot create image directory %q: %v", dirPath, err)
	}

	byImage := make(map[int][]Annotation, len(data.Images))
	for _, group := range data.GroupByImage() {
		byImage[group.ImageID] = group.Annotations
	}

	for _, img := range data.Images {
		outPath := filepath.Join(dirPath, img.FileName)
		canvas := SynthesizeImage(img, byImage[img.ID])
		if err := imaging.Save(canvas, outPath, imaging.JPEGQuality(jpegQuality)); err != nil {
			return fmt.Errorf("cannot write image %q: %v", outPath, err)
		}
	}

	log.Printf("Wrote %d images to %s", len(data.Images), dirPath)
	return nil
}

// encodeJPEG encodes the image as JPEG in memory.
func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

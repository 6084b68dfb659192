// Generates synthetic object detection datasets with matching COCO JSON and
// TFOD CSV annotations, plus optional image fixtures and a TFRecord export.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sensorable/dsgen"
)

var (
	numImages           int    // The number of images in the dataset.
	annotationsPerImage int    // The number of annotations per image.
	outputDirPath       string // The output directory for the generated files.
	imageWidth          int    // The width of every image in the dataset.
	imageHeight         int    // The height of every image in the dataset.
	seed                int64  // The random seed for box and category draws.

	writeImages      bool   // Synthesize and write the dummy JPEG images.
	jpegQuality      int    // The JPEG quality for synthesized images.
	tfRecordFilePath string // The TFRecord output file (empty disables it).
	runValidate      bool   // Validate the generated dataset before writing.
	printStats       bool   // Print summary statistics after generation.
)

const (
	cocoFileName     = "coco_annotations.json"
	tfodFileName     = "tfod_annotations.csv"
	imagesDirName    = "images"
	labelMapFileName = "label_map.pbtxt"
)

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr,
			"  Writes "+cocoFileName+" and "+tfodFileName+" into the output directory.")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	flag.IntVar(&numImages, "num-images", 100,
		"The `number` of images in the dataset")
	flag.IntVar(&annotationsPerImage, "annotations-per-image", 5,
		"The `number` of annotations per image")
	flag.StringVar(&outputDirPath, "out", "generated_dataset",
		"The `path` to the output directory (created if absent)")
	flag.IntVar(&imageWidth, "image-width", 640,
		"The `width` of every image in pixels")
	flag.IntVar(&imageHeight, "image-height", 480,
		"The `height` of every image in pixels")
	flag.Int64Var(&seed, "seed", 42,
		"The random `seed` for box and category draws")

	flag.BoolVar(&writeImages, "write-images", false,
		"Synthesize and write a dummy JPEG for every image record")
	flag.IntVar(&jpegQuality, "jpeg-quality", 90,
		"The quality to use when encoding JPEGs [1, 100]")
	flag.StringVar(&tfRecordFilePath, "tfrecord", "",
		"The `path` of a TFRecord file to export (with a label map alongside)")
	flag.BoolVar(&runValidate, "validate", false,
		"Validate the generated dataset and fail on errors")
	flag.BoolVar(&printStats, "stats", false,
		"Print summary statistics for the generated dataset")

	flag.Parse()

	printUsageAndExit := func(msg ...interface{}) {
		log.Print(msg...)
		flag.Usage()
		os.Exit(1)
	}

	if numImages <= 0 || annotationsPerImage < 0 {
		printUsageAndExit("Invalid dataset size arguments")
	}
	if imageWidth <= 0 || imageHeight <= 0 {
		printUsageAndExit("Invalid image dimension arguments")
	}
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = 90
		log.Print("Invalid JPEG quality, setting it to ", jpegQuality)
	}

	outputDirPath = filepath.Clean(outputDirPath)
	if tfRecordFilePath != "" {
		tfRecordFilePath = filepath.Clean(tfRecordFilePath)
	}
}

func main() {
	generator := dsgen.NewGenerator(dsgen.Config{
		NumImages:           numImages,
		AnnotationsPerImage: annotationsPerImage,
		ImageWidth:          imageWidth,
		ImageHeight:         imageHeight,
		Seed:                seed,
	})
	data := generator.Generate()

	if runValidate {
		report := dsgen.Validate(data)
		for _, issue := range report.Issues {
			log.Printf("validation %s: %s", issue.Severity, issue.Message)
		}
		if !report.OK() {
			log.Fatalf("Validation failed with %d errors", report.Errors())
		}
	}

	if err := os.MkdirAll(outputDirPath, 0755); err != nil {
		log.Fatal("Failed to create the output directory: ", err)
	}

	cocoPath := filepath.Join(outputDirPath, cocoFileName)
	if err := dsgen.WriteCOCO(cocoPath, data); err != nil {
		log.Fatal("Failed to write the COCO annotations: ", err)
	}

	rows, err := dsgen.ToTFODRows(data)
	if err != nil {
		log.Fatal("Failed to project TFOD rows: ", err)
	}
	tfodPath := filepath.Join(outputDirPath, tfodFileName)
	if err := dsgen.WriteTFODCSV(tfodPath, rows); err != nil {
		log.Fatal("Failed to write the TFOD annotations: ", err)
	}

	if writeImages {
		imagesDir := filepath.Join(outputDirPath, imagesDirName)
		if err := dsgen.WriteImages(imagesDir, data, jpegQuality); err != nil {
			log.Fatal("Failed to write the images: ", err)
		}
	}

	if tfRecordFilePath != "" {
		labelMapPath := filepath.Join(filepath.Dir(tfRecordFilePath), labelMapFileName)
		if err := dsgen.WriteTFRecord(tfRecordFilePath, labelMapPath, data, jpegQuality); err != nil {
			log.Fatal("Failed to write the TFRecord export: ", err)
		}
	}

	log.Printf("Generated %d images with %d annotations in %s",
		len(data.Images), len(data.Annotations), outputDirPath)
	log.Print("- COCO format: ", cocoPath)
	log.Print("- TFOD format: ", tfodPath)

	if printStats {
		fmt.Println(dsgen.Stats(data))
	}
}

package dsgen

// TFOD CSV specific functionality.
//
// The TFOD format stores one row per annotation with image-normalized corner
// coordinates in [0, 1], while the width and height columns carry the
// absolute pixel dimensions of the image. That mix is part of the format.

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// tfodHeader is the column layout of the TFOD CSV format.
var tfodHeader = []string{"filename", "width", "height", "class", "xmin", "ymin", "xmax", "ymax"}

// TFODRow is a single row of the TFOD CSV format.
type TFODRow struct {
	Filename string
	Width    int
	Height   int
	Class    string
	XMin     float64
	YMin     float64
	XMax     float64
	YMax     float64
}

// NormalizeBBox converts a COCO box [x, y, w, h] on an image of the given
// dimensions to normalized corners [ymin, xmin, ymax, xmax], each in [0, 1]
// for boxes inside the frame.
func NormalizeBBox(bbox [4]float64, imageWidth, imageHeight int) [4]float64 {
	w := float64(imageWidth)
	h := float64(imageHeight)

	return [4]float64{
		bbox[1] / h,             // ymin
		bbox[0] / w,             // xmin
		(bbox[1] + bbox[3]) / h, // ymax
		(bbox[0] + bbox[2]) / w, // xmax
	}
}

// DenormalizeBBox is the inverse of NormalizeBBox: it converts normalized
// corners [ymin, xmin, ymax, xmax] back to a COCO box [x, y, w, h] in
// absolute pixel units.
func DenormalizeBBox(corners [4]float64, imageWidth, imageHeight int) [4]float64 {
	w := float64(imageWidth)
	h := float64(imageHeight)

	x := corners[1] * w
	y := corners[0] * h
	return [4]float64{x, y, corners[3]*w - x, corners[2]*h - y}
}

// ToTFODRows projects the dataset onto TFOD CSV rows, one per annotation.
// Rows are ordered by the first occurrence of each image ID and keep the
// annotation insertion order within each image.
func ToTFODRows(data *Dataset) ([]TFODRow, error) {
	images := data.ImagesByID()
	names := data.CategoryNames()

	rows := make([]TFODRow, 0, len(data.Annotations))
	for _, group := range data.GroupByImage() {
		img, ok := images[group.ImageID]
		if !ok {
			return nil, fmt.Errorf("annotations reference unknown image %d", group.ImageID)
		}

		for _, a := range group.Annotations {
			class, ok := names[a.CategoryID]
			if !ok {
				return nil, fmt.Errorf("annotation %d references unknown category %d", a.ID, a.CategoryID)
			}

			corners := NormalizeBBox(a.BBox, img.Width, img.Height)
			rows = append(rows, TFODRow{
				Filename: img.FileName,
				Width:    img.Width,
				Height:   img.Height,
				Class:    class,
				XMin:     corners[1],
				YMin:     corners[0],
				XMax:     corners[3],
				YMax:     corners[2],
			})
		}
	}

	return rows, nil
}

// WriteTFODCSV writes the rows to outFile in TFOD CSV format, replacing any
// existing file. Coordinates are formatted as the shortest decimals that
// parse back to the same value.
func WriteTFODCSV(outFile string, rows []TFODRow) (err error) {
	file, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("cannot write file %q: %v", outFile, err)
	}
	defer closeWithErrCheck(file, &err)

	w := csv.NewWriter(file)
	if err := w.Write(tfodHeader); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.Filename,
			strconv.Itoa(r.Width),
			strconv.Itoa(r.Height),
			r.Class,
			strconv.FormatFloat(r.XMin, 'f', -1, 64),
			strconv.FormatFloat(r.YMin, 'f', -1, 64),
			strconv.FormatFloat(r.XMax, 'f', -1, 64),
			strconv.FormatFloat(r.YMax, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// FromTFODCSV reads and parses a TFOD CSV dataset from the file at path.
//
// The CSV carries no ID columns, so IDs are assigned deterministically:
// image IDs in lexicographic filename order, category IDs in lexicographic
// class-name order, and annotation IDs in row order. Normalized corners are
// converted back to absolute COCO boxes using the row dimensions.
func FromTFODCSV(path string) (ds *Dataset, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer closeWithErrCheck(file, &err)

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse TFOD input from %q: %v", path, err)
	}
	if len(records) == 0 || len(records[0]) != len(tfodHeader) {
		return nil, fmt.Errorf("missing or malformed TFOD header in %q", path)
	}

	rows := make([]TFODRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row, err := parseTFODRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("invalid TFOD row in %q: %v", path, err)
		}
		rows = append(rows, row)
	}

	return tfodRowsToDataset(rows)
}

// parseTFODRecord parses the fields of a single TFOD CSV record.
func parseTFODRecord(rec []string) (TFODRow, error) {
	row := TFODRow{Filename: rec[0], Class: rec[3]}

	var err error
	if row.Width, err = strconv.Atoi(rec[1]); err != nil {
		return row, fmt.Errorf("bad width %q", rec[1])
	}
	if row.Height, err = strconv.Atoi(rec[2]); err != nil {
		return row, fmt.Errorf("bad height %q", rec[2])
	}

	coords := [4]*float64{&row.XMin, &row.YMin, &row.XMax, &row.YMax}
	for i, p := range coords {
		if *p, err = strconv.ParseFloat(rec[4+i], 64); err != nil {
			return row, fmt.Errorf("bad coordinate %q", rec[4+i])
		}
	}

	return row, nil
}

// tfodRowsToDataset builds a Dataset from parsed TFOD rows.
func tfodRowsToDataset(rows []TFODRow) (*Dataset, error) {
	// Collect image dimensions per filename, rejecting inconsistent rows.
	dims := make(map[string][2]int, len(rows))
	classSet := make(map[string]bool)
	for _, r := range rows {
		if d, seen := dims[r.Filename]; seen {
			if d != [2]int{r.Width, r.Height} {
				return nil, fmt.Errorf("inconsistent dimensions for %q: %dx%d vs %dx%d",
					r.Filename, d[0], d[1], r.Width, r.Height)
			}
		} else {
			dims[r.Filename] = [2]int{r.Width, r.Height}
		}
		classSet[r.Class] = true
	}

	// Assign image and category IDs in lexicographic order.
	filenames := make([]string, 0, len(dims))
	for name := range dims {
		filenames = append(filenames, name)
	}
	sort.Strings(filenames)

	classes := make([]string, 0, len(classSet))
	for name := range classSet {
		classes = append(classes, name)
	}
	sort.Strings(classes)

	imageIDs := make(map[string]int, len(filenames))
	images := make([]Image, len(filenames))
	for i, name := range filenames {
		imageIDs[name] = i + 1
		images[i] = Image{
			ID:       i + 1,
			Width:    dims[name][0],
			Height:   dims[name][1],
			FileName: name,
		}
	}

	categoryIDs := make(map[string]int, len(classes))
	categories := make([]Category, len(classes))
	for i, name := range classes {
		categoryIDs[name] = i + 1
		categories[i] = Category{ID: i + 1, Name: name}
	}

	// Annotation IDs follow row order.
	annotations := make([]Annotation, len(rows))
	for i, r := range rows {
		corners := [4]float64{r.YMin, r.XMin, r.YMax, r.XMax}
		bbox := DenormalizeBBox(corners, r.Width, r.Height)
		annotations[i] = Annotation{
			ID:           i + 1,
			ImageID:      imageIDs[r.Filename],
			CategoryID:   categoryIDs[r.Class],
			BBox:         bbox,
			Area:         bbox[2] * bbox[3],
			Segmentation: []interface{}{},
		}
	}

	return &Dataset{
		Images:      images,
		Annotations: annotations,
		Categories:  categories,
	}, nil
}

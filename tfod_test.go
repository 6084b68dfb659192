package dsgen

import (
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeBBox(t *testing.T) {
	// [x=64, y=96, w=256, h=288] on a 640x480 image.
	corners := NormalizeBBox([4]float64{64, 96, 256, 288}, 640, 480)

	want := [4]float64{0.2, 0.1, 0.8, 0.5} // ymin, xmin, ymax, xmax
	for i := range corners {
		if math.Abs(corners[i]-want[i]) > 1e-9 {
			t.Errorf("corner %d: got %v, want %v", i, corners[i], want[i])
		}
	}
}

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	data := NewGenerator(testConfig(5, 5)).Generate()

	for _, a := range data.Annotations {
		corners := NormalizeBBox(a.BBox, 640, 480)
		for i, v := range corners {
			if v < 0 || v > 1 {
				t.Errorf("annotation %d: corner %d = %v outside [0, 1]", a.ID, i, v)
			}
		}

		back := DenormalizeBBox(corners, 640, 480)
		for i := range back {
			if math.Abs(back[i]-a.BBox[i]) > 1e-9 {
				t.Errorf("annotation %d: round trip changed bbox[%d] from %v to %v",
					a.ID, i, a.BBox[i], back[i])
			}
		}
	}
}

func TestToTFODRows(t *testing.T) {
	data := NewGenerator(testConfig(4, 3)).Generate()

	rows, err := ToTFODRows(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(data.Annotations) {
		t.Fatalf("got %d rows, want %d", len(rows), len(data.Annotations))
	}

	valid := map[string]bool{
		"person": true, "car": true, "dog": true, "bicycle": true, "chair": true,
	}
	for i, r := range rows {
		if !valid[r.Class] {
			t.Errorf("row %d: unexpected class %q", i, r.Class)
		}
		if r.Width != 640 || r.Height != 480 {
			t.Errorf("row %d: dimensions %dx%d, want 640x480", i, r.Width, r.Height)
		}
		if r.XMin >= r.XMax || r.YMin >= r.YMax {
			t.Errorf("row %d: inverted corners %+v", i, r)
		}
	}

	// Rows must follow image order, then annotation insertion order.
	for i := 1; i < len(rows); i++ {
		if rows[i].Filename < rows[i-1].Filename {
			t.Fatalf("row %d out of image order: %q after %q",
				i, rows[i].Filename, rows[i-1].Filename)
		}
	}
}

func TestToTFODRowsFollowsFirstSeenOrder(t *testing.T) {
	data := &Dataset{
		Images: []Image{
			{ID: 1, Width: 100, Height: 100, FileName: "a.jpg"},
			{ID: 2, Width: 100, Height: 100, FileName: "b.jpg"},
		},
		Categories: []Category{{ID: 1, Name: "person"}},
		Annotations: []Annotation{
			{ID: 1, ImageID: 2, CategoryID: 1, BBox: [4]float64{0, 0, 10, 10}},
			{ID: 2, ImageID: 1, CategoryID: 1, BBox: [4]float64{0, 0, 10, 10}},
			{ID: 3, ImageID: 2, CategoryID: 1, BBox: [4]float64{5, 5, 10, 10}},
		},
	}

	rows, err := ToTFODRows(data)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"b.jpg", "b.jpg", "a.jpg"}
	for i, r := range rows {
		if r.Filename != want[i] {
			t.Errorf("row %d: filename %q, want %q", i, r.Filename, want[i])
		}
	}
}

func TestToTFODRowsDanglingReference(t *testing.T) {
	data := &Dataset{
		Images:     []Image{{ID: 1, Width: 100, Height: 100, FileName: "a.jpg"}},
		Categories: []Category{{ID: 1, Name: "person"}},
		Annotations: []Annotation{
			{ID: 1, ImageID: 1, CategoryID: 9, BBox: [4]float64{0, 0, 10, 10}},
		},
	}

	if _, err := ToTFODRows(data); err == nil {
		t.Error("expected an error for a dangling category reference")
	}
}

func TestWriteAndReadTFODCSV(t *testing.T) {
	dir, err := ioutil.TempDir("", "dsgen")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	data := NewGenerator(testConfig(3, 2)).Generate()
	rows, err := ToTFODRows(data)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "tfod_annotations.csv")
	if err := WriteTFODCSV(path, rows); err != nil {
		t.Fatal(err)
	}

	enc, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(enc)), "\n")
	if lines[0] != "filename,width,height,class,xmin,ymin,xmax,ymax" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 1+len(rows) {
		t.Errorf("got %d data rows, want %d", len(lines)-1, len(rows))
	}

	restored, err := FromTFODCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(restored.Annotations) != len(data.Annotations) {
		t.Fatalf("got %d annotations after round trip, want %d",
			len(restored.Annotations), len(data.Annotations))
	}
	for i, a := range restored.Annotations {
		orig := data.Annotations[i]
		for j := range a.BBox {
			if math.Abs(a.BBox[j]-orig.BBox[j]) > 1e-6 {
				t.Errorf("annotation %d: bbox[%d] %v, want %v", a.ID, j, a.BBox[j], orig.BBox[j])
			}
		}
	}
}

func TestFromTFODCSVIDPolicy(t *testing.T) {
	dir, err := ioutil.TempDir("", "dsgen")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	csv := "filename,width,height,class,xmin,ymin,xmax,ymax\n" +
		"b.jpg,640,480,person,0.1,0.2,0.5,0.8\n" +
		"a.jpg,640,480,car,0.3,0.1,0.7,0.4\n" +
		"b.jpg,640,480,car,0.2,0.3,0.6,0.9\n"
	path := filepath.Join(dir, "in.csv")
	if err := ioutil.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := FromTFODCSV(path)
	if err != nil {
		t.Fatal(err)
	}

	// Image IDs in lexicographic filename order.
	if data.Images[0].FileName != "a.jpg" || data.Images[0].ID != 1 {
		t.Errorf("unexpected first image: %+v", data.Images[0])
	}
	if data.Images[1].FileName != "b.jpg" || data.Images[1].ID != 2 {
		t.Errorf("unexpected second image: %+v", data.Images[1])
	}

	// Category IDs in lexicographic class-name order.
	if data.Categories[0].Name != "car" || data.Categories[1].Name != "person" {
		t.Errorf("unexpected category order: %+v", data.Categories)
	}

	// Annotation IDs in row order.
	if data.Annotations[0].ImageID != 2 || data.Annotations[1].ImageID != 1 {
		t.Errorf("unexpected annotation image references: %+v", data.Annotations)
	}
}

func TestFromTFODCSVInconsistentDimensions(t *testing.T) {
	dir, err := ioutil.TempDir("", "dsgen")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	csv := "filename,width,height,class,xmin,ymin,xmax,ymax\n" +
		"a.jpg,640,480,person,0.1,0.2,0.5,0.8\n" +
		"a.jpg,800,600,car,0.3,0.1,0.7,0.4\n"
	path := filepath.Join(dir, "in.csv")
	if err := ioutil.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := FromTFODCSV(path); err == nil {
		t.Error("expected an error for inconsistent image dimensions")
	}
}

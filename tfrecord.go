package dsgen

// TFRecord object detection specific functionality.

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
)

// toTFExampleFeatures builds the object detection feature map for one image
// record and its annotations. The encoded image bytes are the synthesized
// JPEG for the record.
func toTFExampleFeatures(img Image, annotations []Annotation, names map[int]string,
		jpegQuality int) (map[string]interface{}, error) {

	imgData, err := encodeJPEG(SynthesizeImage(img, annotations), jpegQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %q: %v", img.FileName, err)
	}

	f := make(map[string]interface{}, 16)
	f["image/height"] = img.Height
	f["image/width"] = img.Width
	f["image/filename"] = img.FileName
	f["image/source_id"] = img.FileName
	f["image/encoded"] = imgData
	f["image/format"] = "jpeg"

	numLabels := len(annotations)
	xmins := make([]float32, numLabels)
	ymins := make([]float32, numLabels)
	xmaxs := make([]float32, numLabels)
	ymaxs := make([]float32, numLabels)
	classes := make([]string, numLabels)
	classIDs := make([]int64, numLabels)
	for i, a := range annotations {
		corners := NormalizeBBox(a.BBox, img.Width, img.Height)
		ymins[i] = float32(corners[0])
		xmins[i] = float32(corners[1])
		ymaxs[i] = float32(corners[2])
		xmaxs[i] = float32(corners[3])

		class, ok := names[a.CategoryID]
		if !ok {
			return nil, fmt.Errorf("annotation %d references unknown category %d", a.ID, a.CategoryID)
		}
		classes[i] = class
		classIDs[i] = int64(a.CategoryID)
	}
	f["image/object/bbox/xmin"] = xmins
	f["image/object/bbox/ymin"] = ymins
	f["image/object/bbox/xmax"] = xmaxs
	f["image/object/bbox/ymax"] = ymaxs
	f["image/object/class/text"] = classes
	f["image/object/class/label"] = classIDs

	return f, nil
}

// WriteTFRecord does a streaming conversion, serialisation and file write of
// the dataset to a TFRecord file at recordFilePath. One tensorflow.Example
// is written per image record, including images without annotations.
//
// A label map derived from the dataset categories is written to labelMapPath.
func WriteTFRecord(recordFilePath, labelMapPath string, data *Dataset,
		jpegQuality int) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	file, err := os.Create(recordFilePath)
	if err != nil {
		return fmt.Errorf("failed to create TFRecord file %q: %v", recordFilePath, err)
	}
	defer closeWithErrCheck(file, &err)

	names := data.CategoryNames()
	byImage := make(map[int][]Annotation, len(data.Images))
	for _, group := range data.GroupByImage() {
		byImage[group.ImageID] = group.Annotations
	}

	for _, img := range data.Images {
		f, err := toTFExampleFeatures(img, byImage[img.ID], names, jpegQuality)
		if err != nil {
			return err
		}

		if err := writeTFRecordExample(file, example.New(f)); err != nil {
			return fmt.Errorf("failed to write example for %q: %v", img.FileName, err)
		}
	}

	if err := writeTFRecordLabelMap(labelMapPath, data.Categories); err != nil {
		return err
	}

	log.Printf("Wrote %d examples to %s", len(data.Images), recordFilePath)
	return nil
}

// writeTFRecordExample serialises the example and writes it as a TFRecord
// to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// writeTFRecordLabelMap writes the categories as a prototxt label map, one
// item per category in table order.
func writeTFRecordLabelMap(path string, categories []Category) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create the label map file %q: %v", path, err)
	}
	defer closeWithErrCheck(file, &err)

	for _, c := range categories {
		_, err := fmt.Fprintf(file, "item {\n  id: %d\n  name: %q\n}\n", c.ID, c.Name)
		if err != nil {
			return err
		}
	}

	return nil
}

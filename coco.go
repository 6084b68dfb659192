package dsgen

// COCO JSON specific functionality.

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
)

// FromCOCO reads and parses a COCO JSON dataset from the file at path.
//
// Optional fields that are absent in the input (info, licenses, iscrowd,
// segmentation) unmarshal to their zero values.
func FromCOCO(path string) (*Dataset, error) {
	enc, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data Dataset
	if err := json.Unmarshal(enc, &data); err != nil {
		return nil, fmt.Errorf("failed to parse COCO input from %q: %v", path, err)
	}

	return &data, nil
}

// WriteCOCO writes the dataset as indented COCO JSON to outFile, replacing
// any existing file.
func WriteCOCO(outFile string, data *Dataset) error {
	enc, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(outFile, enc, 0644); err != nil {
		return fmt.Errorf("cannot write file %q: %v", outFile, err)
	}
	return nil
}

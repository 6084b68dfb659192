package dsgen

// The canonical in-memory dataset representation. It is COCO-shaped: all other
// outputs (TFOD CSV, TFRecord, image fixtures) are projections of this model.

// Info is the dataset-level metadata block.
type Info struct {
	Year        int    `json:"year"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Contributor string `json:"contributor"`
	DateCreated string `json:"date_created"`
}

// License is a license entry that images may reference by ID.
type License struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Image is the metadata record for a single image.
type Image struct {
	ID           int    `json:"id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	FileName     string `json:"file_name"`
	License      int    `json:"license"`
	DateCaptured string `json:"date_captured"`
}

// Category is a class label with an optional taxonomy parent.
type Category struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Supercategory string `json:"supercategory"`
}

// Annotation is a single object label. BBox is [x, y, width, height] in
// absolute pixel units, with (x, y) the top-left corner.
type Annotation struct {
	ID           int           `json:"id"`
	ImageID      int           `json:"image_id"`
	CategoryID   int           `json:"category_id"`
	BBox         [4]float64    `json:"bbox"`
	Area         float64       `json:"area"`
	IsCrowd      int           `json:"iscrowd"`
	Segmentation []interface{} `json:"segmentation"`
}

// Width is the box width from a.BBox.
func (a Annotation) Width() float64 {
	return a.BBox[2]
}

// Height is the box height from a.BBox.
func (a Annotation) Height() float64 {
	return a.BBox[3]
}

// Dataset holds the images, annotations and category definitions of one
// complete dataset, together with its metadata.
type Dataset struct {
	Info        Info         `json:"info"`
	Licenses    []License    `json:"licenses"`
	Images      []Image      `json:"images"`
	Annotations []Annotation `json:"annotations"`
	Categories  []Category   `json:"categories"`
}

// The static category table used for all generated datasets.
var fixedCategories = []Category{
	{ID: 1, Name: "person", Supercategory: "living"},
	{ID: 2, Name: "car", Supercategory: "vehicle"},
	{ID: 3, Name: "dog", Supercategory: "animal"},
	{ID: 4, Name: "bicycle", Supercategory: "vehicle"},
	{ID: 5, Name: "chair", Supercategory: "furniture"},
}

// FixedCategories returns a copy of the static category table.
func FixedCategories() []Category {
	cats := make([]Category, len(fixedCategories))
	copy(cats, fixedCategories)
	return cats
}

// CategoryNames maps category IDs to names.
func (d *Dataset) CategoryNames() map[int]string {
	names := make(map[int]string, len(d.Categories))
	for _, c := range d.Categories {
		names[c.ID] = c.Name
	}
	return names
}

// ImagesByID maps image IDs to their records.
func (d *Dataset) ImagesByID() map[int]Image {
	images := make(map[int]Image, len(d.Images))
	for _, img := range d.Images {
		images[img.ID] = img
	}
	return images
}

// ImageGroup is the list of annotations belonging to one image.
type ImageGroup struct {
	ImageID     int
	Annotations []Annotation
}

// GroupByImage groups the annotations by image ID. Groups are ordered by the
// first occurrence of each image ID, and annotations keep their insertion
// order within a group, so iteration over the result is deterministic.
func (d *Dataset) GroupByImage() []ImageGroup {
	index := make(map[int]int, len(d.Images))
	groups := make([]ImageGroup, 0, len(d.Images))

	for _, a := range d.Annotations {
		i, seen := index[a.ImageID]
		if !seen {
			i = len(groups)
			index[a.ImageID] = i
			groups = append(groups, ImageGroup{ImageID: a.ImageID})
		}
		groups[i].Annotations = append(groups[i].Annotations, a)
	}

	return groups
}

package types

import (
	"encoding/json"
	"fmt"
)

// QueryRecord is one raw entry in the input corpus
type QueryRecord struct {
	Task  string `json:"task"`
	Query string `json:"query"`
}

// Example is a cleaned text paired with its numeric class id
type Example struct {
	Text  string `json:"text"`
	Label int    `json:"label"`
}

// Prediction is the classifier output for a single query
type Prediction struct {
	Task       string  `json:"task"`
	Confidence float64 `json:"confidence"`
}

// Box is an axis-aligned bounding box in pixel coordinates. On the wire it is
// a 4-element array [x_min, y_min, x_max, y_max], matching detection model
// output.
type Box struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// MarshalJSON encodes the box as [x_min, y_min, x_max, y_max]
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.XMin, b.YMin, b.XMax, b.YMax})
}

// UnmarshalJSON decodes a 4-element coordinate array
func (b *Box) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	if len(coords) != 4 {
		return fmt.Errorf("box must have 4 coordinates, got %d", len(coords))
	}
	b.XMin, b.YMin, b.XMax, b.YMax = coords[0], coords[1], coords[2], coords[3]
	return nil
}

// Detection holds parallel sequences of detection model output
type Detection struct {
	Scores []float64 `json:"scores"`
	Boxes  []Box     `json:"boxes"`
	Labels []string  `json:"labels"`
}

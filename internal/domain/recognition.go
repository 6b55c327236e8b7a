package domain

// Image is an uploaded picture
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Prediction is one label guessed by a food recognizer, confidence in [0, 1]
type Prediction struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Recognition is a recognizer's answer for one image
type Recognition struct {
	Primary      Prediction   `json:"primary"`
	Alternatives []Prediction `json:"alternatives,omitempty"`
}

// RecognitionResult combines a recognition with catalog nutrition data.
// NutritionInfo is nil when no catalog entry matches the recognized name.
type RecognitionResult struct {
	Name          string            `json:"name"`
	Confidence    float64           `json:"confidence"`
	Alternatives  []Prediction      `json:"alternatives"`
	FoodID        string            `json:"foodId,omitempty"`
	NutritionInfo *NutritionProfile `json:"nutritionInfo"`
}

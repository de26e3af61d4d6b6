package models

import "time"

// Item is one question in the bank. DifficultyScore lives on the 0-100
// display scale; the assessment service maps it to logits before estimation.
type Item struct {
	ID               int64     `json:"id"`
	Topic            string    `json:"topic"`
	Stem             string    `json:"stem"`
	Options          []string  `json:"options"`
	CorrectOption    int       `json:"correct_option,omitempty"`
	DifficultyScore  float64   `json:"difficulty_score"`
	Active           bool      `json:"active"`
	FlaggedForReview bool      `json:"flagged_for_review"`
	TimesServed      int       `json:"times_served"`
	TimesCorrect     int       `json:"times_correct"`
	CreatedAt        time.Time `json:"created_at"`
}

type CreateItemRequest struct {
	Topic           string   `json:"topic"`
	Stem            string   `json:"stem"`
	Options         []string `json:"options"`
	CorrectOption   int      `json:"correct_option"`
	DifficultyScore float64  `json:"difficulty_score"`
}

type ItemListResponse struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

// ItemAnalysisResponse reports the discrimination diagnostic for one item.
type ItemAnalysisResponse struct {
	ItemID             int64   `json:"item_id"`
	Discrimination     float64 `json:"discrimination"`
	Band               string  `json:"band"`
	StatisticallyValid bool    `json:"statistically_valid"`
	SampleSize         int     `json:"sample_size"`
	TopGroupSize       int     `json:"top_group_size"`
	BottomGroupSize    int     `json:"bottom_group_size"`
	FlaggedForReview   bool    `json:"flagged_for_review"`
}

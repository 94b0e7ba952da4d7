// internal/models/extraction.go
package models

// ExtractionResult is the JSON object the vision model is instructed to
// return: one array of partial rows per target table. Every fragment may
// define only a subset of fields plus a confidence score.
type ExtractionResult struct {
	Products    []ProductFragment   `json:"products"`
	Brands      []EntityFragment    `json:"brands"`
	Collections []EntityFragment    `json:"collections"`
	Colors      []EntityFragment    `json:"colors"`
	Sizes       []EntityFragment    `json:"sizes"`
	Attributes  []AttributeFragment `json:"attributes"`
}

type ProductFragment struct {
	Name            string  `json:"name,omitempty"`
	ProductType     string  `json:"product_type,omitempty"`
	Category        string  `json:"category,omitempty"`
	Subcategory     string  `json:"subcategory,omitempty"`
	Gender          string  `json:"gender,omitempty"`
	TargetAgeGroup  string  `json:"target_age_group,omitempty"`
	Description     string  `json:"description,omitempty"`
	Tags            string  `json:"tags,omitempty"`
	ConfidenceScore float64 `json:"confidence_score,omitempty"`
}

type EntityFragment struct {
	Name            string  `json:"name,omitempty"`
	ConfidenceScore float64 `json:"confidence_score,omitempty"`
}

type AttributeFragment struct {
	Name            string  `json:"name,omitempty"`
	Value           string  `json:"value,omitempty"`
	ConfidenceScore float64 `json:"confidence_score,omitempty"`
}

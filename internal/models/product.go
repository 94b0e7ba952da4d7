// internal/models/product.go
package models

import (
	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	Name           string     `json:"name" gorm:"size:255;not null"`
	ProductType    string     `json:"product_type" gorm:"size:100"`
	Category       string     `json:"category" gorm:"size:100;index"`
	Subcategory    string     `json:"subcategory" gorm:"size:100"`
	Gender         string     `json:"gender" gorm:"size:50"`
	TargetAgeGroup string     `json:"target_age_group" gorm:"size:50"`
	Description    string     `json:"description" gorm:"type:text"`
	Tags           string     `json:"tags" gorm:"type:text"`
	VendorID       uuid.UUID  `json:"vendor_id" gorm:"type:uuid;not null;index"`
	BrandID        *uuid.UUID `json:"brand_id" gorm:"type:uuid;index"`
	CollectionID   *uuid.UUID `json:"collection_id" gorm:"type:uuid;index"`
	UserID         uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	ImageURL       string     `json:"image_url" gorm:"size:512"`

	// Relationships
	Vendor     Vendor             `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Brand      *Brand             `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	Collection *Collection        `json:"collection,omitempty" gorm:"foreignKey:CollectionID"`
	Colors     []ProductColor     `json:"colors,omitempty" gorm:"foreignKey:ProductID"`
	Sizes      []ProductSize      `json:"sizes,omitempty" gorm:"foreignKey:ProductID"`
	Attributes []ProductAttribute `json:"attributes,omitempty" gorm:"foreignKey:ProductID"`
}

// Join rows. Each pair is unique per product so a duplicate extracted name
// fails the insert instead of doubling the link; the pipeline logs and skips
// that failure.
type ProductColor struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_colors_pair"`
	ColorID   uuid.UUID `json:"color_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_colors_pair"`

	Color Color `json:"color,omitempty" gorm:"foreignKey:ColorID"`
}

type ProductSize struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_sizes_pair"`
	SizeID    uuid.UUID `json:"size_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_sizes_pair"`

	Size Size `json:"size,omitempty" gorm:"foreignKey:SizeID"`
}

type ProductAttribute struct {
	BaseModel
	ProductID        uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_attributes_pair"`
	AttributeID      uuid.UUID `json:"attribute_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_attributes_pair"`
	AttributeValueID uuid.UUID `json:"attribute_value_id" gorm:"type:uuid;not null"`
	ConfidenceScore  float64   `json:"confidence_score" gorm:"type:decimal(3,2);default:0"`
	OverrideValue    string    `json:"override_value" gorm:"size:255"`

	Attribute      Attribute      `json:"attribute,omitempty" gorm:"foreignKey:AttributeID"`
	AttributeValue AttributeValue `json:"attribute_value,omitempty" gorm:"foreignKey:AttributeValueID"`
}

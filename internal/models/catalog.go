// internal/models/catalog.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Name-keyed entities resolved through find-or-create. Name columns carry a
// plain (non-unique) index: the resolver checks before inserting, it does not
// rely on a constraint.

type Vendor struct {
	BaseModel
	Name          string `json:"name" gorm:"size:255;not null;index"`
	ContactPerson string `json:"contact_person" gorm:"size:255"`
	Email         string `json:"email" gorm:"size:255"`
	PhoneNumber   string `json:"phone_number" gorm:"size:50"`
	Address       string `json:"address" gorm:"type:text"`
}

type Brand struct {
	BaseModel
	Name            string `json:"name" gorm:"size:255;not null;index"`
	Description     string `json:"description" gorm:"type:text"`
	LogoURL         string `json:"logo_url" gorm:"size:512"`
	WebsiteURL      string `json:"website_url" gorm:"size:512"`
	CountryOfOrigin string `json:"country_of_origin" gorm:"size:100"`
}

type Collection struct {
	BaseModel
	Name        string     `json:"name" gorm:"size:255;not null;index"`
	Description string     `json:"description" gorm:"type:text"`
	Season      string     `json:"season" gorm:"size:100"`
	LaunchDate  *time.Time `json:"launch_date"`
	ImageURL    string     `json:"image_url" gorm:"size:512"`
}

type Color struct {
	BaseModel
	Name string `json:"name" gorm:"size:100;not null;index"`
}

type Size struct {
	BaseModel
	Name string `json:"name" gorm:"size:50;not null;index"`
}

type Attribute struct {
	BaseModel
	Name     string `json:"name" gorm:"size:255;not null;index"`
	DataType string `json:"data_type" gorm:"size:50;default:'string'"`
	Category string `json:"category" gorm:"size:100"`
}

// AttributeValue rows are keyed by (attribute_id, value) in the resolver, so
// the same observed value is shared across products.
type AttributeValue struct {
	BaseModel
	AttributeID uuid.UUID `json:"attribute_id" gorm:"type:uuid;not null;index"`
	Value       string    `json:"value" gorm:"size:255;not null"`

	Attribute Attribute `json:"attribute,omitempty" gorm:"foreignKey:AttributeID"`
}

// internal/services/catalog_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stylelens/catalogue-backend/internal/models"
)

// Placeholder vendor used for every ingested product; the extraction step
// has no vendor detection.
const defaultVendorName = "Unknown Vendor"

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type entity interface {
	GetID() uuid.UUID
}

// findOrCreate looks a row up by a single match field and inserts fallback
// when nothing matches. Multiple matches are not an error; the first row
// returned by the store wins. At most one insert per call, and the call is
// not transactional with surrounding pipeline steps.
func findOrCreate[M entity](db *gorm.DB, table, matchField string, matchValue any, fallback M) (uuid.UUID, bool, error) {
	var matches []M
	if err := db.Where(matchField+" = ?", matchValue).Find(&matches).Error; err != nil {
		return uuid.Nil, false, &LookupError{Table: table, Err: err}
	}

	if len(matches) > 0 {
		logrus.WithFields(logrus.Fields{
			"table": table,
			"field": matchField,
			"value": matchValue,
		}).Debug("Found existing record")
		return matches[0].GetID(), false, nil
	}

	if err := db.Create(&fallback).Error; err != nil {
		return uuid.Nil, false, &CreationError{Table: table, Err: err}
	}

	id := fallback.GetID()
	if id == uuid.Nil {
		return uuid.Nil, false, &CreationError{Table: table, Err: errors.New("insert returned no row")}
	}

	logrus.WithFields(logrus.Fields{
		"table": table,
		"field": matchField,
		"value": matchValue,
	}).Debug("Created new record")
	return id, true, nil
}

// AttributeValue rows are keyed by attribute reference plus raw value, so
// the generic single-field resolver does not fit.
func (s *CatalogService) resolveAttributeValue(attributeID uuid.UUID, value string) (uuid.UUID, error) {
	var matches []models.AttributeValue
	if err := s.db.Where("attribute_id = ? AND value = ?", attributeID, value).Find(&matches).Error; err != nil {
		return uuid.Nil, &LookupError{Table: "attribute_values", Err: err}
	}
	if len(matches) > 0 {
		return matches[0].ID, nil
	}

	row := models.AttributeValue{AttributeID: attributeID, Value: value}
	if err := s.db.Create(&row).Error; err != nil {
		return uuid.Nil, &CreationError{Table: "attribute_values", Err: err}
	}
	return row.ID, nil
}

// Ingest turns one extraction result into committed rows. Dependency order
// is fixed: vendor, brand, collection, product, then color/size/attribute
// links. The product insert is the point of no return; per-item link
// failures after it are logged and skipped so siblings still get a chance.
func (s *CatalogService) Ingest(userID uuid.UUID, extraction *models.ExtractionResult, imageURL string) (uuid.UUID, error) {
	vendorID, _, err := findOrCreate[models.Vendor](s.db, "vendors", "name", defaultVendorName, models.Vendor{
		Name: defaultVendorName,
	})
	if err != nil {
		return uuid.Nil, err
	}

	var brandID *uuid.UUID
	if len(extraction.Brands) > 0 {
		brand := extraction.Brands[0]
		id, _, err := findOrCreate[models.Brand](s.db, "brands", "name", brand.Name, models.Brand{
			Name: brand.Name,
		})
		if err != nil {
			return uuid.Nil, err
		}
		brandID = &id
	}

	var collectionID *uuid.UUID
	if len(extraction.Collections) > 0 {
		collection := extraction.Collections[0]
		id, _, err := findOrCreate[models.Collection](s.db, "collections", "name", collection.Name, models.Collection{
			Name: collection.Name,
		})
		if err != nil {
			return uuid.Nil, err
		}
		collectionID = &id
	}

	product := mergeProductFragments(extraction.Products)
	product.VendorID = vendorID
	product.BrandID = brandID
	product.CollectionID = collectionID
	product.UserID = userID
	product.ImageURL = imageURL

	if err := s.db.Create(&product).Error; err != nil {
		return uuid.Nil, &ProductCreationError{Err: err}
	}

	for _, frag := range extraction.Colors {
		if frag.Name == "" {
			continue
		}
		colorID, _, err := findOrCreate[models.Color](s.db, "colors", "name", frag.Name, models.Color{Name: frag.Name})
		if err != nil {
			logrus.WithError(err).WithField("color", frag.Name).Warn("Skipping color link")
			continue
		}
		link := models.ProductColor{ProductID: product.ID, ColorID: colorID}
		if err := s.db.Create(&link).Error; err != nil {
			logrus.WithError(err).WithField("color", frag.Name).Warn("Failed to link color")
		}
	}

	for _, frag := range extraction.Sizes {
		if frag.Name == "" {
			continue
		}
		sizeID, _, err := findOrCreate[models.Size](s.db, "sizes", "name", frag.Name, models.Size{Name: frag.Name})
		if err != nil {
			logrus.WithError(err).WithField("size", frag.Name).Warn("Skipping size link")
			continue
		}
		link := models.ProductSize{ProductID: product.ID, SizeID: sizeID}
		if err := s.db.Create(&link).Error; err != nil {
			logrus.WithError(err).WithField("size", frag.Name).Warn("Failed to link size")
		}
	}

	for _, frag := range extraction.Attributes {
		if frag.Name == "" {
			continue
		}
		attributeID, _, err := findOrCreate[models.Attribute](s.db, "attributes", "name", frag.Name, models.Attribute{
			Name:     frag.Name,
			DataType: "string",
		})
		if err != nil {
			logrus.WithError(err).WithField("attribute", frag.Name).Warn("Skipping attribute link")
			continue
		}

		valueID, err := s.resolveAttributeValue(attributeID, frag.Value)
		if err != nil {
			logrus.WithError(err).WithField("attribute", frag.Name).Warn("Skipping attribute link")
			continue
		}

		link := models.ProductAttribute{
			ProductID:        product.ID,
			AttributeID:      attributeID,
			AttributeValueID: valueID,
			ConfidenceScore:  frag.ConfidenceScore,
		}
		if err := s.db.Create(&link).Error; err != nil {
			logrus.WithError(err).WithField("attribute", frag.Name).Warn("Failed to link attribute")
		}
	}

	return product.ID, nil
}

// mergeProductFragments left-folds partial product rows into one; a later
// fragment's defined field overwrites an earlier one's. An empty slice
// yields the fixed defaults.
func mergeProductFragments(fragments []models.ProductFragment) models.Product {
	if len(fragments) == 0 {
		return models.Product{
			Name:        "Unnamed Product",
			ProductType: "Unknown",
			Category:    "Unknown",
		}
	}

	var product models.Product
	for _, frag := range fragments {
		if frag.Name != "" {
			product.Name = frag.Name
		}
		if frag.ProductType != "" {
			product.ProductType = frag.ProductType
		}
		if frag.Category != "" {
			product.Category = frag.Category
		}
		if frag.Subcategory != "" {
			product.Subcategory = frag.Subcategory
		}
		if frag.Gender != "" {
			product.Gender = frag.Gender
		}
		if frag.TargetAgeGroup != "" {
			product.TargetAgeGroup = frag.TargetAgeGroup
		}
		if frag.Description != "" {
			product.Description = frag.Description
		}
		if frag.Tags != "" {
			product.Tags = frag.Tags
		}
	}
	return product
}

func (s *CatalogService) withRelations() *gorm.DB {
	return s.db.
		Preload("Vendor").
		Preload("Brand").
		Preload("Collection").
		Preload("Colors.Color").
		Preload("Sizes.Size").
		Preload("Attributes.Attribute").
		Preload("Attributes.AttributeValue")
}

func (s *CatalogService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.withRelations().First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, &LookupError{Table: "products", Err: err}
	}
	return &product, nil
}

func (s *CatalogService) ListProducts() ([]models.Product, error) {
	var products []models.Product
	if err := s.withRelations().Find(&products).Error; err != nil {
		return nil, &LookupError{Table: "products", Err: err}
	}
	return products, nil
}

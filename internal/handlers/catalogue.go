// internal/handlers/catalogue.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stylelens/catalogue-backend/internal/models"
	"github.com/stylelens/catalogue-backend/internal/services"
	"github.com/stylelens/catalogue-backend/internal/utils"
)

type CatalogueHandler struct {
	extractionService *services.ExtractionService
	storageService    *services.StorageService
	catalogService    *services.CatalogService
}

func NewCatalogueHandler(extractionService *services.ExtractionService, storageService *services.StorageService, catalogService *services.CatalogService) *CatalogueHandler {
	return &CatalogueHandler{
		extractionService: extractionService,
		storageService:    storageService,
		catalogService:    catalogService,
	}
}

func readImageFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// POST /service/analyze
func (h *CatalogueHandler) Analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "No image file provided", nil)
		return
	}

	imageBytes, err := readImageFile(fileHeader)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read image file", err)
		return
	}

	if err := h.storageService.ValidateImage(imageBytes); err != nil {
		utils.BadRequestResponse(c, "Invalid image file", nil)
		return
	}

	result, err := h.extractionService.Extract(imageBytes, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to analyze image", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// POST /service/store
func (h *CatalogueHandler) Store(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	data := c.PostForm("data")
	if data == "" {
		utils.BadRequestResponse(c, "No extraction data provided", nil)
		return
	}

	var extraction models.ExtractionResult
	if err := json.Unmarshal([]byte(data), &extraction); err != nil {
		utils.BadRequestResponse(c, "Invalid extraction data", err)
		return
	}

	// The image is optional here: without one the product is stored with an
	// empty image URL.
	var imageURL string
	if fileHeader, err := c.FormFile("image"); err == nil {
		imageBytes, err := readImageFile(fileHeader)
		if err != nil {
			utils.BadRequestResponse(c, "Failed to read image file", err)
			return
		}

		upload, err := h.storageService.UploadProductImage(userIDStr, fileHeader.Filename, imageBytes, fileHeader.Header.Get("Content-Type"))
		if err != nil {
			utils.InternalErrorResponse(c, "Failed to store product data", err)
			return
		}
		imageURL = upload.URL
	}

	productID, err := h.catalogService.Ingest(userID, &extraction, imageURL)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to store product data", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Product data stored successfully",
		"productId": productID,
		"imageUrl":  imageURL,
	})
}

// GET /service/product/:id
func (h *CatalogueHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, err := h.catalogService.GetProduct(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product not found")
			return
		}
		utils.InternalErrorResponse(c, "Failed to fetch product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// GET /service/products
func (h *CatalogueHandler) GetProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch products", err)
		return
	}

	c.JSON(http.StatusOK, products)
}

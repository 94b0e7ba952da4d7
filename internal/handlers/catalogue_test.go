// internal/handlers/catalogue_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stylelens/catalogue-backend/internal/config"
	"github.com/stylelens/catalogue-backend/internal/database"
	"github.com/stylelens/catalogue-backend/internal/middleware"
	"github.com/stylelens/catalogue-backend/internal/models"
	"github.com/stylelens/catalogue-backend/internal/services"
)

const testJWTSecret = "test-jwt-secret"

var jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

type CatalogueHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	model  *httptest.Server
	userID uuid.UUID
}

func (s *CatalogueHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	s.model = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := `{"products":[{"name":"Red Shirt","confidence_score":0.9}],"brands":[],"collections":[],"colors":[{"name":"Red"}],"sizes":[],"attributes":[]}`
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "```json\n" + reply + "\n```"}},
				}},
			},
		})
	}))
}

func (s *CatalogueHandlerTestSuite) TearDownSuite() {
	s.model.Close()
}

func (s *CatalogueHandlerTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	sqlDB, err := db.DB()
	require.NoError(s.T(), err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(s.T(), database.RunMigrations(db))
	s.db = db
	s.userID = uuid.New()

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: "3000"},
		Supabase: config.SupabaseConfig{
			JWTSecret:     testJWTSecret,
			StorageBucket: "product-files",
		},
		Gemini: config.GeminiConfig{
			APIKey:   "test-key",
			Model:    "gemini-2.0-flash",
			Endpoint: s.model.URL,
			Timeout:  5,
		},
	}

	catalogueHandler := NewCatalogueHandler(
		services.NewExtractionService(cfg),
		services.NewStorageService(cfg),
		services.NewCatalogService(db),
	)

	s.router = gin.New()
	service := s.router.Group("/service")
	service.Use(middleware.AuthRequired(nil, testJWTSecret))
	{
		service.POST("/analyze", catalogueHandler.Analyze)
		service.POST("/store", catalogueHandler.Store)
		service.GET("/product/:id", catalogueHandler.GetProduct)
		service.GET("/products", catalogueHandler.GetProducts)
	}
}

func (s *CatalogueHandlerTestSuite) bearerToken() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   s.userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(s.T(), err)
	return "Bearer " + signed
}

func (s *CatalogueHandlerTestSuite) multipartBody(data string, withImage bool) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if withImage {
		part, err := writer.CreateFormFile("image", "shirt.jpg")
		require.NoError(s.T(), err)
		_, err = part.Write(jpegMagic)
		require.NoError(s.T(), err)
	}

	if data != "" {
		require.NoError(s.T(), writer.WriteField("data", data))
	}

	require.NoError(s.T(), writer.Close())
	return body, writer.FormDataContentType()
}

func (s *CatalogueHandlerTestSuite) do(method, path string, body *bytes.Buffer, contentType, auth string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *CatalogueHandlerTestSuite) TestAnalyzeRequiresToken() {
	body, contentType := s.multipartBody("", true)
	w := s.do(http.MethodPost, "/service/analyze", body, contentType, "")
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *CatalogueHandlerTestSuite) TestAnalyzeRejectsBadToken() {
	body, contentType := s.multipartBody("", true)
	w := s.do(http.MethodPost, "/service/analyze", body, contentType, "Bearer not-a-token")
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *CatalogueHandlerTestSuite) TestAnalyzeReturnsExtraction() {
	body, contentType := s.multipartBody("", true)
	w := s.do(http.MethodPost, "/service/analyze", body, contentType, s.bearerToken())
	require.Equal(s.T(), http.StatusOK, w.Code)

	var result models.ExtractionResult
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(s.T(), result.Products, 1)
	assert.Equal(s.T(), "Red Shirt", result.Products[0].Name)
}

func (s *CatalogueHandlerTestSuite) TestAnalyzeWithoutImage() {
	body, contentType := s.multipartBody("", false)
	w := s.do(http.MethodPost, "/service/analyze", body, contentType, s.bearerToken())
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *CatalogueHandlerTestSuite) TestStoreCreatesProduct() {
	extraction := `{"products":[{"name":"Red Shirt","confidence_score":0.9}],"colors":[{"name":"Red"}],"brands":[],"collections":[],"sizes":[],"attributes":[]}`
	body, contentType := s.multipartBody(extraction, true)
	w := s.do(http.MethodPost, "/service/store", body, contentType, s.bearerToken())
	require.Equal(s.T(), http.StatusOK, w.Code)

	var response struct {
		Message   string    `json:"message"`
		ProductID uuid.UUID `json:"productId"`
		ImageURL  string    `json:"imageUrl"`
	}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(s.T(), "Product data stored successfully", response.Message)
	assert.NotEqual(s.T(), uuid.Nil, response.ProductID)
	assert.NotEmpty(s.T(), response.ImageURL)

	var product models.Product
	require.NoError(s.T(), s.db.Preload("Colors.Color").First(&product, "id = ?", response.ProductID).Error)
	assert.Equal(s.T(), "Red Shirt", product.Name)
	assert.Equal(s.T(), s.userID, product.UserID)
	require.Len(s.T(), product.Colors, 1)
	assert.Equal(s.T(), "Red", product.Colors[0].Color.Name)
}

func (s *CatalogueHandlerTestSuite) TestStoreWithoutData() {
	body, contentType := s.multipartBody("", true)
	w := s.do(http.MethodPost, "/service/store", body, contentType, s.bearerToken())
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *CatalogueHandlerTestSuite) TestStoreWithoutImage() {
	extraction := `{"products":[{"name":"Catalogue Import"}],"brands":[],"collections":[],"colors":[],"sizes":[],"attributes":[]}`
	body, contentType := s.multipartBody(extraction, false)
	w := s.do(http.MethodPost, "/service/store", body, contentType, s.bearerToken())
	require.Equal(s.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(s.T(), response["imageUrl"])
}

func (s *CatalogueHandlerTestSuite) TestGetProduct() {
	catalogService := services.NewCatalogService(s.db)
	productID, err := catalogService.Ingest(s.userID, &models.ExtractionResult{
		Products: []models.ProductFragment{{Name: "Leather Boot"}},
	}, "")
	require.NoError(s.T(), err)

	w := s.do(http.MethodGet, "/service/product/"+productID.String(), nil, "", s.bearerToken())
	require.Equal(s.T(), http.StatusOK, w.Code)

	var product models.Product
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(s.T(), "Leather Boot", product.Name)
}

func (s *CatalogueHandlerTestSuite) TestGetProductInvalidID() {
	w := s.do(http.MethodGet, "/service/product/not-a-uuid", nil, "", s.bearerToken())
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *CatalogueHandlerTestSuite) TestGetProductNotFound() {
	w := s.do(http.MethodGet, "/service/product/"+uuid.NewString(), nil, "", s.bearerToken())
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *CatalogueHandlerTestSuite) TestGetProducts() {
	catalogService := services.NewCatalogService(s.db)
	_, err := catalogService.Ingest(s.userID, &models.ExtractionResult{}, "")
	require.NoError(s.T(), err)

	w := s.do(http.MethodGet, "/service/products", nil, "", s.bearerToken())
	require.Equal(s.T(), http.StatusOK, w.Code)

	var products []models.Product
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(s.T(), products, 1)
}

func TestCatalogueHandlerSuite(t *testing.T) {
	suite.Run(t, new(CatalogueHandlerTestSuite))
}

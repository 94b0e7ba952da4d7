// internal/services/extraction_service_test.go
package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReply = `{
	"products": [{"name": "Red Shirt", "confidence_score": 0.9}],
	"brands": [],
	"collections": [],
	"colors": [{"name": "Red", "confidence_score": 0.96}],
	"sizes": [],
	"attributes": [{"name": "Material", "value": "Cotton", "confidence_score": 0.8}]
}`

func TestParseExtraction(t *testing.T) {
	result, err := parseExtraction(sampleReply)
	require.NoError(t, err)

	require.Len(t, result.Products, 1)
	assert.Equal(t, "Red Shirt", result.Products[0].Name)
	assert.InDelta(t, 0.9, result.Products[0].ConfidenceScore, 0.001)
	require.Len(t, result.Colors, 1)
	assert.Equal(t, "Red", result.Colors[0].Name)
	require.Len(t, result.Attributes, 1)
	assert.Equal(t, "Cotton", result.Attributes[0].Value)
}

func TestParseExtractionStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + sampleReply + "\n```"
	plain, err := parseExtraction(sampleReply)
	require.NoError(t, err)

	result, err := parseExtraction(fenced)
	require.NoError(t, err)
	assert.Equal(t, plain, result)

	// Untagged fences are stripped too.
	result, err = parseExtraction("```\n" + sampleReply + "\n```")
	require.NoError(t, err)
	assert.Equal(t, plain, result)
}

func TestParseExtractionInvalidJSON(t *testing.T) {
	_, err := parseExtraction("the model had a bad day")
	require.Error(t, err)

	var parseErr *ExtractionParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "the model had a bad day", parseErr.Raw)
}

func newTestExtractionService(endpoint string) *ExtractionService {
	return &ExtractionService{
		client:   &http.Client{Timeout: 5 * time.Second},
		endpoint: endpoint,
		model:    "gemini-2.0-flash",
		apiKey:   "test-key",
	}
}

func TestExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")

		var request geminiRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&request)) &&
			assert.Len(t, request.Contents, 1) &&
			assert.Len(t, request.Contents[0].Parts, 2) {
			assert.NotEmpty(t, request.Contents[0].Parts[0].Text)
			if assert.NotNil(t, request.Contents[0].Parts[1].InlineData) {
				assert.Equal(t, "image/jpeg", request.Contents[0].Parts[1].InlineData.MimeType)
			}
		}

		response := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]string{
							{"text": "```json\n" + sampleReply + "\n```"},
						},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	service := newTestExtractionService(server.URL)
	result, err := service.Extract([]byte{0xFF, 0xD8, 0xFF}, "image/jpeg")
	require.NoError(t, err)

	require.Len(t, result.Products, 1)
	assert.Equal(t, "Red Shirt", result.Products[0].Name)
}

func TestExtractModelError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 400, "message": "API key not valid"},
		})
	}))
	defer server.Close()

	service := newTestExtractionService(server.URL)
	_, err := service.Extract([]byte{0xFF, 0xD8, 0xFF}, "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestExtractMalformedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]string{
							{"text": "Sorry, I cannot identify this product."},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	service := newTestExtractionService(server.URL)
	_, err := service.Extract([]byte{0xFF, 0xD8, 0xFF}, "image/jpeg")

	var parseErr *ExtractionParseError
	require.ErrorAs(t, err, &parseErr)
}

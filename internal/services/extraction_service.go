// internal/services/extraction_service.go
package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stylelens/catalogue-backend/internal/config"
	"github.com/stylelens/catalogue-backend/internal/models"
)

// Instruction sent with every image. The model is asked for one JSON object
// whose keys mirror the catalogue tables, each an array of partial rows with
// confidence scores.
const extractionPrompt = `Analyze the provided image of a fashion product. Identify as much information as possible about the product, aiming to populate the fields of the following database tables. Return your findings as a single JSON object where the keys correspond to the table names, and the values are arrays of objects representing potential rows for those tables.

Target tables and fields:

* products: (try to infer these from the image)
  - "name": a descriptive name for the product.
  - "product_type": e.g. "Top", "Bottom", "Dress", "Shoe", "Bag".
  - "category": e.g. "Clothing", "Footwear", "Accessories".
  - "subcategory": e.g. "T-shirt", "Jeans", "Sandals", "Tote Bag".
  - "gender": e.g. "Female", "Male", "Unisex", "Kids".
  - "target_age_group": e.g. "Adult", "Teen", "Child", "Infant".
  - "description": a brief description of the product's key features.
  - "tags": a comma-separated list of relevant keywords for search.

* brands: (if the brand is clearly visible or recognizable)
  - "name": the name of the brand.

* collections: (if the product seems to belong to a specific, recognizable collection)
  - "name": the name of the collection.

* colors: (identify all visible colors)
  - "name": the common name of the color, e.g. "Red", "Navy Blue", "Multicolor".

* sizes: (if any size information is visible, e.g. on a tag)
  - "name": the size, e.g. "S", "M", "L", "US 6", "EU 38".

* attributes: (identify various attributes of the product)
  - "name": a descriptive term for the feature you observe, e.g. "Neckline", "Sleeve Length", "Material", "Pattern", "Closure Type", "Fit", "Occasion".
  - "value": the specific value you perceive for that attribute in the image, e.g. "V-Neck", "Long Sleeves", "Cotton", "Striped", "Zipper", "Relaxed", "Casual".

For each identified piece of information (for any of the tables), include a "confidence_score" (a number between 0.00 and 1.00) indicating your certainty. If you cannot confidently identify a piece of information for a specific field, omit that field from the output for that particular table or provide a very low confidence score.

Example output:

{
  "products": [
    {"name": "Elegant Sleeveless Evening Gown", "confidence_score": 0.75},
    {"product_type": "Dress", "confidence_score": 0.98},
    {"category": "Clothing", "confidence_score": 0.99},
    {"gender": "Female", "confidence_score": 0.97},
    {"tags": "evening gown, formal, sleeveless, elegant", "confidence_score": 0.80}
  ],
  "brands": [{"name": "Luxury Designs", "confidence_score": 0.55}],
  "collections": [],
  "colors": [
    {"name": "Silver", "confidence_score": 0.96},
    {"name": "Gray", "confidence_score": 0.88}
  ],
  "sizes": [{"name": "US 10", "confidence_score": 0.60}],
  "attributes": [
    {"name": "Neckline", "value": "Sweetheart", "confidence_score": 0.94},
    {"name": "Material", "value": "Polyester", "confidence_score": 0.80},
    {"name": "Occasion", "value": "Formal", "confidence_score": 0.92}
  ]
}

Provide a valid JSON response only.`

type ExtractionService struct {
	client   *http.Client
	endpoint string
	model    string
	apiKey   string
}

// Gemini generateContent structures
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewExtractionService(cfg *config.Config) *ExtractionService {
	return &ExtractionService{
		client:   &http.Client{Timeout: time.Duration(cfg.Gemini.Timeout) * time.Second},
		endpoint: cfg.Gemini.Endpoint,
		model:    cfg.Gemini.Model,
		apiKey:   cfg.Gemini.APIKey,
	}
}

// Extract sends the instruction prompt plus the inlined image to the model
// and parses its reply. One call per request, no retry: transient failures
// propagate to the caller.
func (s *ExtractionService) Extract(imageBytes []byte, mimeType string) (*models.ExtractionResult, error) {
	text, err := s.generateContent(imageBytes, mimeType)
	if err != nil {
		return nil, err
	}

	logrus.WithField("length", len(text)).Debug("Model reply received")
	return parseExtraction(text)
}

func (s *ExtractionService) generateContent(imageBytes []byte, mimeType string) (string, error) {
	request := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: extractionPrompt},
					{InlineData: &geminiInlineData{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(imageBytes),
					}},
				},
			},
		},
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal model request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.endpoint, s.model, s.apiKey)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read model response: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("model API error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model API returned status %d", resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model returned no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

var codeFencePattern = regexp.MustCompile("^```(?:json)?|```$")

// parseExtraction strips an optional leading/trailing code fence from the
// reply and parses it. The JSON is not validated against a schema here; the
// pipeline checks array presence where it matters.
func parseExtraction(text string) (*models.ExtractionResult, error) {
	clean := strings.TrimSpace(codeFencePattern.ReplaceAllString(strings.TrimSpace(text), ""))

	var result models.ExtractionResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return nil, &ExtractionParseError{Raw: text, Err: err}
	}
	return &result, nil
}

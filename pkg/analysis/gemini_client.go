package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"NutriSnap-Backend/domain"
	"NutriSnap-Backend/internal/utils"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// analysisPrompt asks for one JSON document per image. Items the model cannot
// identify are omitted; no visible food at all yields an empty foods array.
const analysisPrompt = `Analyze this food image and extract detailed nutrition information.

Return a JSON object with the following structure:
{
  "foods": [
    {
      "name": "food item name",
      "quantity": "serving size description (e.g., '1 cup', '100g', '1 piece')",
      "calories": number,
      "protein": number (in grams),
      "carbs": number (in grams),
      "fats": number (in grams)
    }
  ]
}

Instructions:
- Identify all visible food items in the image
- Estimate realistic quantities based on what you see
- Provide accurate nutrition values per item
- If multiple servings are visible, describe the quantity accordingly
- Round numbers to reasonable precision
- If you cannot identify a food item clearly, omit it
- Return an empty foods array if no food is detected

Be precise and realistic with your estimates.`

var dataURLPattern = regexp.MustCompile(`^data:([^;]+);base64,`)

type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient() *GeminiClient {
	model := utils.GetConfig("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{
		apiKey:     utils.GetConfig("GEMINI_API_KEY"),
		model:      model,
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// AnalyzeFoodImage sends the encoded image plus the fixed instruction prompt
// to Gemini and returns the raw completion text. The input is a data URL as
// produced by EncodeImage; a bare base64 string is treated as image/jpeg.
func (g *GeminiClient) AnalyzeFoodImage(ctx context.Context, imageDataURL string) (string, error) {
	if g.apiKey == "" {
		return "", domain.ErrMissingGeminiKey
	}

	mimeType := "image/jpeg"
	if m := dataURLPattern.FindStringSubmatch(imageDataURL); m != nil {
		mimeType = m[1]
	}

	base64Data := imageDataURL
	if idx := strings.Index(imageDataURL, ","); idx >= 0 {
		base64Data = imageDataURL[idx+1:]
	}
	if base64Data == "" {
		return "", fmt.Errorf("invalid base64 image data")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	// Low temperature biases toward deterministic, realistic estimates.
	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{
						"text": analysisPrompt,
					},
					{
						"inline_data": map[string]interface{}{
							"mime_type": mimeType,
							"data":      base64Data,
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.4,
			"topP":        0.95,
			"topK":        40,
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", classifyUpstreamError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", classifyUpstreamError(fmt.Sprintf("%s - %s", resp.Status, string(bodyBytes)))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedAIResponse, err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", domain.ErrEmptyGeminiResponse
	}

	text := geminiResp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", domain.ErrEmptyGeminiResponse
	}

	return text, nil
}

// classifyUpstreamError maps Gemini's unstructured error text to a typed
// failure. The upstream exposes no error codes, so known substrings are the
// only signal; first match wins.
func classifyUpstreamError(message string) error {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit"):
		return domain.ErrUpstreamRateLimited
	case strings.Contains(lower, "safety"):
		return domain.ErrUpstreamSafetyBlocked
	case strings.Contains(message, "API_KEY"):
		return domain.ErrUpstreamAuthError
	default:
		return fmt.Errorf("%w: %s", domain.ErrUpstreamFailure, message)
	}
}

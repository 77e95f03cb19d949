package analysis

import (
	"context"
	"mime/multipart"

	"NutriSnap-Backend/domain"
)

type (
	// AnalysisService runs the full food photo pipeline: validate and encode
	// the upload, ask Gemini for a breakdown, normalize the completion, then
	// optionally cross-reference USDA. Inference failures abort the request;
	// enrichment failures never do.
	AnalysisService interface {
		AnalyzeImage(ctx context.Context, image *multipart.FileHeader) (domain.AnalysisResult, error)
		AnalyzeEncodedImage(ctx context.Context, imageDataURL string) (domain.AnalysisResult, error)
	}

	analysisService struct {
		gemini *GeminiClient
		usda   *USDAClient
	}
)

func NewAnalysisService(gemini *GeminiClient, usda *USDAClient) AnalysisService {
	return &analysisService{
		gemini: gemini,
		usda:   usda,
	}
}

func (s *analysisService) AnalyzeImage(ctx context.Context, image *multipart.FileHeader) (domain.AnalysisResult, error) {
	dataURL, err := EncodeImageFile(image)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	return s.AnalyzeEncodedImage(ctx, dataURL)
}

func (s *analysisService) AnalyzeEncodedImage(ctx context.Context, imageDataURL string) (domain.AnalysisResult, error) {
	raw, err := s.gemini.AnalyzeFoodImage(ctx, imageDataURL)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	foods, err := NormalizeAnalysis(raw)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	foods = s.usda.EnrichFoods(ctx, foods)

	return domain.AnalysisResult{Foods: foods}, nil
}

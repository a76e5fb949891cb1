package usecase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"unicode/utf16"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/entity"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/service"
)

// Analyze-text endpoint contract
const (
	AnalyzeTextPath       = "language/:analyze-text"
	APIVersion            = "2022-05-01"
	SubscriptionKeyHeader = "Ocp-Apim-Subscription-Key"
)

// MinTextLength is the shortest text sent to the language service, in UTF-16 code units.
// Shorter input returns a placeholder result without a remote call.
// A character outside the Basic Multilingual Plane, such as most emoji, counts as two units.
const MinTextLength = 3

// AnalysisUsecase defines the text analysis operations
type AnalysisUsecase interface {
	AnalyzeSentiment(ctx context.Context, inv service.Invocation, text string) (*entity.SentimentResult, error)
	DetectLanguage(ctx context.Context, inv service.Invocation, text string) (*entity.LanguageResult, error)
}

type analysisUsecase struct {
	fetcher service.Fetcher
}

// NewAnalysisUsecase creates a new analysis usecase
func NewAnalysisUsecase(fetcher service.Fetcher) AnalysisUsecase {
	return &analysisUsecase{fetcher: fetcher}
}

func (u *analysisUsecase) AnalyzeSentiment(ctx context.Context, inv service.Invocation, text string) (*entity.SentimentResult, error) {
	if tooShort(text) {
		return entity.NewUnknownSentiment(), nil
	}

	var resp entity.SentimentResponse
	if err := u.fetcher.Fetch(ctx, newAnalyzeTextRequest(inv, entity.NewSentimentRequest(text)), &resp); err != nil {
		return nil, fmt.Errorf("analyze sentiment: %w", err)
	}

	doc, err := resp.FirstDocument(service.ErrEmptyResultSet)
	if err != nil {
		return nil, fmt.Errorf("analyze sentiment: %w", err)
	}

	return doc.ToSentimentResult(), nil
}

func (u *analysisUsecase) DetectLanguage(ctx context.Context, inv service.Invocation, text string) (*entity.LanguageResult, error) {
	if tooShort(text) {
		return entity.NewUnknownLanguage(), nil
	}

	var resp entity.LanguageDetectionResponse
	if err := u.fetcher.Fetch(ctx, newAnalyzeTextRequest(inv, entity.NewLanguageDetectionRequest(text)), &resp); err != nil {
		return nil, fmt.Errorf("detect language: %w", err)
	}

	doc, err := resp.FirstDocument(service.ErrEmptyResultSet)
	if err != nil {
		return nil, fmt.Errorf("detect language: %w", err)
	}

	return doc.ToLanguageResult(), nil
}

func tooShort(text string) bool {
	return textLength(text) < MinTextLength
}

// textLength counts UTF-16 code units, the unit browser hosts measure text in
func textLength(text string) int {
	n := 0
	for _, r := range text {
		n += utf16.RuneLen(r)
	}
	return n
}

func newAnalyzeTextRequest(inv service.Invocation, body *entity.AnalysisRequest) *service.FetchRequest {
	return &service.FetchRequest{
		InvocationToken: inv.Token(),
		Method:          http.MethodPost,
		Path:            AnalyzeTextPath,
		Query:           url.Values{"api-version": []string{APIVersion}},
		Headers: map[string]string{
			SubscriptionKeyHeader: inv.Placeholder(entity.SecretKey),
			"Content-Type":        "application/json",
		},
		Body: body,
	}
}

package entity

import (
	"fmt"
	"strings"
)

// AnalysisKind identifies the task requested from the language service
type AnalysisKind string

const (
	AnalysisKindSentiment         AnalysisKind = "SentimentAnalysis"
	AnalysisKindLanguageDetection AnalysisKind = "LanguageDetection"
)

// Request envelope constants
const (
	DefaultModelVersion = "latest"
	DefaultLanguage     = "en"
	SingleDocumentID    = "1"
)

// AnalysisRequest is the envelope sent to the analyze-text endpoint
type AnalysisRequest struct {
	Kind          AnalysisKind       `json:"kind"`
	Parameters    AnalysisParameters `json:"parameters"`
	AnalysisInput AnalysisInput      `json:"analysisInput"`
}

// AnalysisParameters holds task parameters
type AnalysisParameters struct {
	ModelVersion string `json:"modelVersion"`
}

// AnalysisInput wraps the submitted documents
type AnalysisInput struct {
	Documents []Document `json:"documents"`
}

// Document is one unit of text submitted for analysis.
// Language is omitted for language detection, where the service infers it.
type Document struct {
	ID       string `json:"id"`
	Language string `json:"language,omitempty"`
	Text     string `json:"text"`
}

// NewSentimentRequest creates a single-document sentiment request
func NewSentimentRequest(text string) *AnalysisRequest {
	return newAnalysisRequest(AnalysisKindSentiment, Document{
		ID:       SingleDocumentID,
		Language: DefaultLanguage,
		Text:     text,
	})
}

// NewLanguageDetectionRequest creates a single-document language detection request
func NewLanguageDetectionRequest(text string) *AnalysisRequest {
	return newAnalysisRequest(AnalysisKindLanguageDetection, Document{
		ID:   SingleDocumentID,
		Text: text,
	})
}

func newAnalysisRequest(kind AnalysisKind, doc Document) *AnalysisRequest {
	return &AnalysisRequest{
		Kind:       kind,
		Parameters: AnalysisParameters{ModelVersion: DefaultModelVersion},
		AnalysisInput: AnalysisInput{
			Documents: []Document{doc},
		},
	}
}

// AnalysisResponse is the envelope returned by the analyze-text endpoint
type AnalysisResponse[D any] struct {
	Kind    string             `json:"kind"`
	Results AnalysisResults[D] `json:"results"`
}

// AnalysisResults holds per-document results and per-document errors
type AnalysisResults[D any] struct {
	Documents    []D             `json:"documents"`
	Errors       []DocumentError `json:"errors"`
	ModelVersion string          `json:"modelVersion"`
}

// DocumentError is an error reported by the service for a single document
type DocumentError struct {
	ID    string      `json:"id"`
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a service-side error
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Target  string `json:"target,omitempty"`
}

// Warning is a non-fatal notice attached to a document result
type Warning struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	TargetRef string `json:"targetRef,omitempty"`
}

// FirstDocument returns the first document result.
// The returned error wraps errEmpty and lists any errors the service reported.
func (r *AnalysisResponse[D]) FirstDocument(errEmpty error) (*D, error) {
	if len(r.Results.Documents) == 0 {
		if len(r.Results.Errors) == 0 {
			return nil, errEmpty
		}
		details := make([]string, len(r.Results.Errors))
		for i, e := range r.Results.Errors {
			details[i] = fmt.Sprintf("document %s: %s: %s", e.ID, e.Error.Code, e.Error.Message)
		}
		return nil, fmt.Errorf("%w: %s", errEmpty, strings.Join(details, "; "))
	}
	return &r.Results.Documents[0], nil
}

// ConfidenceScores holds per-class sentiment confidences
type ConfidenceScores struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// SentenceSentiment is the per-sentence breakdown of a sentiment result
type SentenceSentiment struct {
	Sentiment        string           `json:"sentiment"`
	ConfidenceScores ConfidenceScores `json:"confidenceScores"`
	Offset           int              `json:"offset"`
	Length           int              `json:"length"`
	Text             string           `json:"text"`
}

// SentimentDocumentResult is a sentiment result for one document
type SentimentDocumentResult struct {
	ID               string              `json:"id"`
	Sentiment        string              `json:"sentiment"`
	ConfidenceScores ConfidenceScores    `json:"confidenceScores"`
	Sentences        []SentenceSentiment `json:"sentences"`
	Warnings         []Warning           `json:"warnings"`
}

// DetectedLanguage is the language the service inferred for a document
type DetectedLanguage struct {
	Name            string  `json:"name"`
	ISO6391Name     string  `json:"iso6391Name"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

// LanguageDocumentResult is a language detection result for one document
type LanguageDocumentResult struct {
	ID               string           `json:"id"`
	DetectedLanguage DetectedLanguage `json:"detectedLanguage"`
	Warnings         []Warning        `json:"warnings"`
}

// SentimentResponse is the analyze-text response for sentiment analysis
type SentimentResponse = AnalysisResponse[SentimentDocumentResult]

// LanguageDetectionResponse is the analyze-text response for language detection
type LanguageDetectionResponse = AnalysisResponse[LanguageDocumentResult]

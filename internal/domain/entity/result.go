package entity

// Placeholder values returned when input is too short to analyze
const (
	UnknownSentiment = "unknown"
	UnknownLanguage  = "Unknown"
)

// SentimentResult is the flattened sentiment of a text.
// The display tags drive the published result schema.
type SentimentResult struct {
	Sentiment     string  `json:"sentiment" display:"required"`
	PositiveScore float64 `json:"positiveScore" display:"percent"`
	NeutralScore  float64 `json:"neutralScore" display:"percent"`
	NegativeScore float64 `json:"negativeScore" display:"percent"`
}

// LanguageResult is the flattened detected language of a text
type LanguageResult struct {
	Name            string  `json:"name" display:"required"`
	ISOName         string  `json:"isoName"`
	ConfidenceScore float64 `json:"confidenceScore" display:"percent"`
}

// NewUnknownSentiment returns the result used when no analysis was performed
func NewUnknownSentiment() *SentimentResult {
	return &SentimentResult{Sentiment: UnknownSentiment}
}

// NewUnknownLanguage returns the result used when no detection was performed
func NewUnknownLanguage() *LanguageResult {
	return &LanguageResult{
		Name:    UnknownLanguage,
		ISOName: UnknownLanguage,
	}
}

// ToSentimentResult projects the document onto a SentimentResult.
// Scores are copied as returned by the service.
func (d *SentimentDocumentResult) ToSentimentResult() *SentimentResult {
	return &SentimentResult{
		Sentiment:     d.Sentiment,
		PositiveScore: d.ConfidenceScores.Positive,
		NeutralScore:  d.ConfidenceScores.Neutral,
		NegativeScore: d.ConfidenceScores.Negative,
	}
}

// ToLanguageResult projects the document onto a LanguageResult
func (d *LanguageDocumentResult) ToLanguageResult() *LanguageResult {
	return &LanguageResult{
		Name:            d.DetectedLanguage.Name,
		ISOName:         d.DetectedLanguage.ISO6391Name,
		ConfidenceScore: d.DetectedLanguage.ConfidenceScore,
	}
}

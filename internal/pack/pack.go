package pack

import (
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/entity"
)

// Formula names
const (
	FormulaAnalyzeSentiment = "AnalyzeSentiment"
	FormulaDetectLanguage   = "DetectLanguage"
)

// Column format names
const (
	ColumnFormatSentiment = "Sentiment"
	ColumnFormatLanguage  = "Language"
)

// DefaultNetworkDomain is the only domain family the pack may call
const DefaultNetworkDomain = "azure.com"

// AuthenticationType identifies how users authenticate
type AuthenticationType string

const AuthenticationTypeCustom AuthenticationType = "custom"

// Parameter describes a formula parameter
type Parameter struct {
	Name        string    `json:"name"`
	Type        ValueType `json:"type"`
	Description string    `json:"description"`
	Required    bool      `json:"required"`
}

// Formula describes a callable operation
type Formula struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	ResultType  ValueType   `json:"result_type"`
	Schema      Schema      `json:"schema"`
}

// ColumnFormat applies a formula to every cell of a column
type ColumnFormat struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	FormulaName  string `json:"formula_name"`
}

// AuthParam describes a secret the user supplies
type AuthParam struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Authentication describes how users authenticate
type Authentication struct {
	Type                AuthenticationType `json:"type"`
	RequiresEndpointURL bool               `json:"requires_endpoint_url"`
	Params              []AuthParam        `json:"params"`
}

// Pack is the metadata registered with the host platform
type Pack struct {
	NetworkDomains []string       `json:"network_domains"`
	Authentication Authentication `json:"authentication"`
	Formulas       []Formula      `json:"formulas"`
	ColumnFormats  []ColumnFormat `json:"column_formats"`
}

// New creates the pack definition
func New(networkDomains []string) *Pack {
	if len(networkDomains) == 0 {
		networkDomains = []string{DefaultNetworkDomain}
	}

	textParam := Parameter{
		Name:        "text",
		Type:        ValueTypeString,
		Description: "The text to be analyzed",
		Required:    true,
	}

	return &Pack{
		NetworkDomains: networkDomains,
		Authentication: Authentication{
			Type:                AuthenticationTypeCustom,
			RequiresEndpointURL: true,
			Params: []AuthParam{
				{
					Name:        entity.SecretKey,
					Description: "API Key for the Azure language resource. You can find your key and endpoint by navigating to your resource's Keys and Endpoint page, under Resource Management.",
				},
			},
		},
		Formulas: []Formula{
			{
				Name:        FormulaAnalyzeSentiment,
				Description: "Get the sentiment of a given text (Positive, Negative, Neutral).",
				Parameters:  []Parameter{textParam},
				ResultType:  ValueTypeObject,
				Schema:      SchemaOf[entity.SentimentResult](),
			},
			{
				Name:        FormulaDetectLanguage,
				Description: "Detect the language of a given text.",
				Parameters:  []Parameter{textParam},
				ResultType:  ValueTypeObject,
				Schema:      SchemaOf[entity.LanguageResult](),
			},
		},
		ColumnFormats: []ColumnFormat{
			{
				Name:         ColumnFormatSentiment,
				Instructions: "Show sentiment result of a given document",
				FormulaName:  FormulaAnalyzeSentiment,
			},
			{
				Name:         ColumnFormatLanguage,
				Instructions: "Show the detected language of a given document",
				FormulaName:  FormulaDetectLanguage,
			},
		},
	}
}

// Formula returns the formula with the given name
func (p *Pack) Formula(name string) (*Formula, bool) {
	for i := range p.Formulas {
		if p.Formulas[i].Name == name {
			return &p.Formulas[i], true
		}
	}
	return nil, false
}

// ColumnFormat returns the column format with the given name
func (p *Pack) ColumnFormat(name string) (*ColumnFormat, bool) {
	for i := range p.ColumnFormats {
		if p.ColumnFormats[i].Name == name {
			return &p.ColumnFormats[i], true
		}
	}
	return nil, false
}

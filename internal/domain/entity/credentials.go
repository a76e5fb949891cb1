package entity

// Credentials is what a user supplies to authenticate against the language service
type Credentials struct {
	EndpointURL string            `json:"endpoint_url"`
	Secrets     map[string]string `json:"secrets"`
}

// NewCredentials creates Credentials holding a single API key
func NewCredentials(endpointURL, apiKey string) *Credentials {
	return &Credentials{
		EndpointURL: endpointURL,
		Secrets:     map[string]string{SecretKey: apiKey},
	}
}

// SecretKey is the name of the API key secret
const SecretKey = "key"

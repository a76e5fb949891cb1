package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/entity"
)

// Credential headers a caller uses to supply its own Azure resource
const (
	EndpointURLHeader = "X-Endpoint-Url"
	APIKeyHeader      = "X-Api-Key"
)

// PaginationParams holds pagination parameters
type PaginationParams struct {
	Limit  int
	Offset int
}

// Default pagination values
const (
	DefaultLimit  = 20
	MaxLimit      = 100
	DefaultOffset = 0
)

// ParsePagination extracts and validates pagination parameters from the request.
// It returns validated PaginationParams with safe default values.
func ParsePagination(c *gin.Context) *PaginationParams {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", strconv.Itoa(DefaultOffset)))
	if err != nil || offset < 0 {
		offset = DefaultOffset
	}

	return &PaginationParams{
		Limit:  limit,
		Offset: offset,
	}
}

// ExtractCredentials returns the caller's credentials from the request headers.
// If neither header is set the defaults are used. Headers and defaults are never
// mixed, so a configured key is not sent to a caller-chosen endpoint.
func ExtractCredentials(c *gin.Context, defaults *entity.Credentials) *entity.Credentials {
	endpoint := strings.TrimSpace(c.GetHeader(EndpointURLHeader))
	apiKey := strings.TrimSpace(c.GetHeader(APIKeyHeader))

	if endpoint == "" && apiKey == "" {
		return defaults
	}
	return entity.NewCredentials(endpoint, apiKey)
}

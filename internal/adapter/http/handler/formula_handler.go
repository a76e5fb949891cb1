package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/entity"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/usecase"
)

// FormulaHandler handles formula and column format requests
type FormulaHandler struct {
	formulaUC usecase.FormulaUsecase
	defaults  *entity.Credentials
}

// NewFormulaHandler creates a new formula handler.
// defaults may be nil, in which case every request must carry credential headers.
func NewFormulaHandler(formulaUC usecase.FormulaUsecase, defaults *entity.Credentials) *FormulaHandler {
	return &FormulaHandler{
		formulaUC: formulaUC,
		defaults:  defaults,
	}
}

// executeRequest is the body of a formula call; text must be present but may be empty
type executeRequest struct {
	Text *string `json:"text" binding:"required"`
}

// Execute handles POST /api/v1/formulas/:name
func (h *FormulaHandler) Execute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}
	input := usecase.ExecuteInput{
		Text:      *req.Text,
		RequestID: requestID(c),
	}

	output, err := h.formulaUC.Execute(c.Request.Context(), c.Param("name"), ExtractCredentials(c, h.defaults), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// ApplyColumnFormat handles POST /api/v1/column-formats/:name
func (h *FormulaHandler) ApplyColumnFormat(c *gin.Context) {
	var input usecase.ColumnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}
	input.RequestID = requestID(c)

	output, err := h.formulaUC.ApplyColumnFormat(c.Request.Context(), c.Param("name"), ExtractCredentials(c, h.defaults), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// ListInvocations handles GET /api/v1/invocations
func (h *FormulaHandler) ListInvocations(c *gin.Context) {
	pagination := ParsePagination(c)

	output, err := h.formulaUC.ListInvocations(c.Request.Context(), c.Query("formula"), pagination.Limit, pagination.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmabill/internal/service"
)

// PricingHandler handles stateless pricing endpoints.
type PricingHandler struct {
	pricingService service.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(pricingService service.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// Quote handles POST /api/v1/pricing/quote
// @Summary Price a set of lines
// @Description Compute every line amount and the bill totals without saving anything.
// @Description An empty pricing_mode uses the server default.
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body service.QuoteInput true "Lines to price"
// @Success 200 {object} APIResponse{data=service.QuoteResult}
// @Failure 400 {object} APIResponse "Invalid body or pricing mode"
// @Router /pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var input service.QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.pricingService.Quote(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

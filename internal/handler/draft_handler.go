package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmabill/internal/draft"
	"pharmabill/internal/service"
)

// DraftHandler handles purchase draft endpoints.
type DraftHandler struct {
	draftService service.DraftService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(draftService service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// Create handles POST /api/v1/drafts
// @Summary Start a purchase draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param request body service.CreateDraftInput true "Header and optional initial lines"
// @Success 201 {object} APIResponse{data=service.DraftView}
// @Failure 400 {object} APIResponse "Invalid body or pricing mode"
// @Router /drafts [post]
func (h *DraftHandler) Create(c *gin.Context) {
	var input service.CreateDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.draftService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, view)
}

// List handles GET /api/v1/drafts
// @Summary List purchase drafts
// @Tags drafts
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]service.DraftView,meta=PagMeta}
// @Router /drafts [get]
func (h *DraftHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	views, total, err := h.draftService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, views, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/drafts/:id
// @Summary Get a purchase draft with totals
// @Tags drafts
// @Produce json
// @Param id path string true "Draft ID (UUID)"
// @Success 200 {object} APIResponse{data=service.DraftView}
// @Failure 404 {object} APIResponse "Draft not found"
// @Router /drafts/{id} [get]
func (h *DraftHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id", "draft")
	if !ok {
		return
	}

	view, err := h.draftService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// UpdateHeader handles PUT /api/v1/drafts/:id
// @Summary Edit draft header fields
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID (UUID)"
// @Param request body service.UpdateDraftHeaderInput true "Fields to update"
// @Success 200 {object} APIResponse{data=service.DraftView}
// @Failure 404 {object} APIResponse "Draft not found"
// @Failure 409 {object} APIResponse "Concurrent modification"
// @Router /drafts/{id} [put]
func (h *DraftHandler) UpdateHeader(c *gin.Context) {
	id, ok := parseID(c, "id", "draft")
	if !ok {
		return
	}

	var input service.UpdateDraftHeaderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.draftService.UpdateHeader(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// SetMode handles PUT /api/v1/drafts/:id/mode
// @Summary Change the display pricing mode
// @Description Reprices every line. Bill totals do not depend on the mode.
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID (UUID)"
// @Param request body SetModeRequest true "New mode"
// @Success 200 {object} APIResponse{data=service.DraftView}
// @Failure 400 {object} APIResponse "Invalid pricing mode"
// @Router /drafts/{id}/mode [put]
func (h *DraftHandler) SetMode(c *gin.Context) {
	id, ok := parseID(c, "id", "draft")
	if !ok {
		return
	}

	var req SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.draftService.SetMode(c.Request.Context(), id, req.PricingMode)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// Delete handles DELETE /api/v1/drafts/:id
// @Summary Discard a purchase draft
// @Tags drafts
// @Produce json
// @Param id path string true "Draft ID (UUID)"
// @Success 200 {object} APIResponse{data=MessageResponse}
// @Failure 404 {object} APIResponse "Draft not found"
// @Router /drafts/{id} [delete]
func (h *DraftHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "draft")
	if !ok {
		return
	}

	if err := h.draftService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: "draft deleted"})
}

// AddLine handles POST /api/v1/drafts/:id/lines
// @Summary Append a line
// @Description Numeric fields accept numbers or strings; blank or malformed values count as zero.
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID (UUID)"
// @Param request body draft.LineInput true "Line fields"
// @Success 201 {object} APIResponse{data=service.DraftView}
// @Router /drafts/{id}/lines [post]
func (h *DraftHandler) AddLine(c *gin.Context) {
	id, ok := parseID(c, "id", "draft")
	if !ok {
		return
	}

	var input draft.LineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.draftService.AddLine(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, view)
}

// UpdateLine handles PUT /api/v1/drafts/:id/lines/:lineId
// @Summary Edit a line
// @Description Omitted fields keep their value; a blank value clears the field to zero.
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID (UUID)"
// @Param lineId path string true "Line ID (UUID)"
// @Param request body draft.LineInput true "Fields to change"
// @Success 200 {object} APIResponse{data=service.DraftView}
// @Failure 404 {object} APIResponse "Draft or line not found"
// @Router /drafts/{id}/lines/{lineId} [put]
func (h *DraftHandler) UpdateLine(c *gin.Context) {
	id, ok := parseID(c, "id", "draft")
	if !ok {
		return
	}
	lineID, ok := parseID(c, "lineId", "line")
	if !ok {
		return
	}

	var input draft.LineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.draftService.UpdateLine(c.Request.Context(), id, lineID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// RemoveLine handles DELETE /api/v1/drafts/:id/lines/:lineId
// @Summary Remove a line
// @Tags drafts
// @Produce json
// @Param id path string true "Draft ID (UUID)"
// @Param lineId path string true "Line ID (UUID)"
// @Success 200 {object} APIResponse{data=service.DraftView}
// @Failure 404 {object} APIResponse "Draft or line not found"
// @Router /drafts/{id}/lines/{lineId} [delete]
func (h *DraftHandler) RemoveLine(c *gin.Context) {
	id, ok := parseID(c, "id", "draft")
	if !ok {
		return
	}
	lineID, ok := parseID(c, "lineId", "line")
	if !ok {
		return
	}

	view, err := h.draftService.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// Finalize handles POST /api/v1/drafts/:id/finalize
// @Summary Validate and submit a draft
// @Description Returns the invoice-creation payload and discards the draft.
// @Tags drafts
// @Produce json
// @Param id path string true "Draft ID (UUID)"
// @Success 200 {object} APIResponse{data=draft.InvoicePayload}
// @Failure 422 {object} APIResponse "Draft is missing required fields"
// @Router /drafts/{id}/finalize [post]
func (h *DraftHandler) Finalize(c *gin.Context) {
	id, ok := parseID(c, "id", "draft")
	if !ok {
		return
	}

	payload, err := h.draftService.Finalize(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, payload)
}

// Export handles GET /api/v1/drafts/:id/export
// @Summary Download a draft as CSV or XLSX
// @Tags drafts
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Draft ID (UUID)"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} APIResponse "Unsupported format"
// @Router /drafts/{id}/export [get]
func (h *DraftHandler) Export(c *gin.Context) {
	id, ok := parseID(c, "id", "draft")
	if !ok {
		return
	}

	file, err := h.draftService.Export(c.Request.Context(), id, c.DefaultQuery("format", "csv"))
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Publish handles POST /api/v1/drafts/:id/publish
// @Summary Upload the XLSX export and return a download link
// @Tags drafts
// @Produce json
// @Param id path string true "Draft ID (UUID)"
// @Success 200 {object} APIResponse{data=service.PublishedExport}
// @Failure 502 {object} APIResponse "Upload failed"
// @Router /drafts/{id}/publish [post]
func (h *DraftHandler) Publish(c *gin.Context) {
	id, ok := parseID(c, "id", "draft")
	if !ok {
		return
	}

	out, err := h.draftService.Publish(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, out)
}

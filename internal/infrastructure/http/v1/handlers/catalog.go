package handlers

import (
	"github.com/gin-gonic/gin"

	"davrcash/internal/core/apperror"
	"davrcash/internal/core/id"
	"davrcash/internal/domain/catalogs/organization"
	"davrcash/internal/domain/catalogs/status"
	"davrcash/internal/domain/catalogs/terminal"
	"davrcash/internal/infrastructure/http/v1/dto"
)

// CatalogHandler handles reference-catalog CRUD: organizations, terminals
// and report statuses.
type CatalogHandler struct {
	*BaseHandler
	orgs      *organization.Service
	terminals *terminal.Service
	statuses  *status.Service
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(
	orgs *organization.Service,
	terminals *terminal.Service,
	statuses *status.Service,
) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(),
		orgs:        orgs,
		terminals:   terminals,
		statuses:    statuses,
	}
}

// --- Organizations ---

// CreateOrganization handles POST /catalogs/organizations.
func (h *CatalogHandler) CreateOrganization(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	org := organization.New(req.Name)
	org.PaymeBusinessID = req.PaymeBusinessID
	org.ArrytToken = req.ArrytToken
	if req.WorkStartTime != "" {
		org.WorkStartTime = req.WorkStartTime
	}
	if req.WorkEndTime != "" {
		org.WorkEndTime = req.WorkEndTime
	}

	if err := h.orgs.Create(c.Request.Context(), org); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, org.ID.String())
}

// UpdateOrganization handles PUT /catalogs/organizations/:id.
func (h *CatalogHandler) UpdateOrganization(c *gin.Context) {
	orgID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	org, err := h.orgs.Get(c.Request.Context(), orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if org == nil {
		h.Error(c, apperror.NewNotFound("organization", orgID.String()))
		return
	}

	org.Name = req.Name
	org.PaymeBusinessID = req.PaymeBusinessID
	if req.ArrytToken != nil {
		org.ArrytToken = req.ArrytToken
	}
	org.WorkStartTime = req.WorkStartTime
	org.WorkEndTime = req.WorkEndTime
	org.Active = req.Active
	org.Version = req.Version

	if err := h.orgs.Update(c.Request.Context(), org); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, org)
}

// GetOrganization handles GET /catalogs/organizations/:id.
func (h *CatalogHandler) GetOrganization(c *gin.Context) {
	orgID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	org, err := h.orgs.Get(c.Request.Context(), orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if org == nil {
		h.Error(c, apperror.NewNotFound("organization", orgID.String()))
		return
	}
	h.OK(c, org)
}

// ListOrganizations handles GET /catalogs/organizations.
func (h *CatalogHandler) ListOrganizations(c *gin.Context) {
	activeOnly := c.Query("activeOnly") == "true"
	orgs, err := h.orgs.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, orgs)
}

// DeleteOrganization handles DELETE /catalogs/organizations/:id.
func (h *CatalogHandler) DeleteOrganization(c *gin.Context) {
	orgID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.orgs.Delete(c.Request.Context(), orgID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// --- Terminals ---

// CreateTerminal handles POST /catalogs/terminals.
func (h *CatalogHandler) CreateTerminal(c *gin.Context) {
	var req dto.CreateTerminalRequest
	if !h.BindJSON(c, &req) {
		return
	}
	orgID, err := id.Parse(req.OrganizationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid organization id"))
		return
	}

	term := terminal.New(orgID, req.Name)
	term.IikoID = req.IikoID
	term.ClickServiceIDs = req.ClickServiceIDs
	term.PaymeMerchantIDs = req.PaymeMerchantIDs
	term.YandexRestaurantID = req.YandexRestaurantID

	if err := h.terminals.Create(c.Request.Context(), term); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, term.ID.String())
}

// UpdateTerminal handles PUT /catalogs/terminals/:id.
func (h *CatalogHandler) UpdateTerminal(c *gin.Context) {
	termID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTerminalRequest
	if !h.BindJSON(c, &req) {
		return
	}

	term, err := h.terminals.Get(c.Request.Context(), termID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if term == nil {
		h.Error(c, apperror.NewNotFound("terminal", termID.String()))
		return
	}

	term.Name = req.Name
	term.IikoID = req.IikoID
	term.ClickServiceIDs = req.ClickServiceIDs
	term.PaymeMerchantIDs = req.PaymeMerchantIDs
	term.YandexRestaurantID = req.YandexRestaurantID
	term.Active = req.Active
	term.Version = req.Version

	if err := h.terminals.Update(c.Request.Context(), term); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, term)
}

// GetTerminal handles GET /catalogs/terminals/:id.
func (h *CatalogHandler) GetTerminal(c *gin.Context) {
	termID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	term, err := h.terminals.Get(c.Request.Context(), termID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if term == nil {
		h.Error(c, apperror.NewNotFound("terminal", termID.String()))
		return
	}
	h.OK(c, term)
}

// ListTerminals handles GET /catalogs/terminals.
func (h *CatalogHandler) ListTerminals(c *gin.Context) {
	var req dto.ListTerminalsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	var orgID *id.ID
	if req.OrganizationID != "" {
		parsed, err := id.Parse(req.OrganizationID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid organization id"))
			return
		}
		orgID = &parsed
	}

	terms, err := h.terminals.List(c.Request.Context(), orgID, req.ActiveOnly)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, terms)
}

// DeleteTerminal handles DELETE /catalogs/terminals/:id.
func (h *CatalogHandler) DeleteTerminal(c *gin.Context) {
	termID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.terminals.Delete(c.Request.Context(), termID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// --- Report statuses ---

// CreateStatus handles POST /catalogs/statuses.
func (h *CatalogHandler) CreateStatus(c *gin.Context) {
	var req dto.CreateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	st := status.New(req.Code, req.Label, req.Color)
	st.SortOrder = req.SortOrder

	if err := h.statuses.Create(c.Request.Context(), st); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, st.ID.String())
}

// UpdateStatus handles PUT /catalogs/statuses/:id.
func (h *CatalogHandler) UpdateStatus(c *gin.Context) {
	stID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	st, err := h.statuses.Get(c.Request.Context(), stID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if st == nil {
		h.Error(c, apperror.NewNotFound("status", stID.String()))
		return
	}

	st.Label = req.Label
	st.Color = req.Color
	st.SortOrder = req.SortOrder
	st.Active = req.Active
	st.Version = req.Version

	if err := h.statuses.Update(c.Request.Context(), st); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, st)
}

// ListStatuses handles GET /catalogs/statuses.
func (h *CatalogHandler) ListStatuses(c *gin.Context) {
	activeOnly := c.Query("activeOnly") != "false"
	statuses, err := h.statuses.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, statuses)
}

package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"davrcash/internal/core/apperror"
	"davrcash/internal/core/id"
	"davrcash/internal/domain/cashreport"
	"davrcash/internal/infrastructure/http/v1/dto"
)

// ReportsHandler exposes the reconciliation engine over HTTP: channel
// previews, editable rows, submission and the status workflow.
type ReportsHandler struct {
	*BaseHandler
	service *cashreport.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(service *cashreport.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// channelArgs decodes the common preview body into domain terms.
func (h *ReportsHandler) channelArgs(c *gin.Context) (id.ID, time.Time, *string, bool) {
	var req dto.ChannelQueryRequest
	if !h.BindJSON(c, &req) {
		return id.Nil(), time.Time{}, nil, false
	}
	terminalID, err := id.Parse(req.TerminalID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid terminal id"))
		return id.Nil(), time.Time{}, nil, false
	}
	date := cashreport.NormalizeDate(req.Date.Unix(), h.service.Location())
	return terminalID, date, req.Time, true
}

// Click handles POST /reports/click.
func (h *ReportsHandler) Click(c *gin.Context) {
	terminalID, date, cutoff, ok := h.channelArgs(c)
	if !ok {
		return
	}
	total, err := h.service.ClickPreview(c.Request.Context(), terminalID, date, cutoff)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ScalarChannelResponse{Total: total})
}

// Payme handles POST /reports/payme.
func (h *ReportsHandler) Payme(c *gin.Context) {
	terminalID, date, cutoff, ok := h.channelArgs(c)
	if !ok {
		return
	}
	total, err := h.service.PaymePreview(c.Request.Context(), terminalID, date, cutoff)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ScalarChannelResponse{Total: total})
}

// Cashier handles POST /reports/cashier.
func (h *ReportsHandler) Cashier(c *gin.Context) {
	terminalID, date, cutoff, ok := h.channelArgs(c)
	if !ok {
		return
	}
	result, err := h.service.CashierPreview(c.Request.Context(), terminalID, date, cutoff)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Express handles POST /reports/express.
func (h *ReportsHandler) Express(c *gin.Context) {
	terminalID, date, cutoff, ok := h.channelArgs(c)
	if !ok {
		return
	}
	bd, err := h.service.ExpressPreview(c.Request.Context(), terminalID, date, cutoff)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ExpressResponse{
		Express:    decimal.Zero,
		YandexEats: bd.YandexEats,
		MyUzcard:   bd.MyUzcard,
		Wolt:       bd.Wolt,
	})
}

// Arryt handles POST /reports/arryt.
func (h *ReportsHandler) Arryt(c *gin.Context) {
	terminalID, date, cutoff, ok := h.channelArgs(c)
	if !ok {
		return
	}
	bundle, err := h.service.ArrytPreview(c.Request.Context(), terminalID, date, cutoff)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, bundle)
}

// IsEditable handles GET /reports/is_editable, the mutability gate.
func (h *ReportsHandler) IsEditable(c *gin.Context) {
	var req dto.EditableQueryRequest
	if !h.BindQuery(c, &req) {
		return
	}
	terminalID, err := id.Parse(req.TerminalID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid terminal id"))
		return
	}
	date := cashreport.NormalizeDate(req.Date, h.service.Location())
	editable, err := h.service.IsEditable(c.Request.Context(), terminalID, date)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.EditableStateResponse{Editable: editable})
}

// EditableIncomes handles POST /reports/editable-incomes.
func (h *ReportsHandler) EditableIncomes(c *gin.Context) {
	terminalID, date, _, ok := h.channelArgs(c)
	if !ok {
		return
	}
	entries, err := h.service.EditableIncomes(c.Request.Context(), terminalID, date)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entries)
}

// EditableExpenses handles POST /reports/editable-expenses.
func (h *ReportsHandler) EditableExpenses(c *gin.Context) {
	terminalID, date, _, ok := h.channelArgs(c)
	if !ok {
		return
	}
	entries, err := h.service.EditableExpenses(c.Request.Context(), terminalID, date)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entries)
}

// Submit handles POST /reports, the end-of-day close.
func (h *ReportsHandler) Submit(c *gin.Context) {
	var req dto.SubmitReportRequest
	if !h.BindJSON(c, &req) {
		return
	}
	terminalID, err := id.Parse(req.TerminalID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid terminal id"))
		return
	}

	submit := cashreport.SubmitRequest{
		TerminalID: terminalID,
		Date:       cashreport.NormalizeDate(req.Date.Unix(), h.service.Location()),
		Incomes:    manualEntries(req.Incomes),
		Expenses:   manualEntries(req.Expenses),
	}

	report, err := h.service.Submit(c.Request.Context(), submit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

func manualEntries(rows []dto.ManualEntryRequest) []cashreport.ManualEntry {
	entries := make([]cashreport.ManualEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, cashreport.ManualEntry{
			Key:    r.Key,
			Label:  r.Label,
			Amount: r.Amount,
		})
	}
	return entries
}

// SetStatus handles PUT /reports/:id with a {data: {status_id}} body.
func (h *ReportsHandler) SetStatus(c *gin.Context) {
	reportID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	statusID, err := id.Parse(req.Data.StatusID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid status id"))
		return
	}

	report, err := h.service.SetStatus(c.Request.Context(), reportID, statusID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Get handles GET /reports/:id.
func (h *ReportsHandler) Get(c *gin.Context) {
	reportID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	report, err := h.service.Get(c.Request.Context(), reportID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Items handles GET /reports/:id/items.
func (h *ReportsHandler) Items(c *gin.Context) {
	reportID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	items, err := h.service.Items(c.Request.Context(), reportID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

// List handles GET /reports.
func (h *ReportsHandler) List(c *gin.Context) {
	filter, req, ok := h.listFilter(c)
	if !ok {
		return
	}
	reports, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{
		Items:      reports,
		Pagination: dto.NewPaginationResponse(req.Page, req.PageSize, total),
	})
}

// My handles GET /reports/my_reports, reports the caller submitted.
func (h *ReportsHandler) My(c *gin.Context) {
	filter, req, ok := h.listFilter(c)
	if !ok {
		return
	}
	reports, total, err := h.service.MyReports(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{
		Items:      reports,
		Pagination: dto.NewPaginationResponse(req.Page, req.PageSize, total),
	})
}

func (h *ReportsHandler) listFilter(c *gin.Context) (cashreport.ListFilter, dto.ListReportsRequest, bool) {
	var req dto.ListReportsRequest
	if !h.BindQuery(c, &req) {
		return cashreport.ListFilter{}, req, false
	}
	req.Defaults()

	filter := cashreport.ListFilter{
		Limit:  req.PageSize,
		Offset: req.Offset(),
	}
	if req.TerminalID != "" {
		terminalID, err := id.Parse(req.TerminalID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid terminal id"))
			return filter, req, false
		}
		filter.TerminalIDs = []id.ID{terminalID}
	}
	loc := h.service.Location()
	if req.From != nil {
		from := cashreport.NormalizeDate(*req.From, loc)
		filter.From = &from
	}
	if req.To != nil {
		to := cashreport.NormalizeDate(*req.To, loc)
		filter.To = &to
	}
	return filter, req, true
}

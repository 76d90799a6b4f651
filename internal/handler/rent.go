package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/xeipuuv/gojsonschema"

	"github.com/yhajali/aqari-backend/internal/model"
	"github.com/yhajali/aqari-backend/internal/queue"
	"github.com/yhajali/aqari-backend/internal/repository"
	"github.com/yhajali/aqari-backend/internal/service"
)

// RentHandler records monthly rent payments. Each create writes the entry,
// its method-specific detail and the correlated ledger record atomically,
// then publishes a payment event for downstream consumers.
type RentHandler struct {
	Rent       *repository.RentRepo
	Properties *repository.PropertyRepo
	Tenants    *repository.TenantRepo
}

func NewRentHandler(r *repository.RentRepo, p *repository.PropertyRepo, t *repository.TenantRepo) *RentHandler {
	return &RentHandler{Rent: r, Properties: p, Tenants: t}
}

// Per-method JSON Schemas for the payment_details object. Validating the
// raw payload before decoding keeps the error messages field-precise.
const (
	cashDetailSchema = `{
		"type": "object",
		"properties": {
			"receipt_number": {"type": ["string", "null"]},
			"received_by":    {"type": ["string", "null"]},
			"notes":          {"type": ["string", "null"]}
		},
		"additionalProperties": false
	}`
	chequeDetailSchema = `{
		"type": "object",
		"required": ["cheque_number"],
		"properties": {
			"cheque_number": {"type": "string", "minLength": 1},
			"bank_name":     {"type": ["string", "null"]},
			"cheque_date":   {"type": ["string", "null"], "pattern": "^\\d{4}-\\d{2}-\\d{2}$"}
		},
		"additionalProperties": false
	}`
	onlineDetailSchema = `{
		"type": "object",
		"required": ["transaction_ref"],
		"properties": {
			"transaction_ref": {"type": "string", "minLength": 1},
			"bank_name":       {"type": ["string", "null"]},
			"transfer_date":   {"type": ["string", "null"], "pattern": "^\\d{4}-\\d{2}-\\d{2}$"}
		},
		"additionalProperties": false
	}`
	partialDetailSchema = `{
		"type": "object",
		"required": ["reason"],
		"properties": {
			"reason":            {"type": "string", "minLength": 1},
			"remaining_balance": {"type": ["number", "string"]},
			"notes":             {"type": ["string", "null"]}
		},
		"additionalProperties": false
	}`
)

var detailSchemas = map[string]*gojsonschema.Schema{}

func init() {
	for method, raw := range map[string]string{
		model.MethodCash:    cashDetailSchema,
		model.MethodCheque:  chequeDetailSchema,
		model.MethodOnline:  onlineDetailSchema,
		model.MethodPartial: partialDetailSchema,
	} {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			panic(err)
		}
		detailSchemas[method] = s
	}
}

type rentCreateReq struct {
	PropertyID     uint64          `json:"property_id"`
	TenantID       uint64          `json:"tenant_id"`
	RentMonth      string          `json:"rent_month"`
	DueDate        string          `json:"due_date"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentAmount  decimal.Decimal `json:"payment_amount"`
	PaymentDate    string          `json:"payment_date"`
	Currency       string          `json:"currency"`
	PaymentDetails json.RawMessage `json:"payment_details"`
}

// parseDetail validates the raw payment_details against the method's schema
// and decodes the matching sub-record. Returns a user-facing message on
// failure.
func parseDetail(method string, raw json.RawMessage) (repository.PaymentDetail, string) {
	var d repository.PaymentDetail
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	result, err := detailSchemas[method].Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return d, "payment_details must be a JSON object"
	}
	if !result.Valid() {
		return d, "invalid payment_details: " + result.Errors()[0].String()
	}
	switch method {
	case model.MethodCash:
		d.Cash = &model.CashDetail{}
		err = json.Unmarshal(raw, d.Cash)
	case model.MethodCheque:
		d.Cheque = &model.ChequeDetail{}
		err = json.Unmarshal(raw, d.Cheque)
	case model.MethodOnline:
		d.Online = &model.OnlineDetail{}
		err = json.Unmarshal(raw, d.Online)
	case model.MethodPartial:
		d.Partial = &model.PartialDetail{}
		err = json.Unmarshal(raw, d.Partial)
	}
	if err != nil {
		return d, "invalid payment_details"
	}
	return d, ""
}

func (r *rentCreateReq) validate() string {
	if r.PropertyID == 0 || r.TenantID == 0 {
		return "property_id and tenant_id are required"
	}
	if !validMonth(r.RentMonth) {
		return "rent_month must be YYYY-MM"
	}
	if r.DueDate == "" || !validDate(r.DueDate) {
		return "due_date must be YYYY-MM-DD"
	}
	if r.PaymentDate == "" || !validDate(r.PaymentDate) {
		return "payment_date must be YYYY-MM-DD"
	}
	if !model.ValidPaymentMethod(r.PaymentMethod) {
		return "invalid payment_method"
	}
	// The payment amount feeds the correlated ledger record, so both
	// amounts must be strictly positive.
	if !r.TotalAmount.IsPositive() || !r.PaymentAmount.IsPositive() {
		return "amounts must be positive"
	}
	if r.PaymentAmount.GreaterThan(r.TotalAmount) {
		return "Payment amount cannot exceed total amount"
	}
	if r.Currency == "" {
		r.Currency = "AED"
	}
	return ""
}

// Create handles POST /api/rent-tracking. Ownership of the property is
// checked before the tenant so the caller always sees the property error
// first; nothing is written until every check passes.
func (h *RentHandler) Create(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req rentCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	detail, msg := parseDetail(req.PaymentMethod, req.PaymentDetails)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	prop, err := h.Properties.GetByIDAndAccount(ctx, req.PropertyID, accountID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Property not found or access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	ten, err := h.Tenants.GetByIDAndAccount(ctx, req.TenantID, accountID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Tenant not found or access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	entry := model.RentEntry{
		AccountID:     accountID,
		PropertyID:    req.PropertyID,
		TenantID:      req.TenantID,
		RentMonth:     req.RentMonth,
		DueDate:       req.DueDate,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		PaymentAmount: req.PaymentAmount,
		PaymentDate:   req.PaymentDate,
	}

	recordType := model.RecordRent
	if req.PaymentMethod == model.MethodPartial {
		recordType = model.RecordPartialRent
	}
	desc := "Rent payment for " + req.RentMonth + " - " + ten.FullName
	ledger := model.FinancialRecord{
		AccountID:       accountID,
		PropertyID:      &entry.PropertyID,
		TenantID:        &entry.TenantID,
		RecordType:      recordType,
		Amount:          req.PaymentAmount,
		Currency:        req.Currency,
		Description:     &desc,
		TransactionDate: req.PaymentDate,
	}

	if err := h.Rent.CreatePayment(ctx, &entry, detail, &ledger); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "rent for this month is already recorded"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record payment"})
	}

	// Fire-and-forget: the payment is committed, a broker outage must not
	// fail the request.
	ev := queue.PaymentRecordedEvent{
		EventID:       uuid.NewString(),
		AccountID:     accountID,
		PropertyID:    prop.ID,
		PropertyName:  prop.Name,
		TenantID:      ten.ID,
		TenantName:    ten.FullName,
		RentMonth:     entry.RentMonth,
		PaymentMethod: entry.PaymentMethod,
		PaymentAmount: entry.PaymentAmount.String(),
		TotalAmount:   entry.TotalAmount.String(),
		Currency:      req.Currency,
		RecordedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		_ = service.PublishPaymentRecorded(pctx, ev)
	}()

	return c.JSON(http.StatusOK, echo.Map{"rent": entry, "financial_record": ledger})
}

// List handles GET /api/rent-tracking with an optional ?month=YYYY-MM filter.
func (h *RentHandler) List(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	month := c.QueryParam("month")
	if month != "" && !validMonth(month) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be YYYY-MM"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Rent.ListByAccount(ctx, accountID, month)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/rent-tracking/:id.
func (h *RentHandler) Get(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Rent.GetByIDAndAccount(ctx, id, accountID)
	if err != nil {
		return notFoundOrDBError(c, err, "rent entry")
	}
	return c.JSON(http.StatusOK, e)
}

type rentUpdateReq struct {
	DueDate       *string          `json:"due_date"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	PaymentAmount *decimal.Decimal `json:"payment_amount"`
	PaymentDate   *string          `json:"payment_date"`
}

// Update handles PUT /api/rent-tracking/:id. Only the payment fields may
// change; the method and its detail row are fixed at creation.
func (h *RentHandler) Update(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req rentUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Rent.GetByIDAndAccount(ctx, id, accountID)
	if err != nil {
		return notFoundOrDBError(c, err, "rent entry")
	}
	if req.DueDate != nil {
		if !validDate(*req.DueDate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "due_date must be YYYY-MM-DD"})
		}
		e.DueDate = *req.DueDate
	}
	if req.PaymentDate != nil {
		if !validDate(*req.PaymentDate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_date must be YYYY-MM-DD"})
		}
		e.PaymentDate = *req.PaymentDate
	}
	if req.TotalAmount != nil {
		e.TotalAmount = *req.TotalAmount
	}
	if req.PaymentAmount != nil {
		e.PaymentAmount = *req.PaymentAmount
	}
	if !e.TotalAmount.IsPositive() || !e.PaymentAmount.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amounts must be positive"})
	}
	if e.PaymentAmount.GreaterThan(e.TotalAmount) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Payment amount cannot exceed total amount"})
	}

	if err := h.Rent.UpdatePayment(ctx, &e); err != nil {
		return notFoundOrDBError(c, err, "rent entry")
	}
	return c.JSON(http.StatusOK, e)
}

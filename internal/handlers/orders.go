package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/store"
	"proofdeck-backend/internal/validation"
)

const defaultListLimit = 200

type OrdersHandler struct {
	store    *store.Store
	validate *validator.Validate
}

func NewOrdersHandler(st *store.Store, validate *validator.Validate) *OrdersHandler {
	return &OrdersHandler{store: st, validate: validate}
}

func orderSummary(o *models.Order) models.OrderSummary {
	return models.OrderSummary{
		ID:            o.ID.String(),
		OrderNumber:   o.OrderNumber,
		Platform:      o.Platform,
		CustomerEmail: o.CustomerEmail,
		CustomerName:  o.CustomerName.String,
		Status:        o.Status,
		OrderTotal:    o.OrderTotal,
		ProductName:   o.ProductName.String,
		Quantity:      o.Quantity,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// customizationMap decodes the stored customization option map.
func customizationMap(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// List godoc
//
//	@Summary		List orders
//	@Description	Returns orders, newest first, optionally filtered by status
//	@Tags			orders
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"
//	@Success		200		{object}	models.OrderListResponse
//	@Failure		500		{object}	models.ErrorResponse
//	@Router			/api/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !validStatusFilter(status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_status", Message: "Unknown status filter"})
		return
	}

	orders, err := h.store.ListOrders(status, defaultListLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to list orders"})
		return
	}

	resp := models.OrderListResponse{Orders: make([]models.OrderSummary, 0, len(orders))}
	for i := range orders {
		resp.Orders = append(resp.Orders, orderSummary(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func validStatusFilter(status string) bool {
	switch status {
	case models.StatusDraft, models.StatusOpen, models.StatusProofSent,
		models.StatusApproved, models.StatusApprovedWithNotes, models.StatusChangesRequested:
		return true
	}
	return false
}

// Detail godoc
//
//	@Summary		Order detail
//	@Description	Returns one order with its proof versions, files, and message thread
//	@Tags			orders
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	models.OrderDetailResponse
//	@Failure		404	{object}	models.ErrorResponse
//	@Router			/api/orders/{id} [get]
func (h *OrdersHandler) Detail(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_id", Message: "Order ID must be a UUID"})
		return
	}

	order, err := h.store.GetOrder(orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to load order"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Order not found"})
		return
	}

	versions, err := proofVersions(h.store, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to load proof versions"})
		return
	}

	messages, err := h.store.ListMessages(orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to load messages"})
		return
	}

	resp := models.OrderDetailResponse{
		Order:    orderSummary(order),
		SKU:      order.SKU.String,
		Options:  customizationMap(order.CustomizationOptions),
		Versions: versions,
		Messages: make([]models.MessageResponse, 0, len(messages)),
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, models.MessageResponse{
			ID:         m.ID.String(),
			AuthorType: m.AuthorType,
			AuthorName: m.AuthorName,
			Body:       m.Body,
			CreatedAt:  m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// proofVersions loads an order's versions with their files, newest first.
func proofVersions(st *store.Store, orderID uuid.UUID) ([]models.ProofVersionResponse, error) {
	versions, err := st.ListProofVersions(orderID)
	if err != nil {
		return nil, err
	}
	out := make([]models.ProofVersionResponse, 0, len(versions))
	for _, v := range versions {
		files, err := st.ListProofFiles(v.ID)
		if err != nil {
			return nil, err
		}
		vr := models.ProofVersionResponse{
			ID:            v.ID.String(),
			VersionNumber: v.VersionNumber,
			StaffNote:     v.StaffNote.String,
			CreatedAt:     v.CreatedAt,
			Files:         make([]models.ProofFileResponse, 0, len(files)),
		}
		for _, f := range files {
			vr.Files = append(vr.Files, models.ProofFileResponse{
				ID:           f.ID.String(),
				Filename:     f.Filename,
				MimeType:     f.MimeType,
				OriginalPath: f.OriginalPath,
				PreviewPath:  f.PreviewPath,
				SortOrder:    f.SortOrder,
			})
		}
		out = append(out, vr)
	}
	return out, nil
}

// Create godoc
//
//	@Summary		Create a manual order
//	@Description	Creates an order outside the external platform sync, starting in open status
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.CreateOrderRequest	true	"Order fields"
//	@Success		201		{object}	models.OrderSummary
//	@Failure		400		{object}	models.ErrorResponse
//	@Router			/api/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   req.OrderNumber,
		Platform:      models.PlatformManual,
		CustomerEmail: req.CustomerEmail,
		Status:        models.StatusOpen,
		OrderTotal:    req.OrderTotal,
		Quantity:      quantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.CustomerName != "" {
		order.CustomerName.String = req.CustomerName
		order.CustomerName.Valid = true
	}
	if req.SKU != "" {
		order.SKU.String = req.SKU
		order.SKU.Valid = true
	}
	if req.ProductName != "" {
		order.ProductName.String = req.ProductName
		order.ProductName.Valid = true
	}

	if err := h.store.InsertOrder(order); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, orderSummary(order))
}

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	lgr     logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, lgr logger.Logger) *OrderHandler {
	return &OrderHandler{service: service, lgr: lgr}
}

type createOrderRequest struct {
	TableNumber int                      `json:"tableNumber"`
	Items       []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	MenuItemID int64 `json:"menuItemId"`
	Quantity   int   `json:"quantity"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	claims := ClaimsFrom(r.Context())
	cmd := interfaces.CreateOrderCommand{TableNumber: req.TableNumber}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, interfaces.CreateOrderItemCommand{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		})
	}

	order, err := h.service.Create(r.Context(), claims.UserID, cmd)
	if err != nil {
		h.lgr.Debug("order_rejected", fmt.Sprintf("Order for table %d rejected", req.TableNumber), RequestID(r.Context()), map[string]any{
			"table_number": req.TableNumber,
		})
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) KitchenQueue(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.KitchenQueue(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListByTable(w http.ResponseWriter, r *http.Request) {
	tableNumber, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid table number"})
		return
	}

	orders, err := h.service.ListServedByTable(r.Context(), tableNumber)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/interfaces"
)

type TableHandler struct {
	service interfaces.TableService
	lgr     logger.Logger
}

func NewTableHandler(service interfaces.TableService, lgr logger.Logger) *TableHandler {
	return &TableHandler{service: service, lgr: lgr}
}

func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tables)
}

func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	tableNumber, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid table number"})
		return
	}

	table, err := h.service.Get(r.Context(), tableNumber)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, table)
}

// Initialize wipes and recreates the table set. Unauthenticated bootstrap
// endpoint; everything currently seated is lost.
func (h *TableHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Initialize(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	h.lgr.Info("tables_initialized", fmt.Sprintf("Provisioned %d tables", count), RequestID(r.Context()), map[string]any{
		"count": count,
	})
	respondJSON(w, http.StatusOK, map[string]any{"initialized": count})
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chainsoffoods/foodchain/internal/forger"
	"github.com/chainsoffoods/foodchain/internal/model"
)

// ForgerHandler exposes the operator control endpoints.
type ForgerHandler struct {
	service *forger.Service
}

// NewForgerHandler creates a ForgerHandler over the operator service.
func NewForgerHandler(s *forger.Service) *ForgerHandler {
	return &ForgerHandler{service: s}
}

// Import handles POST /api/import
// @Summary      Import forging state
// @Description  Downloads the forging-state archive from another node, imports it and restarts the node
// @Tags         forger
// @Accept       json
// @Produce      json
// @Success      200  {object}  model.OperationResult
// @Router       /api/import [post]
func (h *ForgerHandler) Import(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.service.ImportForgingState(req.Host); err != nil {
		writeJSON(w, http.StatusOK, model.OperationResult{Result: false})
		return
	}
	writeJSON(w, http.StatusOK, model.OperationResult{Result: true})
}

// Export handles POST /api/export
// @Summary      Export forging state
// @Tags         forger
// @Produce      json
// @Success      200  {object}  model.OperationResult
// @Router       /api/export [post]
func (h *ForgerHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if err := h.service.ExportForgingState(); err != nil {
		writeJSON(w, http.StatusOK, model.OperationResult{Result: false})
		return
	}
	writeJSON(w, http.StatusOK, model.OperationResult{Result: true})
}

// Forging handles POST /api/forging
// @Summary      Toggle forging
// @Description  Enables or disables forging for the locally configured delegate
// @Tags         forger
// @Accept       json
// @Produce      json
// @Success      200  {object}  model.ForgingResponse
// @Router       /api/forging [post]
func (h *ForgerHandler) Forging(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ForgingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.service.SetForging(r.Context(), req)
	if err != nil {
		if errors.Is(err, forger.ErrDifferentDelegate) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusBadRequest, model.ForgingResponse{Address: req.Address, Forging: false})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

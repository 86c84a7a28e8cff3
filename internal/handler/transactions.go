package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chainsoffoods/foodchain/internal/builder"
	"github.com/chainsoffoods/foodchain/internal/ledger"
	"github.com/chainsoffoods/foodchain/internal/model"
)

// TxHandler builds and broadcasts domain transactions.
type TxHandler struct {
	builder *builder.Builder
}

// NewTxHandler creates a TxHandler over a transaction builder.
func NewTxHandler(b *builder.Builder) *TxHandler {
	return &TxHandler{builder: b}
}

type orderPayload struct {
	model.OrderRequest
	Passphrase string           `json:"passphrase"`
	Restaurant model.Restaurant `json:"restaurant"`
}

type menuPayload struct {
	Items      []model.MenuItem `json:"items"`
	Passphrase string           `json:"passphrase"`
}

type profilePayload struct {
	model.UserProfile
	Passphrase string `json:"passphrase"`
}

type newsPayload struct {
	Items      []model.NewsItem `json:"items"`
	Passphrase string           `json:"passphrase"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, builder.ErrEmptyOrder),
		errors.Is(err, builder.ErrEmptyMenu),
		errors.Is(err, builder.ErrPriceOverflow):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrQueryTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// Order handles POST /api/order
// @Summary      Place a food order
// @Description  Builds, signs and broadcasts a food-order transaction; delivery details are encrypted for the restaurant
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Success      200
// @Router       /api/order [post]
func (h *TxHandler) Order(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req orderPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tx, err := h.builder.BuildFoodOrder(r.Context(), req.OrderRequest, model.Credential{Passphrase: req.Passphrase}, req.Restaurant)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	result, err := h.builder.Broadcast(r.Context(), tx)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Menu handles POST /api/menu
// @Summary      Publish a restaurant menu
// @Description  Builds, signs and broadcasts a self-addressed menu transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Success      200
// @Router       /api/menu [post]
func (h *TxHandler) Menu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req menuPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tx, err := h.builder.BuildMenu(r.Context(), req.Items, model.Credential{Passphrase: req.Passphrase})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	result, err := h.builder.Broadcast(r.Context(), tx)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Profile handles POST /api/profile
// @Summary      Publish a user profile
// @Description  Builds, signs and broadcasts a self-encrypted profile transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Success      200
// @Router       /api/profile [post]
func (h *TxHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req profilePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tx, err := h.builder.BuildProfile(r.Context(), req.UserProfile, model.Credential{Passphrase: req.Passphrase})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	result, err := h.builder.Broadcast(r.Context(), tx)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// News handles POST /api/news
// @Summary      Publish restaurant news
// @Description  Builds, signs and broadcasts a self-addressed news transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Success      200
// @Router       /api/news [post]
func (h *TxHandler) News(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req newsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tx, err := h.builder.BuildNews(r.Context(), req.Items, model.Credential{Passphrase: req.Passphrase})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	result, err := h.builder.Broadcast(r.Context(), tx)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

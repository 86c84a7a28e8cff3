package handler

import (
	"net/http"

	"github.com/chainsoffoods/foodchain/internal/wallet"
)

// WalletHandler creates account credentials.
type WalletHandler struct{}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler() *WalletHandler {
	return &WalletHandler{}
}

// Generate handles POST /api/wallet/generate
// @Summary      Generate a credential
// @Description  Generates a BIP39 passphrase with its derived address and a QR code; nothing is stored server-side
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.GenerateResponse
// @Router       /api/wallet/generate [post]
func (h *WalletHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	resp, err := wallet.Generate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

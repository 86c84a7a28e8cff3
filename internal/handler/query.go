package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/chainsoffoods/foodchain/internal/common"
	"github.com/chainsoffoods/foodchain/internal/crypto"
	"github.com/chainsoffoods/foodchain/internal/ledger"
)

// QueryHandler serves read-only ledger queries.
type QueryHandler struct {
	facade *ledger.Facade
}

// NewQueryHandler creates a QueryHandler over the query facade.
func NewQueryHandler(f *ledger.Facade) *QueryHandler {
	return &QueryHandler{facade: f}
}

// Account handles GET /api/account
// @Summary      Get an account
// @Description  Fetches and decodes the account for a lisk32 address
// @Tags         queries
// @Produce      json
// @Param        address  query  string  true  "lisk32 account address"
// @Success      200
// @Router       /api/account [get]
func (h *QueryHandler) Account(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	address, err := crypto.AddressFromLisk32(r.URL.Query().Get("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	account, err := h.facade.GetAccount(r.Context(), address)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	annotateTokenBalance(account)
	writeJSON(w, http.StatusOK, account)
}

// annotateTokenBalance adds a human-readable token balance next to the raw
// beddows balance of a decoded account.
func annotateTokenBalance(account map[string]interface{}) {
	token, ok := account["token"].(map[string]interface{})
	if !ok {
		return
	}
	balance, ok := token["balance"].(string)
	if !ok {
		return
	}
	beddows, err := strconv.ParseUint(balance, 10, 64)
	if err != nil {
		return
	}
	token["balanceToken"] = common.BeddowsToToken(beddows)
}

// Block handles GET /api/block
// @Summary      Get a block
// @Description  Fetches and decodes a block by height or id
// @Tags         queries
// @Produce      json
// @Param        height  query  integer  false  "block height"
// @Param        id      query  string   false  "hex block id"
// @Success      200
// @Router       /api/block [get]
func (h *QueryHandler) Block(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	if id := r.URL.Query().Get("id"); id != "" {
		block, err := h.facade.GetBlockByID(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, block)
		return
	}

	height, err := strconv.ParseUint(r.URL.Query().Get("height"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("height or id parameter is required"))
		return
	}
	block, err := h.facade.GetBlockByHeight(r.Context(), height)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

// Transaction handles GET /api/transaction
// @Summary      Get a transaction
// @Description  Fetches and decodes a transaction by id
// @Tags         queries
// @Produce      json
// @Param        id  query  string  true  "hex transaction id"
// @Success      200
// @Router       /api/transaction [get]
func (h *QueryHandler) Transaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	tx, err := h.facade.GetTransactionByID(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// Pool handles GET /api/pool
// @Summary      Get pending transactions
// @Description  Fetches and decodes the node's transaction pool
// @Tags         queries
// @Produce      json
// @Success      200
// @Router       /api/pool [get]
func (h *QueryHandler) Pool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	pool, err := h.facade.TransactionsFromPool(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

// Peers handles GET /api/peers
// @Summary      Get peers
// @Description  Returns the node's connected or disconnected peers
// @Tags         queries
// @Produce      json
// @Param        state  query  string  false  "connected (default) or disconnected"
// @Success      200
// @Router       /api/peers [get]
func (h *QueryHandler) Peers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	var err error
	var peers interface{}
	if r.URL.Query().Get("state") == "disconnected" {
		peers, err = h.facade.DisconnectedPeers(r.Context())
	} else {
		peers, err = h.facade.ConnectedPeers(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, peers)
}

// NodeInfo handles GET /api/node
// @Summary      Get node info
// @Tags         queries
// @Produce      json
// @Success      200
// @Router       /api/node [get]
func (h *QueryHandler) NodeInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	info, err := h.facade.NodeInfo(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

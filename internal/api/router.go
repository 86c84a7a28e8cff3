package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/chainsoffoods/foodchain/internal/builder"
	"github.com/chainsoffoods/foodchain/internal/handler"
	"github.com/chainsoffoods/foodchain/internal/ledger"
)

// SetupRouter sets up the marketplace API router with handlers
func SetupRouter(b *builder.Builder, facade *ledger.Facade) http.Handler {
	txHandler := handler.NewTxHandler(b)
	queryHandler := handler.NewQueryHandler(facade)
	walletHandler := handler.NewWalletHandler()

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Transaction endpoints
	mux.HandleFunc("/api/order", txHandler.Order)
	mux.HandleFunc("/api/menu", txHandler.Menu)
	mux.HandleFunc("/api/profile", txHandler.Profile)
	mux.HandleFunc("/api/news", txHandler.News)

	// Query endpoints
	mux.HandleFunc("/api/account", queryHandler.Account)
	mux.HandleFunc("/api/block", queryHandler.Block)
	mux.HandleFunc("/api/transaction", queryHandler.Transaction)
	mux.HandleFunc("/api/pool", queryHandler.Pool)
	mux.HandleFunc("/api/peers", queryHandler.Peers)
	mux.HandleFunc("/api/node", queryHandler.NodeInfo)

	// Wallet endpoints
	mux.HandleFunc("/api/wallet/generate", walletHandler.Generate)

	return mux
}

// SetupForgerRouter sets up the operator control router
func SetupForgerRouter(fh *handler.ForgerHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/import", fh.Import)
	mux.HandleFunc("/api/export", fh.Export)
	mux.HandleFunc("/api/forging", fh.Forging)
	return mux
}

// forgerd is the operator control service: it wraps the node tooling behind
// HTTP endpoints for importing/exporting forging state and toggling forging
// for the locally configured delegate.
package main

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/chainsoffoods/foodchain/internal/api"
	"github.com/chainsoffoods/foodchain/internal/config"
	"github.com/chainsoffoods/foodchain/internal/forger"
	"github.com/chainsoffoods/foodchain/internal/handler"
	"github.com/chainsoffoods/foodchain/internal/ledger"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	if err := config.Init(); err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	account, err := forger.LoadDelegateAccount(config.Get().AccountFilePath)
	if err != nil {
		log.Fatal("failed to load delegate account", zap.Error(err))
	}
	log.Info("delegate account information loaded", zap.String("address", account.Address))

	client := ledger.Shared(config.GetRPCEndpoint())
	facade := ledger.NewFacade(client, config.GetQueryTimeout())
	service := forger.NewService(account, facade, config.Get().ExportDir, log)

	router := api.SetupForgerRouter(handler.NewForgerHandler(service))
	addr := ":" + config.Get().ForgerPort
	log.Info("forger api service running", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

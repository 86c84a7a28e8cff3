// foodchaind serves the marketplace HTTP API: building and broadcasting
// domain transactions, ledger queries, and credential generation. It also
// runs the new-block/new-transaction event subscriber.
package main

import (
	"context"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/chainsoffoods/foodchain/internal/api"
	"github.com/chainsoffoods/foodchain/internal/builder"
	"github.com/chainsoffoods/foodchain/internal/config"
	"github.com/chainsoffoods/foodchain/internal/events"
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

	client := ledger.Shared(config.GetRPCEndpoint())
	facade := ledger.NewFacade(client, config.GetQueryTimeout())
	b := builder.New(facade, config.GetChainParams(), config.GetNetworkIdentifier())

	subscriber := events.NewSubscriber(client, facade, log)
	go func() {
		if err := subscriber.Run(context.Background()); err != nil {
			log.Warn("event subscriber stopped", zap.Error(err))
		}
	}()

	router := api.SetupRouter(b, facade)
	addr := ":" + config.GetPort()
	log.Info("foodchain api service running", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// Package events listens for newly produced blocks and transactions for
// observability. It is a leaf: nothing in the build or apply paths depends
// on it.
package events

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/chainsoffoods/foodchain/internal/codec"
	"github.com/chainsoffoods/foodchain/internal/ledger"
)

const (
	newBlockEvent       = "app:block:new"
	newTransactionEvent = "app:transaction:new"
)

// Subscriber decodes block:new and transaction:new events against the node's
// schemas and logs them.
type Subscriber struct {
	inv    ledger.Invoker
	facade *ledger.Facade
	log    *zap.Logger
}

// NewSubscriber creates a subscriber over the shared RPC client.
func NewSubscriber(inv ledger.Invoker, facade *ledger.Facade, log *zap.Logger) *Subscriber {
	return &Subscriber{inv: inv, facade: facade, log: log}
}

// Run subscribes to both event channels and processes them until the context
// is cancelled or the connection closes. Handlers stay non-blocking: decode,
// log, move on.
func (s *Subscriber) Run(ctx context.Context) error {
	schemas, err := s.facade.Schemas(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch schemas for event decoding: %w", err)
	}
	blockSchema, err := codec.ParseSchema(schemas.Block)
	if err != nil {
		return err
	}
	txSchema, err := codec.ParseSchema(schemas.Transaction)
	if err != nil {
		return err
	}

	blocks, err := s.inv.Subscribe(newBlockEvent)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", newBlockEvent, err)
	}
	transactions, err := s.inv.Subscribe(newTransactionEvent)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", newTransactionEvent, err)
	}

	s.log.Info("event subscriber running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-blocks:
			if !ok {
				return ledger.ErrClosed
			}
			s.logEvent("new block", blockSchema, payload, "block")
		case payload, ok := <-transactions:
			if !ok {
				return ledger.ErrClosed
			}
			s.logEvent("new transaction", txSchema, payload, "transaction")
		}
	}
}

func (s *Subscriber) logEvent(msg string, schema *codec.DynamicSchema, payload json.RawMessage, key string) {
	var wrapper map[string]string
	if err := json.Unmarshal(payload, &wrapper); err != nil {
		s.log.Warn("failed to parse event payload", zap.Error(err))
		return
	}
	data, err := hex.DecodeString(wrapper[key])
	if err != nil {
		s.log.Warn("failed to decode event payload", zap.Error(err))
		return
	}
	decoded, err := codec.DecodeJSON(schema, data)
	if err != nil {
		s.log.Warn("failed to decode event against schema", zap.Error(err))
		return
	}
	s.log.Info(msg, zap.Any(key, decoded))
}

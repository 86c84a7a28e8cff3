package ledger

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chainsoffoods/foodchain/internal/codec"
)

// ErrAccountNotFound is returned for addresses the chain has never seen;
// an account only exists once it has received funds.
var ErrAccountNotFound = errors.New("account not found")

// NodeSchemas are the runtime schemas registered on the connected node.
// Binary payloads must be decoded against the schemas of the same node.
type NodeSchemas struct {
	Account     json.RawMessage `json:"account"`
	Block       json.RawMessage `json:"block"`
	Transaction json.RawMessage `json:"transaction"`
}

// Facade is the read-only query surface over the RPC service used by the
// transaction builder and monitoring code.
type Facade struct {
	inv     Invoker
	timeout time.Duration

	schemaMu  sync.Mutex
	schemas   *NodeSchemas
	accSchema *codec.DynamicSchema
	blkSchema *codec.DynamicSchema
	txSchema  *codec.DynamicSchema
}

// NewFacade creates a facade over an RPC invoker. Each query is bounded by
// the given timeout.
func NewFacade(inv Invoker, timeout time.Duration) *Facade {
	return &Facade{inv: inv, timeout: timeout}
}

func (f *Facade) invoke(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return f.inv.Invoke(ctx, method, params)
}

// Schemas fetches (and caches for the process lifetime) the node's schemas.
func (f *Facade) Schemas(ctx context.Context) (*NodeSchemas, error) {
	f.schemaMu.Lock()
	defer f.schemaMu.Unlock()
	if f.schemas != nil {
		return f.schemas, nil
	}

	raw, err := f.invoke(ctx, "app:getSchema", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schemas: %w", err)
	}
	var schemas NodeSchemas
	if err := json.Unmarshal(raw, &schemas); err != nil {
		return nil, fmt.Errorf("failed to parse schemas: %w", err)
	}

	if f.accSchema, err = codec.ParseSchema(schemas.Account); err != nil {
		return nil, err
	}
	if f.blkSchema, err = codec.ParseSchema(schemas.Block); err != nil {
		return nil, err
	}
	if f.txSchema, err = codec.ParseSchema(schemas.Transaction); err != nil {
		return nil, err
	}
	f.schemas = &schemas
	return f.schemas, nil
}

// hexResult unwraps an invoke result that carries hex-encoded binary data.
func hexResult(raw json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("expected hex string result: %w", err)
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex result: %w", err)
	}
	return data, nil
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "not found")
}

// GetAccount fetches and decodes the account at the given 20-byte address.
func (f *Facade) GetAccount(ctx context.Context, address []byte) (map[string]interface{}, error) {
	if _, err := f.Schemas(ctx); err != nil {
		return nil, err
	}

	raw, err := f.invoke(ctx, "app:getAccount", map[string]string{
		"address": hex.EncodeToString(address),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("address %x: %w", address, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	data, err := hexResult(raw)
	if err != nil {
		return nil, err
	}
	return codec.DecodeJSON(f.accSchema, data)
}

// AccountNonce resolves the next transaction nonce for an address: the
// account's current sequence counter.
func (f *Facade) AccountNonce(ctx context.Context, address []byte) (uint64, error) {
	account, err := f.GetAccount(ctx, address)
	if err != nil {
		return 0, err
	}

	sequence, ok := account["sequence"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("account has no sequence object")
	}
	nonceStr, ok := sequence["nonce"].(string)
	if !ok {
		return 0, fmt.Errorf("account sequence has no nonce")
	}
	nonce, err := strconv.ParseUint(nonceStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid nonce %q: %w", nonceStr, err)
	}
	return nonce, nil
}

// GetBlockByHeight fetches and decodes the block at a height.
func (f *Facade) GetBlockByHeight(ctx context.Context, height uint64) (map[string]interface{}, error) {
	return f.getBlock(ctx, "app:getBlockByHeight", map[string]uint64{"height": height})
}

// GetBlockByID fetches and decodes the block with the given hex ID.
func (f *Facade) GetBlockByID(ctx context.Context, id string) (map[string]interface{}, error) {
	return f.getBlock(ctx, "app:getBlockByID", map[string]string{"id": id})
}

func (f *Facade) getBlock(ctx context.Context, method string, params interface{}) (map[string]interface{}, error) {
	if _, err := f.Schemas(ctx); err != nil {
		return nil, err
	}
	raw, err := f.invoke(ctx, method, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get block: %w", err)
	}
	data, err := hexResult(raw)
	if err != nil {
		return nil, err
	}
	return codec.DecodeJSON(f.blkSchema, data)
}

// GetTransactionByID fetches and decodes the transaction with the given hex ID.
func (f *Facade) GetTransactionByID(ctx context.Context, id string) (map[string]interface{}, error) {
	if _, err := f.Schemas(ctx); err != nil {
		return nil, err
	}
	raw, err := f.invoke(ctx, "app:getTransactionByID", map[string]string{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	data, err := hexResult(raw)
	if err != nil {
		return nil, err
	}
	return codec.DecodeJSON(f.txSchema, data)
}

// TransactionsFromPool fetches and decodes the node's pending transactions.
func (f *Facade) TransactionsFromPool(ctx context.Context) ([]map[string]interface{}, error) {
	if _, err := f.Schemas(ctx); err != nil {
		return nil, err
	}
	raw, err := f.invoke(ctx, "app:getTransactionsFromPool", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	var encoded []string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("failed to parse pool result: %w", err)
	}

	decoded := make([]map[string]interface{}, 0, len(encoded))
	for _, s := range encoded {
		data, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("failed to decode pool transaction: %w", err)
		}
		tx, err := codec.DecodeJSON(f.txSchema, data)
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, tx)
	}
	return decoded, nil
}

// ConnectedPeers returns the node's connected peer list, unmodified.
func (f *Facade) ConnectedPeers(ctx context.Context) (json.RawMessage, error) {
	return f.invoke(ctx, "app:getConnectedPeers", struct{}{})
}

// DisconnectedPeers returns the node's disconnected peer list, unmodified.
func (f *Facade) DisconnectedPeers(ctx context.Context) (json.RawMessage, error) {
	return f.invoke(ctx, "app:getDisconnectedPeers", struct{}{})
}

// RegisteredActions returns the node's registered action names, unmodified.
func (f *Facade) RegisteredActions(ctx context.Context) (json.RawMessage, error) {
	return f.invoke(ctx, "app:getRegisteredActions", nil)
}

// NodeInfo returns the node's info object, unmodified.
func (f *Facade) NodeInfo(ctx context.Context) (json.RawMessage, error) {
	return f.invoke(ctx, "app:getNodeInfo", struct{}{})
}

// ForgingStatus returns the node's forging status list, unmodified.
func (f *Facade) ForgingStatus(ctx context.Context) (json.RawMessage, error) {
	return f.invoke(ctx, "app:getForgingStatus", struct{}{})
}

// SendTransaction broadcasts a signed transaction (hex-encoded wire form) and
// returns the node's acceptance result unmodified. No retry is attempted.
func (f *Facade) SendTransaction(ctx context.Context, encodedTx []byte) (json.RawMessage, error) {
	return f.invoke(ctx, "app:postTransaction", map[string]string{
		"transaction": hex.EncodeToString(encodedTx),
	})
}

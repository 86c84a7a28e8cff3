// Package builder turns business requests into signed, ready-to-broadcast
// domain transactions: it resolves the sender's nonce, computes derived
// fields, encrypts private payloads and signs against the network identifier.
package builder

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/chainsoffoods/foodchain/internal/config"
	"github.com/chainsoffoods/foodchain/internal/crypto"
	"github.com/chainsoffoods/foodchain/internal/ledger"
	"github.com/chainsoffoods/foodchain/internal/model"
	"github.com/chainsoffoods/foodchain/internal/schema"
)

const (
	// FieldSeparator joins the private fields inside an encrypted payload.
	FieldSeparator = " ***Field*** "

	// beddowsPerToken converts whole tokens to the smallest currency unit.
	beddowsPerToken = 100000000
)

var (
	// ErrPriceOverflow is returned when an order total exceeds the unsigned
	// 64-bit range.
	ErrPriceOverflow = errors.New("order price overflows uint64")
	// ErrEmptyOrder is returned for an order without items.
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// ErrEmptyMenu is returned for a menu without items.
	ErrEmptyMenu = errors.New("menu must contain at least one item")
)

// Builder constructs signed domain transactions. Builds for the same sender
// address are serialized so concurrent requests do not resolve the same
// nonce; distinct senders build in parallel.
type Builder struct {
	facade    *ledger.Facade
	params    config.ChainParams
	networkID []byte

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates a Builder over a query facade with pinned chain parameters.
func New(facade *ledger.Facade, params config.ChainParams, networkIdentifier []byte) *Builder {
	return &Builder{
		facade:    facade,
		params:    params,
		networkID: networkIdentifier,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (b *Builder) senderLock(address []byte) *sync.Mutex {
	key := string(address)
	b.locksMu.Lock()
	defer b.locksMu.Unlock()
	mu, ok := b.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		b.locks[key] = mu
	}
	return mu
}

// ResolveNonce returns the next transaction nonce for an address.
func (b *Builder) ResolveNonce(ctx context.Context, address []byte) (uint64, error) {
	return b.facade.AccountNonce(ctx, address)
}

// OrderTotal computes the order total in whole tokens: the sum over items of
// unit price times quantity. The sum is order-independent; any overflow of
// the unsigned 64-bit range fails with ErrPriceOverflow.
func OrderTotal(items []model.OrderItem) (uint64, error) {
	var total uint64
	for _, item := range items {
		if item.Price != 0 && item.Quantity > math.MaxUint64/item.Price {
			return 0, ErrPriceOverflow
		}
		part := item.Price * item.Quantity
		if total > math.MaxUint64-part {
			return 0, ErrPriceOverflow
		}
		total += part
	}
	return total, nil
}

// ConvertToBeddows converts whole tokens to beddows, the smallest unit.
func ConvertToBeddows(tokens uint64) (uint64, error) {
	if tokens > math.MaxUint64/beddowsPerToken {
		return 0, ErrPriceOverflow
	}
	return tokens * beddowsPerToken, nil
}

func (b *Builder) signerFor(cred model.Credential) (*crypto.KeyPair, error) {
	kp, err := crypto.KeyPairFromPassphrase(cred.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("invalid credential: %w", err)
	}
	return kp, nil
}

func (b *Builder) assemble(ctx context.Context, kp *crypto.KeyPair, assetID uint32, fee uint64, asset []byte) (*schema.Transaction, error) {
	address := kp.Address()

	mu := b.senderLock(address)
	mu.Lock()
	defer mu.Unlock()

	nonce, err := b.ResolveNonce(ctx, address)
	if err != nil {
		return nil, err
	}

	tx := &schema.Transaction{
		ModuleID:        b.params.ModuleID,
		AssetID:         assetID,
		Nonce:           nonce,
		Fee:             fee,
		SenderPublicKey: kp.PublicKey,
		Asset:           asset,
	}
	tx.Sign(b.networkID, kp.PrivateKey)
	return tx, nil
}

// BuildFoodOrder constructs and signs a food-order transaction. The delivery
// details are encrypted with the sender's passphrase and the restaurant's
// public key; only the restaurant can read them.
func (b *Builder) BuildFoodOrder(ctx context.Context, req model.OrderRequest, cred model.Credential, restaurant model.Restaurant) (*schema.Transaction, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	kp, err := b.signerFor(cred)
	if err != nil {
		return nil, err
	}

	recipient, err := crypto.AddressFromLisk32(restaurant.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid restaurant address: %w", err)
	}
	restaurantKey, err := hex.DecodeString(restaurant.PublicKey)
	if err != nil || len(restaurantKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid restaurant public key")
	}

	total, err := OrderTotal(req.Items)
	if err != nil {
		return nil, err
	}
	price, err := ConvertToBeddows(total)
	if err != nil {
		return nil, err
	}

	itemsJSON, err := json.Marshal(req.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize order items: %w", err)
	}

	sealed, err := crypto.EncryptMessage(
		req.DeliveryAddress+FieldSeparator+req.Phone+FieldSeparator+req.Username,
		cred.Passphrase,
		ed25519.PublicKey(restaurantKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt order details: %w", err)
	}

	asset := schema.FoodOrderAsset{
		Items:            string(itemsJSON),
		Price:            price,
		RestaurantData:   sealed.Cipher,
		RestaurantNonce:  sealed.Nonce,
		RecipientAddress: recipient,
	}
	return b.assemble(ctx, kp, b.params.FoodAssetID, b.params.FoodOrderFee, asset.Encode())
}

// BuildMenu constructs and signs a menu transaction. The menu is a
// self-published catalog: the recipient is the sender's own address.
func (b *Builder) BuildMenu(ctx context.Context, items []model.MenuItem, cred model.Credential) (*schema.Transaction, error) {
	if len(items) == 0 {
		return nil, ErrEmptyMenu
	}

	kp, err := b.signerFor(cred)
	if err != nil {
		return nil, err
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize menu items: %w", err)
	}

	asset := schema.ListAsset{
		Items:            string(itemsJSON),
		RecipientAddress: kp.Address(),
	}
	return b.assemble(ctx, kp, b.params.MenuAssetID, b.params.MenuFee, asset.Encode())
}

// BuildNews constructs and signs a news transaction, self-addressed like a
// menu but under its own asset ID.
func (b *Builder) BuildNews(ctx context.Context, items []model.NewsItem, cred model.Credential) (*schema.Transaction, error) {
	kp, err := b.signerFor(cred)
	if err != nil {
		return nil, err
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize news items: %w", err)
	}

	asset := schema.ListAsset{
		Items:            string(itemsJSON),
		RecipientAddress: kp.Address(),
	}
	return b.assemble(ctx, kp, b.params.NewsAssetID, b.params.NewsFee, asset.Encode())
}

// BuildProfile constructs and signs a profile transaction. The contact
// details are encrypted to the sender's own public key, so only the holder of
// the passphrase can decrypt them back.
func (b *Builder) BuildProfile(ctx context.Context, profile model.UserProfile, cred model.Credential) (*schema.Transaction, error) {
	kp, err := b.signerFor(cred)
	if err != nil {
		return nil, err
	}

	sealed, err := crypto.EncryptMessage(
		profile.Name+FieldSeparator+profile.DeliveryAddress+FieldSeparator+profile.Phone,
		cred.Passphrase,
		kp.PublicKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt profile details: %w", err)
	}

	asset := schema.ProfileAsset{
		Name:             profile.Name,
		ClientData:       sealed.Cipher,
		ClientNonce:      sealed.Nonce,
		RecipientAddress: kp.Address(),
	}
	return b.assemble(ctx, kp, b.params.ProfileAssetID, b.params.ProfileFee, asset.Encode())
}

// Broadcast submits a signed transaction and returns the node's result
// unmodified. Rejections are not retried; the caller re-resolves the nonce
// and resubmits if it wants to.
func (b *Builder) Broadcast(ctx context.Context, tx *schema.Transaction) (json.RawMessage, error) {
	return b.facade.SendTransaction(ctx, tx.Encode())
}

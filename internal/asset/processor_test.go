package asset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsoffoods/foodchain/internal/crypto"
	"github.com/chainsoffoods/foodchain/internal/model"
	"github.com/chainsoffoods/foodchain/internal/schema"
)

const restaurantPassphrase = "better across runway mansion jar route valid crack panic favorite smooth sword"

func restaurantKeys(t *testing.T) *crypto.KeyPair {
	t.Helper()
	kp, err := crypto.KeyPairFromPassphrase(restaurantPassphrase)
	require.NoError(t, err)
	return kp
}

func sidechainAddress() []byte {
	out := make([]byte, 20)
	out[0] = 0xfe
	return out
}

func menuTransaction(t *testing.T, kp *crypto.KeyPair, nonce uint64, recipient []byte) *schema.Transaction {
	t.Helper()
	raw, err := json.Marshal([]model.MenuItem{{
		Name:        "Margherita",
		Description: "Tomato, mozzarella, basil",
		Price:       8,
		Type:        1,
		Category:    1,
		Img:         "https://example.com/margherita.png",
	}})
	require.NoError(t, err)

	asset := schema.ListAsset{Items: string(raw), RecipientAddress: recipient}
	return &schema.Transaction{
		ModuleID:        ModuleID,
		AssetID:         MenuAssetID,
		Nonce:           nonce,
		SenderPublicKey: kp.PublicKey,
		Asset:           asset.Encode(),
	}
}

func TestProcessMenuTransfersFee(t *testing.T) {
	kp := restaurantKeys(t)
	store := NewMemStore()
	store.Put(Account{Address: kp.Address(), Balance: 5 * MenuPublicationFee, Nonce: 0})

	p := NewProcessor(sidechainAddress())
	tx := menuTransaction(t, kp, 0, kp.Address())
	require.NoError(t, p.Process(store, tx))

	sender, ok := store.Account(kp.Address())
	require.True(t, ok)
	assert.Equal(t, uint64(4*MenuPublicationFee), sender.Balance)
	assert.Equal(t, uint64(1), sender.Nonce)

	sidechain, ok := store.Account(sidechainAddress())
	require.True(t, ok)
	assert.Equal(t, uint64(MenuPublicationFee), sidechain.Balance)
}

func TestProcessRejectsReplay(t *testing.T) {
	kp := restaurantKeys(t)
	store := NewMemStore()
	store.Put(Account{Address: kp.Address(), Balance: 5 * MenuPublicationFee, Nonce: 0})

	p := NewProcessor(sidechainAddress())
	tx := menuTransaction(t, kp, 0, kp.Address())
	require.NoError(t, p.Process(store, tx))

	// Same nonce again: the account has moved on.
	err := p.Process(store, tx)
	assert.ErrorIs(t, err, ErrNonceMismatch)

	sender, _ := store.Account(kp.Address())
	assert.Equal(t, uint64(4*MenuPublicationFee), sender.Balance)
	assert.Equal(t, uint64(1), sender.Nonce)
}

func TestProcessRejectsFutureNonce(t *testing.T) {
	kp := restaurantKeys(t)
	store := NewMemStore()
	store.Put(Account{Address: kp.Address(), Balance: 5 * MenuPublicationFee, Nonce: 0})

	p := NewProcessor(sidechainAddress())
	err := p.Process(store, menuTransaction(t, kp, 3, kp.Address()))
	assert.ErrorIs(t, err, ErrNonceMismatch)
}

func TestProcessInsufficientFundsLeavesStateUntouched(t *testing.T) {
	kp := restaurantKeys(t)
	store := NewMemStore()
	store.Put(Account{Address: kp.Address(), Balance: 10, Nonce: 0})

	p := NewProcessor(sidechainAddress())
	err := p.Process(store, menuTransaction(t, kp, 0, kp.Address()))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	sender, _ := store.Account(kp.Address())
	assert.Equal(t, uint64(10), sender.Balance)
	assert.Equal(t, uint64(0), sender.Nonce)

	_, ok := store.Account(sidechainAddress())
	assert.False(t, ok, "no partial credit may land")
}

func TestProcessInvalidRecipientLeavesStateUntouched(t *testing.T) {
	kp := restaurantKeys(t)
	store := NewMemStore()
	store.Put(Account{Address: kp.Address(), Balance: 5 * MenuPublicationFee, Nonce: 0})

	other := make([]byte, 20)
	other[0] = 0x99

	p := NewProcessor(sidechainAddress())
	err := p.Process(store, menuTransaction(t, kp, 0, other))
	assert.True(t, IsKind(err, KindInvalidRecipient), "got %v", err)

	sender, _ := store.Account(kp.Address())
	assert.Equal(t, uint64(5*MenuPublicationFee), sender.Balance)
	assert.Equal(t, uint64(0), sender.Nonce)
}

func TestProcessInvalidPayloadLeavesStateUntouched(t *testing.T) {
	kp := restaurantKeys(t)
	store := NewMemStore()
	store.Put(Account{Address: kp.Address(), Balance: 5 * MenuPublicationFee, Nonce: 0})

	tx := menuTransaction(t, kp, 0, kp.Address())
	empty := schema.ListAsset{Items: "", RecipientAddress: kp.Address()}
	tx.Asset = empty.Encode()

	p := NewProcessor(sidechainAddress())
	err := p.Process(store, tx)
	assert.True(t, IsKind(err, KindEmptyMenu), "got %v", err)

	sender, _ := store.Account(kp.Address())
	assert.Equal(t, uint64(0), sender.Nonce)
}

func TestProcessUnknownAsset(t *testing.T) {
	kp := restaurantKeys(t)
	tx := menuTransaction(t, kp, 0, kp.Address())
	tx.AssetID = 9999

	p := NewProcessor(sidechainAddress())
	err := p.Process(NewMemStore(), tx)
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestProcessFoodOrder(t *testing.T) {
	kp := restaurantKeys(t)
	store := NewMemStore()
	store.Put(Account{Address: kp.Address(), Balance: 100, Nonce: 2})

	raw, err := json.Marshal([]model.OrderItem{{Name: "Pizza", Quantity: 2, Price: 5}})
	require.NoError(t, err)
	asset := schema.FoodOrderAsset{
		Items:            string(raw),
		Price:            1000000000,
		RestaurantData:   "deadbeef",
		RestaurantNonce:  "cafe",
		RecipientAddress: sidechainAddress(),
	}
	tx := &schema.Transaction{
		ModuleID:        ModuleID,
		AssetID:         FoodAssetID,
		Nonce:           2,
		SenderPublicKey: kp.PublicKey,
		Asset:           asset.Encode(),
	}

	p := NewProcessor(sidechainAddress())
	require.NoError(t, p.Process(store, tx))

	// An order settles off-chain: the nonce advances, the balance does not move.
	sender, _ := store.Account(kp.Address())
	assert.Equal(t, uint64(100), sender.Balance)
	assert.Equal(t, uint64(3), sender.Nonce)
}

func TestHandlerRegistry(t *testing.T) {
	p := NewProcessor(sidechainAddress())

	for _, tc := range []struct {
		id   uint32
		name string
	}{
		{ProfileAssetID, "ProfileAsset"},
		{FoodAssetID, "FoodAsset"},
		{MenuAssetID, "MenuAsset"},
		{NewsAssetID, "NewsAsset"},
	} {
		h, ok := p.Handler(tc.id)
		require.True(t, ok, "asset %d", tc.id)
		assert.Equal(t, tc.name, h.Name())
		assert.Equal(t, tc.id, h.ID())
	}

	_, ok := p.Handler(7)
	assert.False(t, ok)
}

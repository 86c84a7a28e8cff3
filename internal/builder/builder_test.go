package builder

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsoffoods/foodchain/internal/codec"
	"github.com/chainsoffoods/foodchain/internal/config"
	"github.com/chainsoffoods/foodchain/internal/crypto"
	"github.com/chainsoffoods/foodchain/internal/ledger"
	"github.com/chainsoffoods/foodchain/internal/model"
	"github.com/chainsoffoods/foodchain/internal/schema"
)

const (
	clientPassphrase     = "wagon stock borrow episode laundry kitten salute link globe zero feed marble"
	restaurantPassphrase = "better across runway mansion jar route valid crack panic favorite smooth sword"
)

const nodeSchemas = `{
	"account": {
		"type": "object",
		"properties": {
			"address": {"dataType": "bytes", "fieldNumber": 1},
			"token": {
				"type": "object",
				"fieldNumber": 2,
				"properties": {"balance": {"dataType": "uint64", "fieldNumber": 1}}
			},
			"sequence": {
				"type": "object",
				"fieldNumber": 3,
				"properties": {"nonce": {"dataType": "uint64", "fieldNumber": 1}}
			}
		}
	},
	"block": {"type": "object", "properties": {}},
	"transaction": {"type": "object", "properties": {}}
}`

// fakeNode serves the account queries the builder makes while assembling a
// transaction.
type fakeNode struct {
	nonces map[string]uint64
}

func (f *fakeNode) Invoke(_ context.Context, method string, params interface{}) (json.RawMessage, error) {
	switch method {
	case "app:getSchema":
		return json.RawMessage(nodeSchemas), nil
	case "app:getAccount":
		addressHex := params.(map[string]string)["address"]
		nonce, ok := f.nonces[addressHex]
		if !ok {
			return nil, &ledger.RPCError{Code: -32600, Message: fmt.Sprintf("Specified key accounts:address:%s does not exist", addressHex)}
		}
		address, err := hex.DecodeString(addressHex)
		if err != nil {
			return nil, err
		}
		sequence := codec.NewWriter()
		sequence.WriteUInt(1, nonce)
		account := codec.NewWriter()
		account.WriteBytes(1, address)
		account.WriteBytes(3, sequence.Bytes())
		return json.Marshal(hex.EncodeToString(account.Bytes()))
	}
	return nil, fmt.Errorf("unexpected method %s", method)
}

func (f *fakeNode) Subscribe(string) (<-chan json.RawMessage, error) {
	return make(chan json.RawMessage), nil
}

func testNetworkID(t *testing.T) []byte {
	t.Helper()
	id, err := hex.DecodeString("68bc1b08c5ee6218d58df4909116e35a4dda0bf723f018b6c315dba9851ea4de")
	require.NoError(t, err)
	return id
}

func newTestBuilder(t *testing.T, nonces map[string]uint64) *Builder {
	t.Helper()
	params, err := config.Variant(config.VariantDapp)
	require.NoError(t, err)
	facade := ledger.NewFacade(&fakeNode{nonces: nonces}, time.Second)
	return New(facade, params, testNetworkID(t))
}

func senderAddressHex(t *testing.T, passphrase string) string {
	t.Helper()
	kp, err := crypto.KeyPairFromPassphrase(passphrase)
	require.NoError(t, err)
	return hex.EncodeToString(kp.Address())
}

func testRestaurant(t *testing.T) model.Restaurant {
	t.Helper()
	kp, err := crypto.KeyPairFromPassphrase(restaurantPassphrase)
	require.NoError(t, err)
	address, err := crypto.Lisk32Address(kp.Address())
	require.NoError(t, err)
	return model.Restaurant{
		Address:   address,
		PublicKey: hex.EncodeToString(kp.PublicKey),
	}
}

func testOrder() model.OrderRequest {
	return model.OrderRequest{
		Items: []model.OrderItem{
			{Name: "Pizza", FoodType: 1, Quantity: 2, Price: 5},
			{Name: "Tiramisu", FoodType: 2, Quantity: 1, Price: 3},
		},
		Username:        "mario",
		DeliveryAddress: "Via Roma 1",
		Phone:           "+39 055 000000",
	}
}

func TestBuildFoodOrder(t *testing.T) {
	b := newTestBuilder(t, map[string]uint64{senderAddressHex(t, clientPassphrase): 7})
	restaurant := testRestaurant(t)

	tx, err := b.BuildFoodOrder(context.Background(), testOrder(), model.Credential{Passphrase: clientPassphrase}, restaurant)
	require.NoError(t, err)

	params, _ := config.Variant(config.VariantDapp)
	assert.Equal(t, params.ModuleID, tx.ModuleID)
	assert.Equal(t, params.FoodAssetID, tx.AssetID)
	assert.Equal(t, params.FoodOrderFee, tx.Fee)
	assert.Equal(t, uint64(7), tx.Nonce)
	assert.NoError(t, tx.Verify(testNetworkID(t)))

	asset, err := schema.DecodeFoodOrderAsset(tx.Asset)
	require.NoError(t, err)

	// 2*5 + 1*3 = 13 tokens, carried on chain in beddows.
	assert.Equal(t, uint64(1300000000), asset.Price)

	recipient, err := crypto.AddressFromLisk32(restaurant.Address)
	require.NoError(t, err)
	assert.Equal(t, recipient, asset.RecipientAddress)

	var items []model.OrderItem
	require.NoError(t, json.Unmarshal([]byte(asset.Items), &items))
	assert.Equal(t, testOrder().Items, items)
}

func TestBuildFoodOrderPrivacy(t *testing.T) {
	b := newTestBuilder(t, map[string]uint64{senderAddressHex(t, clientPassphrase): 0})
	restaurant := testRestaurant(t)
	order := testOrder()

	tx, err := b.BuildFoodOrder(context.Background(), order, model.Credential{Passphrase: clientPassphrase}, restaurant)
	require.NoError(t, err)

	asset, err := schema.DecodeFoodOrderAsset(tx.Asset)
	require.NoError(t, err)

	// Delivery details are not on chain in clear text.
	assert.NotContains(t, asset.RestaurantData, order.DeliveryAddress)
	assert.NotContains(t, asset.RestaurantData, order.Phone)

	// Only the restaurant's passphrase opens them.
	client, err := crypto.KeyPairFromPassphrase(clientPassphrase)
	require.NoError(t, err)
	plain, err := crypto.DecryptMessage(asset.RestaurantData, asset.RestaurantNonce, restaurantPassphrase, client.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, order.DeliveryAddress+FieldSeparator+order.Phone+FieldSeparator+order.Username, plain)
}

func TestBuildFoodOrderDeterministic(t *testing.T) {
	b := newTestBuilder(t, map[string]uint64{senderAddressHex(t, clientPassphrase): 3})
	restaurant := testRestaurant(t)

	first, err := b.BuildFoodOrder(context.Background(), testOrder(), model.Credential{Passphrase: clientPassphrase}, restaurant)
	require.NoError(t, err)
	second, err := b.BuildFoodOrder(context.Background(), testOrder(), model.Credential{Passphrase: clientPassphrase}, restaurant)
	require.NoError(t, err)

	assert.Equal(t, first.Encode(), second.Encode())
	assert.Equal(t, first.ID(), second.ID())
}

func TestBuildFoodOrderEmpty(t *testing.T) {
	b := newTestBuilder(t, nil)
	_, err := b.BuildFoodOrder(context.Background(), model.OrderRequest{}, model.Credential{Passphrase: clientPassphrase}, testRestaurant(t))
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestBuildFoodOrderUnknownAccount(t *testing.T) {
	b := newTestBuilder(t, map[string]uint64{})
	_, err := b.BuildFoodOrder(context.Background(), testOrder(), model.Credential{Passphrase: clientPassphrase}, testRestaurant(t))
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestBuildFoodOrderInvalidRestaurant(t *testing.T) {
	b := newTestBuilder(t, map[string]uint64{senderAddressHex(t, clientPassphrase): 0})

	_, err := b.BuildFoodOrder(context.Background(), testOrder(), model.Credential{Passphrase: clientPassphrase}, model.Restaurant{
		Address:   "not-a-lisk32-address",
		PublicKey: testRestaurant(t).PublicKey,
	})
	assert.ErrorIs(t, err, crypto.ErrInvalidLisk32)

	_, err = b.BuildFoodOrder(context.Background(), testOrder(), model.Credential{Passphrase: clientPassphrase}, model.Restaurant{
		Address:   testRestaurant(t).Address,
		PublicKey: "zzzz",
	})
	assert.Error(t, err)
}

func TestOrderTotal(t *testing.T) {
	items := testOrder().Items
	total, err := OrderTotal(items)
	require.NoError(t, err)
	assert.Equal(t, uint64(13), total)

	// The total does not depend on item order.
	reversed := []model.OrderItem{items[1], items[0]}
	reversedTotal, err := OrderTotal(reversed)
	require.NoError(t, err)
	assert.Equal(t, total, reversedTotal)
}

func TestOrderTotalOverflow(t *testing.T) {
	_, err := OrderTotal([]model.OrderItem{{Name: "caviar", Quantity: 1 << 40, Price: 1 << 40}})
	assert.ErrorIs(t, err, ErrPriceOverflow)

	_, err = OrderTotal([]model.OrderItem{
		{Name: "a", Quantity: 1, Price: 1<<64 - 1},
		{Name: "b", Quantity: 1, Price: 1},
	})
	assert.ErrorIs(t, err, ErrPriceOverflow)
}

func TestConvertToBeddows(t *testing.T) {
	beddows, err := ConvertToBeddows(13)
	require.NoError(t, err)
	assert.Equal(t, uint64(1300000000), beddows)

	_, err = ConvertToBeddows(1 << 60)
	assert.ErrorIs(t, err, ErrPriceOverflow)
}

func TestBuildMenu(t *testing.T) {
	b := newTestBuilder(t, map[string]uint64{senderAddressHex(t, restaurantPassphrase): 4})

	items := []model.MenuItem{{
		Name:        "Margherita",
		Description: "Tomato, mozzarella, basil",
		Price:       8,
		Type:        1,
		Category:    1,
		Img:         "https://example.com/margherita.png",
	}}
	tx, err := b.BuildMenu(context.Background(), items, model.Credential{Passphrase: restaurantPassphrase})
	require.NoError(t, err)

	params, _ := config.Variant(config.VariantDapp)
	assert.Equal(t, params.MenuAssetID, tx.AssetID)
	assert.Equal(t, uint64(4), tx.Nonce)
	assert.NoError(t, tx.Verify(testNetworkID(t)))

	asset, err := schema.DecodeListAsset(tx.Asset)
	require.NoError(t, err)

	kp, err := crypto.KeyPairFromPassphrase(restaurantPassphrase)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), asset.RecipientAddress)
	assert.True(t, strings.Contains(asset.Items, "Margherita"))
}

func TestBuildMenuEmpty(t *testing.T) {
	b := newTestBuilder(t, nil)
	_, err := b.BuildMenu(context.Background(), nil, model.Credential{Passphrase: restaurantPassphrase})
	assert.ErrorIs(t, err, ErrEmptyMenu)
}

func TestBuildNews(t *testing.T) {
	b := newTestBuilder(t, map[string]uint64{senderAddressHex(t, restaurantPassphrase): 9})

	tx, err := b.BuildNews(context.Background(), []model.NewsItem{{Title: "opening", Body: "we are open", Date: "2021-06-01"}}, model.Credential{Passphrase: restaurantPassphrase})
	require.NoError(t, err)

	params, _ := config.Variant(config.VariantDapp)
	assert.Equal(t, params.NewsAssetID, tx.AssetID)
	assert.NoError(t, tx.Verify(testNetworkID(t)))
}

func TestBuildProfile(t *testing.T) {
	b := newTestBuilder(t, map[string]uint64{senderAddressHex(t, clientPassphrase): 1})

	profile := model.UserProfile{
		Username:        "mario",
		Name:            "Mario Rossi",
		DeliveryAddress: "Via Roma 1",
		Phone:           "+39 055 000000",
	}
	tx, err := b.BuildProfile(context.Background(), profile, model.Credential{Passphrase: clientPassphrase})
	require.NoError(t, err)

	params, _ := config.Variant(config.VariantDapp)
	assert.Equal(t, params.ProfileAssetID, tx.AssetID)
	assert.Equal(t, params.ProfileFee, tx.Fee)
	assert.NoError(t, tx.Verify(testNetworkID(t)))

	asset, err := schema.DecodeProfileAsset(tx.Asset)
	require.NoError(t, err)
	assert.Equal(t, profile.Name, asset.Name)

	// Self-encrypted: the owner's passphrase opens it back.
	kp, err := crypto.KeyPairFromPassphrase(clientPassphrase)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), asset.RecipientAddress)
	plain, err := crypto.DecryptMessage(asset.ClientData, asset.ClientNonce, clientPassphrase, kp.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, profile.Name+FieldSeparator+profile.DeliveryAddress+FieldSeparator+profile.Phone, plain)
}

package asset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsoffoods/foodchain/internal/model"
	"github.com/chainsoffoods/foodchain/internal/schema"
)

func foodPayload(t *testing.T, items []model.OrderItem, price uint64) []byte {
	t.Helper()
	raw, err := json.Marshal(items)
	require.NoError(t, err)
	asset := schema.FoodOrderAsset{
		Items:            string(raw),
		Price:            price,
		RestaurantData:   "deadbeef",
		RestaurantNonce:  "cafe",
		RecipientAddress: make([]byte, 20),
	}
	return asset.Encode()
}

func testOrderItems() []model.OrderItem {
	return []model.OrderItem{
		{Name: "Pizza", Quantity: 2, Price: 5},
		{Name: "Tiramisu", Quantity: 1, Price: 3},
	}
}

func TestFoodValidateAccepts(t *testing.T) {
	// 2*5 + 1*3 = 13 tokens = 1300000000 beddows
	assert.NoError(t, NewFoodHandler().Validate(foodPayload(t, testOrderItems(), 1300000000)))
}

func TestFoodValidatePriceMismatch(t *testing.T) {
	h := NewFoodHandler()

	err := h.Validate(foodPayload(t, testOrderItems(), 1300000001))
	assert.True(t, IsKind(err, KindInvalidPrice), "got %v", err)

	// A price in whole tokens instead of beddows is also wrong.
	err = h.Validate(foodPayload(t, testOrderItems(), 13))
	assert.True(t, IsKind(err, KindInvalidPrice), "got %v", err)
}

func TestFoodValidateRejects(t *testing.T) {
	h := NewFoodHandler()

	cases := map[string]struct {
		items []model.OrderItem
		kind  ErrorKind
	}{
		"no items": {
			items: []model.OrderItem{},
			kind:  KindEmptyMenu,
		},
		"unnamed item": {
			items: []model.OrderItem{{Quantity: 1, Price: 1}},
			kind:  KindInvalidName,
		},
		"zero quantity": {
			items: []model.OrderItem{{Name: "Pizza", Quantity: 0, Price: 5}},
			kind:  KindInvalidQuantity,
		},
		"overflowing total": {
			items: []model.OrderItem{{Name: "caviar", Quantity: 1 << 40, Price: 1 << 40}},
			kind:  KindInvalidPrice,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := h.Validate(foodPayload(t, tc.items, 0))
			require.Error(t, err)
			assert.True(t, IsKind(err, tc.kind), "expected %s, got %v", tc.kind, err)
		})
	}
}

func TestFoodValidateMissingEncryptedDetails(t *testing.T) {
	raw, err := json.Marshal(testOrderItems())
	require.NoError(t, err)
	asset := schema.FoodOrderAsset{
		Items:            string(raw),
		Price:            1300000000,
		RecipientAddress: make([]byte, 20),
	}

	verr := NewFoodHandler().Validate(asset.Encode())
	assert.True(t, IsKind(verr, KindMissingField), "got %v", verr)
}

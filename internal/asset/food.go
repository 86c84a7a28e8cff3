package asset

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/chainsoffoods/foodchain/internal/model"
	"github.com/chainsoffoods/foodchain/internal/schema"
)

const foodBeddowsPerToken = 100000000

// FoodHandler validates and applies food-order transactions: a client
// ordering from a restaurant, with delivery details encrypted for the
// restaurant only.
type FoodHandler struct{}

// NewFoodHandler creates the food-order handler.
func NewFoodHandler() *FoodHandler {
	return &FoodHandler{}
}

func (h *FoodHandler) Name() string { return "FoodAsset" }
func (h *FoodHandler) ID() uint32   { return FoodAssetID }

// Validate checks the ordered items and that the embedded price equals the
// item total. It fails on the first violation.
func (h *FoodHandler) Validate(payload []byte) error {
	asset, err := schema.DecodeFoodOrderAsset(payload)
	if err != nil {
		return err
	}
	if asset.Items == "" {
		return &ValidationError{Kind: KindEmptyMenu, Field: "items", Reason: "an order should include at least one item"}
	}
	if asset.RestaurantData == "" || asset.RestaurantNonce == "" {
		return &ValidationError{Kind: KindMissingField, Field: "restaurantData", Reason: "encrypted delivery details are required"}
	}

	var items []model.OrderItem
	if err := json.Unmarshal([]byte(asset.Items), &items); err != nil {
		return fmt.Errorf("failed to parse order items: %w", err)
	}
	if len(items) == 0 {
		return &ValidationError{Kind: KindEmptyMenu, Field: "items", Reason: "an order should include at least one item"}
	}

	var total uint64
	for i, item := range items {
		field := func(name string) string {
			return fmt.Sprintf("items[%d].%s", i, name)
		}
		if item.Name == "" || len(item.Name) > maxNameLength {
			return &ValidationError{Kind: KindInvalidName, Field: field("name"), Reason: "a non-empty string no longer than 200 characters is required"}
		}
		if item.Quantity == 0 {
			return &ValidationError{Kind: KindInvalidQuantity, Field: field("quantity"), Reason: "a number bigger than 0 is required"}
		}
		if item.Price != 0 && item.Quantity > math.MaxUint64/item.Price {
			return &ValidationError{Kind: KindInvalidPrice, Field: field("price"), Reason: "order total overflows"}
		}
		part := item.Price * item.Quantity
		if total > math.MaxUint64-part {
			return &ValidationError{Kind: KindInvalidPrice, Field: "price", Reason: "order total overflows"}
		}
		total += part
	}

	if total > math.MaxUint64/foodBeddowsPerToken || total*foodBeddowsPerToken != asset.Price {
		return &ValidationError{Kind: KindInvalidPrice, Field: "price", Reason: "price does not equal the item total"}
	}
	return nil
}

// Apply carries no fee transfer of its own: the order price settles off-chain
// and the transaction fee is charged by the runtime. Apply only confirms the
// payload addresses a counterparty, not the sender itself.
func (h *FoodHandler) Apply(ctx ApplyContext) error {
	asset, err := schema.DecodeFoodOrderAsset(ctx.Payload)
	if err != nil {
		return err
	}
	if len(asset.RecipientAddress) == 0 {
		return &ValidationError{Kind: KindInvalidRecipient, Field: "recipientAddress", Reason: "an order must address a restaurant"}
	}
	return nil
}

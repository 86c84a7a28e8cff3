package asset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/chainsoffoods/foodchain/internal/model"
	"github.com/chainsoffoods/foodchain/internal/schema"
)

// MenuHandler validates and applies menu transactions: a restaurant
// publishing its own catalog against a publication fee.
type MenuHandler struct {
	fee uint64
}

// NewMenuHandler creates the menu handler with the sidechain's publication fee.
func NewMenuHandler() *MenuHandler {
	return &MenuHandler{fee: MenuPublicationFee}
}

func (h *MenuHandler) Name() string { return "MenuAsset" }
func (h *MenuHandler) ID() uint32   { return MenuAssetID }

// Validate checks every menu item. It fails on the first violation.
func (h *MenuHandler) Validate(payload []byte) error {
	asset, err := schema.DecodeListAsset(payload)
	if err != nil {
		return err
	}
	if asset.Items == "" {
		return &ValidationError{Kind: KindEmptyMenu, Field: "items", Reason: "menu should include at least one food or beverage"}
	}

	var items []model.MenuItem
	if err := json.Unmarshal([]byte(asset.Items), &items); err != nil {
		return fmt.Errorf("failed to parse menu items: %w", err)
	}
	if len(items) == 0 {
		return &ValidationError{Kind: KindEmptyMenu, Field: "items", Reason: "menu should include at least one food or beverage"}
	}

	for i, item := range items {
		if err := validateMenuItem(i, item); err != nil {
			return err
		}
	}
	return nil
}

func validateMenuItem(index int, item model.MenuItem) error {
	field := func(name string) string {
		return fmt.Sprintf("items[%d].%s", index, name)
	}
	if item.Name == "" || len(item.Name) > maxNameLength {
		return &ValidationError{Kind: KindInvalidName, Field: field("name"), Reason: "a non-empty string no longer than 200 characters is required"}
	}
	if item.Description == "" || len(item.Description) > maxDescriptionLength {
		return &ValidationError{Kind: KindInvalidDescription, Field: field("description"), Reason: "a non-empty string no longer than 2000 characters is required"}
	}
	if item.Price < 0 {
		return &ValidationError{Kind: KindInvalidPrice, Field: field("price"), Reason: "a value equal or bigger than 0 is required"}
	}
	if item.Discount < 0 {
		return &ValidationError{Kind: KindInvalidDiscount, Field: field("discount"), Reason: "a value equal or bigger than 0 is required"}
	}
	if item.Type <= 0 {
		return &ValidationError{Kind: KindInvalidType, Field: field("type"), Reason: "a number bigger than 0 is required"}
	}
	if item.Category <= 0 {
		return &ValidationError{Kind: KindInvalidCategory, Field: field("category"), Reason: "a number bigger than 0 is required"}
	}
	if item.Img == "" {
		return &ValidationError{Kind: KindMissingImage, Field: field("img"), Reason: "an http address of the food image is required"}
	}
	return nil
}

// Apply debits the publication fee from the restaurant and credits it to the
// sidechain account. Only the restaurant can define its own menu: the
// recipient must be the sender itself.
func (h *MenuHandler) Apply(ctx ApplyContext) error {
	asset, err := schema.DecodeListAsset(ctx.Payload)
	if err != nil {
		return err
	}
	if !bytes.Equal(ctx.SenderAddress, asset.RecipientAddress) {
		return &ValidationError{Kind: KindInvalidRecipient, Field: "recipientAddress", Reason: "only the restaurant can define its own food menu"}
	}
	return transferFee(ctx.State, ctx.SenderAddress, ctx.SidechainAddress, h.fee)
}

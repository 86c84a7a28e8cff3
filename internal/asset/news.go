package asset

import (
	"bytes"

	"github.com/chainsoffoods/foodchain/internal/schema"
)

// NewsHandler validates and applies news transactions: a restaurant
// publishing announcements under its own address.
type NewsHandler struct{}

// NewNewsHandler creates the news handler.
func NewNewsHandler() *NewsHandler {
	return &NewsHandler{}
}

func (h *NewsHandler) Name() string { return "NewsAsset" }
func (h *NewsHandler) ID() uint32   { return NewsAssetID }

// Validate requires a non-empty items payload.
func (h *NewsHandler) Validate(payload []byte) error {
	asset, err := schema.DecodeListAsset(payload)
	if err != nil {
		return err
	}
	if asset.Items == "" {
		return &ValidationError{Kind: KindEmptyMenu, Field: "items", Reason: "news should include at least one item"}
	}
	return nil
}

// Apply enforces that news is self-addressed.
func (h *NewsHandler) Apply(ctx ApplyContext) error {
	asset, err := schema.DecodeListAsset(ctx.Payload)
	if err != nil {
		return err
	}
	if !bytes.Equal(ctx.SenderAddress, asset.RecipientAddress) {
		return &ValidationError{Kind: KindInvalidRecipient, Field: "recipientAddress", Reason: "only the restaurant can publish its own news"}
	}
	return nil
}

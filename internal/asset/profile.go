package asset

import (
	"bytes"

	"github.com/chainsoffoods/foodchain/internal/schema"
)

// ProfileHandler validates and applies profile transactions: a user
// publishing their own encrypted contact card.
type ProfileHandler struct{}

// NewProfileHandler creates the profile handler.
func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

func (h *ProfileHandler) Name() string { return "ProfileAsset" }
func (h *ProfileHandler) ID() uint32   { return ProfileAssetID }

// Validate requires name, clientData and clientNonce to be present.
func (h *ProfileHandler) Validate(payload []byte) error {
	asset, err := schema.DecodeProfileAsset(payload)
	if err != nil {
		return err
	}
	if asset.Name == "" {
		return &ValidationError{Kind: KindMissingField, Field: "name", Reason: "a non-empty string is required"}
	}
	if asset.ClientData == "" {
		return &ValidationError{Kind: KindMissingField, Field: "clientData", Reason: "a non-empty string is required"}
	}
	if asset.ClientNonce == "" {
		return &ValidationError{Kind: KindMissingField, Field: "clientNonce", Reason: "a non-empty string is required"}
	}
	return nil
}

// Apply enforces that a profile is self-addressed: only the owner may publish
// their own profile.
func (h *ProfileHandler) Apply(ctx ApplyContext) error {
	asset, err := schema.DecodeProfileAsset(ctx.Payload)
	if err != nil {
		return err
	}
	if !bytes.Equal(ctx.SenderAddress, asset.RecipientAddress) {
		return &ValidationError{Kind: KindInvalidRecipient, Field: "recipientAddress", Reason: "only the owner can publish their own profile"}
	}
	return nil
}

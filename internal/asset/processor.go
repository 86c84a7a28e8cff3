package asset

import (
	"fmt"

	"github.com/chainsoffoods/foodchain/internal/crypto"
	"github.com/chainsoffoods/foodchain/internal/schema"
)

// Processor drives a transaction through the ledger-side lifecycle:
// unvalidated, then valid, then applied, in one batch. Any failure rejects
// the transaction and leaves state untouched; the rest of the block is
// unaffected. The host's block pipeline is single-writer per account, so the
// processor adds no locking of its own.
type Processor struct {
	registry  map[uint32]Handler
	sidechain []byte
}

// NewProcessor registers the closed handler set against the sidechain
// account that collects publication fees.
func NewProcessor(sidechainAddress []byte) *Processor {
	p := &Processor{
		registry:  make(map[uint32]Handler),
		sidechain: sidechainAddress,
	}
	for _, h := range []Handler{
		NewProfileHandler(),
		NewFoodHandler(),
		NewMenuHandler(),
		NewNewsHandler(),
	} {
		p.registry[h.ID()] = h
	}
	return p
}

// Handler returns the registered handler for an asset ID.
func (p *Processor) Handler(assetID uint32) (Handler, bool) {
	h, ok := p.registry[assetID]
	return h, ok
}

// Process validates and applies one included transaction. On success the
// sender's nonce advances by one within the same commit as the balance
// mutations, so a replay with the old nonce is rejected.
func (p *Processor) Process(rt Runtime, tx *schema.Transaction) error {
	h, ok := p.registry[tx.AssetID]
	if !ok {
		return fmt.Errorf("asset %d: %w", tx.AssetID, ErrUnknownAsset)
	}

	sender := crypto.AddressFromPublicKey(tx.SenderPublicKey)

	return rt.InBatch(func(state StateBatch) error {
		account, err := state.GetAccount(sender)
		if err != nil {
			return err
		}
		if tx.Nonce != account.Nonce {
			return fmt.Errorf("expected nonce %d, got %d: %w", account.Nonce, tx.Nonce, ErrNonceMismatch)
		}

		if err := h.Validate(tx.Asset); err != nil {
			return err
		}

		err = h.Apply(ApplyContext{
			SenderAddress:    sender,
			SidechainAddress: p.sidechain,
			Payload:          tx.Asset,
			State:            state,
		})
		if err != nil {
			return err
		}

		// Re-read: apply may have moved the sender's balance.
		account, err = state.GetAccount(sender)
		if err != nil {
			return err
		}
		account.Nonce++
		return state.SetAccount(account)
	})
}

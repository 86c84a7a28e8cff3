package schema

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/chainsoffoods/foodchain/internal/codec"
)

// Transaction field numbers in the base transaction schema.
const (
	txModuleIDField  = 1
	txAssetIDField   = 2
	txNonceField     = 3
	txFeeField       = 4
	txSenderKeyField = 5
	txAssetField     = 6
	txSignatureField = 7
)

// Transaction is a signed domain transaction in its wire shape. Once signed it
// must be treated as immutable: any mutation invalidates the signature.
type Transaction struct {
	ModuleID        uint32   `json:"moduleID" fieldNumber:"1"`
	AssetID         uint32   `json:"assetID" fieldNumber:"2"`
	Nonce           uint64   `json:"nonce" fieldNumber:"3"`
	Fee             uint64   `json:"fee" fieldNumber:"4"`
	SenderPublicKey []byte   `json:"senderPublicKey" fieldNumber:"5"`
	Asset           []byte   `json:"asset" fieldNumber:"6"`
	Signatures      [][]byte `json:"signatures" fieldNumber:"7"`
}

func (t *Transaction) encode(withSignatures bool) []byte {
	w := codec.NewWriter()
	w.WriteUInt(txModuleIDField, uint64(t.ModuleID))
	w.WriteUInt(txAssetIDField, uint64(t.AssetID))
	w.WriteUInt(txNonceField, t.Nonce)
	w.WriteUInt(txFeeField, t.Fee)
	w.WriteBytes(txSenderKeyField, t.SenderPublicKey)
	w.WriteBytes(txAssetField, t.Asset)
	if withSignatures {
		for _, sig := range t.Signatures {
			w.WriteBytes(txSignatureField, sig)
		}
	}
	return w.Bytes()
}

// Encode serializes the full signed transaction.
func (t *Transaction) Encode() []byte {
	return t.encode(true)
}

// SigningBytes returns the bytes covered by the signature: the network
// identifier followed by the unsigned transaction encoding. Signatures are
// only valid on the network they were scoped to.
func (t *Transaction) SigningBytes(networkIdentifier []byte) []byte {
	unsigned := t.encode(false)
	out := make([]byte, 0, len(networkIdentifier)+len(unsigned))
	out = append(out, networkIdentifier...)
	return append(out, unsigned...)
}

// Sign computes and attaches the sender signature. Ed25519 is deterministic:
// identical payload, nonce and network identifier yield an identical signature.
func (t *Transaction) Sign(networkIdentifier []byte, priv ed25519.PrivateKey) {
	sig := ed25519.Sign(priv, t.SigningBytes(networkIdentifier))
	t.Signatures = [][]byte{sig}
}

// Verify checks the sender signature against the embedded public key.
func (t *Transaction) Verify(networkIdentifier []byte) error {
	if len(t.Signatures) == 0 {
		return fmt.Errorf("transaction has no signature")
	}
	if len(t.SenderPublicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("invalid sender public key length %d", len(t.SenderPublicKey))
	}
	if !ed25519.Verify(ed25519.PublicKey(t.SenderPublicKey), t.SigningBytes(networkIdentifier), t.Signatures[0]) {
		return fmt.Errorf("invalid transaction signature")
	}
	return nil
}

// ID is the transaction identifier: the SHA-256 digest of the signed encoding.
func (t *Transaction) ID() []byte {
	sum := sha256.Sum256(t.Encode())
	return sum[:]
}

// DecodeTransaction deserializes a wire-encoded transaction.
func DecodeTransaction(data []byte) (*Transaction, error) {
	var t Transaction
	r := codec.NewReader(data)
	for r.More() {
		f, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		switch f.Number {
		case txModuleIDField:
			t.ModuleID = uint32(f.Varint)
		case txAssetIDField:
			t.AssetID = uint32(f.Varint)
		case txNonceField:
			t.Nonce = f.Varint
		case txFeeField:
			t.Fee = f.Varint
		case txSenderKeyField:
			t.SenderPublicKey = f.Data
		case txAssetField:
			t.Asset = f.Data
		case txSignatureField:
			t.Signatures = append(t.Signatures, f.Data)
		}
	}
	return &t, nil
}

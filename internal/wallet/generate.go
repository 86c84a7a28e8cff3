// Package wallet creates account credentials: a BIP39 passphrase, the
// derived lisk32 address, and a QR code of the address.
package wallet

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/skip2/go-qrcode"
	"github.com/tyler-smith/go-bip39"

	"github.com/chainsoffoods/foodchain/internal/crypto"
	"github.com/chainsoffoods/foodchain/internal/model"
)

// 12-word mnemonics, the passphrase length accounts use on this chain.
const entropyBits = 128

// Generate creates a fresh credential. The passphrase is returned to the
// caller and kept nowhere else; losing it means losing the account.
func Generate() (*model.GenerateResponse, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entropy: %w", err)
	}
	passphrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return FromPassphrase(passphrase)
}

// FromPassphrase derives the address material for an existing passphrase.
func FromPassphrase(passphrase string) (*model.GenerateResponse, error) {
	if !bip39.IsMnemonicValid(passphrase) {
		return nil, fmt.Errorf("passphrase is not a valid mnemonic")
	}

	kp, err := crypto.KeyPairFromPassphrase(passphrase)
	if err != nil {
		return nil, err
	}
	address, err := crypto.Lisk32Address(kp.Address())
	if err != nil {
		return nil, err
	}
	qr, err := addressQR(address)
	if err != nil {
		return nil, err
	}

	return &model.GenerateResponse{
		Passphrase: passphrase,
		Address:    address,
		PublicKey:  hex.EncodeToString(kp.PublicKey),
		QR:         qr,
	}, nil
}

// addressQR renders the address as a base64 PNG QR code.
func addressQR(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

package config

import "fmt"

// ChainParams pins the module/asset identifiers and fees one deployment uses.
// Two historical variants of the transaction builder were observed with
// diverging values for the same conceptual kinds; neither is "the" correct
// one, so both ship as named presets and the deployer picks.
type ChainParams struct {
	ModuleID uint32

	ProfileAssetID uint32
	FoodAssetID    uint32
	MenuAssetID    uint32
	NewsAssetID    uint32

	ProfileFee   uint64
	FoodOrderFee uint64
	MenuFee      uint64
	NewsFee      uint64

	// MenuPublicationFee is the ledger-side fee debited on apply and credited
	// to the sidechain account.
	MenuPublicationFee uint64
}

const (
	// VariantDapp matches the standalone dapp client.
	VariantDapp = "dapp"
	// VariantSite matches the web storefront client.
	VariantSite = "site"

	menuPublicationFee = 100000000
)

// Variant returns the parameter preset for a named variant.
func Variant(name string) (ChainParams, error) {
	switch name {
	case VariantDapp:
		return ChainParams{
			ModuleID:           2000,
			ProfileAssetID:     1020,
			FoodAssetID:        1040,
			MenuAssetID:        1020,
			NewsAssetID:        1080,
			ProfileFee:         1000000,
			FoodOrderFee:       5000000,
			MenuFee:            0,
			NewsFee:            0,
			MenuPublicationFee: menuPublicationFee,
		}, nil
	case VariantSite:
		return ChainParams{
			ModuleID:           2000,
			ProfileAssetID:     1020,
			FoodAssetID:        1040,
			MenuAssetID:        1060,
			NewsAssetID:        1080,
			ProfileFee:         0,
			FoodOrderFee:       0,
			MenuFee:            0,
			NewsFee:            0,
			MenuPublicationFee: menuPublicationFee,
		}, nil
	}
	return ChainParams{}, fmt.Errorf("unknown chain variant %q (use %q or %q)", name, VariantDapp, VariantSite)
}

package model

// OrderItem is one ordered dish or beverage. Price is the unit price in whole
// tokens; the builder converts the aggregated total to beddows.
type OrderItem struct {
	Name        string `json:"name"`
	FoodType    int    `json:"foodType"`
	Quantity    uint64 `json:"quantity"`
	Price       uint64 `json:"price"`
	Observation string `json:"observation"`
}

// OrderRequest is the business request behind a food-order transaction.
// DeliveryAddress, Phone and Username never reach the chain in clear text;
// they are encrypted for the restaurant before embedding.
type OrderRequest struct {
	Items           []OrderItem `json:"items"`
	Username        string      `json:"username"`
	DeliveryAddress string      `json:"deliveryAddress"`
	Phone           string      `json:"phone"`
}

// Restaurant identifies the counterparty of a food order: its lisk32 address
// and hex-encoded public key, as published in its profile.
type Restaurant struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

// Credential is a signer's secret passphrase. It is held transiently by the
// caller and never persisted.
type Credential struct {
	Passphrase string `json:"passphrase"`
}

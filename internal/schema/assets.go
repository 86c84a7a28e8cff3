package schema

import (
	"fmt"

	"github.com/chainsoffoods/foodchain/internal/codec"
)

// FoodOrderAsset is the payload of a food-order transaction. Items is the
// JSON-serialized ordered item list; RestaurantData/RestaurantNonce carry the
// delivery details encrypted for the restaurant; Price is the order total in
// beddows.
type FoodOrderAsset struct {
	Items            string `json:"items" fieldNumber:"1"`
	Price            uint64 `json:"price" fieldNumber:"2"`
	RestaurantData   string `json:"restaurantData" fieldNumber:"3"`
	RestaurantNonce  string `json:"restaurantNonce" fieldNumber:"4"`
	RecipientAddress []byte `json:"recipientAddress" fieldNumber:"5"`
}

// Encode serializes the payload per FoodOrderSchema.
func (a *FoodOrderAsset) Encode() []byte {
	w := codec.NewWriter()
	w.WriteString(FoodItemsField, a.Items)
	w.WriteUInt(FoodPriceField, a.Price)
	w.WriteString(FoodDataField, a.RestaurantData)
	w.WriteString(FoodNonceField, a.RestaurantNonce)
	w.WriteBytes(FoodRecipientField, a.RecipientAddress)
	return w.Bytes()
}

// DecodeFoodOrderAsset deserializes a food-order payload.
func DecodeFoodOrderAsset(data []byte) (*FoodOrderAsset, error) {
	var a FoodOrderAsset
	r := codec.NewReader(data)
	for r.More() {
		f, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to decode food asset: %w", err)
		}
		switch f.Number {
		case FoodItemsField:
			a.Items = string(f.Data)
		case FoodPriceField:
			a.Price = f.Varint
		case FoodDataField:
			a.RestaurantData = string(f.Data)
		case FoodNonceField:
			a.RestaurantNonce = string(f.Data)
		case FoodRecipientField:
			a.RecipientAddress = f.Data
		}
	}
	return &a, nil
}

// ListAsset is the shared payload shape of menu and news transactions: a
// JSON-serialized item list, self-addressed to the publisher.
type ListAsset struct {
	Items            string `json:"items" fieldNumber:"1"`
	RecipientAddress []byte `json:"recipientAddress" fieldNumber:"2"`
}

// Encode serializes the payload per MenuSchema/NewsSchema.
func (a *ListAsset) Encode() []byte {
	w := codec.NewWriter()
	w.WriteString(ListItemsField, a.Items)
	w.WriteBytes(ListRecipientField, a.RecipientAddress)
	return w.Bytes()
}

// DecodeListAsset deserializes a menu or news payload.
func DecodeListAsset(data []byte) (*ListAsset, error) {
	var a ListAsset
	r := codec.NewReader(data)
	for r.More() {
		f, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to decode list asset: %w", err)
		}
		switch f.Number {
		case ListItemsField:
			a.Items = string(f.Data)
		case ListRecipientField:
			a.RecipientAddress = f.Data
		}
	}
	return &a, nil
}

// ProfileAsset is the payload of a profile transaction. ClientData/ClientNonce
// carry the user's contact details encrypted to the user's own key.
type ProfileAsset struct {
	Name             string `json:"name" fieldNumber:"1"`
	ClientData       string `json:"clientData" fieldNumber:"2"`
	ClientNonce      string `json:"clientNonce" fieldNumber:"3"`
	RecipientAddress []byte `json:"recipientAddress" fieldNumber:"4"`
}

// Encode serializes the payload per ProfileSchema.
func (a *ProfileAsset) Encode() []byte {
	w := codec.NewWriter()
	w.WriteString(ProfileNameField, a.Name)
	w.WriteString(ProfileDataField, a.ClientData)
	w.WriteString(ProfileNonceField, a.ClientNonce)
	w.WriteBytes(ProfileRecipient, a.RecipientAddress)
	return w.Bytes()
}

// DecodeProfileAsset deserializes a profile payload.
func DecodeProfileAsset(data []byte) (*ProfileAsset, error) {
	var a ProfileAsset
	r := codec.NewReader(data)
	for r.More() {
		f, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to decode profile asset: %w", err)
		}
		switch f.Number {
		case ProfileNameField:
			a.Name = string(f.Data)
		case ProfileDataField:
			a.ClientData = string(f.Data)
		case ProfileNonceField:
			a.ClientNonce = string(f.Data)
		case ProfileRecipient:
			a.RecipientAddress = f.Data
		}
	}
	return &a, nil
}

package model

// UserProfile is the business request behind a profile transaction. Name,
// DeliveryAddress and Phone are concatenated and self-encrypted so only the
// passphrase holder can read them back.
type UserProfile struct {
	Username        string `json:"username"`
	Name            string `json:"name"`
	DeliveryAddress string `json:"deliveryAddress"`
	Phone           string `json:"phone"`
}

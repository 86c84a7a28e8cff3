package model

// MenuItem is one catalog entry of a restaurant menu. Price and Discount are
// signed so malformed negative values can be carried to validation and
// rejected there instead of silently wrapping.
type MenuItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Discount    int64  `json:"discount"`
	Type        int    `json:"type"`
	Category    int    `json:"category"`
	Img         string `json:"img"`
}

package model

// NewsItem is one announcement published by a restaurant.
type NewsItem struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Date  string `json:"date"`
}

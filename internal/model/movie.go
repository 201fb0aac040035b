package model

// Movie is one catalog entry. Price is the flat per-seat price in rupees,
// used when a submitted seat carries no type tag.
type Movie struct {
	Title string `json:"title"`
	Price int    `json:"price"`
	Image string `json:"image"`
}

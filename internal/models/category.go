package models

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Metric aggregates a set of products.
type Metric struct {
	TotalProducts int     `json:"totalProducts"`
	TotalValue    float64 `json:"totalValue"`
	AveragePrice  float64 `json:"averagePrice"`
}

// Metrics is the inventory summary computed by the API.
type Metrics struct {
	Overall    Metric            `json:"overall"`
	ByCategory map[string]Metric `json:"byCategory"`
}

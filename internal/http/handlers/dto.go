package handlers

import (
	"github.com/rogerio-castellano/inventory-dashboard/internal/inventory"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

type ProductRequest struct {
	CategoryID     int          `json:"categoryId"`
	Name           string       `json:"name"`
	UnitPrice      float64      `json:"unitPrice"`
	Stock          int          `json:"stock"`
	ExpirationDate *models.Date `json:"expirationDate,omitempty"`
}

func (p ProductRequest) toNewProduct() models.NewProduct {
	return models.NewProduct{
		CategoryID:     p.CategoryID,
		Name:           p.Name,
		UnitPrice:      p.UnitPrice,
		Stock:          p.Stock,
		ExpirationDate: p.ExpirationDate,
	}
}

type Meta struct {
	Total int `json:"total"`
	Shown int `json:"shown"`
}

type ProductsResult struct {
	Data []inventory.Row `json:"data"`
	Meta Meta            `json:"meta"`
}

type FilterRequest struct {
	SearchName   string              `json:"searchName"`
	Category     string              `json:"category"`
	Availability models.Availability `json:"availability"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// MetricRow is one line of the metrics table with money values rendered to
// two decimals.
type MetricRow struct {
	Category      string `json:"category"`
	TotalProducts int    `json:"totalProducts"`
	TotalValue    string `json:"totalValue"`
	AveragePrice  string `json:"averagePrice"`
}

type OverviewResult struct {
	Categories []models.Category `json:"categories"`
	Metrics    []MetricRow       `json:"metrics"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type ImportRowError struct {
	Row         int    `json:"row"`
	Description string `json:"description"`
}

type ImportProductsResult struct {
	ImportedProductsCount int              `json:"imported"`
	Errors                []ImportRowError `json:"errors"`
}

package models

// Product represents a product entity as exchanged with the inventory API.
type Product struct {
	ID             int     `json:"id"`
	CategoryID     int     `json:"categoryId"`
	Name           string  `json:"name"`
	UnitPrice      float64 `json:"unitPrice"`
	Stock          int     `json:"stock"`
	ExpirationDate *Date   `json:"expirationDate,omitempty"`
}

// NewProduct is the payload of a create request. The server assigns the ID.
type NewProduct struct {
	CategoryID     int     `json:"categoryId"`
	Name           string  `json:"name"`
	UnitPrice      float64 `json:"unitPrice"`
	Stock          int     `json:"stock"`
	ExpirationDate *Date   `json:"expirationDate,omitempty"`
}

// WithID turns a create payload into a Product carrying the given id.
func (n NewProduct) WithID(id int) Product {
	return Product{
		ID:             id,
		CategoryID:     n.CategoryID,
		Name:           n.Name,
		UnitPrice:      n.UnitPrice,
		Stock:          n.Stock,
		ExpirationDate: n.ExpirationDate,
	}
}

// ProductWithCategory is a Product plus its resolved category name.
type ProductWithCategory struct {
	Product
	Category string `json:"category"`
}

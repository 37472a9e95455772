package repo

import (
	"errors"
	"strings"

	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(product models.NewProduct) (models.ProductWithCategory, error)
	GetAll() ([]models.ProductWithCategory, error)
	GetByID(id int) (models.ProductWithCategory, error)
	Update(product models.Product) (models.ProductWithCategory, error)
	Delete(id int) error
	Categories() ([]models.Category, error)
}

// ErrProductNotFound is returned when a product is not found in the repository.
var ErrProductNotFound = errors.New("product not found")

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationErrors lists every rule a product broke.
type ValidationErrors []ProductValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Description
	}
	return strings.Join(parts, "; ")
}

func validateProduct(name string, unitPrice float64, stock, categoryID int, categories map[int]string) error {
	errs := ValidationErrors{}
	if strings.TrimSpace(name) == "" {
		errs = append(errs, ProductValidationError{Field: "name", Description: "Name is required"})
	}
	if unitPrice < 0 {
		errs = append(errs, ProductValidationError{Field: "unitPrice", Description: "Unit price cannot be negative"})
	}
	if stock < 0 {
		errs = append(errs, ProductValidationError{Field: "stock", Description: "Stock cannot be negative"})
	}
	if _, ok := categories[categoryID]; !ok {
		errs = append(errs, ProductValidationError{Field: "categoryId", Description: "Category does not exist"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

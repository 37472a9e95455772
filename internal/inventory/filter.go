package inventory

import (
	"strings"

	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

// Matches reports whether p satisfies every constraint of c.
func Matches(p models.ProductWithCategory, c models.FilterCriteria) bool {
	if c.SearchName != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(c.SearchName)) {
		return false
	}
	if c.Category != "" && p.Category != c.Category {
		return false
	}
	switch c.Availability {
	case models.InStock:
		return p.Stock > 0
	case models.OutOfStock:
		return p.Stock == 0
	}
	return true
}

// FilterCollection returns the products matching c in their original order.
// The input slice is not modified.
func FilterCollection(products []models.ProductWithCategory, c models.FilterCriteria) []models.ProductWithCategory {
	filtered := make([]models.ProductWithCategory, 0, len(products))
	for _, p := range products {
		if Matches(p, c) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

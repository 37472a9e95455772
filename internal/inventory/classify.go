package inventory

import (
	"time"

	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

const (
	stockNormalThreshold  = 10
	stockWarningThreshold = 5

	expirationSoonerWindow = 7 * 24 * time.Hour
	expirationSoonWindow   = 14 * 24 * time.Hour
)

// StockLevel bands a stock count for display.
type StockLevel int

const (
	StockNormal StockLevel = iota
	StockWarning
	StockLow
)

func (l StockLevel) String() string {
	switch l {
	case StockWarning:
		return "warning"
	case StockLow:
		return "low"
	default:
		return "normal"
	}
}

func (l StockLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ExpirationLevel bands the time left before a product expires.
type ExpirationLevel int

const (
	ExpirationNone ExpirationLevel = iota
	ExpirationNormal
	ExpirationSoon
	ExpirationSooner
)

func (l ExpirationLevel) String() string {
	switch l {
	case ExpirationNormal:
		return "normal"
	case ExpirationSoon:
		return "soon"
	case ExpirationSooner:
		return "sooner"
	default:
		return "none"
	}
}

func (l ExpirationLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func ClassifyStock(stock int) StockLevel {
	switch {
	case stock >= stockNormalThreshold:
		return StockNormal
	case stock >= stockWarningThreshold:
		return StockWarning
	default:
		return StockLow
	}
}

func IsOutOfStock(stock int) bool {
	return stock == 0
}

// ClassifyExpiration bands expiration relative to now. A nil date never
// expires. Overdue products are classified as ExpirationSooner.
func ClassifyExpiration(expiration *models.Date, now time.Time) ExpirationLevel {
	if expiration == nil {
		return ExpirationNone
	}
	left := expiration.Sub(now)
	switch {
	case left < expirationSoonerWindow:
		return ExpirationSooner
	case left < expirationSoonWindow:
		return ExpirationSoon
	default:
		return ExpirationNormal
	}
}

// Row is a product decorated with its display classification.
type Row struct {
	models.ProductWithCategory
	StockLevel StockLevel      `json:"stockLevel"`
	OutOfStock bool            `json:"outOfStock"`
	Expiration ExpirationLevel `json:"expiration"`
}

func ClassifyRow(p models.ProductWithCategory, now time.Time) Row {
	return Row{
		ProductWithCategory: p,
		StockLevel:          ClassifyStock(p.Stock),
		OutOfStock:          IsOutOfStock(p.Stock),
		Expiration:          ClassifyExpiration(p.ExpirationDate, now),
	}
}

func ClassifyRows(products []models.ProductWithCategory, now time.Time) []Row {
	rows := make([]Row, len(products))
	for i, p := range products {
		rows[i] = ClassifyRow(p, now)
	}
	return rows
}

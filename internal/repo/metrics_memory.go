package repo

import (
	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

type InMemoryMetricsRepository struct {
	productRepo ProductRepository
}

func NewInMemoryMetricsRepository(productRepo ProductRepository) *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{productRepo: productRepo}
}

type accumulator struct {
	units    int64
	value    decimal.Decimal
	priceSum decimal.Decimal
	inStock  int64
}

func (a *accumulator) add(p models.Product) {
	if p.Stock <= 0 {
		return
	}
	price := decimal.NewFromFloat(p.UnitPrice)
	a.units += int64(p.Stock)
	a.value = a.value.Add(price.Mul(decimal.NewFromInt(int64(p.Stock))))
	a.priceSum = a.priceSum.Add(price)
	a.inStock++
}

func (a *accumulator) metric() models.Metric {
	m := models.Metric{
		TotalProducts: int(a.units),
		TotalValue:    a.value.Round(2).InexactFloat64(),
	}
	if a.inStock > 0 {
		m.AveragePrice = a.priceSum.Div(decimal.NewFromInt(a.inStock)).Round(2).InexactFloat64()
	}
	return m
}

// GetInventoryMetrics summarizes products in stock: units, stock value and
// average unit price, overall and per category name.
func (i *InMemoryMetricsRepository) GetInventoryMetrics() (models.Metrics, error) {
	products, err := i.productRepo.GetAll()
	if err != nil {
		return models.Metrics{}, err
	}

	var overall accumulator
	byCategory := map[string]*accumulator{}
	for _, p := range products {
		if p.Stock <= 0 {
			continue
		}
		overall.add(p.Product)
		acc, ok := byCategory[p.Category]
		if !ok {
			acc = &accumulator{}
			byCategory[p.Category] = acc
		}
		acc.add(p.Product)
	}

	m := models.Metrics{
		Overall:    overall.metric(),
		ByCategory: make(map[string]models.Metric, len(byCategory)),
	}
	for name, acc := range byCategory {
		m.ByCategory[name] = acc.metric()
	}
	return m, nil
}

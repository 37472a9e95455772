package repo

import "github.com/rogerio-castellano/inventory-dashboard/internal/models"

type MetricsRepository interface {
	GetInventoryMetrics() (models.Metrics, error)
}

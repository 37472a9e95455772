package models

import "time"

const (
	EventsQueue   = "inventory.products.events"
	EventCreated  = "product_created"
	EventUpdated  = "product_updated"
	EventDeleted  = "product_deleted"
	EventReloaded = "products_reloaded"
)

// ProductEvent is published after a product change has been applied locally.
type ProductEvent struct {
	EventType string    `json:"event_type"`
	ProductID int       `json:"product_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Stock     int       `json:"stock"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

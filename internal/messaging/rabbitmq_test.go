package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-dashboard/internal/errx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/inventory"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

type recordingPublisher struct {
	events []models.ProductEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event models.ProductEvent) error {
	p.events = append(p.events, event)
	return p.err
}

var at = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func milk() models.ProductWithCategory {
	return models.ProductWithCategory{
		Product:  models.Product{ID: 7, CategoryID: 1, Name: "Milk", UnitPrice: 1.2, Stock: 12},
		Category: "Dairy",
	}
}

func snapshotOf(n int) inventory.Snapshot {
	products := make([]models.ProductWithCategory, n)
	return inventory.Snapshot{Products: products, Filtered: products}
}

func TestEventFor(t *testing.T) {
	tests := []struct {
		name   string
		ev     inventory.Event
		want   models.ProductEvent
		wantOK bool
	}{
		{
			name:   "create",
			ev:     inventory.Event{Kind: inventory.EventCreate, ProductID: 7, Product: milk(), Snapshot: snapshotOf(3)},
			want:   models.ProductEvent{EventType: models.EventCreated, ProductID: 7, Name: "Milk", Stock: 12, Total: 3, Timestamp: at},
			wantOK: true,
		},
		{
			name:   "update",
			ev:     inventory.Event{Kind: inventory.EventUpdate, ProductID: 7, Product: milk(), Snapshot: snapshotOf(3)},
			want:   models.ProductEvent{EventType: models.EventUpdated, ProductID: 7, Name: "Milk", Stock: 12, Total: 3, Timestamp: at},
			wantOK: true,
		},
		{
			name:   "delete",
			ev:     inventory.Event{Kind: inventory.EventDelete, ProductID: 7, Snapshot: snapshotOf(2)},
			want:   models.ProductEvent{EventType: models.EventDeleted, ProductID: 7, Total: 2, Timestamp: at},
			wantOK: true,
		},
		{
			name:   "load",
			ev:     inventory.Event{Kind: inventory.EventLoad, Snapshot: snapshotOf(5)},
			want:   models.ProductEvent{EventType: models.EventReloaded, Total: 5, Timestamp: at},
			wantOK: true,
		},
		{
			name: "failed create",
			ev:   inventory.Event{Kind: inventory.EventCreate, Err: &errx.ValidationError{Message: "bad"}},
		},
		{
			name: "stale load",
			ev:   inventory.Event{Kind: inventory.EventLoad, Stale: true},
		},
		{
			name: "filter change",
			ev:   inventory.Event{Kind: inventory.EventFilter},
		},
		{
			name: "error cleared",
			ev:   inventory.Event{Kind: inventory.EventClear},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EventFor(tt.ev, at)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNotifier_Observe(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier(pub)
	n.now = func() time.Time { return at }

	n.Observe(inventory.Event{Kind: inventory.EventFilter})
	n.Observe(inventory.Event{Kind: inventory.EventCreate, ProductID: 7, Product: milk(), Snapshot: snapshotOf(1)})

	require.Len(t, pub.events, 1)
	require.Equal(t, models.EventCreated, pub.events[0].EventType)
	require.Equal(t, at, pub.events[0].Timestamp)
}

func TestNotifier_PublishFailureIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("channel closed")}
	n := NewNotifier(pub)

	require.NotPanics(t, func() {
		n.Observe(inventory.Event{Kind: inventory.EventDelete, ProductID: 1})
	})
	require.Len(t, pub.events, 1)
}

package handlers

import (
	"context"
	"time"

	"github.com/rogerio-castellano/inventory-dashboard/internal/auth"
	"github.com/rogerio-castellano/inventory-dashboard/internal/inventory"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

// Catalog serves the read-only views of the inventory API.
type Catalog interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Metrics(ctx context.Context) (models.Metrics, error)
}

// Options configures optional Server behaviour. Login stays disabled unless
// Authenticator, AdminUser and AdminPasswordHash are all set.
type Options struct {
	Authenticator     *auth.Authenticator
	AdminUser         string
	AdminPasswordHash string
	Now               func() time.Time
}

// Server exposes the product store over HTTP.
type Server struct {
	store   *inventory.Store
	catalog Catalog

	auth      *auth.Authenticator
	adminUser string
	adminHash string
	now       func() time.Time
}

func NewServer(store *inventory.Store, catalog Catalog, opts Options) *Server {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		store:     store,
		catalog:   catalog,
		auth:      opts.Authenticator,
		adminUser: opts.AdminUser,
		adminHash: opts.AdminPasswordHash,
		now:       now,
	}
}

func (s *Server) loginEnabled() bool {
	return s.auth != nil && s.adminUser != "" && s.adminHash != ""
}

// Package store provides focused, single-concern data access stores
// for the inspection service.
//
// Each store owns one table family (inspections, users, audit log) and
// embeds shared helpers (Pool, crypto, logger) via the Base struct.
// Stores never import each other.
package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/crypto"
	"github.com/pdihub/pdihub/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// maxListLimit is a defense-in-depth cap on limit values for list queries.
const maxListLimit = 1000

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool   *dbpool.Pool
	Log    *logrus.Logger
	Crypto *crypto.Service
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

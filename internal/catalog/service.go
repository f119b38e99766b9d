// Package catalog implements the listing catalog engine: category subtree
// resolution, listing creation and editing, the composable browse query,
// the moderation state machine with single and bulk transitions, the view
// counter, and the expiry sweep.
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Policy carries the product constants the engine is parameterized on.
type Policy struct {
	// ListingTTL is how long a new listing stays visible before expiring.
	ListingTTL time.Duration
	// PageSize is the page size used when the caller supplies none.
	PageSize int
	// AutoApproveAdmin activates listings created by admins without review.
	AutoApproveAdmin bool
}

// DefaultPolicy mirrors the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		ListingTTL:       60 * 24 * time.Hour,
		PageSize:         12,
		AutoApproveAdmin: true,
	}
}

// Service is the catalog engine bound to a database handle.
type Service struct {
	db     *gorm.DB
	policy Policy
}

// New creates a catalog service. Zero policy fields fall back to defaults.
func New(db *gorm.DB, policy Policy) *Service {
	def := DefaultPolicy()
	if policy.ListingTTL <= 0 {
		policy.ListingTTL = def.ListingTTL
	}
	if policy.PageSize <= 0 {
		policy.PageSize = def.PageSize
	}
	return &Service{db: db, policy: policy}
}

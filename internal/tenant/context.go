package tenant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Context carries the tenant a request operates under. It is resolved
// once by the auth middleware from the user's current site and passed
// explicitly into every site-scoped service call; services never reach
// back into ambient request state to find out which site they work for.
type Context struct {
	SiteID       uuid.UUID
	Headquarters bool
}

// ForSite builds a context scoped to one regular site.
func ForSite(siteID uuid.UUID) Context {
	return Context{SiteID: siteID}
}

// ForHeadquarters builds the privileged cross-site read-only context.
func ForHeadquarters(siteID uuid.UUID) Context {
	return Context{SiteID: siteID, Headquarters: true}
}

// Scope applies the mandatory site filter to a query. Headquarters sees
// every site; everyone else only their own rows.
func (c Context) Scope(db *gorm.DB) *gorm.DB {
	if c.Headquarters {
		return db
	}
	return db.Where("site_id = ?", c.SiteID)
}

// CanMutate reports whether this context is allowed to create, update or
// delete site-scoped data. Headquarters is strictly read-only.
func (c Context) CanMutate() bool {
	return !c.Headquarters
}

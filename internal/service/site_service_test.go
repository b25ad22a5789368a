package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-facility-api/internal/apperr"
	"go-facility-api/internal/repository"
)

func newSiteFixture(t *testing.T) (*ledgerFixture, SiteService) {
	t.Helper()
	f := newLedgerFixture(t)
	svc := NewSiteService(repository.NewSiteRepo(f.db), repository.NewZoneRepo(f.db))
	return f, svc
}

func TestCreateSiteUniqueCode(t *testing.T) {
	_, svc := newSiteFixture(t)

	site, err := svc.CreateSite(&SiteRequest{Code: "MARSEILLE", Name: "Marseille"}, "u")
	require.NoError(t, err)
	assert.False(t, site.IsHeadquarters)

	_, err = svc.CreateSite(&SiteRequest{Code: "MARSEILLE", Name: "Duplicate"}, "u")
	assert.ErrorIs(t, err, ErrCodeExists)
}

func TestSingleHeadquarters(t *testing.T) {
	_, svc := newSiteFixture(t)

	// The fixture already seeded a headquarters site.
	_, err := svc.CreateSite(&SiteRequest{Code: "HQ2", Name: "Second HQ", IsHeadquarters: true}, "u")
	assert.True(t, apperr.IsIntegrity(err))

	// Promoting an existing site is blocked the same way.
	site, err := svc.CreateSite(&SiteRequest{Code: "MARSEILLE", Name: "Marseille"}, "u")
	require.NoError(t, err)
	_, err = svc.UpdateSite(site.ID, &SiteRequest{Code: "MARSEILLE", Name: "Marseille", IsHeadquarters: true}, "u")
	assert.True(t, apperr.IsIntegrity(err))
}

func TestDeleteSiteBlockedByZones(t *testing.T) {
	f, svc := newSiteFixture(t)

	zone, err := svc.CreateZone(f.tc, &ZoneRequest{Name: "Storage", Floor: "1"}, "u")
	require.NoError(t, err)

	err = svc.DeleteSite(f.site.ID, "u")
	assert.True(t, apperr.IsIntegrity(err))

	require.NoError(t, svc.DeleteZone(f.tc, zone.ID, "u"))
	assert.NoError(t, svc.DeleteSite(f.site.ID, "u"))
}

func TestZonesAreTenantScoped(t *testing.T) {
	f, svc := newSiteFixture(t)
	other := seedSite(t, f.db, "NICE", false)

	_, err := svc.CreateZone(f.tc, &ZoneRequest{Name: "Storage"}, "u")
	require.NoError(t, err)
	_, err = svc.CreateZone(tenantFor(other), &ZoneRequest{Name: "Workshop"}, "u")
	require.NoError(t, err)

	zones, err := svc.GetZones(f.tc)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Storage", zones[0].Name)

	// Headquarters reads across sites but cannot create zones.
	all, err := svc.GetZones(f.hqTC)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.CreateZone(f.hqTC, &ZoneRequest{Name: "X"}, "u")
	assert.True(t, apperr.IsAuthorization(err))
}

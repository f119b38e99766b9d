package catalog

import (
	"errors"
	"testing"
	"time"

	"classifieds-service/internal/apperr"
	"classifieds-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = model.Actor{UserID: 7, Role: model.RoleUser}
	admin = model.Actor{UserID: 1, Role: model.RoleAdmin}
)

func housingInput(categoryID uint) ListingInput {
	return ListingInput{
		CategoryID:   categoryID,
		ListingType:  model.ListingTypeHousing,
		Title:        "Clean room for rent near downtown",
		Description:  "Utilities included, close to bus lines",
		Price:        floatPtr(950),
		PriceType:    model.PriceMonthly,
		ContactPhone: "808-555-0100",
		Housing: &model.HousingFields{
			Bedrooms:  intPtr(0),
			Bathrooms: floatPtr(1),
		},
	}
}

func TestCreateListing_Housing(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)

	before := time.Now()
	listing, err := svc.CreateListing(owner, housingInput(cat.ID))
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, listing.Status)
	assert.Equal(t, owner.UserID, listing.OwnerUserID)
	assert.Equal(t, model.ListingTypeHousing, listing.ListingType)
	assert.Nil(t, listing.ApprovedAt)

	// expiry lands TTL out from creation
	wantExpiry := before.Add(DefaultPolicy().ListingTTL)
	assert.WithinDuration(t, wantExpiry, listing.ExpiresAt, 5*time.Second)

	// the typed union exposes exactly the housing set
	require.NotNil(t, listing.Housing())
	assert.Equal(t, 0, *listing.Housing().Bedrooms)
	assert.Nil(t, listing.Job())
	assert.Nil(t, listing.Service())
}

func TestCreateListing_AdminAutoApprove(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)

	listing, err := svc.CreateListing(admin, housingInput(cat.ID))
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, listing.Status)
	require.NotNil(t, listing.ApprovedAt)
}

func TestCreateListing_ValidationRules(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)
	inactive := seedCategory(t, db, "closed", nil, false)

	tests := []struct {
		name     string
		mutate   func(*ListingInput)
		wantCode apperr.Code
	}{
		{
			name:     "title too short",
			mutate:   func(in *ListingInput) { in.Title = "Too short" },
			wantCode: apperr.CodeValidation,
		},
		{
			name: "no contact info",
			mutate: func(in *ListingInput) {
				in.ContactPhone = ""
				in.ContactEmail = "   "
			},
			wantCode: apperr.CodeValidation,
		},
		{
			name:     "negative price",
			mutate:   func(in *ListingInput) { in.Price = floatPtr(-5) },
			wantCode: apperr.CodeValidation,
		},
		{
			name:     "negative bedrooms",
			mutate:   func(in *ListingInput) { in.Housing.Bedrooms = intPtr(-1) },
			wantCode: apperr.CodeValidation,
		},
		{
			name:     "quarter bathroom",
			mutate:   func(in *ListingInput) { in.Housing.Bathrooms = floatPtr(1.25) },
			wantCode: apperr.CodeValidation,
		},
		{
			name:     "inactive category",
			mutate:   func(in *ListingInput) { in.CategoryID = inactive.ID },
			wantCode: apperr.CodeValidation,
		},
		{
			name:     "unknown listing type",
			mutate:   func(in *ListingInput) { in.ListingType = "BOAT"; in.Housing = nil },
			wantCode: apperr.CodeValidation,
		},
		{
			name: "housing fields on a job listing",
			mutate: func(in *ListingInput) {
				in.ListingType = model.ListingTypeJob
			},
			wantCode: apperr.CodeTypeMismatch,
		},
		{
			name: "bad job type",
			mutate: func(in *ListingInput) {
				in.ListingType = model.ListingTypeJob
				in.Housing = nil
				in.Job = &model.JobFields{JobType: "gig"}
			},
			wantCode: apperr.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := housingInput(cat.ID)
			tt.mutate(&in)

			_, err := svc.CreateListing(owner, in)
			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.wantCode, ae.Code)
		})
	}
}

func TestCreateListing_ImagesShareTheTransaction(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)

	in := housingInput(cat.ID)
	in.Images = []ImageInput{
		{URL: "https://img.example/1.jpg", SortOrder: 0},
		{URL: "https://img.example/2.jpg", SortOrder: 1},
	}

	listing, err := svc.CreateListing(owner, in)
	require.NoError(t, err)
	require.Len(t, listing.Images, 2)
	// no image was flagged, so the first becomes primary
	assert.True(t, listing.Images[0].IsPrimary)
	assert.False(t, listing.Images[1].IsPrimary)

	// two primaries is rejected before anything is written
	in.Images[0].IsPrimary = true
	in.Images[1].IsPrimary = true
	_, err = svc.CreateListing(owner, in)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	var count int64
	require.NoError(t, db.Model(&model.Listing{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateListing_Ownership(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)

	listing, err := svc.CreateListing(owner, housingInput(cat.ID))
	require.NoError(t, err)

	stranger := model.Actor{UserID: 99, Role: model.RoleUser}
	_, err = svc.UpdateListing(listing.ID, stranger, ListingPatch{Title: strPtr("Completely different title")})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	updated, err := svc.UpdateListing(listing.ID, owner, ListingPatch{
		Title: strPtr("Clean room, now with parking"),
		Price: floatPtr(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, "Clean room, now with parking", updated.Title)
	assert.Equal(t, 1000.0, *updated.Price)
	// edits never touch the moderation status
	assert.Equal(t, model.StatusPending, updated.Status)

	// admins may edit anyone's listing
	_, err = svc.UpdateListing(listing.ID, admin, ListingPatch{Location: strPtr("Kalihi")})
	require.NoError(t, err)
}

func TestUpdateListing_RevalidatesMergedRow(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)

	listing, err := svc.CreateListing(owner, housingInput(cat.ID))
	require.NoError(t, err)

	_, err = svc.UpdateListing(listing.ID, owner, ListingPatch{Title: strPtr("short")})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	// typed set for the wrong listing type is rejected on update too
	_, err = svc.UpdateListing(listing.ID, owner, ListingPatch{
		Job: &model.JobFields{JobType: "full-time"},
	})
	assert.True(t, errors.Is(err, apperr.ErrTypeMismatch))
}

func TestGetListing_DeletedHiddenFromUsers(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "cho-troi", nil, true)
	l := seedListing(t, db, cat.ID, func(l *model.Listing) { l.Status = model.StatusDeleted })

	_, err := svc.GetListing(l.ID, owner)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	got, err := svc.GetListing(l.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDeleted, got.Status)
}

func TestGetListing_ReportsLazyExpiry(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "cho-troi", nil, true)
	l := seedListing(t, db, cat.ID, func(l *model.Listing) {
		l.ExpiresAt = time.Now().Add(-time.Hour)
	})

	// The row still says ACTIVE but the sweeper has not run yet; the
	// detail read reports the derived status.
	got, err := svc.GetListing(l.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, got.Status)
}

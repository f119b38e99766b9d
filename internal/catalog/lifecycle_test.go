package catalog

import (
	"errors"
	"testing"

	"classifieds-service/internal/apperr"
	"classifieds-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_ApproveClearsRejectionReason(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)
	l := seedListing(t, db, cat.ID, func(l *model.Listing) {
		l.Status = model.StatusPending
		l.RejectionReason = strPtr("blurry photos")
	})

	got, err := svc.Transition(l.ID, admin, model.StatusActive, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
	require.NotNil(t, got.ApprovedAt)
	assert.Nil(t, got.RejectionReason)
}

func TestTransition_OwnerCannotSelfApprove(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)
	l := seedListing(t, db, cat.ID, func(l *model.Listing) {
		l.OwnerUserID = owner.UserID
		l.Status = model.StatusPending
	})

	_, err := svc.Transition(l.ID, owner, model.StatusActive, "")
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.Transition(l.ID, owner, model.StatusRejected, "nope")
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestTransition_OwnerMayMarkSoldAndDelete(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)
	l := seedListing(t, db, cat.ID, func(l *model.Listing) {
		l.OwnerUserID = owner.UserID
	})

	got, err := svc.Transition(l.ID, owner, model.StatusSold, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSold, got.Status)

	// other users may not touch someone else's listing
	other := model.Actor{UserID: 55, Role: model.RoleUser}
	_, err = svc.Transition(l.ID, other, model.StatusDeleted, "")
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.Transition(l.ID, owner, model.StatusDeleted, "")
	require.NoError(t, err)
}

func TestTransition_RejectPersistsReason(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)
	l := seedListing(t, db, cat.ID, func(l *model.Listing) {
		l.Status = model.StatusPending
	})

	got, err := svc.Transition(l.ID, admin, model.StatusRejected, "no contact info in photos")
	require.NoError(t, err)
	require.NotNil(t, got.RejectionReason)
	assert.Equal(t, "no contact info in photos", *got.RejectionReason)

	// re-review is allowed and wipes the reason
	got, err = svc.Transition(l.ID, admin, model.StatusActive, "")
	require.NoError(t, err)
	assert.Nil(t, got.RejectionReason)
}

func TestTransition_GraphViolations(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)

	pending := seedListing(t, db, cat.ID, func(l *model.Listing) { l.Status = model.StatusPending })
	deleted := seedListing(t, db, cat.ID, func(l *model.Listing) { l.Status = model.StatusDeleted })

	// PENDING cannot jump straight to SOLD
	_, err := svc.Transition(pending.ID, admin, model.StatusSold, "")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeInvalidTransition, ae.Code)
	assert.Equal(t, "PENDING", ae.Detail["current"])
	assert.Equal(t, "SOLD", ae.Detail["attempted"])

	// nothing leaves DELETED, not even for admins
	for _, target := range []model.ListingStatus{
		model.StatusPending, model.StatusActive, model.StatusRejected,
		model.StatusExpired, model.StatusSold, model.StatusDeleted,
	} {
		_, err := svc.Transition(deleted.ID, admin, target, "")
		assert.True(t, errors.Is(err, apperr.ErrInvalidTransition), "DELETED -> %s must fail", target)
	}
}

func TestTransition_AdminMayDeleteFromAnyStatus(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)

	for _, status := range []model.ListingStatus{
		model.StatusPending, model.StatusActive, model.StatusRejected,
		model.StatusExpired, model.StatusSold,
	} {
		l := seedListing(t, db, cat.ID, func(l *model.Listing) { l.Status = status })
		got, err := svc.Transition(l.ID, admin, model.StatusDeleted, "")
		require.NoError(t, err, "%s -> DELETED", status)
		assert.Equal(t, model.StatusDeleted, got.Status)
	}
}

func TestTransition_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Transition(12345, admin, model.StatusActive, "")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestBulkTransition_ApproveSkipsNonPending(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)

	p1 := seedListing(t, db, cat.ID, func(l *model.Listing) { l.Status = model.StatusPending })
	p2 := seedListing(t, db, cat.ID, func(l *model.Listing) { l.Status = model.StatusPending })
	active := seedListing(t, db, cat.ID, nil)
	rejected := seedListing(t, db, cat.ID, func(l *model.Listing) { l.Status = model.StatusRejected })

	ids := []uint{p1.ID, p2.ID, active.ID, rejected.ID, 99999}
	result, err := svc.BulkTransition(ids, admin, BulkApprove)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Applied)
	assert.Len(t, result.Skipped, 3)
	assert.Equal(t, len(ids)-len(result.Skipped), result.Applied)

	skippedIDs := map[uint]string{}
	for _, s := range result.Skipped {
		skippedIDs[s.ID] = s.Reason
	}
	assert.Contains(t, skippedIDs, active.ID)
	// bulk approve does not re-approve REJECTED rows; that path is
	// individual-review only
	assert.Contains(t, skippedIDs, rejected.ID)
	assert.Equal(t, "not found", skippedIDs[99999])

	var approved model.Listing
	require.NoError(t, db.First(&approved, p1.ID).Error)
	assert.Equal(t, model.StatusActive, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)
}

func TestBulkTransition_RejectAndDelete(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)

	pending := seedListing(t, db, cat.ID, func(l *model.Listing) { l.Status = model.StatusPending })
	active := seedListing(t, db, cat.ID, nil)
	deleted := seedListing(t, db, cat.ID, func(l *model.Listing) { l.Status = model.StatusDeleted })

	result, err := svc.BulkTransition([]uint{pending.ID, active.ID}, admin, BulkReject)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)

	var rejected model.Listing
	require.NoError(t, db.First(&rejected, pending.ID).Error)
	assert.Equal(t, model.StatusRejected, rejected.Status)

	// delete applies to any non-DELETED row
	result, err = svc.BulkTransition([]uint{active.ID, deleted.ID}, admin, BulkDelete)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, deleted.ID, result.Skipped[0].ID)

	// deleting a rejected row clears the leftover reason, same as the
	// single-item path
	withReason := seedListing(t, db, cat.ID, func(l *model.Listing) {
		l.Status = model.StatusRejected
		l.RejectionReason = strPtr("spam")
	})
	result, err = svc.BulkTransition([]uint{withReason.ID}, admin, BulkDelete)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)

	var gone model.Listing
	require.NoError(t, db.First(&gone, withReason.ID).Error)
	assert.Equal(t, model.StatusDeleted, gone.Status)
	assert.Nil(t, gone.RejectionReason)
}

func TestBulkTransition_FeatureToggles(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)

	// feature is not a status transition; it applies to PENDING rows too
	pending := seedListing(t, db, cat.ID, func(l *model.Listing) { l.Status = model.StatusPending })
	deleted := seedListing(t, db, cat.ID, func(l *model.Listing) { l.Status = model.StatusDeleted })

	result, err := svc.BulkTransition([]uint{pending.ID, deleted.ID}, admin, BulkFeature)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)

	var got model.Listing
	require.NoError(t, db.First(&got, pending.ID).Error)
	assert.True(t, got.IsFeatured)
	assert.Equal(t, model.StatusPending, got.Status)

	// a second pass toggles it back off
	_, err = svc.BulkTransition([]uint{pending.ID}, admin, BulkFeature)
	require.NoError(t, err)
	require.NoError(t, db.First(&got, pending.ID).Error)
	assert.False(t, got.IsFeatured)
}

func TestBulkTransition_RequiresAdmin(t *testing.T) {
	svc, db := newTestService(t)
	cat := seedCategory(t, db, "nha-o", nil, true)
	l := seedListing(t, db, cat.ID, func(l *model.Listing) { l.Status = model.StatusPending })

	_, err := svc.BulkTransition([]uint{l.ID}, owner, BulkApprove)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.BulkTransition([]uint{l.ID}, admin, "promote")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

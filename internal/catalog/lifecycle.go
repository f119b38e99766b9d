package catalog

import (
	"errors"
	"fmt"
	"time"

	"classifieds-service/internal/apperr"
	"classifieds-service/internal/model"

	"gorm.io/gorm"
)

// transitions is the moderation status graph. DELETED is additionally
// reachable from every non-DELETED status, and nothing leaves DELETED.
var transitions = map[model.ListingStatus][]model.ListingStatus{
	model.StatusPending:  {model.StatusActive, model.StatusRejected},
	model.StatusActive:   {model.StatusExpired, model.StatusSold, model.StatusDeleted},
	model.StatusRejected: {model.StatusActive},
}

func transitionAllowed(current, target model.ListingStatus) bool {
	if current == model.StatusDeleted {
		return false
	}
	if target == model.StatusDeleted {
		return true
	}
	for _, t := range transitions[current] {
		if t == target {
			return true
		}
	}
	return false
}

// authorizeTransition is the single authorization policy for moderation.
// Admins may perform any transition; owners may only mark their own listing
// SOLD or DELETED.
func authorizeTransition(actor model.Actor, listing *model.Listing, target model.ListingStatus) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.UserID == listing.OwnerUserID &&
		(target == model.StatusSold || target == model.StatusDeleted) {
		return nil
	}
	return apperr.Forbidden("actor %d may not move listing %d to %s", actor.UserID, listing.ID, target)
}

// Transition moves a single listing through the moderation graph. The row
// update carries the current status in its WHERE clause so a concurrent
// moderator cannot interleave a partial write.
func (s *Service) Transition(id uint, actor model.Actor, target model.ListingStatus, reason string) (*model.Listing, error) {
	var listing model.Listing
	if err := s.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("listing %d not found", id)
		}
		return nil, err
	}

	if !transitionAllowed(listing.Status, target) {
		return nil, apperr.InvalidTransition(string(listing.Status), string(target))
	}
	if err := authorizeTransition(actor, &listing, target); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":           target,
		"rejection_reason": nil,
	}
	if target == model.StatusRejected && reason != "" {
		updates["rejection_reason"] = reason
	}
	if target == model.StatusActive {
		updates["approved_at"] = time.Now()
	}

	res := s.db.Model(&model.Listing{}).
		Where("id = ? AND status = ?", id, listing.Status).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost a race with another moderator; report against what is stored now.
		var current model.Listing
		if err := s.db.First(&current, id).Error; err != nil {
			return nil, apperr.NotFound("listing %d not found", id)
		}
		return nil, apperr.InvalidTransition(string(current.Status), string(target))
	}

	if err := s.db.Preload("Images", imageOrder).First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// Bulk moderation actions.
const (
	BulkApprove = "approve"
	BulkReject  = "reject"
	BulkFeature = "feature"
	BulkDelete  = "delete"
)

// SkippedListing records one id a bulk action did not apply to, and why.
type SkippedListing struct {
	ID     uint   `json:"id"`
	Reason string `json:"reason"`
}

// BulkResult is the per-row accounting of a bulk action.
type BulkResult struct {
	Applied int              `json:"applied"`
	Skipped []SkippedListing `json:"skipped"`
}

// BulkTransition applies a moderation action across many listings, best
// effort: rows the action does not apply to are skipped and reported, never
// errored, and no transaction spans the batch. approve and reject act on
// PENDING rows only; feature toggles the featured flag on any non-DELETED
// row; delete soft-deletes any non-DELETED row. Admin only.
func (s *Service) BulkTransition(ids []uint, actor model.Actor, action string) (*BulkResult, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("bulk moderation requires admin rights")
	}
	switch action {
	case BulkApprove, BulkReject, BulkFeature, BulkDelete:
	default:
		return nil, apperr.Validation("unknown bulk action %q", action)
	}

	result := &BulkResult{Skipped: []SkippedListing{}}
	for _, id := range ids {
		if reason := s.applyBulkAction(id, action); reason != "" {
			result.Skipped = append(result.Skipped, SkippedListing{ID: id, Reason: reason})
		}
	}
	result.Applied = len(ids) - len(result.Skipped)
	return result, nil
}

// applyBulkAction runs one row's action and returns a skip reason, or ""
// when the action applied. Each row's update is a single guarded statement.
func (s *Service) applyBulkAction(id uint, action string) string {
	var listing model.Listing
	if err := s.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "not found"
		}
		return err.Error()
	}

	switch action {
	case BulkApprove, BulkReject:
		if listing.Status != model.StatusPending {
			return fmt.Sprintf("status is %s, not PENDING", listing.Status)
		}
		target := model.StatusActive
		updates := map[string]interface{}{"status": target, "rejection_reason": nil}
		if action == BulkApprove {
			updates["approved_at"] = time.Now()
		} else {
			target = model.StatusRejected
			updates["status"] = target
		}
		res := s.db.Model(&model.Listing{}).
			Where("id = ? AND status = ?", id, model.StatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error.Error()
		}
		if res.RowsAffected == 0 {
			return "status changed concurrently"
		}

	case BulkFeature:
		if listing.Status == model.StatusDeleted {
			return "listing is deleted"
		}
		res := s.db.Model(&model.Listing{}).
			Where("id = ? AND status <> ?", id, model.StatusDeleted).
			UpdateColumn("is_featured", gorm.Expr("NOT is_featured"))
		if res.Error != nil {
			return res.Error.Error()
		}
		if res.RowsAffected == 0 {
			return "listing is deleted"
		}

	case BulkDelete:
		if listing.Status == model.StatusDeleted {
			return "listing is already deleted"
		}
		res := s.db.Model(&model.Listing{}).
			Where("id = ? AND status <> ?", id, model.StatusDeleted).
			Updates(map[string]interface{}{
				"status":           model.StatusDeleted,
				"rejection_reason": nil,
			})
		if res.Error != nil {
			return res.Error.Error()
		}
		if res.RowsAffected == 0 {
			return "listing is already deleted"
		}
	}
	return ""
}

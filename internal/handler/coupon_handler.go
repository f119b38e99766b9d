package handler

import (
	"errors"
	"net/http"

	"classifieds-service/internal/apperr"
	"classifieds-service/internal/coupon"
	"classifieds-service/internal/middleware"
	"classifieds-service/pkg/logger"
	"classifieds-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CouponHandler serves coupon claiming and redemption.
type CouponHandler struct {
	coupons *coupon.Service
}

// NewCouponHandler creates a coupon handler backed by the coupon service.
func NewCouponHandler(svc *coupon.Service) *CouponHandler {
	return &CouponHandler{coupons: svc}
}

// ClaimCoupon reserves a coupon for the authenticated user
func (h *CouponHandler) ClaimCoupon(c echo.Context) error {
	log := logger.FromContext(c)

	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coupon id"})
	}

	log.Info("Coupon claim request",
		zap.Uint("coupon_id", id),
		zap.Uint("user_id", actor.UserID))

	claim, err := h.coupons.Claim(id, actor.UserID)
	if err != nil {
		prometheus.RecordCouponClaim(claimOutcome(err))
		log.Warn("Coupon claim rejected",
			zap.Uint("coupon_id", id),
			zap.Uint("user_id", actor.UserID),
			zap.Error(err))
		return writeError(c, err)
	}

	prometheus.RecordCouponClaim("claimed")
	log.Info("Coupon claimed",
		zap.Uint("coupon_id", claim.CouponID),
		zap.Uint("user_id", claim.UserID))
	return c.JSON(http.StatusCreated, claim)
}

// RedeemCoupon marks the caller's claim as used
func (h *CouponHandler) RedeemCoupon(c echo.Context) error {
	log := logger.FromContext(c)

	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coupon id"})
	}

	claim, err := h.coupons.Redeem(id, actor.UserID)
	if err != nil {
		log.Warn("Coupon redemption rejected",
			zap.Uint("coupon_id", id),
			zap.Uint("user_id", actor.UserID),
			zap.Error(err))
		return writeError(c, err)
	}

	log.Info("Coupon redeemed",
		zap.Uint("coupon_id", claim.CouponID),
		zap.Uint("user_id", claim.UserID))
	return c.JSON(http.StatusOK, claim)
}

func claimOutcome(err error) string {
	switch {
	case errors.Is(err, apperr.ErrAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, apperr.ErrExpired):
		return "expired"
	case errors.Is(err, apperr.ErrSoldOut):
		return "sold_out"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

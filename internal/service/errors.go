package service

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrEmailTaken      = errors.New("email already registered")
	ErrEmailUnverified = errors.New("email not verified")

	// Cancellation wizard errors.
	ErrFlowNotFound            = errors.New("no cancellation flow in progress")
	ErrStaleSession            = errors.New("cancellation flow session is stale")
	ErrInvalidStep             = errors.New("operation not valid for current wizard step")
	ErrSubscriptionUnavailable = errors.New("no active subscription with billing identifiers")
	ErrCouponApplicationFailed = errors.New("coupon application failed")
	ErrCancellationFailed      = errors.New("subscription cancellation failed")
	ErrOfferPersistenceFailed  = errors.New("offer persistence failed")
	ErrOfferNotFound           = errors.New("offer not found or no longer active")
	ErrInvalidPassword         = errors.New("confirmation did not match")
)

package models

import "errors"

var (
	ErrConflictData            = errors.New("data conflicts with existing data")
	ErrDataNotFound            = errors.New("data not found")
	ErrInvalidRequest          = errors.New("invalid order request")
	ErrOutsideDeliveryArea     = errors.New("address is outside the delivery area")
	ErrBelowMinimumOrder       = errors.New("order value is below the delivery minimum")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrInternalError           = errors.New("internal error")
)

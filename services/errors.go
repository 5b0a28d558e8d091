package services

import "errors"

// Validation errors are rejected before any write and reported with a
// specific reason. Not-found conditions come from the repository package.
var (
	ErrInvalidUserID        = errors.New("invalid user id")
	ErrInvalidDiscID        = errors.New("invalid disc id")
	ErrInvalidOrderID       = errors.New("invalid order id")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrEmptyCart            = errors.New("cart is empty or not found")
	ErrEmptyAddress         = errors.New("address must not be empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidTransition    = errors.New("order status cannot move backwards or leave a terminal state")
)

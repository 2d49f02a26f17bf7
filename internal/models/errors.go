package models

import "errors"

// Common errors used throughout the application
var (
	ErrTourNotFound      = errors.New("tour not found")
	ErrScheduleNotFound  = errors.New("tour schedule not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrNoPaymentItem     = errors.New("no payment item in cart")
	ErrPaymentInFlight   = errors.New("a payment is already in flight")
	ErrUnauthorized      = errors.New("unauthorized access")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient ticket stock")
)

package repository

import "errors"

var (
	ErrCartNotFound  = errors.New("cart not found")
	ErrItemNotFound  = errors.New("item not found in cart")
	ErrDiscNotFound  = errors.New("disc not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrFeeNotFound   = errors.New("delivery fee not found for district")
	ErrNoShippers    = errors.New("no shippers available")
)

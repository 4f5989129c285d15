package core

import "errors"

// PriceScale is the number of fixed-point decimal places every Price carries
// on the wire: a wire Price of 1 represents 0.0001 of the quoted currency.
const PriceScale = 4

// Errors returned by the core. Not-found conditions (cancel/modify/get
// against an unknown id) are reported as a bool or nil return, never an
// error; these sentinels are reserved for malformed input and storage-level
// conflicts, matching the teacher's pkg/core/constants.go split.
var (
	ErrInvalidQuantity  = errors.New("core: invalid quantity")
	ErrInvalidPrice     = errors.New("core: invalid price")
	ErrInvalidStopPrice = errors.New("core: invalid stop price")
	ErrInvalidSymbol    = errors.New("core: invalid symbol")
	ErrInvalidOrderType = errors.New("core: invalid order type")
	ErrOrderExists      = errors.New("core: order already exists")
	ErrOrderNotFound    = errors.New("core: order not found")
)

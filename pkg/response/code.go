package response

// Business status codes.
const (
	CodeSuccess = 0
	CodeError   = 1

	// Account module errors 100xx
	ErrAccountExists   = 10001
	ErrAccountNotFound = 10002
	ErrAuthFailed      = 10003
	ErrTokenInvalid    = 10004
	ErrNoPermission    = 10005

	// Offer module errors 200xx
	ErrOfferNotFound = 20001
	ErrOfferInactive = 20002
	ErrOfferExpired  = 20003

	// Ledger module errors 300xx
	ErrAlreadyJoined      = 30001
	ErrNotJoined          = 30002
	ErrRedemptionNotFound = 30003
	ErrAlreadyRedeemed    = 30004
	ErrBusinessMismatch   = 30005

	// Menu module errors 400xx
	ErrMenuItemNotFound = 40001

	// System errors 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)

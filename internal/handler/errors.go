package handler

// Generic HTTP error messages for client responses.
// These messages never carry internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"

	ErrMsgUnknownError        = "Unknown error"
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgUserNotFoundError   = "User not found"

	ErrMsgListPacksFailed     = "Failed to list pack types"
	ErrMsgDuplicateTierFormat = "tier %s given more than once"
)

// Operation names used in logs
const (
	opGetProgression  = "Get progression"
	opAddExp          = "Add EXP"
	opGrantExp        = "Grant EXP"
	opGrantRubies     = "Grant rubies"
	opGetDropRates    = "Get drop rates"
	opListPacks       = "List packs"
	opRoll            = "Roll"
	opUpdateDropRates = "Update drop rates"
)

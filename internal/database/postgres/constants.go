package postgres

// Error message fragments wrapped around domain.ErrDatabaseError
const (
	errMsgQueryProgression   = "failed to query progression"
	errMsgUpdateProgression  = "failed to update progression"
	errMsgUpdateEnergy       = "failed to update energy"
	errMsgUpdateRubies       = "failed to update rubies"
	errMsgInsertNotification = "failed to insert notification"
	errMsgInsertTransaction  = "failed to insert currency transaction"
	errMsgEncodeNotification = "failed to encode notification data"
	errMsgQueryDropRates     = "failed to query drop rates"
	errMsgSaveDropRates      = "failed to save drop rates"
	errMsgListPacks          = "failed to list pack types"
	errMsgBeginTx            = "failed to begin transaction"
	errMsgCommitTx           = "failed to commit transaction"
)

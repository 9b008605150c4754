package handler

const (
	// UserIDLocal is the fiber locals key holding the authenticated user id.
	UserIDLocal = "UserID"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)

package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Document and editing errors (100-199)
	ErrCodeInvalidDocument  ErrorCode = 100
	ErrCodeTypeMismatch     ErrorCode = 101
	ErrCodeUnknownType      ErrorCode = 102
	ErrCodeEmptyClipboard   ErrorCode = 103
	ErrCodeNodeNotFound     ErrorCode = 104
	ErrCodeInvalidSelection ErrorCode = 105
	ErrCodeInvalidConfig    ErrorCode = 106

	// Serialization errors (200-299)
	ErrCodeParseError        ErrorCode = 200
	ErrCodeUnknownOperator   ErrorCode = 201
	ErrCodeUnsupportedFormat ErrorCode = 202
	ErrCodeInvalidValue      ErrorCode = 203
	ErrCodeTooManyRules      ErrorCode = 204

	// Persistence errors (300-399)
	ErrCodeNetworkError ErrorCode = 300
	ErrCodeServerError  ErrorCode = 301
	ErrCodeSaveBlocked  ErrorCode = 302
	ErrCodeSaveInFlight ErrorCode = 303

	// Preset and import errors (400-499)
	ErrCodePresetNotFound ErrorCode = 400
	ErrCodeEmptyFile      ErrorCode = 401
	ErrCodeImportFailed   ErrorCode = 402
)

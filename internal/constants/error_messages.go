package constants

const (
	MessageErrorRequired = "The '%s' field is required."
	MessageErrorFormat   = "The '%s' format is invalid."
	MessageErrorMaxLen   = "The '%s' field must be at most %s characters."
)

const (
	ErrCodeValidationFailed       = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody     = "INVALID_REQUEST_BODY"
	ErrCodeInvalidPageNumber      = "INVALID_PAGE_NUMBER"
	ErrCodeInvalidPageSize        = "INVALID_PAGE_SIZE"
	ErrCodeInvalidTransactionID   = "INVALID_TRANSACTION_ID"
	ErrCodeInvalidThresholdAmount = "INVALID_THRESHOLD_AMOUNT"
	ErrCodeTransactionNotFound    = "TRANSACTION_NOT_FOUND"
	ErrCodeTransactionsNotFound   = "TRANSACTIONS_NOT_FOUND"
	ErrCodeDatabase               = "DATABASE_ERROR"
	ErrCodeInternalError          = "INTERNAL_ERROR"
)

const (
	ErrMsgValidationFailed       = "one or more fields are invalid"
	ErrMsgInvalidRequestBody     = "failed to parse request body"
	ErrMsgInvalidPageNumber      = "Invalid page number, it must be greater than zero."
	ErrMsgInvalidPageSize        = "Invalid page size, it must be greater than zero and not greater than %d."
	ErrMsgInvalidTransactionID   = "Invalid transaction id, it must be greater than zero."
	ErrMsgInvalidThresholdAmount = "Invalid threshold amount, it must be greater than zero."
	ErrMsgTransactionNotFound    = "Transaction with id %d not found."
	ErrMsgTransactionsNotFound   = "No transactions found."
	ErrMsgInternalError          = "Internal server error"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:       ErrMsgValidationFailed,
	ErrCodeInvalidRequestBody:     ErrMsgInvalidRequestBody,
	ErrCodeInvalidPageNumber:      ErrMsgInvalidPageNumber,
	ErrCodeInvalidTransactionID:   ErrMsgInvalidTransactionID,
	ErrCodeInvalidThresholdAmount: ErrMsgInvalidThresholdAmount,
	ErrCodeTransactionsNotFound:   ErrMsgTransactionsNotFound,
	ErrCodeInternalError:          ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidRequestBody, ErrCodeInvalidPageNumber, ErrCodeInvalidPageSize,
		ErrCodeInvalidTransactionID, ErrCodeInvalidThresholdAmount:
		return 400
	case ErrCodeTransactionNotFound, ErrCodeTransactionsNotFound:
		return 404
	default:
		return 500
	}
}

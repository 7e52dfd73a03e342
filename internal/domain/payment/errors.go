package payment

import "fmt"

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInsufficientFunds
	KindInvalidAmount
	KindRecipientNotFound
	KindUnsupportedCurrency
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindInsufficientFunds:
		return "InsufficientFunds"
	case KindInvalidAmount:
		return "InvalidAmount"
	case KindRecipientNotFound:
		return "RecipientNotFound"
	case KindUnsupportedCurrency:
		return "UnsupportedCurrency"
	case KindNetwork:
		return "NetworkError"
	default:
		return "UnknownPaymentError"
	}
}

const (
	DefaultErrorMessage = "Something went wrong on our end, Please try again"
	NetworkErrorMessage = "Network Error Occurred"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrInsufficientFunds   = &Error{Kind: KindInsufficientFunds}
	ErrInvalidAmount       = &Error{Kind: KindInvalidAmount}
	ErrRecipientNotFound   = &Error{Kind: KindRecipientNotFound}
	ErrUnsupportedCurrency = &Error{Kind: KindUnsupportedCurrency}
	ErrNetwork             = &Error{Kind: KindNetwork}
	ErrUnknown             = &Error{Kind: KindUnknown}
)

// Error is the closed failure taxonomy of a payment submission.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func NewError(kind ErrorKind, message string) *Error {
	if message == "" {
		message = DefaultErrorMessage
	}
	return &Error{Kind: kind, Message: message}
}

func NewNetworkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: NetworkErrorMessage, Err: cause}
}

func NewUnknownError(cause error) *Error {
	return &Error{Kind: KindUnknown, Message: DefaultErrorMessage, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Error codes sent by the payment backend.
const (
	CodeMissingRequiredFields = "MISSING_REQUIRED_FIELDS"
	CodeInvalidEmail          = "INVALID_EMAIL"
	CodeInvalidAmount         = "INVALID_AMOUNT"
	CodeInvalidCurrency       = "INVALID_CURRENCY"
	CodeInsufficientFunds     = "INSUFFICIENT_FUNDS"
)

// KindForCode maps the backend's error code onto an ErrorKind. The
// INVALID_EMAIL -> RecipientNotFound relabeling is part of the wire contract.
func KindForCode(code string) ErrorKind {
	switch code {
	case CodeInsufficientFunds:
		return KindInsufficientFunds
	case CodeInvalidEmail:
		return KindRecipientNotFound
	case CodeInvalidAmount:
		return KindInvalidAmount
	case CodeInvalidCurrency:
		return KindUnsupportedCurrency
	default:
		return KindUnknown
	}
}

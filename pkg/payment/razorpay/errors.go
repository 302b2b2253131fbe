package razorpay

import "errors"

var (
	ErrNetworkError     = errors.New("razorpay network error")
	ErrUnauthorized     = errors.New("razorpay authentication failed")
	ErrInvalidRequest   = errors.New("razorpay rejected the request")
	ErrGatewayError     = errors.New("razorpay gateway error")
	ErrInvalidSignature = errors.New("razorpay signature mismatch")
)

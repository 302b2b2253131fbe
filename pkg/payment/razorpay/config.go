package razorpay

import "errors"

// Config holds Razorpay API credentials.
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// Validate checks that required configuration is present.
func (c Config) Validate() error {
	if c.KeyID == "" {
		return errors.New("razorpay key id is required")
	}
	if c.KeySecret == "" {
		return errors.New("razorpay key secret is required")
	}
	if c.BaseURL == "" {
		return errors.New("razorpay base url is required")
	}
	return nil
}

package errors

import "fmt"

var (
	ErrUnauthenticated    = fmt.Errorf("authentication required")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrForbidden          = fmt.Errorf("operation not permitted")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrNotFound           = fmt.Errorf("row not found")
	ErrRelationMissing    = fmt.Errorf("relation not found")
	ErrCodeAlreadyUsed    = fmt.Errorf("beta code already redeemed")
	ErrInvalidCode        = fmt.Errorf("unknown beta code")
	ErrDependency         = fmt.Errorf("upstream dependency failed")
	ErrMissingSecret      = fmt.Errorf("required secret is not configured")
	ErrRateLimited        = fmt.Errorf("rate limit exceeded")
	ErrInvalidSignature   = fmt.Errorf("webhook signature verification failed")
)

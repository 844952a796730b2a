package model

import "context"

// IdentityProvider is a managed user directory. Every call carries the
// per-username secret hash the provider requires.
type IdentityProvider interface {
	SignUp(ctx context.Context, params SignUpParams) (SignUpResult, error)
	ConfirmSignUp(ctx context.Context, params ConfirmParams) error
	InitiateAuth(ctx context.Context, params AuthParams) (AuthResult, error)
}

// SignUpParams contains registration data.
type SignUpParams struct {
	Username   string
	Password   string
	Email      string
	SecretHash string
}

// ConfirmParams contains a confirmation code for a pending registration.
type ConfirmParams struct {
	Username   string
	Code       string
	SecretHash string
}

// AuthParams contains password login data.
type AuthParams struct {
	Username   string
	Password   string
	SecretHash string
}

// SignUpResult is the provider's answer to a successful registration.
type SignUpResult struct {
	UserSub             string
	UserConfirmed       bool
	DeliveryMedium      string
	DeliveryDestination string
}

// AuthResult is the token bundle returned on successful login.
type AuthResult struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	TokenType    string
	ExpiresIn    int32
}

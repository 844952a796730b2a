package cognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"

	"github.com/dtroode/cloudblog/internal/model"
)

// cognitoAPI is the subset of the user pool client the provider calls.
type cognitoAPI interface {
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.ConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error)
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
}

var _ model.IdentityProvider = (*Provider)(nil)

// Provider talks to a Cognito user pool app client.
type Provider struct {
	api      cognitoAPI
	clientID string
}

// NewProvider creates a provider backed by a real Cognito client.
func NewProvider(client *cognitoidentityprovider.Client, clientID string) *Provider {
	return NewProviderWithAPI(client, clientID)
}

// NewProviderWithAPI allows injecting a mockable API (used in tests).
func NewProviderWithAPI(api cognitoAPI, clientID string) *Provider {
	return &Provider{api: api, clientID: clientID}
}

func (p *Provider) SignUp(ctx context.Context, params model.SignUpParams) (model.SignUpResult, error) {
	out, err := p.api.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId:   aws.String(p.clientID),
		SecretHash: aws.String(params.SecretHash),
		Username:   aws.String(params.Username),
		Password:   aws.String(params.Password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(params.Email)},
		},
	})
	if err != nil {
		return model.SignUpResult{}, classify("sign up", err)
	}

	result := model.SignUpResult{
		UserSub:       aws.ToString(out.UserSub),
		UserConfirmed: out.UserConfirmed,
	}
	if d := out.CodeDeliveryDetails; d != nil {
		result.DeliveryMedium = string(d.DeliveryMedium)
		result.DeliveryDestination = aws.ToString(d.Destination)
	}

	return result, nil
}

func (p *Provider) ConfirmSignUp(ctx context.Context, params model.ConfirmParams) error {
	_, err := p.api.ConfirmSignUp(ctx, &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(p.clientID),
		SecretHash:       aws.String(params.SecretHash),
		Username:         aws.String(params.Username),
		ConfirmationCode: aws.String(params.Code),
	})
	if err != nil {
		return classify("confirm sign up", err)
	}

	return nil
}

func (p *Provider) InitiateAuth(ctx context.Context, params model.AuthParams) (model.AuthResult, error) {
	out, err := p.api.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		ClientId: aws.String(p.clientID),
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME":    params.Username,
			"PASSWORD":    params.Password,
			"SECRET_HASH": params.SecretHash,
		},
	})
	if err != nil {
		return model.AuthResult{}, classify("initiate auth", err)
	}

	// A challenge (new password, MFA) has no token bundle and is not supported.
	if out.AuthenticationResult == nil {
		return model.AuthResult{}, model.NewRejectionError(
			string(out.ChallengeName),
			fmt.Sprintf("Additional authentication step required: %s", out.ChallengeName),
		)
	}

	res := out.AuthenticationResult
	return model.AuthResult{
		AccessToken:  aws.ToString(res.AccessToken),
		IDToken:      aws.ToString(res.IdToken),
		RefreshToken: aws.ToString(res.RefreshToken),
		TokenType:    aws.ToString(res.TokenType),
		ExpiresIn:    res.ExpiresIn,
	}, nil
}

// classify turns service-side API errors into rejections. Transport and
// credential faults stay ordinary errors.
func classify(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return model.NewRejectionError(apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

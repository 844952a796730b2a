package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dtroode/cloudblog/internal/logger"
	"github.com/dtroode/cloudblog/internal/model"
)

// Identity registers, confirms and authenticates users against the identity
// provider's app client.
type Identity struct {
	provider     model.IdentityProvider
	clientID     string
	clientSecret string
	logger       *logger.Logger
}

func NewIdentity(provider model.IdentityProvider, clientID, clientSecret string, logger *logger.Logger) *Identity {
	return &Identity{
		provider:     provider,
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logger,
	}
}

// ComputeSecretHash returns base64(HMAC-SHA256(secret, username+clientID)).
func ComputeSecretHash(username, clientID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (s *Identity) secretHash(username string) string {
	return ComputeSecretHash(username, s.clientID, s.clientSecret)
}

func (s *Identity) RegisterUser(ctx context.Context, username, email, password string) (model.SignUpResult, error) {
	s.logger.Debug("Identity service: registering user",
		"username", username)

	res, err := s.provider.SignUp(ctx, model.SignUpParams{
		Username:   username,
		Password:   password,
		Email:      email,
		SecretHash: s.secretHash(username),
	})
	if err != nil {
		return model.SignUpResult{}, s.fail("register user", username, err)
	}

	s.logger.Info("Identity service: user registered",
		"username", username,
		"confirmed", res.UserConfirmed)

	return res, nil
}

func (s *Identity) ConfirmUser(ctx context.Context, username, code string) error {
	s.logger.Debug("Identity service: confirming user",
		"username", username)

	err := s.provider.ConfirmSignUp(ctx, model.ConfirmParams{
		Username:   username,
		Code:       code,
		SecretHash: s.secretHash(username),
	})
	if err != nil {
		return s.fail("confirm user", username, err)
	}

	s.logger.Info("Identity service: user confirmed",
		"username", username)

	return nil
}

func (s *Identity) LoginUser(ctx context.Context, username, password string) (model.AuthResult, error) {
	s.logger.Debug("Identity service: logging in user",
		"username", username)

	res, err := s.provider.InitiateAuth(ctx, model.AuthParams{
		Username:   username,
		Password:   password,
		SecretHash: s.secretHash(username),
	})
	if err != nil {
		return model.AuthResult{}, s.fail("log in user", username, err)
	}

	s.logger.Info("Identity service: user logged in",
		"username", username)

	return res, nil
}

// fail passes rejections through untouched so their text reaches the user.
func (s *Identity) fail(op, username string, err error) error {
	var rej *model.RejectionError
	if errors.As(err, &rej) {
		s.logger.Info("Identity service: request rejected",
			"op", op,
			"username", username,
			"code", rej.Code)
		return rej
	}

	s.logger.Error("Identity service: provider call failed",
		"op", op,
		"username", username,
		"error", err.Error())
	return fmt.Errorf("failed to %s: %w", op, err)
}

package service

import (
	"context"
	"sync"

	"github.com/dtroode/cloudblog/internal/model"
)

// memPostStore is a map-backed PostStore with the same not-found contract as
// the real backends.
type memPostStore struct {
	mu    sync.Mutex
	posts map[string]model.Post
}

func newMemPostStore() *memPostStore {
	return &memPostStore{posts: map[string]model.Post{}}
}

func (m *memPostStore) Put(_ context.Context, post model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[post.ID] = post
	return nil
}

func (m *memPostStore) GetByID(_ context.Context, id string) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return model.Post{}, model.ErrNotFound
	}
	return p, nil
}

func (m *memPostStore) Scan(_ context.Context) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	return out, nil
}

func (m *memPostStore) Update(_ context.Context, id string, update model.PostUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil
	}
	p.Title = update.Title
	p.Content = update.Content
	p.UpdatedAt = update.UpdatedAt
	if update.ImageURL != "" {
		p.ImageURL = update.ImageURL
	}
	m.posts[id] = p
	return nil
}

func (m *memPostStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

type pendingUser struct {
	password  string
	confirmed bool
}

// memIdentity is a user pool with a fixed confirmation code. Every call
// checks the secret hash it receives.
type memIdentity struct {
	clientID string
	secret   string
	code     string
	users    map[string]*pendingUser
}

func newMemIdentity(clientID, secret, code string) *memIdentity {
	return &memIdentity{clientID: clientID, secret: secret, code: code, users: map[string]*pendingUser{}}
}

func (m *memIdentity) checkHash(username, hash string) error {
	if hash != ComputeSecretHash(username, m.clientID, m.secret) {
		return model.NewRejectionError("NotAuthorizedException", "Unable to verify secret hash for client "+m.clientID)
	}
	return nil
}

func (m *memIdentity) SignUp(_ context.Context, p model.SignUpParams) (model.SignUpResult, error) {
	if err := m.checkHash(p.Username, p.SecretHash); err != nil {
		return model.SignUpResult{}, err
	}
	if _, ok := m.users[p.Username]; ok {
		return model.SignUpResult{}, model.NewRejectionError("UsernameExistsException", "User already exists")
	}
	m.users[p.Username] = &pendingUser{password: p.Password}
	return model.SignUpResult{UserSub: "sub-" + p.Username, DeliveryMedium: "EMAIL"}, nil
}

func (m *memIdentity) ConfirmSignUp(_ context.Context, p model.ConfirmParams) error {
	if err := m.checkHash(p.Username, p.SecretHash); err != nil {
		return err
	}
	u, ok := m.users[p.Username]
	if !ok {
		return model.NewRejectionError("UserNotFoundException", "Username/client id combination not found.")
	}
	if p.Code != m.code {
		return model.NewRejectionError("CodeMismatchException", "Invalid verification code provided, please try again.")
	}
	u.confirmed = true
	return nil
}

func (m *memIdentity) InitiateAuth(_ context.Context, p model.AuthParams) (model.AuthResult, error) {
	if err := m.checkHash(p.Username, p.SecretHash); err != nil {
		return model.AuthResult{}, err
	}
	u, ok := m.users[p.Username]
	if !ok || u.password != p.Password {
		return model.AuthResult{}, model.NewRejectionError("NotAuthorizedException", "Incorrect username or password.")
	}
	if !u.confirmed {
		return model.AuthResult{}, model.NewRejectionError("UserNotConfirmedException", "User is not confirmed.")
	}
	return model.AuthResult{AccessToken: "access-" + p.Username, IDToken: "id", TokenType: "Bearer", ExpiresIn: 3600}, nil
}

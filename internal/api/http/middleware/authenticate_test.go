package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpctx "github.com/dtroode/cloudblog/internal/api/http/context"
	"github.com/dtroode/cloudblog/internal/model"
	"github.com/dtroode/cloudblog/internal/testutil"
)

type sessionServiceMock struct {
	mock.Mock
}

func (m *sessionServiceMock) Resolve(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func TestAuthenticate_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		cookie       string
		resolveUser  string
		resolveErr   error
		expectLookup bool
		wantUser     string
		wantFound    bool
	}{
		{
			name:      "no cookie",
			wantFound: false,
		},
		{
			name:         "invalid session",
			cookie:       "bad",
			resolveErr:   model.ErrInvalidSession,
			expectLookup: true,
			wantFound:    false,
		},
		{
			name:         "store failure stays anonymous",
			cookie:       "tok",
			resolveErr:   errors.New("redis down"),
			expectLookup: true,
			wantFound:    false,
		},
		{
			name:         "valid session",
			cookie:       "tok",
			resolveUser:  "alice",
			expectLookup: true,
			wantUser:     "alice",
			wantFound:    true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &sessionServiceMock{}
			if tt.expectLookup {
				svc.On("Resolve", mock.Anything, tt.cookie).Return(tt.resolveUser, tt.resolveErr).Once()
			}
			cm := httpctx.NewManager()

			var (
				gotUser  string
				gotFound bool
				called   bool
			)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotUser, gotFound = cm.GetUsernameFromContext(r.Context())
			})

			mw := NewAuthenticate(svc, cm, "sess", testutil.MakeNoopLogger())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "sess", Value: tt.cookie})
			}
			mw.Handle(next).ServeHTTP(httptest.NewRecorder(), req)

			assert.True(t, called)
			assert.Equal(t, tt.wantFound, gotFound)
			assert.Equal(t, tt.wantUser, gotUser)
			svc.AssertExpectations(t)
		})
	}
}

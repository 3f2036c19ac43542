package session

import (
	"context"
	"strings"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/service"
)

// DemoToken is the token issued by StubAuthenticator.
const DemoToken = "mock_jwt"

// DemoUser is the account every StubAuthenticator login resolves to.
func DemoUser() model.User {
	return model.User{
		ID:    "u1",
		Name:  "Demo User",
		Email: "demo@xpense.com",
		Preferences: model.Preferences{
			Currency:      model.DefaultCurrency,
			Notifications: true,
		},
	}
}

// StubAuthenticator accepts any non-empty credentials and returns the demo
// account. It stands in for a real identity provider.
type StubAuthenticator struct{}

var _ service.Authenticator = StubAuthenticator{}

// Authenticate implements service.Authenticator.
func (StubAuthenticator) Authenticate(ctx context.Context, creds service.Credentials) (model.User, string, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, "", err
	}
	if strings.TrimSpace(creds.Email) == "" {
		return model.User{}, "", common.NewValidationError("email", "is required")
	}
	if creds.Password == "" {
		return model.User{}, "", common.NewValidationError("password", "is required")
	}
	return DemoUser(), DemoToken, nil
}

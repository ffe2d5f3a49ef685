package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"

	"github.com/agoraforge/agora/internal/config"
	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/pkg/models"
)

// identityValidator is satisfied by idtoken.Validate, isolated behind a function type so tests
// can substitute a fake verifier instead of calling out to Google.
type identityValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// ServiceAuthResult is the outcome of a successful service-account exchange.
type ServiceAuthResult struct {
	User        *models.User
	AccessToken string
	ExpiresIn   int
}

// ServiceExchangeService verifies a GCP identity token against the configured audience,
// checks the carried service-account email against the allowlist, and issues a session
// token for that account's pre-provisioned system user row.
type ServiceExchangeService struct {
	users     repository.UserRepository
	jwt       *JWTService
	allowlist *Allowlist
	audience  string
	validate  identityValidator
}

// NewServiceExchangeService wires the service-account exchange path.
func NewServiceExchangeService(users repository.UserRepository, jwt *JWTService, allowlist *Allowlist, cfg config.AuthConfig) *ServiceExchangeService {
	return &ServiceExchangeService{
		users:     users,
		jwt:       jwt,
		allowlist: allowlist,
		audience:  cfg.JWTAudience,
		validate:  idtoken.Validate,
	}
}

// Exchange validates a GCP identity token and returns a session token for the matching
// system user. Returns models.ErrInvalidToken for a malformed/unverifiable token,
// models.ErrForbidden if the service account is not on the allowlist, and models.ErrInternal
// if the allowlisted account has no corresponding user row.
func (s *ServiceExchangeService) Exchange(ctx context.Context, identityToken string) (*ServiceAuthResult, error) {
	payload, err := s.validate(ctx, identityToken, s.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, models.ErrInvalidToken
	}

	if !s.allowlist.Allowed(email) {
		return nil, models.ErrForbidden
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up system user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no system user provisioned for service account %s", models.ErrInternal, email)
	}

	token, _, err := s.jwt.GenerateSessionToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	return &ServiceAuthResult{
		User:        user,
		AccessToken: token,
		ExpiresIn:   s.jwt.ExpirySeconds(),
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/cytutor/backend/internal/model"
)

// AccountStore is the credential store boundary. Lookups that find nothing
// return ErrUserNotFound.
type AccountStore interface {
	FindAccountByLogin(ctx context.Context, login string) (*model.AccountCredentials, error)
	GetAccountByID(ctx context.Context, id int64) (*model.Account, error)
	AccountExists(ctx context.Context, username, email string) (bool, error)
	CreateAccount(ctx context.Context, params model.NewAccount) (*model.Account, error)
	SetAccountActive(ctx context.Context, id int64, active bool) (*model.Account, error)
	GetAccountStats(ctx context.Context, id int64) (model.AccountStats, error)
}

// RevocationStore is the token blacklist boundary.
type RevocationStore interface {
	Revoke(ctx context.Context, accountID int64, tokenHash string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	Account model.Account
	Claims  *Claims
	Token   string
}

type AuthService struct {
	accounts    AccountStore
	revocations RevocationStore
	tokens      *TokenManager
	hasher      *PasswordHasher
	log         logrus.FieldLogger
}

func NewAuthService(accounts AccountStore, revocations RevocationStore, tokens *TokenManager, hasher *PasswordHasher, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		accounts:    accounts,
		revocations: revocations,
		tokens:      tokens,
		hasher:      hasher,
		log:         log,
	}
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Register creates a student account and issues its first token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.Account, string, error) {
	account, err := s.createAccount(ctx, req, model.RoleStudent)
	if err != nil {
		return nil, "", err
	}

	token, _, err := s.tokens.Issue(*account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

func (s *AuthService) createAccount(ctx context.Context, req model.RegisterRequest, role model.Role) (*model.Account, error) {
	username := strings.TrimSpace(req.Username)
	email := NormalizeEmail(req.Email)

	// The UNIQUE constraints decide; this only avoids a wasted bcrypt round.
	exists, err := s.accounts.AccountExists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.CreateAccount(ctx, model.NewAccount{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    optionalString(req.FirstName),
		LastName:     optionalString(req.LastName),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) || isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return account, nil
}

// Login accepts a username or an email. Unknown accounts and wrong passwords
// both surface as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.Account, string, error) {
	login := strings.TrimSpace(req.Username)
	if login == "" || req.Password == "" {
		return nil, "", ErrInvalidInput
	}

	creds, err := s.accounts.FindAccountByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.VerifyDecoy(req.Password)
			s.log.WithField("reason", "unknown_account").Info("login rejected")
			return nil, "", errUnknownAccount
		}
		return nil, "", err
	}

	ok, err := s.hasher.Verify(req.Password, creds.PasswordHash)
	if err != nil {
		s.log.WithField("user_id", creds.ID).WithError(err).Error("stored password hash is unreadable")
		return nil, "", err
	}
	if !ok {
		s.log.WithFields(logrus.Fields{"reason": "wrong_password", "user_id": creds.ID}).Info("login rejected")
		return nil, "", errWrongPassword
	}

	if !creds.IsActive {
		return nil, "", ErrAccountDeactivated
	}

	token, _, err := s.tokens.Issue(creds.Account)
	if err != nil {
		return nil, "", err
	}
	account := creds.Account
	return &account, token, nil
}

// Authenticate runs signature/expiry, then revocation, then account liveness,
// stopping at the first failure.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, HashToken(token))
	if err != nil {
		return nil, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return nil, ErrRevokedToken
	}

	account, err := s.accounts.GetAccountByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidUser
		}
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	if !account.IsActive {
		return nil, ErrAccountDeactivated
	}

	return &Identity{
		Account: *account,
		Claims:  claims,
		Token:   token,
	}, nil
}

// Logout blacklists the identity's token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, identity *Identity) error {
	if identity == nil || identity.Claims == nil {
		return ErrNoAuth
	}
	expiresAt := identity.Claims.ExpiresAt.Time
	return s.revocations.Revoke(ctx, identity.Account.ID, HashToken(identity.Token), expiresAt)
}

func (s *AuthService) Profile(ctx context.Context, identity *Identity) (model.UserResponse, error) {
	if identity == nil {
		return model.UserResponse{}, ErrNoAuth
	}
	stats, err := s.accounts.GetAccountStats(ctx, identity.Account.ID)
	if err != nil {
		return model.UserResponse{}, err
	}
	user := model.NewUserResponse(identity.Account)
	user.Stats = &stats
	return user, nil
}

// SetAccountActive is the administrative switch for the active flag.
func (s *AuthService) SetAccountActive(ctx context.Context, accountID int64, active bool) (*model.Account, error) {
	if accountID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.accounts.SetAccountActive(ctx, accountID, active)
}

// EnsureAdmin creates the bootstrap admin when it does not exist yet. An
// existing account with that username is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil
	}

	_, err := s.accounts.FindAccountByLogin(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	account, err := s.createAccount(ctx, model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, model.RoleAdmin)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil
		}
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": account.ID, "username": account.Username}).Info("bootstrap admin created")
	return nil
}

// RequireRole is the role gate for an already authenticated identity.
func RequireRole(identity *Identity, allowed ...model.Role) error {
	if identity == nil {
		return ErrNoAuth
	}
	for _, role := range allowed {
		if identity.Account.Role == role {
			return nil
		}
	}
	return &PermissionError{Allowed: allowed, Actual: identity.Account.Role}
}

type identityKey struct{}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey{}).(*Identity)
	return identity
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

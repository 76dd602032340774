package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"einsatzplan/config"
	"einsatzplan/internal/dto"
	"einsatzplan/internal/repository"
	"einsatzplan/pkg/jwt"
)

// Roles carried in the session
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

var (
	ErrInvalidCredentials = errors.New("Benutzername oder Kennwort falsch")
	ErrAccountInactive    = errors.New("Zugang ist deaktiviert")
	ErrInvalidToken       = errors.New("Token ungültig oder abgelaufen")
)

// Session is the authenticated caller of one request. It is built by the
// auth middleware and passed explicitly to services that need it.
type Session struct {
	UserID     string
	Name       string
	Role       string
	EmployeeID string
}

// IsAdmin reports administrator rights.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

func (s Session) toResponse() dto.SessionResponse {
	return dto.SessionResponse{UserID: s.UserID, Name: s.Name, Role: s.Role, EmployeeID: s.EmployeeID}
}

// IdentityProvider verifies a username/credential pair. Implementations
// return ErrInvalidCredentials when the pair is not theirs or does not match.
type IdentityProvider interface {
	Authenticate(ctx context.Context, username, credential string) (*Session, error)
}

// TokenBlacklist revokes token ids until they expire. *redis.Client implements it.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// ── identity providers ──

// adminProvider administrators configured with bcrypt hashes
type adminProvider struct {
	hashes map[string]string
}

// NewAdminProvider authenticates the configured administrators.
func NewAdminProvider(admins []config.AdminUser) IdentityProvider {
	p := &adminProvider{hashes: make(map[string]string, len(admins))}
	for _, a := range admins {
		p.hashes[a.Username] = a.PasswordHash
	}
	return p
}

func (p *adminProvider) Authenticate(_ context.Context, username, credential string) (*Session, error) {
	hash, ok := p.hashes[username]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Session{UserID: "admin:" + username, Name: username, Role: RoleAdmin}, nil
}

// employeeProvider staff log in with their name and personnel number
type employeeProvider struct {
	repo repository.EmployeeRepository
}

// NewEmployeeProvider authenticates active employees.
func NewEmployeeProvider(repo repository.EmployeeRepository) IdentityProvider {
	return &employeeProvider{repo: repo}
}

func (p *employeeProvider) Authenticate(ctx context.Context, username, credential string) (*Session, error) {
	emp, err := p.repo.GetByName(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if emp.PersonnelNumber == "" ||
		subtle.ConstantTimeCompare([]byte(emp.PersonnelNumber), []byte(strings.TrimSpace(credential))) != 1 {
		return nil, ErrInvalidCredentials
	}
	if !emp.IsActive {
		return nil, ErrAccountInactive
	}

	return &Session{UserID: emp.EmployeeID, Name: emp.Name, Role: RoleStaff, EmployeeID: emp.EmployeeID}, nil
}

// chainProvider asks each provider in turn.
type chainProvider []IdentityProvider

// NewChainProvider tries providers in order; the first definite answer wins.
func NewChainProvider(providers ...IdentityProvider) IdentityProvider {
	return chainProvider(providers)
}

func (c chainProvider) Authenticate(ctx context.Context, username, credential string) (*Session, error) {
	for _, p := range c {
		sess, err := p.Authenticate(ctx, username, credential)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrInvalidCredentials) {
			return nil, err
		}
	}
	return nil, ErrInvalidCredentials
}

// NewIdentityProvider builds the configured provider chain.
func NewIdentityProvider(cfg *config.AuthConfig, repo *repository.Repository) IdentityProvider {
	providers := []IdentityProvider{NewAdminProvider(cfg.Admins)}
	if cfg.StaffLogin {
		providers = append(providers, NewEmployeeProvider(repo.Employee))
	}
	return NewChainProvider(providers...)
}

// ── auth service ──

// AuthService login, token refresh and logout
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout revokes the given token until its natural expiry.
	Logout(ctx context.Context, token string) error
	Me(sess Session) dto.SessionResponse
}

type authService struct {
	identity  IdentityProvider
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist may be nil; logout is
// then a no-op on the server side.
func NewAuthService(
	identity IdentityProvider,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		identity:  identity,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	sess, err := s.identity.Authenticate(ctx, req.Username, req.Credential)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) && !errors.Is(err, ErrAccountInactive) {
			s.logger.Error("authentication failed", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("login", zap.String("user_id", sess.UserID), zap.String("role", sess.Role))
	return s.issue(sess)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}
	if s.revoked(ctx, claims.ID) {
		return nil, ErrInvalidToken
	}

	sess := &Session{UserID: claims.UserID, Name: claims.Name, Role: claims.Role, EmployeeID: claims.EmployeeID}

	// staff must still exist and be active
	if sess.Role == RoleStaff {
		emp, err := s.repo.Employee.GetByID(ctx, sess.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidToken
			}
			s.logger.Error("refresh lookup failed", zap.Error(err))
			return nil, err
		}
		if !emp.IsActive {
			return nil, ErrAccountInactive
		}
		sess.Name = emp.Name
	}

	// rotate: the used refresh token is revoked
	s.revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))

	return s.issue(sess)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return ErrInvalidToken
	}
	s.revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	s.logger.Info("logout", zap.String("user_id", claims.UserID))
	return nil
}

func (s *authService) Me(sess Session) dto.SessionResponse {
	return sess.toResponse()
}

func (s *authService) issue(sess *Session) (*dto.TokenResponse, error) {
	sub := jwt.Subject{UserID: sess.UserID, Name: sess.Name, Role: sess.Role, EmployeeID: sess.EmployeeID}

	accessToken, err := s.jwtMgr.GenerateAccessToken(sub)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(sub)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         sess.toResponse(),
	}, nil
}

func (s *authService) revoke(ctx context.Context, jti string, ttl time.Duration) {
	if s.blacklist == nil || jti == "" {
		return
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Warn("token blacklist write failed", zap.Error(err))
	}
}

func (s *authService) revoked(ctx context.Context, jti string) bool {
	if s.blacklist == nil {
		return false
	}
	hit, err := s.blacklist.IsBlacklisted(ctx, jti)
	if err != nil {
		s.logger.Warn("token blacklist read failed", zap.Error(err))
		return false
	}
	return hit
}

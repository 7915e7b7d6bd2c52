package customer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"falcon-storefront/internal/domain"
	"falcon-storefront/internal/mail"
	tokenrepo "falcon-storefront/internal/repository/token"
	userrepo "falcon-storefront/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmailTaken is returned when registering an email that already has an
	// account.
	ErrEmailTaken = errors.New("email already registered")
)

// Service handles registration, login, profile and address-book flows.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	mailer      mail.Sender
	logger      *log.Logger
	accessTTL   time.Duration
	refreshTTL  time.Duration
	resetTTL    time.Duration
	passwordMin int
}

// New creates a Service with sane defaults.
func New(repo userrepo.Repository, tokens tokenrepo.Repository, mailer mail.Sender, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		mailer:      mailer,
		logger:      logger,
		accessTTL:   48 * time.Hour,
		refreshTTL:  30 * 24 * time.Hour,
		resetTTL:    time.Hour,
		passwordMin: 8,
	}
}

// RegisterInput captures fields expected by the register endpoint.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// Register creates a new account and sends the welcome mail.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, errors.New("first name required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if err := s.mailer.SendWelcome(ctx, user.Email, user.FirstName); err != nil {
		s.logger.Printf("customer: welcome mail user=%s error=%v", user.ID, err)
	}
	return user, nil
}

// Login validates credentials and returns issued tokens plus the user.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	password = strings.TrimSpace(password)
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, u.ID, tokenrepo.KindAccess, s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, u.ID, tokenrepo.KindRefresh, s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// Logout revokes the presented access token.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	return s.tokens.Revoke(ctx, accessToken)
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, accessToken string) (*domain.User, error) {
	meta, ok := s.tokens.Validate(ctx, accessToken)
	if !ok || meta.Kind != tokenrepo.KindAccess {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// UpdateInput carries the profile fields a user may change. Empty fields are
// left as they are.
type UpdateInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
}

// UpdateProfile applies non-empty fields to the user's profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateInput) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.FirstName); v != "" {
		u.FirstName = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		u.LastName = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		u.Email = strings.ToLower(v)
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		u.Phone = v
	}
	if v := strings.TrimSpace(in.DateOfBirth); v != "" {
		u.DateOfBirth = v
	}
	updated, err := s.repo.Update(ctx, *u)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return updated, nil
}

// ChangePassword verifies the current password before setting the new one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(current))); err != nil {
		return ErrInvalidCredentials
	}
	return s.setPassword(ctx, userID, next)
}

// RequestPasswordReset issues a single-use reset token and mails it. Unknown
// emails are not reported to the caller.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("customer: reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.tokens.Issue(ctx, u.ID, tokenrepo.KindReset, s.resetTTL)
	if err != nil {
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, u.Email, token); err != nil {
		s.logger.Printf("customer: reset mail user=%s error=%v", u.ID, err)
	}
	return nil
}

// ResetPassword redeems a reset token and sets the new password. The token
// and any outstanding refresh tokens are revoked.
func (s *Service) ResetPassword(ctx context.Context, resetToken, next string) error {
	meta, ok := s.tokens.Validate(ctx, resetToken)
	if !ok || meta.Kind != tokenrepo.KindReset {
		return ErrInvalidToken
	}
	if err := s.setPassword(ctx, meta.UserID, next); err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, resetToken); err != nil {
		s.logger.Printf("customer: revoke reset token user=%s error=%v", meta.UserID, err)
	}
	if err := s.tokens.RevokeAll(ctx, meta.UserID, tokenrepo.KindRefresh); err != nil {
		s.logger.Printf("customer: revoke refresh tokens user=%s error=%v", meta.UserID, err)
	}
	return nil
}

func (s *Service) setPassword(ctx context.Context, userID, password string) error {
	password = strings.TrimSpace(password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, string(hashed))
}

// Addresses returns the user's address book.
func (s *Service) Addresses(ctx context.Context, userID string) ([]domain.Address, error) {
	return s.repo.ListAddresses(ctx, userID)
}

// AddressInput mirrors incoming address payloads.
type AddressInput struct {
	Type      string `json:"type"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	IsDefault bool   `json:"isDefault"`
}

// AddAddress appends an address; the first one automatically becomes the
// default.
func (s *Service) AddAddress(ctx context.Context, userID string, in AddressInput) (*domain.Address, error) {
	if err := validateAddress(in); err != nil {
		return nil, err
	}
	return s.repo.CreateAddress(ctx, domain.Address{
		UserID:    userID,
		Type:      addressType(in.Type),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Address:   in.Address,
		City:      in.City,
		State:     in.State,
		Pincode:   in.Pincode,
		IsDefault: in.IsDefault,
	})
}

// UpdateAddress replaces the address with the given id.
func (s *Service) UpdateAddress(ctx context.Context, userID, addressID string, in AddressInput) (*domain.Address, error) {
	if err := validateAddress(in); err != nil {
		return nil, err
	}
	return s.repo.UpdateAddress(ctx, domain.Address{
		ID:        addressID,
		UserID:    userID,
		Type:      addressType(in.Type),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Address:   in.Address,
		City:      in.City,
		State:     in.State,
		Pincode:   in.Pincode,
		IsDefault: in.IsDefault,
	})
}

// DeleteAddress removes the address; deleting the default promotes the
// oldest remaining one.
func (s *Service) DeleteAddress(ctx context.Context, userID, addressID string) error {
	return s.repo.DeleteAddress(ctx, userID, addressID)
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func addressType(t string) string {
	switch t {
	case "home", "work", "other":
		return t
	}
	return "home"
}

func validateAddress(in AddressInput) error {
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return errors.New("first name required")
	case strings.TrimSpace(in.Address) == "":
		return errors.New("address required")
	case strings.TrimSpace(in.City) == "":
		return errors.New("city required")
	case strings.TrimSpace(in.Pincode) == "":
		return errors.New("pincode required")
	}
	return nil
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}

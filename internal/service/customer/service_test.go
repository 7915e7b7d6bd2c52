package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"falcon-storefront/internal/domain"
	tokenrepo "falcon-storefront/internal/repository/token"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	users     map[string]*domain.User
	byEmail   map[string]*domain.User
	addresses map[string][]domain.Address
	lastHash  string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:     make(map[string]*domain.User),
		byEmail:   make(map[string]*domain.User),
		addresses: make(map[string][]domain.Address),
	}
}

func (s *stubUserRepo) add(u domain.User) *domain.User {
	stored := u
	s.users[u.ID] = &stored
	s.byEmail[u.Email] = &stored
	return &stored
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if _, ok := s.byEmail[u.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	u.ID = "user-" + u.Email
	return s.add(u), nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) Update(_ context.Context, u domain.User) (*domain.User, error) {
	stored := u
	s.users[u.ID] = &stored
	return &stored, nil
}

func (s *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	s.lastHash = hash
	return nil
}

func (s *stubUserRepo) List(_ context.Context) ([]domain.User, error) { return nil, nil }

func (s *stubUserRepo) Delete(_ context.Context, id string) error {
	delete(s.users, id)
	return nil
}

func (s *stubUserRepo) ListAddresses(_ context.Context, userID string) ([]domain.Address, error) {
	return s.addresses[userID], nil
}

func (s *stubUserRepo) CreateAddress(_ context.Context, a domain.Address) (*domain.Address, error) {
	a.ID = "addr-1"
	s.addresses[a.UserID] = append(s.addresses[a.UserID], a)
	return &a, nil
}

func (s *stubUserRepo) UpdateAddress(_ context.Context, a domain.Address) (*domain.Address, error) {
	return &a, nil
}

func (s *stubUserRepo) DeleteAddress(_ context.Context, _, _ string) error { return nil }

type stubTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]tokenrepo.Token)}
}

func (s *stubTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := s.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	s.tokens[t.Token] = t
	return nil
}

func (s *stubTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := s.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *stubTokenRepo) Delete(_ context.Context, token string) error {
	if _, ok := s.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tokens, token)
	return nil
}

func (s *stubTokenRepo) DeleteByUser(_ context.Context, userID, kind string) error {
	for k, t := range s.tokens {
		if t.UserID == userID && t.Kind == kind {
			delete(s.tokens, k)
		}
	}
	return nil
}

type recordingMailer struct {
	welcomes int
	resets   []string
}

func (m *recordingMailer) SendOrderConfirmation(_ context.Context, _, _ string, _ domain.Order) error {
	return nil
}

func (m *recordingMailer) SendWelcome(_ context.Context, _, _ string) error {
	m.welcomes++
	return nil
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, _, token string) error {
	m.resets = append(m.resets, token)
	return nil
}

func newService(users *stubUserRepo, tokens *stubTokenRepo, mailer *recordingMailer) *Service {
	return New(users, tokens, mailer, nil)
}

func registeredUser(t *testing.T, users *stubUserRepo, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return users.add(domain.User{
		ID:           "user-1",
		FirstName:    "Asha",
		LastName:     "Rao",
		Email:        email,
		PasswordHash: string(hash),
	})
}

func TestRegisterHappyPath(t *testing.T) {
	users := newStubUserRepo()
	mailer := &recordingMailer{}
	svc := newService(users, newStubTokenRepo(), mailer)

	u, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "Asha@Example.com",
		Password:  "Abcdefg1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "asha@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if mailer.welcomes != 1 {
		t.Fatalf("expected welcome mail")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newStubUserRepo()
	registeredUser(t, users, "asha@example.com", "Abcdefg1")
	svc := newService(users, newStubTokenRepo(), &recordingMailer{})

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Asha",
		Email:     "asha@example.com",
		Password:  "Abcdefg1",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := newService(newStubUserRepo(), newStubTokenRepo(), &recordingMailer{})

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Asha",
		Email:     "asha@example.com",
		Password:  "short",
	})
	if err == nil {
		t.Fatalf("expected password validation error")
	}
}

func TestLoginHappyPath(t *testing.T) {
	users := newStubUserRepo()
	registeredUser(t, users, "asha@example.com", "Abcdefg1")
	svc := newService(users, newStubTokenRepo(), &recordingMailer{})

	u, access, refresh, err := svc.Login(context.Background(), "asha@example.com", "Abcdefg1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "user-1" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if access == "" || refresh == "" || access == refresh {
		t.Fatalf("expected distinct tokens, got %q / %q", access, refresh)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newStubUserRepo()
	registeredUser(t, users, "asha@example.com", "Abcdefg1")
	svc := newService(users, newStubTokenRepo(), &recordingMailer{})

	_, _, _, err := svc.Login(context.Background(), "asha@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newService(newStubUserRepo(), newStubTokenRepo(), &recordingMailer{})

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "Abcdefg1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLookupByToken(t *testing.T) {
	users := newStubUserRepo()
	registeredUser(t, users, "asha@example.com", "Abcdefg1")
	svc := newService(users, newStubTokenRepo(), &recordingMailer{})

	_, access, _, err := svc.Login(context.Background(), "asha@example.com", "Abcdefg1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	u, err := svc.LookupByToken(context.Background(), access)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.Email != "asha@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestLookupByExpiredToken(t *testing.T) {
	users := newStubUserRepo()
	registeredUser(t, users, "asha@example.com", "Abcdefg1")
	tokens := newStubTokenRepo()
	tokens.tokens["stale"] = tokenrepo.Token{
		Token:     "stale",
		UserID:    "user-1",
		Kind:      tokenrepo.KindAccess,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	svc := newService(users, tokens, &recordingMailer{})

	_, err := svc.LookupByToken(context.Background(), "stale")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, ok := tokens.tokens["stale"]; ok {
		t.Fatalf("expected expired token removed")
	}
}

func TestLookupRejectsNonAccessToken(t *testing.T) {
	users := newStubUserRepo()
	registeredUser(t, users, "asha@example.com", "Abcdefg1")
	tokens := newStubTokenRepo()
	tokens.tokens["reset-token"] = tokenrepo.Token{
		Token:     "reset-token",
		UserID:    "user-1",
		Kind:      tokenrepo.KindReset,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	svc := newService(users, tokens, &recordingMailer{})

	_, err := svc.LookupByToken(context.Background(), "reset-token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	users := newStubUserRepo()
	registeredUser(t, users, "asha@example.com", "Abcdefg1")
	svc := newService(users, newStubTokenRepo(), &recordingMailer{})

	err := svc.ChangePassword(context.Background(), "user-1", "wrong", "Newpass1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	users := newStubUserRepo()
	registeredUser(t, users, "asha@example.com", "Abcdefg1")
	tokens := newStubTokenRepo()
	mailer := &recordingMailer{}
	svc := newService(users, tokens, mailer)
	ctx := context.Background()

	if err := svc.RequestPasswordReset(ctx, "asha@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(mailer.resets) != 1 {
		t.Fatalf("expected one reset mail, got %d", len(mailer.resets))
	}

	if err := svc.ResetPassword(ctx, mailer.resets[0], "Newpass1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if users.lastHash == "" {
		t.Fatalf("expected password hash updated")
	}

	// The token is single-use.
	if err := svc.ResetPassword(ctx, mailer.resets[0], "Another1"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on reuse, got %v", err)
	}
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	mailer := &recordingMailer{}
	svc := newService(newStubUserRepo(), newStubTokenRepo(), mailer)

	if err := svc.RequestPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.resets) != 0 {
		t.Fatalf("no mail expected for unknown email")
	}
}

func TestAddAddressValidation(t *testing.T) {
	svc := newService(newStubUserRepo(), newStubTokenRepo(), &recordingMailer{})

	_, err := svc.AddAddress(context.Background(), "user-1", AddressInput{FirstName: "Asha"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestAddAddressDefaultsType(t *testing.T) {
	users := newStubUserRepo()
	svc := newService(users, newStubTokenRepo(), &recordingMailer{})

	a, err := svc.AddAddress(context.Background(), "user-1", AddressInput{
		FirstName: "Asha",
		Address:   "12 MG Road",
		City:      "Bengaluru",
		Pincode:   "560001",
		Type:      "castle",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Type != "home" {
		t.Fatalf("expected type defaulted to home, got %q", a.Type)
	}
}

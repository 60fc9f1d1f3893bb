package auth

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ai-studio-server/modules/common/apperr"
	"ai-studio-server/modules/common/model"
)

type fakeUsers struct {
	byPhone map[string]*model.User
	byEmail map[string]*model.User
	byID    map[string]*model.User
	nextID  int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byPhone: map[string]*model.User{},
		byEmail: map[string]*model.User{},
		byID:    map[string]*model.User{},
	}
}

func (f *fakeUsers) FindUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	return f.byPhone[phone], nil
}

func (f *fakeUsers) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUsers) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) InsertUser(ctx context.Context, user *model.User) (*model.User, error) {
	f.nextID++
	saved := *user
	saved.ID = "user-" + string(rune('0'+f.nextID))
	f.byPhone[saved.Phone] = &saved
	if saved.Email != nil {
		f.byEmail[*saved.Email] = &saved
	}
	f.byID[saved.ID] = &saved
	return &saved, nil
}

func (f *fakeUsers) UpdateUserRefreshToken(ctx context.Context, id string, tokenHash *string) error {
	if user := f.byID[id]; user != nil {
		user.RefreshTokenHash = tokenHash
	}
	return nil
}

func (f *fakeUsers) UpdateUserLastLogin(ctx context.Context, id string, at time.Time) error {
	if user := f.byID[id]; user != nil {
		user.LastLogin = &at
	}
	return nil
}

type fakeOTP struct {
	codes  map[string]string
	counts map[string]int64
}

func newFakeOTP() *fakeOTP {
	return &fakeOTP{codes: map[string]string{}, counts: map[string]int64{}}
}

func (f *fakeOTP) SaveCode(ctx context.Context, purpose, key, value string, ttl time.Duration) error {
	f.codes[purpose+":"+key] = value
	return nil
}

func (f *fakeOTP) GetCode(ctx context.Context, purpose, key string) (string, error) {
	return f.codes[purpose+":"+key], nil
}

func (f *fakeOTP) DeleteCode(ctx context.Context, purpose, key string) error {
	delete(f.codes, purpose+":"+key)
	return nil
}

func (f *fakeOTP) IncrSendCount(ctx context.Context, purpose, key string, window time.Duration) (int64, error) {
	f.counts[purpose+":"+key]++
	return f.counts[purpose+":"+key], nil
}

type captureMessenger struct {
	phone string
	code  string
}

func (m *captureMessenger) SendOTP(ctx context.Context, phone, code string) error {
	m.phone = phone
	m.code = code
	return nil
}

func newTestService(users *fakeUsers, otp *fakeOTP, msgr *captureMessenger) *Service {
	return NewService(Deps{
		Users:            users,
		OTP:              otp,
		Messenger:        msgr,
		JWTSecret:        "test-access-secret",
		JWTRefreshSecret: "test-refresh-secret",
		OTPSendLimit:     5,
	})
}

func registeredUser(t *testing.T, users *fakeUsers, phone, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	user := &model.User{
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
	}
	if email != "" {
		user.Email = &email
	}
	saved, err := users.InsertUser(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	return saved
}

func TestSendSignupOTPConflict(t *testing.T) {
	users := newFakeUsers()
	registeredUser(t, users, "+911234567890", "", "pw")
	svc := newTestService(users, newFakeOTP(), &captureMessenger{})

	err := svc.SendSignupOTP(context.Background(), "+911234567890")
	if !apperr.IsConflict(err) || err.Error() != MsgPhoneExists {
		t.Fatalf("expected phone conflict, got %v", err)
	}
}

func TestSendSignupOTPRateLimit(t *testing.T) {
	svc := newTestService(newFakeUsers(), newFakeOTP(), &captureMessenger{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := svc.SendSignupOTP(ctx, "+919876543210"); err != nil {
			t.Fatalf("send %d failed: %v", i+1, err)
		}
	}

	err := svc.SendSignupOTP(ctx, "+919876543210")
	if !apperr.IsBadRequest(err) || err.Error() != MsgTooManyOTPRequests {
		t.Fatalf("expected rate limit, got %v", err)
	}
}

func TestSignupFlow(t *testing.T) {
	users := newFakeUsers()
	msgr := &captureMessenger{}
	svc := newTestService(users, newFakeOTP(), msgr)
	ctx := context.Background()

	if err := svc.SendSignupOTP(ctx, "+919876543210"); err != nil {
		t.Fatalf("SendSignupOTP failed: %v", err)
	}
	if msgr.phone != "+919876543210" || len(msgr.code) != 6 {
		t.Fatalf("messenger got phone=%q code=%q", msgr.phone, msgr.code)
	}

	session, err := svc.VerifySignupOTP(ctx, "+919876543210", msgr.code)
	if err != nil {
		t.Fatalf("VerifySignupOTP failed: %v", err)
	}
	if session == "" {
		t.Fatal("expected a session token")
	}

	// code is consumed
	if _, err := svc.VerifySignupOTP(ctx, "+919876543210", msgr.code); err == nil {
		t.Error("second verification with the same code should fail")
	}

	resp, err := svc.CompleteRegistration(ctx, &CompleteRegistrationRequest{
		SessionToken: session,
		Email:        "new@example.com",
		Password:     "s3cret-pass",
		FirstName:    "Asha",
	})
	if err != nil {
		t.Fatalf("CompleteRegistration failed: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens")
	}
	if resp.User.Phone != "+919876543210" || resp.User.Role != model.RoleUser {
		t.Errorf("unexpected profile: %+v", resp.User)
	}

	// the stored hash validates the password
	created := users.byPhone["+919876543210"]
	if created == nil {
		t.Fatal("user row missing")
	}
	if bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-pass")) != nil {
		t.Error("password hash does not validate")
	}

	// session token is single-use
	_, err = svc.CompleteRegistration(ctx, &CompleteRegistrationRequest{
		SessionToken: session,
		Password:     "other",
	})
	if err == nil || err.Error() != MsgInvalidSession {
		t.Errorf("expected consumed session, got %v", err)
	}
}

func TestVerifySignupOTPWrongCode(t *testing.T) {
	msgr := &captureMessenger{}
	svc := newTestService(newFakeUsers(), newFakeOTP(), msgr)
	ctx := context.Background()

	if err := svc.SendSignupOTP(ctx, "+919876543210"); err != nil {
		t.Fatal(err)
	}

	_, err := svc.VerifySignupOTP(ctx, "+919876543210", "000000")
	if msgr.code == "000000" {
		t.Skip("generated code collided with the guess")
	}
	if !apperr.IsBadRequest(err) || err.Error() != MsgInvalidOTP {
		t.Fatalf("expected invalid OTP, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	users := newFakeUsers()
	registeredUser(t, users, "+911111111111", "a@example.com", "right-pw")
	svc := newTestService(users, newFakeOTP(), &captureMessenger{})
	ctx := context.Background()

	// wrong password
	_, err := svc.Login(ctx, &LoginRequest{EmailOrPhone: "a@example.com", Password: "wrong"})
	if !apperr.IsUnauthorized(err) || err.Error() != MsgInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	// unknown phone
	_, err = svc.Login(ctx, &LoginRequest{EmailOrPhone: "+910000000000", Password: "right-pw"})
	if !apperr.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for unknown phone, got %v", err)
	}

	// success by email
	resp, err := svc.Login(ctx, &LoginRequest{EmailOrPhone: "a@example.com", Password: "right-pw"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected tokens")
	}
	if users.byEmail["a@example.com"].LastLogin == nil {
		t.Error("last_login not stamped")
	}

	// success by phone too
	if _, err := svc.Login(ctx, &LoginRequest{EmailOrPhone: "+911111111111", Password: "right-pw"}); err != nil {
		t.Errorf("phone login failed: %v", err)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	users := newFakeUsers()
	user := registeredUser(t, users, "+911111111111", "", "pw")
	user.Status = model.UserStatusInactive
	svc := newTestService(users, newFakeOTP(), &captureMessenger{})

	_, err := svc.Login(context.Background(), &LoginRequest{EmailOrPhone: "+911111111111", Password: "pw"})
	if !apperr.IsUnauthorized(err) || err.Error() != MsgAccountInactive {
		t.Fatalf("expected inactive account, got %v", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	users := newFakeUsers()
	registeredUser(t, users, "+911111111111", "", "pw")
	svc := newTestService(users, newFakeOTP(), &captureMessenger{})
	ctx := context.Background()

	first, err := svc.Login(ctx, &LoginRequest{EmailOrPhone: "+911111111111", Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}

	second, err := svc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if second.AccessToken == "" {
		t.Error("expected a new access token")
	}

	// rotation: the first refresh token no longer validates
	if _, err := svc.Refresh(ctx, first.RefreshToken); err == nil {
		t.Error("old refresh token should be rejected after rotation")
	}

	// garbage token
	if _, err := svc.Refresh(ctx, "not-a-jwt"); !apperr.IsUnauthorized(err) {
		t.Errorf("expected unauthorized for malformed token, got %v", err)
	}
}

func TestIssueTokensWithFullLengthJWT(t *testing.T) {
	users := newFakeUsers()
	registeredUser(t, users, "+911111111111", "", "pw")
	svc := newTestService(users, newFakeOTP(), &captureMessenger{})
	ctx := context.Background()

	resp, err := svc.Login(ctx, &LoginRequest{EmailOrPhone: "+911111111111", Password: "pw"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// a signed refresh JWT is well past bcrypt's 72-byte input cap; storing
	// it must not trip that limit
	if len(resp.RefreshToken) <= 72 {
		t.Fatalf("refresh token unexpectedly short (%d bytes), test is not exercising the limit", len(resp.RefreshToken))
	}

	stored := users.byPhone["+911111111111"].RefreshTokenHash
	if stored == nil {
		t.Fatal("refresh token hash not stored")
	}
	if bcrypt.CompareHashAndPassword([]byte(*stored), refreshTokenDigest(resp.RefreshToken)) != nil {
		t.Error("stored hash does not validate the issued token's digest")
	}

	if _, err := svc.Refresh(ctx, resp.RefreshToken); err != nil {
		t.Errorf("refresh with the issued token failed: %v", err)
	}
}

func TestValidateAccessToken(t *testing.T) {
	users := newFakeUsers()
	registeredUser(t, users, "+911111111111", "", "pw")
	svc := newTestService(users, newFakeOTP(), &captureMessenger{})
	ctx := context.Background()

	resp, err := svc.Login(ctx, &LoginRequest{EmailOrPhone: "+911111111111", Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}

	user, err := svc.ValidateAccessToken(ctx, resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if user.Phone != "+911111111111" {
		t.Errorf("wrong user: %+v", user)
	}

	// a refresh token must not pass as an access token
	if _, err := svc.ValidateAccessToken(ctx, resp.RefreshToken); err == nil {
		t.Error("refresh token accepted as access token")
	}
}

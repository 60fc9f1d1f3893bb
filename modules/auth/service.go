package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ai-studio-server/modules/common/apperr"
	"ai-studio-server/modules/common/model"
)

const (
	// OTP purposes double as Redis key namespaces
	purposeSignup        = "signup"
	purposeSignupSession = "signup-session"

	sessionTTL = 10 * time.Minute

	MsgPhoneExists        = "User with this phone number already exists"
	MsgEmailExists        = "User with this email already exists"
	MsgInvalidOTP         = "Invalid or expired OTP"
	MsgInvalidSession     = "Invalid or expired session token"
	MsgTooManyOTPRequests = "Too many OTP requests. Please try again later."
	MsgInvalidCredentials = "Invalid email/phone or password"
	MsgAccountInactive    = "Account inactive or banned"
	MsgInvalidRefresh     = "Invalid refresh token"
)

// UserStore - user rows
type UserStore interface {
	FindUserByPhone(ctx context.Context, phone string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	InsertUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateUserRefreshToken(ctx context.Context, id string, tokenHash *string) error
	UpdateUserLastLogin(ctx context.Context, id string, at time.Time) error
}

// OTPStore - short-lived codes and counters (Redis)
type OTPStore interface {
	SaveCode(ctx context.Context, purpose, key, value string, ttl time.Duration) error
	GetCode(ctx context.Context, purpose, key string) (string, error)
	DeleteCode(ctx context.Context, purpose, key string) error
	IncrSendCount(ctx context.Context, purpose, key string, window time.Duration) (int64, error)
}

// Messenger - OTP delivery provider
type Messenger interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// LogMessenger - stands in for the SMS/WhatsApp provider; delivery credentials
// are a deployment concern, the flow does not depend on them.
type LogMessenger struct{}

func (LogMessenger) SendOTP(ctx context.Context, phone, code string) error {
	log.Printf("📨 OTP for %s: %s", phone, code)
	return nil
}

type Deps struct {
	Users     UserStore
	OTP       OTPStore
	Messenger Messenger

	JWTSecret        string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	OTPTTL        time.Duration
	OTPSendLimit  int64
	OTPSendWindow time.Duration
}

type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	if deps.AccessTTL <= 0 {
		deps.AccessTTL = 15 * time.Minute
	}
	if deps.RefreshTTL <= 0 {
		deps.RefreshTTL = 7 * 24 * time.Hour
	}
	if deps.OTPTTL <= 0 {
		deps.OTPTTL = 5 * time.Minute
	}
	if deps.OTPSendLimit <= 0 {
		deps.OTPSendLimit = 5
	}
	if deps.OTPSendWindow <= 0 {
		deps.OTPSendWindow = 15 * time.Minute
	}
	return &Service{deps: deps}
}

// SendSignupOTP - reject registered phones before sending anything
func (s *Service) SendSignupOTP(ctx context.Context, phone string) error {
	existing, err := s.deps.Users.FindUserByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("failed to check phone: %w", err)
	}
	if existing != nil {
		return apperr.Conflict(MsgPhoneExists)
	}

	count, err := s.deps.OTP.IncrSendCount(ctx, purposeSignup, phone, s.deps.OTPSendWindow)
	if err != nil {
		return fmt.Errorf("failed to track OTP sends: %w", err)
	}
	if count > s.deps.OTPSendLimit {
		return apperr.BadRequest(MsgTooManyOTPRequests)
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	if err := s.deps.OTP.SaveCode(ctx, purposeSignup, phone, code, s.deps.OTPTTL); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	return s.deps.Messenger.SendOTP(ctx, phone, code)
}

// VerifySignupOTP - consume the code and mint a one-time registration session
// bound to the verified phone number
func (s *Service) VerifySignupOTP(ctx context.Context, phone, otp string) (string, error) {
	stored, err := s.deps.OTP.GetCode(ctx, purposeSignup, phone)
	if err != nil {
		return "", fmt.Errorf("failed to read OTP: %w", err)
	}
	if stored == "" || stored != otp {
		return "", apperr.BadRequest(MsgInvalidOTP)
	}

	if err := s.deps.OTP.DeleteCode(ctx, purposeSignup, phone); err != nil {
		return "", fmt.Errorf("failed to consume OTP: %w", err)
	}

	sessionToken := uuid.NewString()
	if err := s.deps.OTP.SaveCode(ctx, purposeSignupSession, sessionToken, phone, sessionTTL); err != nil {
		return "", fmt.Errorf("failed to create signup session: %w", err)
	}

	return sessionToken, nil
}

// CompleteRegistration - trade a valid session token for a user account
func (s *Service) CompleteRegistration(ctx context.Context, req *CompleteRegistrationRequest) (*AuthResponse, error) {
	phone, err := s.deps.OTP.GetCode(ctx, purposeSignupSession, req.SessionToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read signup session: %w", err)
	}
	if phone == "" {
		return nil, apperr.BadRequest(MsgInvalidSession)
	}

	// Session tokens are single-use
	if err := s.deps.OTP.DeleteCode(ctx, purposeSignupSession, req.SessionToken); err != nil {
		return nil, fmt.Errorf("failed to consume signup session: %w", err)
	}

	if req.Email != "" {
		existing, err := s.deps.Users.FindUserByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil {
			return nil, apperr.Conflict(MsgEmailExists)
		}
	}

	existing, err := s.deps.Users.FindUserByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict(MsgPhoneExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if req.FirstName != "" {
		user.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		user.LastName = &req.LastName
	}

	created, err := s.deps.Users.InsertUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("✅ User registered: %s", created.ID)
	return s.issueTokens(ctx, created)
}

// Login - email-or-phone plus password
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var user *model.User
	var err error

	if strings.Contains(req.EmailOrPhone, "@") {
		user, err = s.deps.Users.FindUserByEmail(ctx, req.EmailOrPhone)
	} else {
		user, err = s.deps.Users.FindUserByPhone(ctx, req.EmailOrPhone)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	if user.Status != model.UserStatusActive {
		return nil, apperr.Unauthorized(MsgAccountInactive)
	}

	if err := s.deps.Users.UpdateUserLastLogin(ctx, user.ID, time.Now()); err != nil {
		log.Printf("⚠️  Failed to stamp last_login for %s: %v", user.ID, err)
	}

	return s.issueTokens(ctx, user)
}

// Refresh - rotate the refresh token after validating signature and hash
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, err := s.parseToken(refreshToken, s.deps.JWTRefreshSecret)
	if err != nil {
		return nil, apperr.Unauthorized(MsgInvalidRefresh)
	}

	user, err := s.deps.Users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.RefreshTokenHash == nil {
		return nil, apperr.Unauthorized(MsgInvalidRefresh)
	}

	if bcrypt.CompareHashAndPassword([]byte(*user.RefreshTokenHash), refreshTokenDigest(refreshToken)) != nil {
		return nil, apperr.Unauthorized(MsgInvalidRefresh)
	}

	if user.Status != model.UserStatusActive {
		return nil, apperr.Unauthorized(MsgAccountInactive)
	}

	return s.issueTokens(ctx, user)
}

// ValidateAccessToken - used by the admin middleware
func (s *Service) ValidateAccessToken(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.parseToken(token, s.deps.JWTSecret)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid access token")
	}

	user, err := s.deps.Users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.Status != model.UserStatusActive {
		return nil, apperr.Unauthorized("Invalid access token")
	}

	return user, nil
}

func (s *Service) issueTokens(ctx context.Context, user *model.User) (*AuthResponse, error) {
	now := time.Now()

	accessToken, err := s.signToken(user, s.deps.JWTSecret, now.Add(s.deps.AccessTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := s.signToken(user, s.deps.JWTRefreshSecret, now.Add(s.deps.RefreshTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	// Only the bcrypt hash of the refresh token touches the database, and
	// storing it invalidates the previous token.
	hash, err := bcrypt.GenerateFromPassword(refreshTokenDigest(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %w", err)
	}
	hashStr := string(hash)
	if err := s.deps.Users.UpdateUserRefreshToken(ctx, user.ID, &hashStr); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &AuthResponse{
		Success:      true,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: Profile{
			ID:        user.ID,
			Phone:     user.Phone,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
			Status:    user.Status,
		},
	}, nil
}

func (s *Service) signToken(user *model.User, secret string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  time.Now().Unix(),
		"exp":  expiresAt.Unix(),
		"jti":  uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (s *Service) parseToken(token, secret string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("missing subject")
	}
	return sub, nil
}

// refreshTokenDigest - bcrypt caps its input at 72 bytes and a signed JWT is
// far longer, so the token is reduced to a hex SHA-256 digest first.
func refreshTokenDigest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(hex.EncodeToString(sum[:]))
}

// generateOTP - 6-digit numeric code from crypto/rand
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

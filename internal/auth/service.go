package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/user"
)

// OTPSender delivers a one-time code to the user. Implemented by the
// notification mailer; faked in tests.
type OTPSender interface {
	SendOTP(email, code string) error
}

type Service struct {
	userRepo       RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	otpSender      OTPSender
	bcryptCost     int
	otpTTL         time.Duration
	logger         *slog.Logger

	// now is swapped out in tests to pin OTP expiry boundaries.
	now func() time.Time
}

func NewService(userRepo RepositoryAPI, tokenGen TokenGeneratorAPI, otpSender OTPSender, bcryptCost int, otpTTL time.Duration, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		otpSender:      otpSender,
		bcryptCost:     bcryptCost,
		otpTTL:         otpTTL,
		logger:         logger,
		now:            time.Now,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, sessionTTL, shortTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     sessionTTL,
		RefreshTokenTTL:    sessionTTL,
		ShortTokenTTL:      shortTTL,
	}
}

func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, err
	}

	u := &userDatamodel.User{
		Email:        dto.Email,
		Phone:        dto.Phone,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PasswordHash: hash,
		Role:         userDatamodel.RoleUser,
		IsActive:     true,
	}

	if err := s.userRepo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "email", u.Email)

	if err := s.SendOTP(u.Email); err != nil {
		// registration stands; the user can request a new code
		s.logger.Warn("failed to send verification code after registration", "error", err, "user_id", u.ID)
	}

	return &User{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.userRepo.GetByEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	if !u.IsActive {
		return AuthTokens{}, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	if claims.Scope != ScopeSession {
		return AuthTokens{}, ErrInvalidToken
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Scope != ScopeSession {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SendOTP generates a fresh 4-digit code, stores it with its generation
// time and mails it. Each send replaces any previous outstanding code.
func (s *Service) SendOTP(email string) error {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// do not reveal whether the account exists
		s.logger.Warn("otp requested for unknown email", "email", email)
		return nil
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}

	generatedAt := s.now()
	if err := s.userRepo.SetOTP(u.ID, code, generatedAt); err != nil {
		s.logger.Error("failed to store otp", "error", err, "user_id", u.ID)
		return err
	}

	if err := s.otpSender.SendOTP(u.Email, code); err != nil {
		s.logger.Error("failed to send otp", "error", err, "user_id", u.ID)
		return err
	}

	s.logger.Info("otp sent", "user_id", u.ID)
	return nil
}

// VerifyOTP checks the code by exact match, enforces the 5-minute window
// strictly (a code presented at exactly TTL is expired) and clears it so
// it cannot be replayed.
func (s *Service) VerifyOTP(dto VerifyOTPDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.userRepo.GetByEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, ErrInvalidOTP
	}

	if u.OTP == nil || u.OTPGeneratedAt == nil {
		return AuthTokens{}, ErrInvalidOTP
	}

	if s.now().Sub(*u.OTPGeneratedAt) >= s.otpTTL {
		return AuthTokens{}, ErrOTPExpired
	}

	if *u.OTP != dto.OTP {
		return AuthTokens{}, ErrInvalidOTP
	}

	if err := s.userRepo.ClearOTP(u.ID); err != nil {
		s.logger.Error("failed to clear otp", "error", err, "user_id", u.ID)
		return AuthTokens{}, err
	}

	return s.issueTokens(u)
}

func (s *Service) GetUser(userID int64) (*User, error) {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}
	return &User{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (s *Service) issueTokens(u *userDatamodel.User) (AuthTokens, error) {
	userID := fmt.Sprintf("%d", u.ID)

	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, u.Email, u.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, u.Email, u.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// generateOTP draws a 4-digit numeric code from crypto/rand.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID, email, role string) (string, error) {
	return j.signed(userID, email, role, ScopeSession, j.AccessTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID, email, role string) (string, error) {
	return j.signed(userID, email, role, ScopeSession, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

// GenerateShortToken issues the 5-minute token used for OTP and password
// reset flows.
func (j *JWTTokenGenerator) GenerateShortToken(userID, email, role string) (string, error) {
	return j.signed(userID, email, role, ScopeOTP, j.ShortTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) signed(userID, email, role, scope string, ttl time.Duration, secret []byte) (string, error) {
	expiresAt := time.Now().Add(ttl)

	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		// refresh tokens are signed with their own secret
		token, err = jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return j.RefreshTokenSecret, nil
		})
	}

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

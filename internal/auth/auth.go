package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	errors "github.com/frahmantamala/course-platform/internal"
	userDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/user"
)

// User is the identity attached to the request context after the auth
// middleware has validated the session token.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == userDatamodel.RoleAdmin
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Token scopes. Session tokens are long-lived; short tokens authorize a
// single OTP/reset flow and expire after five minutes.
const (
	ScopeSession = "session"
	ScopeOTP     = "otp"
)

// Claims carried by every token: subject id, role flag and scope.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

type ServiceAPI interface {
	Register(dto RegisterDTO) (*User, error)
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	SendOTP(email string) error
	VerifyOTP(dto VerifyOTPDTO) (AuthTokens, error)
	GetUser(userID int64) (*User, error)
}

type RepositoryAPI interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(userID int64) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	SetOTP(userID int64, otp string, generatedAt time.Time) error
	ClearOTP(userID int64) error
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID, email, role string) (token string, err error)
	GenerateRefreshToken(userID, email, role string) (token string, err error)
	GenerateShortToken(userID, email, role string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	ShortTokenTTL      time.Duration
}

// Sentinel errors shared with handlers; the taxonomy in internal/errors
// maps them onto HTTP statuses.
var (
	ErrInvalidCredentials = errors.ErrInvalidCredentials
	ErrInvalidToken       = errors.ErrInvalidToken
	ErrTokenExpired       = errors.ErrTokenExpired
	ErrUserInactive       = errors.ErrUserInactive
	ErrInvalidOTP         = errors.ErrInvalidOTP
	ErrOTPExpired         = errors.ErrOTPExpired
	ErrEmailTaken         = errors.ErrEmailTaken
)

type ctxKey string

const ContextUserKey ctxKey = "authUser"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

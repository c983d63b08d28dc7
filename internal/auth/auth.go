package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Role values carried by every account. Status transitions on trips and
// expenses are restricted to the approver roles.
const (
	RoleColaborador     = "COLABORADOR"
	RoleGestor          = "GESTOR"
	RoleAssessorDiretor = "ASSESSOR_DIRETOR"
	RoleDesenvolvedor   = "DESENVOLVEDOR"
	RoleVisitante       = "VISITANTE"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	Register(dto RegisterDTO) (*User, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserByID(userID int64) (*User, error)
	HashPassword(password string) (string, error)
}

type RepositoryAPI interface {
	GetPasswordForEmail(email string) (passwordHash string, userID int64, err error)
	GetUserByID(userID int64) (*User, error)
	CreateUser(email, fullName, passwordHash, role string) (*User, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID string, email, role string) (token string, err error)
	GenerateRefreshToken(userID string, email, role string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// IsApprover reports whether the user may move trips and expenses out of
// their pending states.
func (u *User) IsApprover() bool {
	switch u.Role {
	case RoleGestor, RoleAssessorDiretor, RoleDesenvolvedor:
		return true
	}
	return false
}

func (u *User) IsDeveloper() bool {
	return u.Role == RoleDesenvolvedor
}

func (u *User) IsVisitor() bool {
	return u.Role == RoleVisitante
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
	ErrWrongLoginProfile  = errors.New("account does not match the selected login profile")
	ErrEmailTaken         = errors.New("email is already registered")
)

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

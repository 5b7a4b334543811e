package jwt

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrMissingClaims = errors.New("token is missing required claims")

// Claims is the typed view of an access token.
type Claims struct {
	UserID     string
	Email      string
	EmployeeID string
	Role       user.Role
}

func (c Claims) IsAdmin() bool {
	return c.Role == user.RoleAdmin
}

// ClaimsFromContext reads the access-token claims placed on the request
// context by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, ErrMissingClaims
	}
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)
	employeeID, _ := claims["employee_id"].(string)

	return Claims{
		UserID:     userID,
		Email:      email,
		EmployeeID: employeeID,
		Role:       user.Role(role),
	}, nil
}

type Service interface {
	GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	GenerateSSEToken(userID string, role user.Role) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (userID string, role user.Role, err error)
	ValidateRefreshToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	secretKey                  string
	accessTokenExpirationTime  string
	refreshTokenExpirationTime string
	secureCookie               bool
	tokenAuth                  *jwtauth.JWTAuth
	revokedTokens              map[string]int64
	mu                         sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string, secureCookie bool) Service {
	return &JWTService{
		secretKey:                  secretKey,
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		secureCookie:               secureCookie,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:              make(map[string]int64),
	}
}

func (j *JWTService) GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    "access",
		"exp":     expiresAt,
	}
	if employeeID != nil {
		claims["employee_id"] = *employeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.refreshTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"iat":     time.Now().Unix(),
		"jti":     uuid.NewString(),
		"type":    "refresh",
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = time.Now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// GenerateSSEToken generates a short-lived token for SSE connections. The
// role decides whether the stream also receives admin broadcasts.
func (j *JWTService) GenerateSSEToken(userID string, role user.Role) (token string, expiresIn int, err error) {
	expiresIn = 300
	expiresAt := time.Now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    "sse",
		"exp":     expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the user ID and role
func (j *JWTService) ValidateSSEToken(tokenString string) (userID string, role user.Role, err error) {
	token, userID, err := j.validateTyped(tokenString, "sse")
	if err != nil {
		return "", "", err
	}
	roleVal, _ := token.Get("role")
	roleStr, _ := roleVal.(string)
	return userID, user.Role(roleStr), nil
}

// ValidateRefreshToken checks signature, expiry and type of a refresh token.
// Revocation is tracked in the database, not here.
func (j *JWTService) ValidateRefreshToken(tokenString string) (userID string, err error) {
	_, userID, err = j.validateTyped(tokenString, "refresh")
	return userID, err
}

func (j *JWTService) validateTyped(tokenString, wantType string) (jwt.Token, string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return nil, "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != wantType {
		return nil, "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return nil, "", jwt.ErrInvalidJWT()
	}

	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return nil, "", jwt.ErrInvalidJWT()
	}

	return token, userID, nil
}

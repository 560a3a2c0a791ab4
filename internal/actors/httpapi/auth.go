package httpapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rbroggi/oneclick/internal/core/model"
)

const identityKey = "identity"

// Authenticator issues and verifies the HS256 bearer tokens of the API.
type Authenticator struct {
	secret  []byte
	ttl     time.Duration
	nowFunc func() time.Time
}

// AuthenticatorArgs are the mandatory arguments for the creation of an
// Authenticator.
type AuthenticatorArgs struct {
	// Secret is the HMAC signing secret.
	Secret string
}

// AuthenticatorOptArgs are the optional arguments for the creation of an
// Authenticator.
type AuthenticatorOptArgs func(*Authenticator)

// WithTokenTTL overrides the default 24h token lifetime.
func WithTokenTTL(ttl time.Duration) AuthenticatorOptArgs {
	return func(a *Authenticator) {
		a.ttl = ttl
	}
}

// WithAuthNowFunc overrides the time source used for issuance and expiry.
func WithAuthNowFunc(nowFunc func() time.Time) AuthenticatorOptArgs {
	return func(a *Authenticator) {
		a.nowFunc = nowFunc
	}
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(args AuthenticatorArgs, optArgs ...AuthenticatorOptArgs) (*Authenticator, error) {
	if args.Secret == "" {
		return nil, errors.New("empty secret passed to NewAuthenticator")
	}
	authenticator := &Authenticator{
		secret:  []byte(args.Secret),
		ttl:     24 * time.Hour,
		nowFunc: time.Now,
	}
	for _, opt := range optArgs {
		opt(authenticator)
	}
	return authenticator, nil
}

// IssueToken returns a signed bearer token for the user.
func (a *Authenticator) IssueToken(user model.User) (string, error) {
	now := a.nowFunc()
	claims := jwt.MapClaims{
		"uid":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(a.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

// Required is a middleware rejecting requests without a valid bearer token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.identityFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": err.Error(), "kind": "unauthorized"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// Optional is a middleware resolving the caller identity when a valid bearer
// token is present. Requests without one proceed anonymously; a malformed or
// expired token is still rejected.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		identity, err := a.identityFromHeader(header)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": err.Error(), "kind": "unauthorized"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

func (a *Authenticator) identityFromHeader(header string) (*model.Identity, error) {
	if header == "" {
		return nil, errors.New("missing authorization header")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errors.New("invalid token format")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.nowFunc))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	uid, _ := claims["uid"].(string)
	email, _ := claims["email"].(string)
	if uid == "" || email == "" {
		return nil, errors.New("invalid token claims")
	}
	return &model.Identity{UserID: uid, Email: email}, nil
}

// callerIdentity returns the identity resolved by the auth middlewares, or
// nil for anonymous requests.
func callerIdentity(c *gin.Context) *model.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*model.Identity)
	if !ok {
		return nil
	}
	return identity
}

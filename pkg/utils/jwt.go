package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var jwtSecret = []byte("secret")

const (
	UserClaimsKey = "userClaims"
	tokenIssuer   = "chainsync"
	tokenTTL      = time.Hour * 72
)

// SetSecret allows injecting the secret from config
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

// UserClaims scopes a token to a user, their roles and the stores they
// may import into. An empty Stores list means chain-wide access.
type UserClaims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Stores   []string `json:"stores,omitempty"`
	jwt.RegisteredClaims
}

// AllowsStore reports whether the token holder may target the given
// store. Tokens without a store list are chain-wide.
func (c *UserClaims) AllowsStore(storeID string) bool {
	if len(c.Stores) == 0 {
		return true
	}
	for _, s := range c.Stores {
		if s == storeID {
			return true
		}
	}
	return false
}

func GenerateToken(userID primitive.ObjectID, username string, roles, stores []string) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:   userID.Hex(),
		Username: username,
		Roles:    roles,
		Stores:   stores,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenSignatureInvalid
}

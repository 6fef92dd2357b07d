package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in session tokens.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

var (
	jwtKey     []byte
	expiration time.Duration
)

// Init sets the signing key and token lifetime from configuration.
// Must be called before tokens are issued or validated.
func Init(secret string, expirationSeconds int) {
	jwtKey = []byte(secret)
	expiration = time.Duration(expirationSeconds) * time.Second
}

// Claims is what rides inside a session token. For cashier sessions the
// counter fields identify which terminal rang the sale; admin sessions
// leave them zero.
type Claims struct {
	Role        string `json:"role"`
	CounterID   uint   `json:"counter_id,omitempty"`
	CashierID   int    `json:"cashier_id,omitempty"`
	CashierName string `json:"cashier_name,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for the given identity.
func GenerateToken(role string, counterID uint, cashierID int, cashierName string) (string, error) {
	claims := &Claims{
		Role:        role,
		CounterID:   counterID,
		CashierID:   cashierID,
		CashierName: cashierName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ValidateToken parses and verifies a session token.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

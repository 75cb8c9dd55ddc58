package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	RoleUser     = "user"
	RoleSeller   = "seller"
	RoleOperator = "operator"
)

type JWTServiceInterface interface {
	GenerateJWT(subjectID, role string, expirationTime time.Time) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

var secretKey = []byte("your-secret-key")

type Claims struct {
	SubjectID string `json:"subject_id"`
	Role      string `json:"role"`
	jwt.StandardClaims
}

type JWTService struct{}

func (s *JWTService) GenerateJWT(subjectID, role string, expirationTime time.Time) (string, error) {
	claims := Claims{
		SubjectID: subjectID,
		Role:      role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
			Issuer:    "vendimo",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SubjectID == "" || claims.Issuer != "vendimo" {
		return nil, errors.New("invalid token claims")
	}
	switch claims.Role {
	case RoleUser, RoleSeller, RoleOperator:
	default:
		return nil, errors.New("invalid token role")
	}

	return claims, nil
}

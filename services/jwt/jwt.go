package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	AccessTokenValidity  = time.Hour * 24
	RefreshTokenValidity = time.Hour * 24 * 7
	ResetTokenValidity   = time.Minute * 30
)

// GenerateTokenPair returns a signed access and refresh token for the user.
func GenerateTokenPair(email string, secret string, userID uint) (string, string, error) {
	accessClaims := jwt.MapClaims{
		"id":    userID,
		"email": email,
		"type":  "access",
		"exp":   time.Now().Add(AccessTokenValidity).Unix(),
		"iat":   time.Now().Unix(),
	}
	accessToken, err := signClaims(accessClaims, secret)
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.MapClaims{
		"id":   userID,
		"type": "refresh",
		"exp":  time.Now().Add(RefreshTokenValidity).Unix(),
		"iat":  time.Now().Unix(),
	}
	refreshToken, err := signClaims(refreshClaims, secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GeneratePasswordResetToken returns a short-lived token carrying the user id.
func GeneratePasswordResetToken(userID uint, secret string) (string, error) {
	claims := jwt.MapClaims{
		"id":   userID,
		"type": "password_reset",
		"exp":  time.Now().Add(ResetTokenValidity).Unix(),
		"iat":  time.Now().Unix(),
	}
	return signClaims(claims, secret)
}

// ValidateAndGetClaims parses and verifies a token, returning its claims.
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func signClaims(claims jwt.MapClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signedToken, nil
}

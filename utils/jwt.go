package utils

import (
	"errors"
	"time"

	"junkbutler/config"

	"github.com/golang-jwt/jwt"
)

const adminRole = "admin"

var ErrInvalidToken = errors.New("invalid token")

func secretKey() ([]byte, error) {
	if config.AppConfig.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}
	return []byte(config.AppConfig.JWTSecret), nil
}

// GenerateAdminToken creates a signed HS256 token for the dashboard operator.
func GenerateAdminToken(email string, duration time.Duration) (string, error) {
	key, err := secretKey()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  email,
		"role": adminRole,
		"iat":  now.Unix(),
		"exp":  now.Add(duration).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ValidateAdminToken returns the subject of a valid, unexpired admin token.
func ValidateAdminToken(tokenString string) (string, error) {
	key, err := secretKey()
	if err != nil {
		return "", err
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if role, _ := claims["role"].(string); role != adminRole {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}
	return sub, nil
}

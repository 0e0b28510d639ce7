// Package token emite y valida el bearer credential del sistema.
// El rol viaja como claim dentro del token firmado; el guard lo trata como
// input no confiable validado solo por firma y expiración acá.
package token

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
)

// Claims son los claims decodificados que consume el guard.
type Claims struct {
	UserID string
	Role   repository.Role
}

// Service emite y decodifica tokens opacos para el resto del sistema.
type Service interface {
	// Issue genera un token para el sujeto con su rol global.
	Issue(userID string, role repository.Role) (string, error)

	// Parse valida firma y expiración y retorna los claims.
	Parse(raw string) (*Claims, error)
}

var ErrInvalidToken = errors.New("invalid token")

// JWT implementa Service con HS256.
type JWT struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWT crea el servicio. ttl = 0 emite tokens sin expiración.
func NewJWT(secret, issuer string, ttl time.Duration) *JWT {
	return &JWT{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

func (s *JWT) Issue(userID string, role repository.Role) (string, error) {
	now := time.Now().UTC()
	claims := jwtv5.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iss":  s.issuer,
		"iat":  now.Unix(),
	}
	if s.ttl > 0 {
		claims["exp"] = now.Add(s.ttl).Unix()
	}
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *JWT) Parse(raw string) (*Claims, error) {
	tk, err := jwtv5.Parse(raw, func(t *jwtv5.Token) (any, error) { return s.secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithIssuer(s.issuer),
		jwtv5.WithLeeway(30*time.Second),
	)
	if err != nil || !tk.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mc, ok := tk.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	roleStr, _ := mc["role"].(string)
	if sub == "" || roleStr == "" {
		return nil, ErrInvalidToken
	}
	role, err := repository.ParseRole(roleStr)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Claims{UserID: sub, Role: role}, nil
}

package repository

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Role es el nivel de permiso global de un usuario (no confundir con el rol
// dentro de un proyecto, ver ProjectRole).
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
	RoleUser      Role = "USER"
)

// ParseRole valida y normaliza un rol global.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleModerator:
		return RoleModerator, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// User representa una cuenta del sistema. El password nunca se guarda en
// claro: PasswordHash es un PHC string opaco.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const passwordMinLength = 6

// ValidateEmail verifica que el email tenga forma de dirección de correo.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}
	return nil
}

// ValidatePassword aplica la política mínima: al menos 6 caracteres, un
// dígito y un carácter especial.
func ValidatePassword(plain string) error {
	if len(plain) < passwordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, passwordMinLength)
	}
	var digit, special bool
	for _, r := range plain {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&#._-", r):
			special = true
		}
	}
	if !digit {
		return fmt.Errorf("%w: password must contain a digit", ErrValidation)
	}
	if !special {
		return fmt.Errorf("%w: password must contain a special character", ErrValidation)
	}
	return nil
}

// UserRepository define las operaciones sobre usuarios. Cada método abre
// exactamente una unidad de trabajo: commit al salir limpio, rollback total
// ante cualquier error.
type UserRepository interface {
	// SignUp hashea el password e inserta el usuario.
	// Retorna ErrConflict si el email ya existe (detectado por pre-check o por
	// violación de unicidad en el insert; ambos caminos se traducen igual).
	SignUp(ctx context.Context, email, rawPassword string, role Role) (*User, error)

	// Login busca por email y verifica el password.
	// Retorna ErrNotFound si el email no existe, ErrInvalidCredential si el
	// password no coincide.
	Login(ctx context.Context, email, rawPassword string) (*User, error)

	// GetByID retorna el usuario o ErrNotFound.
	GetByID(ctx context.Context, id string) (*User, error)

	// DeleteByID elimina el usuario o retorna ErrNotFound.
	DeleteByID(ctx context.Context, id string) error

	// List retorna hasta limit usuarios ordenados por email ascendente.
	// limit <= 0 retorna lista vacía.
	List(ctx context.Context, limit int) ([]User, error)
}

// Package usecases contiene la orquestación fina entre handlers y
// repositorios: cada use case llama exactamente un método de repositorio.
package usecases

import (
	"context"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
	"github.com/dropDatabas3/coldquote/internal/token"
)

// SignUpUser registra una cuenta nueva con rol global USER.
type SignUpUser struct {
	Users repository.UserRepository
}

func (uc SignUpUser) Execute(ctx context.Context, email, rawPassword string) (*repository.User, error) {
	return uc.Users.SignUp(ctx, email, rawPassword, repository.RoleUser)
}

// LoginUser verifica credenciales y emite el token con el rol como claim.
type LoginUser struct {
	Users  repository.UserRepository
	Tokens token.Service
}

func (uc LoginUser) Execute(ctx context.Context, email, rawPassword string) (*repository.User, string, error) {
	u, err := uc.Users.Login(ctx, email, rawPassword)
	if err != nil {
		return nil, "", err
	}
	tk, err := uc.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, tk, nil
}

// GetUserProfile retorna el perfil de un usuario.
type GetUserProfile struct {
	Users repository.UserRepository
}

func (uc GetUserProfile) Execute(ctx context.Context, id string) (*repository.User, error) {
	return uc.Users.GetByID(ctx, id)
}

// GetAllUsers lista usuarios por email ascendente.
type GetAllUsers struct {
	Users repository.UserRepository
}

func (uc GetAllUsers) Execute(ctx context.Context, limit int) ([]repository.User, error) {
	return uc.Users.List(ctx, limit)
}

// DeleteUser elimina una cuenta (operación solo de admin, el guard lo impone
// en la capa HTTP).
type DeleteUser struct {
	Users repository.UserRepository
}

func (uc DeleteUser) Execute(ctx context.Context, id string) error {
	return uc.Users.DeleteByID(ctx, id)
}

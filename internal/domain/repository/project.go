package repository

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ProjectRole es el rol de un usuario dentro de un proyecto puntual,
// independiente de su rol global.
type ProjectRole string

const (
	ProjectRoleAdmin  ProjectRole = "ADMIN"
	ProjectRoleMember ProjectRole = "MEMBER"
)

// ParseProjectRole valida y normaliza un rol de proyecto.
func ParseProjectRole(s string) (ProjectRole, error) {
	switch ProjectRole(strings.ToUpper(strings.TrimSpace(s))) {
	case ProjectRoleAdmin:
		return ProjectRoleAdmin, nil
	case ProjectRoleMember:
		return ProjectRoleMember, nil
	}
	return "", fmt.Errorf("%w: unknown project role %q", ErrValidation, s)
}

// Project es una unidad de trabajo con nombre y número únicos. Members se
// resuelve desde las filas de membresía, nunca se embebe un grafo de objetos
// con back-references.
type Project struct {
	ID          string
	Number      string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Members     []ProjectMembership
}

// ProjectMembership es la fila de la tabla de jonción proyecto↔usuario.
// El par (ProjectID, UserID) es único.
type ProjectMembership struct {
	ProjectID string
	UserID    string
	Role      ProjectRole
}

const projectFieldMaxLength = 250

// ValidateProjectFields aplica los límites de longitud de number/name/description.
func ValidateProjectFields(number, name, description string) error {
	if strings.TrimSpace(number) == "" {
		return fmt.Errorf("%w: project number is required", ErrValidation)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: project name is required", ErrValidation)
	}
	for field, v := range map[string]string{
		"number":      number,
		"name":        name,
		"description": description,
	} {
		if len(v) > projectFieldMaxLength {
			return fmt.Errorf("%w: project %s exceeds %d characters", ErrValidation, field, projectFieldMaxLength)
		}
	}
	return nil
}

// ProjectRepository define las operaciones sobre proyectos y sus membresías.
// Misma disciplina transaccional que UserRepository: una unidad de trabajo
// por método, commit o rollback total.
type ProjectRepository interface {
	// Create inserta el proyecto y, en la misma transacción, la membresía del
	// creador con rol ADMIN. O se persisten ambas filas o ninguna.
	// Retorna ErrConflict si name o number ya existen, ErrNotFound si el
	// creador no existe.
	Create(ctx context.Context, number, name, description, creatorID string) (*Project, error)

	// Update actualiza number/name/description y refresca updated_at.
	// Los chequeos de unicidad excluyen al propio proyecto: renombrar al mismo
	// valor no conflictúa. Retorna ErrNotFound si el proyecto no existe,
	// ErrConflict si name o number chocan con otro proyecto.
	Update(ctx context.Context, id, number, name, description string) (*Project, error)

	// DeleteByID elimina el proyecto y todas sus membresías en una sola
	// transacción. Retorna ErrNotFound si no existe.
	DeleteByID(ctx context.Context, id string) error

	// AddMember inserta una membresía. Retorna ErrNotFound si proyecto o
	// usuario no existen, ErrConflict si el par ya existe.
	AddMember(ctx context.Context, projectID, userID string, role ProjectRole) (*ProjectMembership, error)

	// RemoveMember elimina una membresía. Retorna ErrNotFound si el proyecto
	// no existe y ErrConflict si el usuario no es miembro (un userID
	// desconocido cae en el mismo caso).
	RemoveMember(ctx context.Context, projectID, userID string) error

	// GetByID retorna el proyecto con su lista de membresías resuelta,
	// o ErrNotFound.
	GetByID(ctx context.Context, id string) (*Project, error)

	// List retorna hasta limit proyectos ordenados por nombre ascendente.
	// limit <= 0 retorna lista vacía.
	List(ctx context.Context, limit int) ([]Project, error)

	// ListForUser retorna los proyectos donde el usuario tiene membresía.
	// Usuario sin membresías (o inexistente) retorna lista vacía, no error.
	ListForUser(ctx context.Context, userID string) ([]Project, error)

	// ListMembers retorna los usuarios miembros del proyecto.
	// Retorna ErrNotFound si el proyecto no existe.
	ListMembers(ctx context.Context, projectID string) ([]User, error)

	// GetMemberRole retorna el rol del usuario dentro del proyecto, o
	// ErrNotFound si no hay membresía. Lo usa el guard de autorización
	// por proyecto.
	GetMemberRole(ctx context.Context, projectID, userID string) (ProjectRole, error)
}

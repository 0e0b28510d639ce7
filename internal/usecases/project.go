package usecases

import (
	"context"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
)

// CreateProject crea el proyecto con el caller como primer miembro ADMIN.
type CreateProject struct {
	Projects repository.ProjectRepository
}

func (uc CreateProject) Execute(ctx context.Context, number, name, description, creatorID string) (*repository.Project, error) {
	return uc.Projects.Create(ctx, number, name, description, creatorID)
}

// UpdateProject actualiza número/nombre/descripción.
type UpdateProject struct {
	Projects repository.ProjectRepository
}

func (uc UpdateProject) Execute(ctx context.Context, id, number, name, description string) (*repository.Project, error) {
	return uc.Projects.Update(ctx, id, number, name, description)
}

// DeleteProject elimina el proyecto con sus membresías.
type DeleteProject struct {
	Projects repository.ProjectRepository
}

func (uc DeleteProject) Execute(ctx context.Context, id string) error {
	return uc.Projects.DeleteByID(ctx, id)
}

// AddProjectMember suma un usuario al proyecto (rol MEMBER por defecto).
type AddProjectMember struct {
	Projects repository.ProjectRepository
}

func (uc AddProjectMember) Execute(ctx context.Context, projectID, userID string, role repository.ProjectRole) (*repository.ProjectMembership, error) {
	return uc.Projects.AddMember(ctx, projectID, userID, role)
}

// RemoveProjectMember saca un usuario del proyecto.
type RemoveProjectMember struct {
	Projects repository.ProjectRepository
}

func (uc RemoveProjectMember) Execute(ctx context.Context, projectID, userID string) error {
	return uc.Projects.RemoveMember(ctx, projectID, userID)
}

// GetProjectByID retorna el proyecto con su lista de miembros.
type GetProjectByID struct {
	Projects repository.ProjectRepository
}

func (uc GetProjectByID) Execute(ctx context.Context, id string) (*repository.Project, error) {
	return uc.Projects.GetByID(ctx, id)
}

// GetAllProjects lista proyectos por nombre ascendente.
type GetAllProjects struct {
	Projects repository.ProjectRepository
}

func (uc GetAllProjects) Execute(ctx context.Context, limit int) ([]repository.Project, error) {
	return uc.Projects.List(ctx, limit)
}

// GetUserProjects lista los proyectos donde el usuario es miembro.
type GetUserProjects struct {
	Projects repository.ProjectRepository
}

func (uc GetUserProjects) Execute(ctx context.Context, userID string) ([]repository.Project, error) {
	return uc.Projects.ListForUser(ctx, userID)
}

// GetProjectMembers lista los usuarios miembros de un proyecto.
type GetProjectMembers struct {
	Projects repository.ProjectRepository
}

func (uc GetProjectMembers) Execute(ctx context.Context, projectID string) ([]repository.User, error) {
	return uc.Projects.ListMembers(ctx, projectID)
}

// Package http expone la API REST: router chi, middlewares, guard de roles
// y los handlers de cada recurso.
package http

import (
	"time"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
	"github.com/dropDatabas3/coldquote/internal/rate"
	"github.com/dropDatabas3/coldquote/internal/token"
	"github.com/dropDatabas3/coldquote/internal/usecases"
)

// API agrupa los use cases y colaboradores que consumen los handlers.
type API struct {
	Tokens   token.Service
	Projects repository.ProjectRepository

	SignUp       usecases.SignUpUser
	Login        usecases.LoginUser
	Profile      usecases.GetUserProfile
	Users        usecases.GetAllUsers
	DeleteUser   usecases.DeleteUser
	UserProjects usecases.GetUserProjects

	CreateProject usecases.CreateProject
	UpdateProject usecases.UpdateProject
	DeleteProject usecases.DeleteProject
	GetProject    usecases.GetProjectByID
	ListProjects  usecases.GetAllProjects
	AddMember     usecases.AddProjectMember
	RemoveMember  usecases.RemoveProjectMember
	ListMembers   usecases.GetProjectMembers

	HumidAir    usecases.GetHumidAirProps
	ColdRoom    usecases.CalcColdRoomFast
	AddCoef     usecases.AddCoefficient
	UpdateCoef  usecases.UpdateCoefficient
	ListCoefs   usecases.ListCoefficients
	LoginLimit  rate.Limiter
	ReadyPinger func() error
}

type userDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserDTO(u *repository.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type memberDTO struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
}

type projectDTO struct {
	ID          string      `json:"id"`
	Number      string      `json:"project_number"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Members     []memberDTO `json:"members,omitempty"`
}

func toProjectDTO(p *repository.Project) projectDTO {
	dto := projectDTO{
		ID:          p.ID,
		Number:      p.Number,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, m := range p.Members {
		dto.Members = append(dto.Members, memberDTO{
			ProjectID: m.ProjectID,
			UserID:    m.UserID,
			Role:      string(m.Role),
		})
	}
	return dto
}

func toProjectDTOs(ps []repository.Project) []projectDTO {
	out := make([]projectDTO, 0, len(ps))
	for i := range ps {
		out = append(out, toProjectDTO(&ps[i]))
	}
	return out
}

func toUserDTOs(us []repository.User) []userDTO {
	out := make([]userDTO, 0, len(us))
	for i := range us {
		out = append(out, toUserDTO(&us[i]))
	}
	return out
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
)

type projectRequest struct {
	Number      string `json:"project_number"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// handleCreateProject crea el proyecto con el caller como primer ADMIN.
func (a *API) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !ReadJSON(w, r, &req) {
		return
	}
	claims := ClaimsFrom(r.Context())
	p, err := a.CreateProject.Execute(r.Context(), req.Number, req.Name, req.Description, claims.UserID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toProjectDTO(p))
}

func (a *API) handleListProjects(w http.ResponseWriter, r *http.Request) {
	ps, err := a.ListProjects.Execute(r.Context(), listLimit(r))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toProjectDTOs(ps))
}

func (a *API) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := a.GetProject.Execute(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toProjectDTO(p))
}

// handleUpdateProject actualiza número/nombre/descripción. Solo el ADMIN del
// proyecto (o el ADMIN global) pasa el guard.
func (a *API) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !ReadJSON(w, r, &req) {
		return
	}
	p, err := a.UpdateProject.Execute(r.Context(), chi.URLParam(r, "projectID"),
		req.Number, req.Name, req.Description)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toProjectDTO(p))
}

func (a *API) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := a.DeleteProject.Execute(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddMember suma un usuario al proyecto. Sin rol en el body queda MEMBER.
func (a *API) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if !ReadJSON(w, r, &req) {
		return
	}
	role := repository.ProjectRoleMember
	if req.Role != "" {
		var err error
		if role, err = repository.ParseProjectRole(req.Role); err != nil {
			WriteDomainError(w, err)
			return
		}
	}
	m, err := a.AddMember.Execute(r.Context(), chi.URLParam(r, "projectID"), req.UserID, role)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, memberDTO{
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      string(m.Role),
	})
}

func (a *API) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	err := a.RemoveMember.Execute(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "userID"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListMembers(w http.ResponseWriter, r *http.Request) {
	us, err := a.ListMembers.Execute(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserDTOs(us))
}

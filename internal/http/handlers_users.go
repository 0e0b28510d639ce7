package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
)

const defaultListLimit = 100

func listLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultListLimit
}

// handleListUsers: ADMIN y MODERATOR (el guard ya filtró).
func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	us, err := a.Users.Execute(r.Context(), listLimit(r))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserDTOs(us))
}

// handleGetUser: cada usuario ve su propio perfil; ADMIN y MODERATOR ven
// cualquiera.
func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	claims := ClaimsFrom(r.Context())
	if claims.UserID != id && claims.Role != repository.RoleAdmin && claims.Role != repository.RoleModerator {
		WriteError(w, http.StatusForbidden, "forbidden", "rol insuficiente", 1902)
		return
	}
	u, err := a.Profile.Execute(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserDTO(u))
}

// handleDeleteUser borra la cuenta. Solo ADMIN llega hasta acá.
func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := a.DeleteUser.Execute(r.Context(), chi.URLParam(r, "userID")); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUserProjects lista los proyectos donde el usuario es miembro.
// Mismo criterio de visibilidad que el perfil.
func (a *API) handleUserProjects(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	claims := ClaimsFrom(r.Context())
	if claims.UserID != id && claims.Role != repository.RoleAdmin && claims.Role != repository.RoleModerator {
		WriteError(w, http.StatusForbidden, "forbidden", "rol insuficiente", 1902)
		return
	}
	ps, err := a.UserProjects.Execute(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toProjectDTOs(ps))
}

package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
	"github.com/dropDatabas3/coldquote/internal/token"
)

// ClaimsFrom recupera los claims del contexto (nil si no hubo Auth).
func ClaimsFrom(ctx context.Context) *token.Claims {
	c, _ := ctx.Value(ctxKeyClaims).(*token.Claims)
	return c
}

func bearerToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah == "" {
		return ""
	}
	// "Bearer xxx" tolerante a mayúsculas
	if i := strings.IndexByte(ah, ' '); i > 0 && strings.EqualFold(ah[:i], "Bearer") {
		return strings.TrimSpace(ah[i+1:])
	}
	return ""
}

// Auth valida el bearer token y deja los claims en el contexto.
// El rol que viaja en el token es input no confiable: acá solo se valida
// firma y expiración, la decisión queda en los Require*.
func Auth(tokens token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				WriteError(w, http.StatusUnauthorized, "unauthorized", "token inválido o ausente", 1900)
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				WriteError(w, http.StatusUnauthorized, "unauthorized", "token inválido o ausente", 1900)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole corta con 403 si el rol global del caller no está en el set.
// Predicado puro sobre los claims, sin acceso a storage.
func RequireRole(roles ...repository.Role) func(http.Handler) http.Handler {
	allowed := make(map[repository.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFrom(r.Context())
			if claims == nil {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "token inválido o ausente", 1900)
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				WriteError(w, http.StatusForbidden, "forbidden", "rol insuficiente", 1902)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireProjectRole resuelve el rol del caller dentro del proyecto de la URL
// ({projectID}) y corta con 403 si no alcanza. El ADMIN global pasa siempre.
func RequireProjectRole(projects repository.ProjectRepository, roles ...repository.ProjectRole) func(http.Handler) http.Handler {
	allowed := make(map[repository.ProjectRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFrom(r.Context())
			if claims == nil {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "token inválido o ausente", 1900)
				return
			}
			if claims.Role == repository.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}
			projectID := chi.URLParam(r, "projectID")
			role, err := projects.GetMemberRole(r.Context(), projectID, claims.UserID)
			if err != nil {
				// sin membresía = sin permiso; no filtramos si el proyecto existe
				WriteError(w, http.StatusForbidden, "forbidden", "rol insuficiente en el proyecto", 1903)
				return
			}
			if _, ok := allowed[role]; !ok {
				WriteError(w, http.StatusForbidden, "forbidden", "rol insuficiente en el proyecto", 1903)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

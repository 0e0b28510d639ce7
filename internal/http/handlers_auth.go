package http

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        userDTO `json:"user"`
}

// handleRegister crea la cuenta con rol USER. El rol nunca viene del body.
func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !ReadJSON(w, r, &req) {
		return
	}
	u, err := a.SignUp.Execute(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toUserDTO(u))
}

// handleLogin verifica credenciales y emite el access token. El rate limit
// cuenta por email + IP para no bloquear a todo un NAT por un solo atacante.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !ReadJSON(w, r, &req) {
		return
	}

	if a.LoginLimit != nil {
		key := strings.ToLower(strings.TrimSpace(req.Email)) + "|" + clientIP(r)
		if res := a.LoginLimit.Allow(key); !res.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			WriteError(w, http.StatusTooManyRequests, "rate_limited",
				"demasiados intentos de login, esperá un rato", 1950)
			return
		}
	}

	u, tk, err := a.Login.Execute(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: tk,
		TokenType:   "Bearer",
		User:        toUserDTO(u),
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

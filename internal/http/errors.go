package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
)

type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorCode        int    `json:"error_code,omitempty"`
	RequestID        string `json:"request_id,omitempty"`
}

// WriteError responde un error JSON con código estable.
func WriteError(w http.ResponseWriter, status int, code, desc string, errCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rid := w.Header().Get("X-Request-ID")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{
		Error:            code,
		ErrorDescription: desc,
		ErrorCode:        errCode,
		RequestID:        rid,
	})
}

// WriteJSON: respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const maxJSONBody = 64 << 10 // 64KB

// ReadJSON decodifica el body validando Content-Type y limitando el tamaño.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		WriteError(w, http.StatusUnsupportedMediaType, "unsupported_media_type",
			"se requiere Content-Type: application/json", 1101)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "invalid_json", "json inválido", 1102)
		return false
	}
	return true
}

// WriteDomainError mapea la taxonomía del dominio a un status distinto por
// kind: NotFound, Conflict y Forbidden nunca se aplanan en un error genérico.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case repository.IsValidation(err):
		WriteError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error(), 1201)
	case repository.IsNotFound(err):
		WriteError(w, http.StatusNotFound, "not_found", err.Error(), 1202)
	case repository.IsConflict(err):
		WriteError(w, http.StatusConflict, "conflict", err.Error(), 1203)
	case errors.Is(err, repository.ErrInvalidCredential):
		WriteError(w, http.StatusUnauthorized, "invalid_credential", "credenciales inválidas", 1204)
	case errors.Is(err, repository.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", "rol insuficiente", 1205)
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "error interno", 1500)
	}
}

package repository

import "errors"

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto de unicidad (email duplicado, nombre o
	// número de proyecto ya usado, par de membresía repetido).
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredential indica que la verificación del password falló en login.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrForbidden indica que el rol del caller no alcanza para la operación.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indica datos de entrada inválidos. Se detecta antes de
	// abrir cualquier transacción, nunca dispara rollback.
	ErrValidation = errors.New("validation failed")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation verifica si el error es ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

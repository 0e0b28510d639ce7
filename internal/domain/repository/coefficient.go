package repository

import (
	"context"
	"fmt"
	"strings"
)

// ColdRoomCategory clasifica la cámara fría para el cálculo rápido de carga.
type ColdRoomCategory string

const (
	ColdRoomQuai       ColdRoomCategory = "QUAI"
	ColdRoomCF         ColdRoomCategory = "CF"
	ColdRoomPlateforme ColdRoomCategory = "PLATEFORME"
)

// ParseColdRoomCategory valida y normaliza una categoría de cámara fría.
func ParseColdRoomCategory(s string) (ColdRoomCategory, error) {
	switch ColdRoomCategory(strings.ToUpper(strings.TrimSpace(s))) {
	case ColdRoomQuai:
		return ColdRoomQuai, nil
	case ColdRoomCF:
		return ColdRoomCF, nil
	case ColdRoomPlateforme:
		return ColdRoomPlateforme, nil
	}
	return "", fmt.Errorf("%w: unknown cold room category %q", ErrValidation, s)
}

// CoolingCoefficient es una banda de volumen [VolMin, VolMax] por categoría
// con su coeficiente de carga frigorífica en W/m³.
type CoolingCoefficient struct {
	ID       string
	Category ColdRoomCategory
	VolMin   int
	VolMax   int
	Coef     int
}

// Validate chequea la coherencia de la banda.
func (c CoolingCoefficient) Validate() error {
	if _, err := ParseColdRoomCategory(string(c.Category)); err != nil {
		return err
	}
	if c.VolMin < 0 || c.VolMax <= c.VolMin {
		return fmt.Errorf("%w: volume band [%d, %d] is not valid", ErrValidation, c.VolMin, c.VolMax)
	}
	if c.Coef <= 0 {
		return fmt.Errorf("%w: coefficient must be positive", ErrValidation)
	}
	return nil
}

// CoefficientRepository maneja la tabla de coeficientes del fast quote.
type CoefficientRepository interface {
	// Add inserta un coeficiente. Retorna ErrConflict si ya existe una banda
	// para la misma categoría y vol_min.
	Add(ctx context.Context, coef CoolingCoefficient) (*CoolingCoefficient, error)

	// Update reemplaza la banda y el coeficiente de una fila existente.
	// Retorna ErrNotFound si el id no existe.
	Update(ctx context.Context, coef CoolingCoefficient) (*CoolingCoefficient, error)

	// List retorna hasta limit coeficientes ordenados por categoría y vol_min.
	List(ctx context.Context, limit int) ([]CoolingCoefficient, error)

	// FindForVolume retorna el coeficiente cuya banda contiene el volumen
	// dado, o ErrNotFound si ninguna banda aplica.
	FindForVolume(ctx context.Context, category ColdRoomCategory, volume float64) (*CoolingCoefficient, error)
}

package usecases

import (
	"context"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
	"github.com/dropDatabas3/coldquote/internal/fastquote"
	"github.com/dropDatabas3/coldquote/internal/humidair"
)

// GetHumidAirProps calcula las propiedades psicrométricas de un estado.
// Puro, sin storage.
type GetHumidAirProps struct{}

func (GetHumidAirProps) Execute(_ context.Context, state humidair.State) (*humidair.Props, error) {
	return humidair.Compute(state)
}

// CalcColdRoomFast cotiza la carga frigorífica rápida de una cámara.
type CalcColdRoomFast struct {
	Quotes *fastquote.Service
}

func (uc CalcColdRoomFast) Execute(ctx context.Context, room fastquote.ColdRoom) (*fastquote.Quote, error) {
	return uc.Quotes.CoolingLoad(ctx, room)
}

// AddCoefficient agrega una banda de coeficiente (solo admin).
type AddCoefficient struct {
	Coefs repository.CoefficientRepository
}

func (uc AddCoefficient) Execute(ctx context.Context, coef repository.CoolingCoefficient) (*repository.CoolingCoefficient, error) {
	return uc.Coefs.Add(ctx, coef)
}

// UpdateCoefficient reemplaza una banda existente (solo admin).
type UpdateCoefficient struct {
	Coefs repository.CoefficientRepository
}

func (uc UpdateCoefficient) Execute(ctx context.Context, coef repository.CoolingCoefficient) (*repository.CoolingCoefficient, error) {
	return uc.Coefs.Update(ctx, coef)
}

// ListCoefficients lista la tabla de coeficientes.
type ListCoefficients struct {
	Coefs repository.CoefficientRepository
}

func (uc ListCoefficients) Execute(ctx context.Context, limit int) ([]repository.CoolingCoefficient, error) {
	return uc.Coefs.List(ctx, limit)
}

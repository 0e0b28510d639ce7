// Package fastquote estima la carga frigorífica de una cámara fría por el
// método rápido: volumen × coeficiente por categoría y banda de volumen.
package fastquote

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/dropDatabas3/coldquote/internal/cache"
	"github.com/dropDatabas3/coldquote/internal/domain/repository"
)

// Rango admitido por dimensión, en metros.
const (
	DimMin = 1.0
	DimMax = 500.0
)

// ColdRoom son las dimensiones en metros y la categoría de la cámara.
type ColdRoom struct {
	Length   float64
	Width    float64
	Height   float64
	Category repository.ColdRoomCategory
}

// Validate chequea el rango de cada dimensión y la categoría.
func (c ColdRoom) Validate() error {
	for name, v := range map[string]float64{
		"length": c.Length,
		"width":  c.Width,
		"height": c.Height,
	} {
		if v < DimMin || v > DimMax {
			return fmt.Errorf("%w: cold room %s %.2f m out of range [%.0f, %.0f]",
				repository.ErrValidation, name, v, DimMin, DimMax)
		}
	}
	_, err := repository.ParseColdRoomCategory(string(c.Category))
	return err
}

// Volume retorna el volumen en m³ redondeado a dos decimales.
func (c ColdRoom) Volume() float64 {
	return math.Round(c.Length*c.Width*c.Height*100) / 100
}

// Quote es el resultado del cálculo rápido.
type Quote struct {
	Room        ColdRoom
	Volume      float64 // m³
	Coefficient int     // W/m³
	CoolingLoad float64 // kW
}

// Service resuelve quotes consultando la tabla de coeficientes, con un cache
// corto por delante para no pegarle a la DB en cada cotización.
type Service struct {
	coefs    repository.CoefficientRepository
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewService arma el servicio. c puede ser nil (sin cache).
func NewService(coefs repository.CoefficientRepository, c cache.Cache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{coefs: coefs, cache: c, cacheTTL: ttl}
}

// CoolingLoad calcula la carga de la cámara: volumen × coef / 1000 [kW].
// Retorna ErrNotFound si ninguna banda de coeficientes cubre el volumen.
func (s *Service) CoolingLoad(ctx context.Context, room ColdRoom) (*Quote, error) {
	if err := room.Validate(); err != nil {
		return nil, err
	}
	vol := room.Volume()

	coef, err := s.lookupCoef(ctx, room.Category, vol)
	if err != nil {
		return nil, err
	}

	return &Quote{
		Room:        room,
		Volume:      vol,
		Coefficient: coef.Coef,
		CoolingLoad: math.Round(vol*float64(coef.Coef)/1000.0*100) / 100,
	}, nil
}

func (s *Service) lookupCoef(ctx context.Context, cat repository.ColdRoomCategory, vol float64) (*repository.CoolingCoefficient, error) {
	key := fmt.Sprintf("fastquote:coef:%s:%.0f", cat, vol)
	if s.cache != nil {
		if b, ok := s.cache.Get(key); ok {
			var c repository.CoolingCoefficient
			if json.Unmarshal(b, &c) == nil {
				return &c, nil
			}
		}
	}
	c, err := s.coefs.FindForVolume(ctx, cat, vol)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if b, err := json.Marshal(c); err == nil {
			s.cache.Set(key, b, s.cacheTTL)
		}
	}
	return c, nil
}

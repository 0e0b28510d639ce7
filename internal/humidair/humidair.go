// Package humidair calcula propiedades psicrométricas del aire húmedo a
// partir de presión, temperatura seca y humedad relativa. Correlaciones
// estándar ASHRAE (Hyland-Wexler para la presión de saturación).
package humidair

import (
	"fmt"
	"math"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
)

// Rangos de entrada admitidos.
const (
	PressureDefault = 101325.0 // Pa
	TdbMin          = -100.0   // °C
	TdbMax          = 200.0    // °C
	RHMin           = 0.0
	RHMax           = 1.0
)

// State es el estado de entrada: presión [Pa], temperatura seca [°C] y
// humedad relativa [0..1].
type State struct {
	Pressure         float64
	TempDryBulb      float64
	RelativeHumidity float64
}

// Validate chequea los rangos antes de calcular nada.
func (s State) Validate() error {
	if s.Pressure <= 0 {
		return fmt.Errorf("%w: pressure must be positive", repository.ErrValidation)
	}
	if s.TempDryBulb < TdbMin || s.TempDryBulb > TdbMax {
		return fmt.Errorf("%w: dry bulb temperature %.1f°C out of range [%.0f, %.0f]",
			repository.ErrValidation, s.TempDryBulb, TdbMin, TdbMax)
	}
	if s.RelativeHumidity < RHMin || s.RelativeHumidity > RHMax {
		return fmt.Errorf("%w: relative humidity %.3f out of range [0, 1]",
			repository.ErrValidation, s.RelativeHumidity)
	}
	return nil
}

// Props son las propiedades calculadas.
type Props struct {
	PartialPressure float64 `json:"partial_pressure_of_water_vapor"` // Pa
	HumidityRatio   float64 `json:"humidity_ratio"`                  // kg agua / kg aire seco
	TempDewPoint    float64 `json:"temp_dew_point"`                  // °C
	TempWetBulb     float64 `json:"temp_wet_bulb"`                   // °C
	Enthalpy        float64 `json:"enthalpy_per_dry_air"`            // J/kg aire seco
	SpecificHeat    float64 `json:"specific_heat_per_unit_dry_air"`  // J/kg.K
	SpecificVolume  float64 `json:"specific_volume_per_unit_dry_air"` // m³/kg aire seco
	Density         float64 `json:"density_per_unit_humid_air"`      // kg/m³
}

// Compute calcula todas las propiedades del estado.
func Compute(s State) (*Props, error) {
	if s.Pressure == 0 {
		s.Pressure = PressureDefault
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	pws := SaturationPressure(s.TempDryBulb)
	pw := s.RelativeHumidity * pws
	w := HumidityRatio(pw, s.Pressure)
	t := s.TempDryBulb

	// enthalpy y cp en kJ por kg de aire seco, se exponen en J
	hKJ := 1.006*t + w*(2501.0+1.86*t)
	cpKJ := 1.006 + 1.86*w

	// gas ideal: v en m³/kg de aire seco con p en kPa
	v := 0.287042 * (t + 273.15) * (1 + 1.607858*w) / (s.Pressure / 1000.0)

	return &Props{
		PartialPressure: round(pw, 2),
		HumidityRatio:   round(w, 6),
		TempDewPoint:    round(math.Max(DewPoint(pw), TdbMin), 2),
		TempWetBulb:     round(wetBulb(t, w, s.Pressure), 2),
		Enthalpy:        round(hKJ*1000.0, 0),
		SpecificHeat:    round(cpKJ*1000.0, 2),
		SpecificVolume:  round(v, 3),
		Density:         round((1+w)/v, 3),
	}, nil
}

// SaturationPressure retorna pws [Pa] a la temperatura t [°C].
// Hyland-Wexler: sobre hielo para t < 0, sobre agua para t >= 0.
func SaturationPressure(t float64) float64 {
	T := t + 273.15
	var lnP float64
	if t < 0 {
		lnP = -5674.5359/T + 6.3925247 - 9.677843e-3*T +
			6.2215701e-7*T*T + 2.0747825e-9*T*T*T -
			9.484024e-13*T*T*T*T + 4.1635019*math.Log(T)
	} else {
		lnP = -5800.2206/T + 1.3914993 - 0.048640239*T +
			4.1764768e-5*T*T - 1.4452093e-8*T*T*T +
			6.5459673*math.Log(T)
	}
	return math.Exp(lnP)
}

// HumidityRatio retorna W [kg agua/kg aire seco] para la presión parcial de
// vapor pw y la presión total p, ambas en Pa.
func HumidityRatio(pw, p float64) float64 {
	if pw <= 0 {
		return 0
	}
	return 0.621945 * pw / (p - pw)
}

// DewPoint retorna la temperatura de rocío [°C] para la presión parcial de
// vapor pw [Pa]. Correlación ASHRAE con pw en kPa.
func DewPoint(pw float64) float64 {
	if pw <= 0 {
		return math.Inf(-1)
	}
	alpha := math.Log(pw / 1000.0)
	td := 6.54 + 14.526*alpha + 0.7389*alpha*alpha +
		0.09486*alpha*alpha*alpha + 0.4569*math.Pow(pw/1000.0, 0.1984)
	if td < 0 {
		td = 6.09 + 12.608*alpha + 0.4959*alpha*alpha
	}
	return td
}

// wetBulb resuelve la temperatura de bulbo húmedo por bisección entre el
// punto de rocío y la temperatura seca.
func wetBulb(t, w, p float64) float64 {
	lo := DewPoint(w / 0.621945 * p / (1 + w/0.621945)) // pw desde W
	if math.IsInf(lo, -1) || lo < TdbMin {
		lo = TdbMin
	}
	hi := t
	if hi <= lo {
		return t
	}
	for i := 0; i < 60; i++ {
		mid := (lo + hi) / 2
		if wFromWetBulb(t, mid, p) > w {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2
}

// wFromWetBulb: W implícito en el balance de energía del saturador adiabático.
func wFromWetBulb(t, twb, p float64) float64 {
	ws := HumidityRatio(SaturationPressure(twb), p)
	return ((2501.0-2.326*twb)*ws - 1.006*(t-twb)) / (2501.0 + 1.86*t - 4.186*twb)
}

func round(x float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(x*pow) / pow
}

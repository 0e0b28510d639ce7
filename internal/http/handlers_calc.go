package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
	"github.com/dropDatabas3/coldquote/internal/fastquote"
	"github.com/dropDatabas3/coldquote/internal/humidair"
)

type humidAirRequest struct {
	Pressure         float64 `json:"pressure"`
	TempDryBulb      float64 `json:"temp_dry_bulb"`
	RelativeHumidity float64 `json:"relative_humidity"`
}

// handleHumidAir calcula las propiedades psicrométricas de un estado de aire.
// Endpoint público: cálculo puro, sin datos de nadie.
func (a *API) handleHumidAir(w http.ResponseWriter, r *http.Request) {
	var req humidAirRequest
	if !ReadJSON(w, r, &req) {
		return
	}
	props, err := a.HumidAir.Execute(r.Context(), humidair.State{
		Pressure:         req.Pressure,
		TempDryBulb:      req.TempDryBulb,
		RelativeHumidity: req.RelativeHumidity,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, props)
}

type coldRoomRequest struct {
	Length   float64 `json:"length"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Category string  `json:"category"`
}

type coldRoomResponse struct {
	Volume      float64 `json:"volume"`
	Category    string  `json:"category"`
	Coefficient int     `json:"coefficient"`
	CoolingLoad float64 `json:"cooling_load_kw"`
}

// handleColdRoomQuote cotiza la carga frigorífica rápida de una cámara.
func (a *API) handleColdRoomQuote(w http.ResponseWriter, r *http.Request) {
	var req coldRoomRequest
	if !ReadJSON(w, r, &req) {
		return
	}
	q, err := a.ColdRoom.Execute(r.Context(), fastquote.ColdRoom{
		Length:   req.Length,
		Width:    req.Width,
		Height:   req.Height,
		Category: repository.ColdRoomCategory(req.Category),
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, coldRoomResponse{
		Volume:      q.Volume,
		Category:    string(q.Room.Category),
		Coefficient: q.Coefficient,
		CoolingLoad: q.CoolingLoad,
	})
}

type coefficientRequest struct {
	Category string `json:"category"`
	VolMin   int    `json:"vol_min"`
	VolMax   int    `json:"vol_max"`
	Coef     int    `json:"coef"`
}

type coefficientDTO struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	VolMin   int    `json:"vol_min"`
	VolMax   int    `json:"vol_max"`
	Coef     int    `json:"coef"`
}

func toCoefficientDTO(c *repository.CoolingCoefficient) coefficientDTO {
	return coefficientDTO{
		ID:       c.ID,
		Category: string(c.Category),
		VolMin:   c.VolMin,
		VolMax:   c.VolMax,
		Coef:     c.Coef,
	}
}

func (a *API) handleListCoefficients(w http.ResponseWriter, r *http.Request) {
	cs, err := a.ListCoefs.Execute(r.Context(), listLimit(r))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	out := make([]coefficientDTO, 0, len(cs))
	for i := range cs {
		out = append(out, toCoefficientDTO(&cs[i]))
	}
	WriteJSON(w, http.StatusOK, out)
}

// handleAddCoefficient agrega una banda (solo ADMIN global).
func (a *API) handleAddCoefficient(w http.ResponseWriter, r *http.Request) {
	var req coefficientRequest
	if !ReadJSON(w, r, &req) {
		return
	}
	c, err := a.AddCoef.Execute(r.Context(), repository.CoolingCoefficient{
		Category: repository.ColdRoomCategory(req.Category),
		VolMin:   req.VolMin,
		VolMax:   req.VolMax,
		Coef:     req.Coef,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toCoefficientDTO(c))
}

// handleUpdateCoefficient reemplaza una banda existente (solo ADMIN global).
func (a *API) handleUpdateCoefficient(w http.ResponseWriter, r *http.Request) {
	var req coefficientRequest
	if !ReadJSON(w, r, &req) {
		return
	}
	c, err := a.UpdateCoef.Execute(r.Context(), repository.CoolingCoefficient{
		ID:       chi.URLParam(r, "coefficientID"),
		Category: repository.ColdRoomCategory(req.Category),
		VolMin:   req.VolMin,
		VolMax:   req.VolMax,
		Coef:     req.Coef,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toCoefficientDTO(c))
}

package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-reports-map/internal/platform/logger"
	"pet-reports-map/internal/ports/geocoding"
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

type Result struct {
	Address  string `json:"address"`
	Fallback bool   `json:"fallback"`
}

type Service struct {
	rev geocoding.ReverseGeocoder
	log logger.Logger
}

// NewService: rev puede ser nil (siempre fallback).
func NewService(rev geocoding.ReverseGeocoder, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{rev: rev, log: log}
}

// Fallback es el texto que se usa cuando el geocoder no responde.
func Fallback(lat, lon float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lon)
}

func validCoord(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Lookup nunca falla por el upstream: ante cualquier error devuelve las coordenadas como texto.
func (s *Service) Lookup(ctx context.Context, lat, lon float64) (Result, error) {
	if !validCoord(lat, lon) {
		return Result{}, ErrInvalidCoordinates
	}
	if s.rev == nil {
		return Result{Address: Fallback(lat, lon), Fallback: true}, nil
	}

	addr, err := s.rev.Reverse(ctx, lat, lon)
	if err != nil || strings.TrimSpace(addr) == "" {
		s.log.Debug("reverse geocoding fell back to coordinates", map[string]any{
			"lat": lat,
			"lon": lon,
			"err": err,
		})
		return Result{Address: Fallback(lat, lon), Fallback: true}, nil
	}
	return Result{Address: strings.TrimSpace(addr)}, nil
}

// Address es Lookup sin detalles, para la sesión del mapa.
func (s *Service) Address(ctx context.Context, lat, lon float64) string {
	res, err := s.Lookup(ctx, lat, lon)
	if err != nil {
		return Fallback(lat, lon)
	}
	return res.Address
}

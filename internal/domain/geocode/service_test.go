package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revFunc func(ctx context.Context, lat, lon float64) (string, error)

func (f revFunc) Reverse(ctx context.Context, lat, lon float64) (string, error) { return f(ctx, lat, lon) }

func TestLookup(t *testing.T) {
	ctx := context.Background()

	ok := NewService(revFunc(func(context.Context, float64, float64) (string, error) {
		return " King Fahd Rd, Dammam ", nil
	}), nil)
	res, err := ok.Lookup(ctx, 26.42, 50.08)
	require.NoError(t, err)
	assert.Equal(t, Result{Address: "King Fahd Rd, Dammam"}, res)

	down := NewService(revFunc(func(context.Context, float64, float64) (string, error) {
		return "", errors.New("502")
	}), nil)
	res, err = down.Lookup(ctx, 26.42, 50.08)
	require.NoError(t, err)
	assert.Equal(t, Result{Address: "26.42000, 50.08000", Fallback: true}, res)

	res, err = NewService(nil, nil).Lookup(ctx, -1.5, 2)
	require.NoError(t, err)
	assert.True(t, res.Fallback)

	_, err = ok.Lookup(ctx, 91, 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
	assert.Equal(t, "91.00000, 0.00000", ok.Address(ctx, 91, 0))
}

func TestReverseHandler(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, NewService(nil, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geocode/reverse?lat=26.42&lon=50.08", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"address":"26.42000, 50.08000"`))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geocode/reverse?lat=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

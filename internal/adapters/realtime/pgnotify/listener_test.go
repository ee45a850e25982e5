package pgnotify

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"pet-reports-map/internal/domain/realtime"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxConnIface {
	t.Helper()
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mock.Close(context.Background())
	})
	return mock
}

func TestExpand_LoadsRowByID(t *testing.T) {
	mock := newMock(t)

	// Descripción que sola ya excede el límite de pg_notify
	long := strings.Repeat("ب", 5000)
	rec, err := json.Marshal(map[string]any{
		"id":                 "r1",
		"owner_user_id":      "u1",
		"pet_id":             "p1",
		"last_seen_location": "الدمام",
		"description":        long,
		"status":             "active",
		"created_at":         "2025-03-01T10:00:00+00:00",
		"updated_at":         "2025-03-01T10:00:00+00:00",
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT row_to_json\(t\) FROM "missing_reports" t WHERE t.id = \$1`).
		WithArgs("r1").
		WillReturnRows(pgxmock.NewRows([]string{"row_to_json"}).AddRow(json.RawMessage(rec)))

	out, err := expand(context.Background(), mock, []byte(`{"table":"missing_reports","type":"INSERT","id":"r1"}`))
	require.NoError(t, err)

	e, err := realtime.ParseEvent(out)
	require.NoError(t, err)
	assert.Equal(t, realtime.KindMissingInserted, e.Kind)
	assert.Equal(t, "r1", e.ReportID())
	assert.Equal(t, long, e.Missing.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpand_RowGone(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT row_to_json\(t\) FROM "stray_reports"`).
		WithArgs("s1").
		WillReturnError(pgx.ErrNoRows)

	_, err := expand(context.Background(), mock, []byte(`{"table":"stray_reports","type":"INSERT","id":"s1"}`))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpand_PassThrough(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"full record", `{"table":"stray_reports","type":"INSERT","record":{"id":"s1"}}`},
		{"unknown table", `{"table":"pets","type":"INSERT","id":"x"}`},
		{"not json", `not-json`},
		{"no id", `{"table":"stray_reports","type":"INSERT"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)

			out, err := expand(context.Background(), mock, []byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.raw, string(out))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

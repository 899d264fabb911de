package pgrepo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestConvertErr(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "no rows", err: pgx.ErrNoRows, wantErr: domain.ErrRecordNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), wantErr: domain.ErrRecordNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: uniqueViolationCode}, wantErr: domain.ErrDuplicateKey},
		{name: "other pg error", err: &pgconn.PgError{Code: "40001"}, wantErr: domain.ErrUnknown},
		{name: "plain error", err: errors.New("boom"), wantErr: domain.ErrUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := convertErr(tc.err, "finding account %s", "001")
			require.ErrorIs(t, err, tc.wantErr)
			require.Contains(t, err.Error(), "finding account 001")
		})
	}

	require.NoError(t, convertErr(nil, "noop"))
}

package pgsql

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

func TestTranslateError(t *testing.T) {
	err := translateError(pgx.ErrNoRows, "posting p1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = translateError(&pgconn.PgError{Code: "23505", ConstraintName: automaticKeyIndex}, "posting p2")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.ErrorIs(t, err, apperrors.ErrDuplicatePostingInvariantViolated)

	err = translateError(&pgconn.PgError{Code: "23505", ConstraintName: "ledger_postings_pkey"}, "posting p3")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.NotErrorIs(t, err, apperrors.ErrDuplicatePostingInvariantViolated)

	cause := errors.New("connection reset")
	err = translateError(cause, "failed to list postings")
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "failed to list postings: connection reset")
}

func TestMonthColumnRoundTrip(t *testing.T) {
	assert.Nil(t, monthColumn(nil))
	m, err := parseMonthColumn(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	march := domain.CompetencyMonth{Year: 2024, Month: 3}
	col := monthColumn(&march)
	require.NotNil(t, col)
	assert.Equal(t, "2024-03", *col)

	back, err := parseMonthColumn(col)
	require.NoError(t, err)
	assert.Equal(t, march, *back)

	bad := "2024-13"
	_, err = parseMonthColumn(&bad)
	assert.Error(t, err)
}

package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgErr(code string) error {
	return &pgconn.PgError{Code: code, Message: "constraint violated"}
}

func TestClassification(t *testing.T) {
	assert.True(t, IsForeignKey(pgErr("23503")))
	assert.True(t, IsUnique(pgErr("23505")))
	assert.True(t, IsCheck(pgErr("23514")))

	assert.False(t, IsForeignKey(pgErr("23505")))
	assert.False(t, IsUnique(pgErr("23503")))
}

func TestWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("insert order: %w", pgErr("23503"))
	assert.True(t, IsForeignKey(wrapped))
}

func TestNonPgErrors(t *testing.T) {
	assert.False(t, IsUnique(nil))
	assert.False(t, IsUnique(errors.New("connection refused")))
	assert.False(t, IsForeignKey(errors.New("23503"))) // text, not a PgError
}

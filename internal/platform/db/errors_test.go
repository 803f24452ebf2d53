package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_suppliers_name"}

	assert.True(t, UniqueViolation(dup))
	assert.True(t, UniqueViolation(fmt.Errorf("insert supplier: %w", dup)))

	assert.False(t, UniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, UniqueViolation(errors.New("duplicate key value violates unique constraint")))
	assert.False(t, UniqueViolation(nil))
}

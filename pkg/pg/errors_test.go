package pg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/assokit/assokit/pkg/pg"
)

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	wrap := func(code string) error {
		return fmt.Errorf("query: %w", &pgconn.PgError{Code: code})
	}

	assert.True(t, pg.IsNotFoundError(fmt.Errorf("load: %w", pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(errors.New("other")))

	assert.True(t, pg.IsDuplicateKeyError(wrap("23505")))
	assert.True(t, pg.IsForeignKeyViolationError(wrap("23503")))
	assert.True(t, pg.IsSerializationFailure(wrap("40001")))

	assert.False(t, pg.IsDuplicateKeyError(wrap("40001")))
	assert.False(t, pg.IsSerializationFailure(nil))
}

package migration

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workcompliance/internal/logger"
)

const sentinelQuery = `SELECT to_regclass\('public.document_types'\) IS NOT NULL`

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()

	t.Run("schema exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinelQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		var buf bytes.Buffer
		err = EnsureMigrated(ctx, db, logger.NewWithWriter(&buf), "db.local")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Contains(t, buf.String(), `"event":"db_migration_skip"`)
		assert.Contains(t, buf.String(), `"db_host":"db.local"`)
	})

	t.Run("fresh database runs every step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinelQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		for range steps {
			mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
		}

		var buf bytes.Buffer
		err = EnsureMigrated(ctx, db, logger.NewWithWriter(&buf), "db.local")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, len(steps), strings.Count(buf.String(), `"event":"db_migration_step"`))
		assert.Contains(t, buf.String(), `"event":"db_migration_success"`)
	})

	t.Run("step failure stops the run", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinelQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS document_types").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS worker_documents").WillReturnError(errors.New("permission denied"))

		err = EnsureMigrated(ctx, db, zap.NewNop(), "db.local")

		assert.ErrorContains(t, err, "migration step create_table_worker_documents failed: permission denied")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sentinel check failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinelQuery).WillReturnError(errors.New("timeout"))

		err = EnsureMigrated(ctx, db, zap.NewNop(), "db.local")

		assert.ErrorContains(t, err, "failed to check sentinel table")
	})
}

func TestSteps_SentinelFirst(t *testing.T) {
	// later tables reference document_types
	require.NotEmpty(t, steps)
	assert.Equal(t, "create_table_document_types", steps[0].Name)
}

package catalog_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlgauge/sqlgauge/pkg/catalog"
)

func TestPostgresLoaderLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"table_name", "column_name", "data_type"}).
		AddRow("users", "id", "integer").
		AddRow("users", "name", "character varying").
		AddRow("orders", "id", "integer").
		AddRow("orders", "total", "numeric")

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public").
		WillReturnRows(rows)

	loader := catalog.NewPostgresLoader(db, "")
	c, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"orders", "users"}, c.Tables())

	typ, ok := c.ColumnType("users", "name")
	require.True(t, ok)
	assert.Equal(t, "character varying", typ)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoaderCustomSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("analytics").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name", "data_type"}).
			AddRow("events", "id", "bigint"))

	loader := catalog.NewPostgresLoader(db, "analytics")
	c, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, c.HasTable("events"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoaderQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.columns").
		WillReturnError(assert.AnError)

	loader := catalog.NewPostgresLoader(db, "public")
	_, err = loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying information_schema")
}

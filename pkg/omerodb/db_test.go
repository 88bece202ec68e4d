package omerodb

import (
	"testing"

	"github.com/materials-commons/tagsearch/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeDSNs(t *testing.T) {
	c := config.NewMapConfig(map[string]string{
		"DB_HOST":     "omero-db",
		"DB_USERNAME": "omero",
		"DB_PASSWORD": "secret",
		"DB_DATABASE": "omero",
	})

	assert.Equal(t, "host=omero-db port=5432 user=omero password=secret dbname=omero sslmode=disable", MakePostgresDSN(c))
	assert.Equal(t, "omero:secret@tcp(omero-db:3306)/omero?charset=utf8mb4&parseTime=True&loc=Local", MakeMySQLDSN(c))
}

func TestDialector(t *testing.T) {
	tests := []struct {
		driver   string
		wantName string
		wantErr  bool
	}{
		{driver: "", wantName: DriverPostgres},
		{driver: DriverMySQL, wantName: DriverMySQL},
		{driver: DriverSqlite, wantName: DriverSqlite},
		{driver: "oracle", wantErr: true},
	}

	for _, test := range tests {
		c := config.NewMapConfig(map[string]string{config.KeyDBDriver: test.driver})
		dialector, _, err := Dialector(c)
		if test.wantErr {
			assert.Errorf(t, err, "driver %q should fail", test.driver)
			continue
		}

		require.NoErrorf(t, err, "driver %q", test.driver)
		assert.Equal(t, test.wantName, dialector.Name())
	}
}

func TestOpenSqliteCreatesLinkTables(t *testing.T) {
	db, err := OpenSqlite(SqliteInMemoryDSN)
	require.NoError(t, err)

	for _, table := range []string{"imageannotationlink", "plateacquisitionannotationlink", "datasetimagelink", "annotation", "well"} {
		assert.Truef(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

package omerodb

import (
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/materials-commons/tagsearch/pkg/config"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteInMemoryDSN opens a private in-memory database. Callers must limit the
// pool to a single connection or each connection sees its own empty database.
const SqliteInMemoryDSN = ":memory:"

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSqlite   = "sqlite"
)

func MakePostgresDSN(c config.Configer) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.GetKey("DB_HOST"),
		c.GetKeyWithDefault("DB_PORT", "5432"),
		c.GetKey("DB_USERNAME"),
		c.GetKey("DB_PASSWORD"),
		c.GetKey("DB_DATABASE"),
		c.GetKeyWithDefault("DB_SSLMODE", "disable"))
}

func MakeMySQLDSN(c config.Configer) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.GetKey("DB_USERNAME"),
		c.GetKey("DB_PASSWORD"),
		c.GetKey("DB_HOST"),
		c.GetKeyWithDefault("DB_PORT", "3306"),
		c.GetKey("DB_DATABASE"))
}

// Dialector picks the gorm dialector named by DB_DRIVER. The OMERO database
// is PostgreSQL, so that is the default.
func Dialector(c config.Configer) (gorm.Dialector, string, error) {
	driver := c.GetKeyWithDefault(config.KeyDBDriver, DriverPostgres)
	switch driver {
	case DriverPostgres:
		dsn := MakePostgresDSN(c)
		return postgres.Open(dsn), dsn, nil
	case DriverMySQL:
		dsn := MakeMySQLDSN(c)
		return mysql.Open(dsn), dsn, nil
	case DriverSqlite:
		dsn := c.GetKeyWithDefault("DB_DATABASE", SqliteInMemoryDSN)
		return sqlite.Open(dsn), dsn, nil
	default:
		return nil, "", fmt.Errorf("unknown DB_DRIVER '%s'", driver)
	}
}

const maxDBRetries = 5

// MustConnectToDB will attempt to connect to the database maxDBRetries times. If it isn't successful
// after that number of retries then it will call log.Fatalf(), which will cause the server to exit.
// Between retry attempts it will sleep for 3 seconds.
func MustConnectToDB(c config.Configer) *gorm.DB {
	var (
		err error
		db  *gorm.DB
	)

	dialector, dsn, err := Dialector(c)
	if err != nil {
		log.Fatalf("Unable to configure db: %s", err)
	}

	retryCount := 1
	for {
		db, err = gorm.Open(dialector, gormConfig())
		switch {
		case err == nil:
			if dialector.Name() == DriverSqlite {
				limitToSingleConnection(db)
				if dsn == SqliteInMemoryDSN {
					if err := RunMigrations(db); err != nil {
						log.Fatalf("Unable to create schema in in-memory db: %s", err)
					}
				}
			}
			return db
		case retryCount >= maxDBRetries:
			log.Fatalf("Failed to open db (%s): %s", dsn, err)
		default:
			log.Warnf("Unable to open db, retrying (%d of %d): %s", retryCount, maxDBRetries, err)
			retryCount++
			time.Sleep(3 * time.Second)
		}
	}
}

// OpenSqlite opens a sqlite database with the schema applied. Tests and the
// dev server use it with SqliteInMemoryDSN.
func OpenSqlite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}

	limitToSingleConnection(db)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

func limitToSingleConnection(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
}

// RunMigrations creates the subset of the OMERO schema that tag search reads.
// It is never run against a real OMERO database.
func RunMigrations(db *gorm.DB) error {
	models := []interface{}{
		&omodel.Project{},
		&omodel.Dataset{},
		&omodel.Image{},
		&omodel.Screen{},
		&omodel.Plate{},
		&omodel.Well{},
		&omodel.WellSample{},
		&omodel.PlateAcquisition{},
		&omodel.Annotation{},
		&omodel.Experimenter{},
		&omodel.ExperimenterGroup{},
		&omodel.GroupExperimenterMap{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return err
	}

	for _, ct := range omodel.ContainerTypes {
		if err := db.Table(ct.AnnotationLinkTable()).AutoMigrate(&omodel.AnnotationLink{}); err != nil {
			return fmt.Errorf("migrating %s: %w", ct.AnnotationLinkTable(), err)
		}
	}

	for _, table := range omodel.ContainerLinkTables {
		if err := db.Table(table).AutoMigrate(&omodel.ContainerLink{}); err != nil {
			return fmt.Errorf("migrating %s: %w", table, err)
		}
	}

	return nil
}

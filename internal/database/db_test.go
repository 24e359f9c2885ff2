package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/conduit/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "conduit",
		DBPass: "s3cret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "conduit",
	}
	assert.Equal(t,
		"conduit:s3cret@tcp(db.internal:3306)/conduit?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}

func TestDSNNoPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "conduit",
		DBHost: "localhost",
		DBPort: "3306",
		DBName: "conduit_dev",
	}
	assert.Equal(t,
		"conduit@tcp(localhost:3306)/conduit_dev?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}

// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/orbitdesk/orbitdesk/internal/config"
)

// ErrUnknownEngine is returned for engines without a gorm driver.
var ErrUnknownEngine = errors.New("unknown database engine")

// Create builds the Data Source Name for the configured engine.
func Create(db config.DB) (string, error) {
	switch db.Engine {
	case config.EngineMySQL:
		out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.Name,
		)
		if db.Extras != "" {
			out += "?" + db.Extras
		}

		return out, nil
	case config.EnginePostgres:
		parts := []string{
			fmt.Sprintf("host=%s", db.Host),
			fmt.Sprintf("port=%d", db.Port),
			fmt.Sprintf("user=%s", db.User),
			fmt.Sprintf("password=%s", db.Password),
			fmt.Sprintf("dbname=%s", db.Name),
		}
		if db.Extras != "" {
			parts = append(parts, db.Extras)
		}

		return strings.Join(parts, " "), nil
	case config.EngineSQLite:
		return db.Name, nil
	default:
		return "", errors.Wrap(ErrUnknownEngine, db.Engine)
	}
}

// Dialector returns the gorm dialector for the configured engine.
func Dialector(db config.DB) (gorm.Dialector, error) {
	source, err := Create(db)
	if err != nil {
		return nil, err
	}

	switch db.Engine {
	case config.EngineMySQL:
		return mysql.Open(source), nil
	case config.EnginePostgres:
		return postgres.Open(source), nil
	default:
		return sqlite.Open(source), nil
	}
}

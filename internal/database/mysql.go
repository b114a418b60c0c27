package database

import (
	"context"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"autobk/internal/config"
)

const defaultMySQLPort = 3306

// mysqlDSN builds the MySQL connection string from the db_* settings.
// Credentials go through mysql.Config so special characters are escaped.
func mysqlDSN(cfg config.DatabaseConfig) string {
	port := cfg.Port
	if port == 0 {
		port = defaultMySQLPort
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Pass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.DBName = cfg.Name
	// Report matched rather than changed rows so an UPDATE with unchanged
	// values is not mistaken for a missing device.
	mc.ClientFoundRows = true
	if len(cfg.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

// NewMySQLGateway opens a pool against the configured MySQL server and
// verifies it is reachable.
func NewMySQLGateway(ctx context.Context, cfg config.DatabaseConfig) (*SQLGateway, error) {
	db, err := openPool(ctx, "mysql", mysqlDSN(cfg), cfg.ConnectAttempts)
	if err != nil {
		return nil, err
	}
	return NewSQLGateway(db, "mysql"), nil
}

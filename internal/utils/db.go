package utils

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var sharedDB struct {
	sync.Mutex
	dsn string
	db  *sql.DB
}

func postgresPort(cfg DatabaseConfig) int {
	if cfg.Port != 0 {
		return cfg.Port
	}
	return 5432
}

func postgresDSN(cfg DatabaseConfig) (string, error) {
	if strings.HasPrefix(cfg.Host, "postgres://") || strings.HasPrefix(cfg.Host, "postgresql://") {
		return cfg.Host, nil
	}
	if cfg.Host == "" {
		return "", fmt.Errorf("postgres host is empty")
	}
	if cfg.Database == "" {
		return "", fmt.Errorf("postgres database is empty")
	}
	if cfg.User == "" {
		return "", fmt.Errorf("postgres user is empty")
	}

	hostPort := cfg.Host
	port := postgresPort(cfg)
	// Handle IPv6 or explicit host:port strings.
	if strings.HasPrefix(hostPort, "[") {
		if !strings.Contains(hostPort, "]:") {
			hostPort = fmt.Sprintf("%s:%d", hostPort, port)
		}
	} else if strings.Count(hostPort, ":") >= 2 {
		hostPort = fmt.Sprintf("[%s]:%d", hostPort, port)
	} else if !strings.Contains(hostPort, ":") {
		hostPort = fmt.Sprintf("%s:%d", hostPort, port)
	}

	u := &url.URL{Scheme: "postgres", Host: hostPort, Path: "/" + cfg.Database}
	if cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	} else {
		u.User = url.User(cfg.User)
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func mysqlDSN(cfg DatabaseConfig) (string, error) {
	if cfg.Host == "" {
		return "", fmt.Errorf("mysql host is empty")
	}
	if cfg.Database == "" {
		return "", fmt.Errorf("mysql database is empty")
	}
	if cfg.User == "" {
		return "", fmt.Errorf("mysql user is empty")
	}
	addr := cfg.Host
	if !strings.Contains(addr, ":") {
		port := cfg.Port
		if port == 0 {
			port = 3306
		}
		addr = addr + ":" + strconv.Itoa(port)
	}
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = addr
	mc.DBName = cfg.Database
	return mc.FormatDSN(), nil
}

// DriverDSN returns the database/sql driver name and DSN for cfg.
func DriverDSN(cfg DatabaseConfig) (string, string, error) {
	switch cfg.Driver {
	case "pgx":
		dsn, err := postgresDSN(cfg)
		return "pgx", dsn, err
	case "mysql", "":
		dsn, err := mysqlDSN(cfg)
		return "mysql", dsn, err
	case "sqlite":
		if cfg.Path == "" {
			return "", "", fmt.Errorf("sqlite path is empty")
		}
		return "sqlite", cfg.Path, nil
	default:
		return "", "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Placeholder returns the bind variable format for the configured driver.
func Placeholder(cfg DatabaseConfig) sq.PlaceholderFormat {
	if cfg.Driver == "pgx" {
		return sq.Dollar
	}
	return sq.Question
}

// OpenDB returns a pooled handle for cfg. The handle is shared and replaced
// when the DSN changes.
func OpenDB(cfg DatabaseConfig) (*sql.DB, error) {
	driver, dsn, err := DriverDSN(cfg)
	if err != nil {
		return nil, err
	}
	key := driver + "|" + dsn

	sharedDB.Lock()
	defer sharedDB.Unlock()

	if sharedDB.db != nil && sharedDB.dsn == key {
		return sharedDB.db, nil
	}
	if sharedDB.db != nil {
		_ = sharedDB.db.Close()
		sharedDB.db = nil
		sharedDB.dsn = ""
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	sharedDB.db = db
	sharedDB.dsn = key
	return sharedDB.db, nil
}

// CloseDB closes the shared handle, if any.
func CloseDB() error {
	sharedDB.Lock()
	defer sharedDB.Unlock()
	if sharedDB.db == nil {
		return nil
	}
	err := sharedDB.db.Close()
	sharedDB.db = nil
	sharedDB.dsn = ""
	return err
}

package config

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string

	MaxConns                 int32
	StatementTimeout         time.Duration
	LockTimeout              time.Duration
	IdleInTransactionTimeout time.Duration
}

// DSN builds a postgres connection string understood by pgxpool.ParseConfig.
func (c DBConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", sslMode)
	if c.MaxConns > 0 {
		q.Set("pool_max_conns", fmt.Sprint(c.MaxConns))
	}
	u.RawQuery = q.Encode()

	return u.String()
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

const (
	MediaDriverLocal = "local"
	MediaDriverCDN   = "cdn"
)

type MediaConfig struct {
	Driver    string
	Dir       string
	URLPrefix string
	CDNOrigin string
	MaxSize   int64
}

package clickhouse

import (
	"errors"
	"fmt"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
)

// Config describes how to reach a ClickHouse server.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	// UseHTTP selects the HTTP protocol (port 8123) instead of native.
	UseHTTP bool

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	// MaxExecTime becomes the max_execution_time query setting.
	MaxExecTime time.Duration
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = 9000
		if c.UseHTTP {
			c.Port = 8123
		}
	}
	if c.Database == "" {
		c.Database = "default"
	}
	if c.User == "" {
		c.User = "default"
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 10
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = c.MaxOpenConns / 2
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = 5 * time.Minute
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 30 * time.Second
	}
	return c
}

func (c Config) options() (*ch.Options, error) {
	if c.Host == "" {
		return nil, errors.New("host is required")
	}
	proto := ch.Native
	if c.UseHTTP {
		proto = ch.HTTP
	}
	opts := &ch.Options{
		Protocol: proto,
		Addr:     []string{fmt.Sprintf("%s:%d", c.Host, c.Port)},
		Auth: ch.Auth{
			Database: c.Database,
			Username: c.User,
			Password: c.Password,
		},
		DialTimeout:     c.DialTimeout,
		ReadTimeout:     c.ReadTimeout,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
	if c.MaxExecTime > 0 {
		opts.Settings = ch.Settings{"max_execution_time": int(c.MaxExecTime.Seconds())}
	}
	return opts, nil
}

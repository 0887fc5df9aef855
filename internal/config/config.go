// internal/config/config.go
//
// Package config 集中讀取執行期設定：先讀環境變數並套用預設值，
// 再由 cmd/bank/commands 以命令列旗標覆寫，最後呼叫 Validate。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// 儲存後端種類。
const (
	StoreFile     = "file"
	StorePostgres = "postgres"

	SessionsStore = "store" // 與帳本共用同一後端
	SessionsRedis = "redis"
)

// Config 為程序層級設定。
type Config struct {
	DataDir string
	AppPort string

	Store    string
	Sessions string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	LoginRateLimit int
}

// Load 由環境變數讀取設定；未設定者使用預設值。
func Load() (Config, error) {
	cfg := Config{
		DataDir: getenv("BANK_DATA_DIR", "data"),
		AppPort: getenv("APP_PORT", "8080"),

		Store:    getenv("BANK_STORE", StoreFile),
		Sessions: getenv("BANK_SESSIONS", SessionsStore),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		LoginRateLimit: 5,
	}

	if v := os.Getenv("LOGIN_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: LOGIN_RATE_LIMIT: %w", err)
		}
		cfg.LoginRateLimit = n
	}
	return cfg, nil
}

// Validate 檢查後端組合是否完整。
func (c Config) Validate() error {
	var errs []error

	switch c.Store {
	case StoreFile:
		if c.DataDir == "" {
			errs = append(errs, errors.New("data directory is required for the file store"))
		}
	case StorePostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreFile, StorePostgres))
	}

	switch c.Sessions {
	case SessionsStore:
	case SessionsRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for redis sessions"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown sessions backend %q (want %s or %s)", c.Sessions, SessionsStore, SessionsRedis))
	}

	if c.LoginRateLimit < 0 {
		errs = append(errs, errors.New("login rate limit must not be negative"))
	}
	if c.AppPort != "" {
		if p, err := strconv.Atoi(c.AppPort); err != nil || p <= 0 || p > 65535 {
			errs = append(errs, fmt.Errorf("invalid port %q", c.AppPort))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Addr 回傳 HTTP 監聽位址。
func (c Config) Addr() string {
	return ":" + c.AppPort
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

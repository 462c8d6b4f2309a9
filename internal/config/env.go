package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"marketplace/internal/query"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type DBEnv struct {
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Host         string `toml:"host"`
	Name         string `toml:"name"`
	MaxOpenConns int    `toml:"max_open_conns"`
}

type Env struct {
	AppAddr        string         `toml:"app_addr"`
	GinMode        string         `toml:"gin_mode"`
	CORSOrigins    []string       `toml:"cors_allowed_origins"`
	RequestTimeout time.Duration  `toml:"-"`
	AutoMigrate    bool           `toml:"auto_migrate"`
	DB             DBEnv          `toml:"db"`
	Query          query.Defaults `toml:"query"`
}

// fileEnv is the on-disk shape; durations are written as strings ("15s").
type fileEnv struct {
	Env
	RequestTimeout string `toml:"request_timeout"`
}

func defaultEnv() Env {
	return Env{
		AppAddr: ":8080",
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		RequestTimeout: 15 * time.Second,
		DB: DBEnv{
			User:         "root",
			Host:         "127.0.0.1:3306",
			Name:         "marketplace",
			MaxOpenConns: 25,
		},
		Query: query.StandardDefaults(),
	}
}

// LoadEnv builds the runtime configuration: defaults, then the optional TOML file named by
// CONFIG_FILE, then environment variables (a .env file is loaded first when present).
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[CONFIG] failed to read .env: %v", err)
	}

	env := defaultEnv()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyFile(&env, path); err != nil {
			return env, err
		}
	}
	if err := applyEnvironment(&env, os.Getenv); err != nil {
		return env, err
	}
	if err := env.Validate(); err != nil {
		return env, err
	}
	return env, nil
}

func applyFile(env *Env, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return decodeFile(env, raw)
}

func decodeFile(env *Env, raw []byte) error {
	fe := fileEnv{Env: *env}
	if err := toml.Unmarshal(raw, &fe); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if fe.RequestTimeout != "" {
		d, err := time.ParseDuration(fe.RequestTimeout)
		if err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
		fe.Env.RequestTimeout = d
	}
	*env = fe.Env
	return nil
}

func applyEnvironment(env *Env, getenv func(string) string) error {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	if v := get("APP_ADDR"); v != "" {
		env.AppAddr = v
	}
	if v := get("GIN_MODE"); v != "" {
		env.GinMode = v
	}
	if v := get("CORS_ALLOWED_ORIGINS"); v != "" {
		env.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSOrigins = append(env.CORSOrigins, o)
			}
		}
	}
	if v := get("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		env.RequestTimeout = d
	}
	if v := get("AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AUTO_MIGRATE: %w", err)
		}
		env.AutoMigrate = b
	}

	if v := get("DB_USER"); v != "" {
		env.DB.User = v
	}
	if v := getenv("DB_PASSWORD"); v != "" {
		env.DB.Password = v
	}
	if v := get("DB_HOST"); v != "" {
		env.DB.Host = v
	}
	if v := get("DB_NAME"); v != "" {
		env.DB.Name = v
	}
	if err := intVar(get("DB_MAX_OPEN_CONNS"), "DB_MAX_OPEN_CONNS", &env.DB.MaxOpenConns); err != nil {
		return err
	}

	if v := get("DEFAULT_SEARCH_FIELD"); v != "" {
		env.Query.SearchField = v
	}
	if v := get("DEFAULT_SORT_FIELD"); v != "" {
		env.Query.SortField = v
	}
	if err := intVar(get("DEFAULT_PAGE_SIZE"), "DEFAULT_PAGE_SIZE", &env.Query.PageSize); err != nil {
		return err
	}
	if err := intVar(get("DEFAULT_SORT_DIRECTION"), "DEFAULT_SORT_DIRECTION", &env.Query.SortDirection); err != nil {
		return err
	}
	return nil
}

// Validate rejects list defaults the resolver could never accept.
func (e Env) Validate() error {
	if e.Query.PageSize <= 0 {
		return fmt.Errorf("default page size must be positive, got %d", e.Query.PageSize)
	}
	if e.Query.PageRequested <= 0 {
		return fmt.Errorf("default page must be positive, got %d", e.Query.PageRequested)
	}
	if e.Query.SortDirection != 1 && e.Query.SortDirection != -1 {
		return fmt.Errorf("default sort direction must be 1 or -1, got %d", e.Query.SortDirection)
	}
	if e.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}
	return nil
}

func intVar(raw, name string, dst *int) error {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

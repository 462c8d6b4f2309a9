package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestApplyEnvironmentOverridesDefaults(t *testing.T) {
	env := defaultEnv()
	err := applyEnvironment(&env, envFrom(map[string]string{
		"APP_ADDR":               ":9000",
		"CORS_ALLOWED_ORIGINS":   "https://a.example, https://b.example,",
		"REQUEST_TIMEOUT":        "3s",
		"AUTO_MIGRATE":           "true",
		"DB_HOST":                "db:3306",
		"DB_MAX_OPEN_CONNS":      "7",
		"DEFAULT_PAGE_SIZE":      "25",
		"DEFAULT_SORT_DIRECTION": "-1",
		"DEFAULT_SORT_FIELD":     "name",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", env.AppAddr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.CORSOrigins)
	assert.Equal(t, 3*time.Second, env.RequestTimeout)
	assert.True(t, env.AutoMigrate)
	assert.Equal(t, "db:3306", env.DB.Host)
	assert.Equal(t, 7, env.DB.MaxOpenConns)
	assert.Equal(t, 25, env.Query.PageSize)
	assert.Equal(t, -1, env.Query.SortDirection)
	assert.Equal(t, "name", env.Query.SortField)
	assert.Equal(t, "all", env.Query.SearchField)
	assert.NoError(t, env.Validate())
}

func TestApplyEnvironmentRejectsGarbage(t *testing.T) {
	env := defaultEnv()
	err := applyEnvironment(&env, envFrom(map[string]string{"DEFAULT_PAGE_SIZE": "many"}))
	assert.ErrorContains(t, err, "DEFAULT_PAGE_SIZE")

	env = defaultEnv()
	err = applyEnvironment(&env, envFrom(map[string]string{"REQUEST_TIMEOUT": "soon"}))
	assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
}

func TestDecodeFile(t *testing.T) {
	env := defaultEnv()
	raw := []byte(`
app_addr = ":7070"
request_timeout = "20s"

[db]
host = "mysql:3306"
name = "market"

[query]
page_size = 50
sort_field = "updatedAt"
`)
	require.NoError(t, decodeFile(&env, raw))

	assert.Equal(t, ":7070", env.AppAddr)
	assert.Equal(t, 20*time.Second, env.RequestTimeout)
	assert.Equal(t, "mysql:3306", env.DB.Host)
	assert.Equal(t, "market", env.DB.Name)
	assert.Equal(t, "root", env.DB.User, "unset keys keep their defaults")
	assert.Equal(t, 50, env.Query.PageSize)
	assert.Equal(t, "updatedAt", env.Query.SortField)
	assert.Equal(t, 1, env.Query.PageRequested)
}

func TestValidate(t *testing.T) {
	env := defaultEnv()
	env.Query.SortDirection = 0
	assert.Error(t, env.Validate())

	env = defaultEnv()
	env.Query.PageSize = 0
	assert.Error(t, env.Validate())
}

func TestDSN(t *testing.T) {
	d := DBEnv{User: "app", Password: "pw", Host: "db:3306", Name: "market"}
	dsn := d.DSN()
	assert.True(t, strings.HasPrefix(dsn, "app:pw@tcp(db:3306)/market?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

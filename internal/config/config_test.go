package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	conf, err := New(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 10, conf.Feed.PageSize)
	assert.Equal(t, 20*time.Second, conf.Feed.HomeCacheTTL)
	assert.Equal(t, BackendMySQL, conf.StorageBackend)
	assert.Equal(t, BackendRedis, conf.CacheBackend)
	assert.Equal(t, 30*time.Minute, conf.JWT.AccessTTL)
	assert.Equal(t, "localhost:8080", conf.HTTPServer.Addr())
}

func TestNew_EnvFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	body := "STORAGE_BACKEND=memory\nCACHE_BACKEND=memory\nHOME_CACHE_TTL=5s\nKAFKA_BROKERS=a:1,b:2\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	for _, k := range []string{"STORAGE_BACKEND", "CACHE_BACKEND", "HOME_CACHE_TTL", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
	}

	conf, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, conf.StorageBackend)
	assert.Equal(t, BackendMemory, conf.CacheBackend)
	assert.Equal(t, 5*time.Second, conf.Feed.HomeCacheTTL)
	assert.Equal(t, []string{"a:1", "b:2"}, conf.Kafka.Brokers)
}

func TestNew_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	_, err := New("")
	assert.ErrorContains(t, err, "STORAGE_BACKEND")
}

func TestMySQL_DSN(t *testing.T) {
	m := MySQL{User: "u", Pass: "p", Host: "h", Port: "1", DB: "d"}
	assert.Equal(t, "u:p@tcp(h:1)/d?charset=utf8mb4&parseTime=True&loc=UTC", m.DSN())
}

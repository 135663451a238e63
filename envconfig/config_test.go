package envconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	Debug = false // Reset whatever was loaded in init()
	t.Setenv("GPTTOK_DEBUG", "")
	LoadConfig()
	require.False(t, Debug)

	t.Setenv("GPTTOK_DEBUG", "false")
	LoadConfig()
	require.False(t, Debug)

	t.Setenv("GPTTOK_DEBUG", "1")
	LoadConfig()
	require.True(t, Debug)

	t.Setenv("GPTTOK_FAST", "1")
	LoadConfig()
	require.True(t, Fast)

	t.Setenv("GPTTOK_MODELS", "\"/tmp/model dir\"")
	LoadConfig()
	require.Equal(t, "/tmp/model dir", Models)
}

func TestConfigCacheSize(t *testing.T) {
	CacheSize = 1000

	t.Setenv("GPTTOK_CACHE_SIZE", "0")
	LoadConfig()
	require.Equal(t, 0, CacheSize)

	t.Setenv("GPTTOK_CACHE_SIZE", "250")
	LoadConfig()
	require.Equal(t, 250, CacheSize)

	// invalid values are ignored, keeping the previous setting
	t.Setenv("GPTTOK_CACHE_SIZE", "-5")
	LoadConfig()
	require.Equal(t, 250, CacheSize)

	t.Setenv("GPTTOK_CACHE_SIZE", "many")
	LoadConfig()
	require.Equal(t, 250, CacheSize)
}

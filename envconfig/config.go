package envconfig

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var (
	// Set via GPTTOK_DEBUG in the environment
	Debug bool
	// Set via GPTTOK_TRACE in the environment; logs every encode/decode
	Trace bool
	// Set via GPTTOK_MODELS in the environment
	Models string
	// Set via GPTTOK_FAST in the environment; selects the linewise backend
	Fast bool
	// Set via GPTTOK_STRICT_DECODE in the environment
	StrictDecode bool
	// Set via GPTTOK_CACHE_SIZE in the environment; 0 disables the cache
	CacheSize int
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"GPTTOK_DEBUG":         {"GPTTOK_DEBUG", Debug, "Show additional debug information (e.g. GPTTOK_DEBUG=1)"},
		"GPTTOK_TRACE":         {"GPTTOK_TRACE", Trace, "Log every encode and decode call"},
		"GPTTOK_MODELS":        {"GPTTOK_MODELS", Models, "The path to the models directory (default \"models\")"},
		"GPTTOK_FAST":          {"GPTTOK_FAST", Fast, "Use the linewise tokenizer backend"},
		"GPTTOK_STRICT_DECODE": {"GPTTOK_STRICT_DECODE", StrictDecode, "Fail on invalid UTF-8 instead of substituting U+FFFD"},
		"GPTTOK_CACHE_SIZE":    {"GPTTOK_CACHE_SIZE", CacheSize, "Merge cache entries per tokenizer, 0 disables (default 1000)"},
	}
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

func init() {
	// default values
	Models = "models"
	CacheSize = 1000

	LoadConfig()
}

func LoadConfig() {
	if debug := clean("GPTTOK_DEBUG"); debug != "" {
		d, err := strconv.ParseBool(debug)
		if err == nil {
			Debug = d
		} else {
			Debug = true
		}
	}

	if trace := clean("GPTTOK_TRACE"); trace != "" {
		d, err := strconv.ParseBool(trace)
		if err == nil {
			Trace = d
		}
	}

	if models := clean("GPTTOK_MODELS"); models != "" {
		Models = models
	}

	if fast := clean("GPTTOK_FAST"); fast != "" {
		d, err := strconv.ParseBool(fast)
		if err == nil {
			Fast = d
		}
	}

	if strict := clean("GPTTOK_STRICT_DECODE"); strict != "" {
		d, err := strconv.ParseBool(strict)
		if err == nil {
			StrictDecode = d
		}
	}

	if size := clean("GPTTOK_CACHE_SIZE"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 0 {
			slog.Error("invalid setting, ignoring", "GPTTOK_CACHE_SIZE", size, "error", err)
		} else {
			CacheSize = n
		}
	}
}

package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
)

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// EnvDurationDefault accepts Go duration strings ("12h") or a bare number of seconds.
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var d time.Duration
	if n, err := cast.ToInt64E(v); err == nil {
		d = time.Duration(n) * time.Second
	} else if d, err = cast.ToDurationE(v); err != nil {
		return def
	}
	if d <= 0 {
		return def
	}
	return d
}

func EnvCSVDefault(key string, def []string) []string {
	if v := CSV(os.Getenv(key)); len(v) > 0 {
		return v
	}
	return def
}

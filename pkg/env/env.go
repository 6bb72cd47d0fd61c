package env

import "os"

// Get reads an environment variable, falling back when it is unset or
// empty. Empty values count as absent: a blank override should never
// silence a sensible default.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

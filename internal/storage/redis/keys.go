package redis

import "fmt"

// documentKey returns the Redis key holding a whole document
func documentKey(prefix, name string) string {
	return fmt.Sprintf("%s:doc:%s", prefix, name)
}

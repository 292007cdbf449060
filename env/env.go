package env

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

func MustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	return v
}

func MustEnvInt(k string) int {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("env %s must be int", k)
	}
	return n
}

func Env(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}

func EnvInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("env %s must be int", k)
	}
	return n
}

func EnvBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "t", "true", "y", "yes":
		return true
	case "0", "f", "false", "n", "no":
		return false
	default:
		log.Fatalf("env %s must be boolean", k)
		return false
	}
}

// EnvMillis reads an integer count of milliseconds.
func EnvMillis(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Fatalf("env %s must be a non-negative int (milliseconds)", k)
	}
	return time.Duration(n) * time.Millisecond
}

// EnvList reads a comma-separated list, trimming blanks.
func EnvList(k string) []string {
	raw := os.Getenv(k)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

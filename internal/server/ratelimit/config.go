package ratelimit

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one route. Pattern uses ServeMux syntax, "METHOD /path", and a
// trailing slash matches every path below it.
type Rule struct {
	Pattern string
	Limit   int           // requests per Window
	Window  time.Duration // refill period
	Burst   int           // bucket capacity, Limit when zero
}

func (r Rule) split() (method, path string) {
	method, path, _ = strings.Cut(r.Pattern, " ")
	return method, path
}

// DefaultRules are applied to credential, model and write routes. Reads use
// the default limit.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "POST /api/login", Limit: 20, Window: time.Minute, Burst: 5},
		{Pattern: "POST /api/register", Limit: 10, Window: time.Minute, Burst: 3},
		{Pattern: "POST /api/employees/", Limit: 30, Window: time.Hour, Burst: 5},

		{Pattern: "POST /api/jobs", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "POST /api/jobs/", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "DELETE /api/jobs/", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "PUT /api/applications/", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "PUT /api/employers/", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "PUT /api/employees/", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// ParseRules reads rules of the form
//
//	POST /api/login=20/1m:5;PUT /api/jobs/=100/1m
//
// where the value is limit/window with an optional :burst.
func ParseRules(raw string) ([]Rule, error) {
	var rules []Rule
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		pattern, spec, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("rate limit rule %q: missing '='", entry)
		}
		rule := Rule{Pattern: strings.Join(strings.Fields(pattern), " ")}
		if method, path := rule.split(); method == "" || !strings.HasPrefix(path, "/") {
			return nil, fmt.Errorf("rate limit rule %q: pattern must be \"METHOD /path\"", entry)
		}

		spec, burst, hasBurst := strings.Cut(strings.TrimSpace(spec), ":")
		limit, window, ok := strings.Cut(spec, "/")
		if !ok {
			return nil, fmt.Errorf("rate limit rule %q: value must be limit/window", entry)
		}
		var err error
		if rule.Limit, err = strconv.Atoi(limit); err != nil {
			return nil, fmt.Errorf("rate limit rule %q: %w", entry, err)
		}
		if rule.Window, err = time.ParseDuration(window); err != nil {
			return nil, fmt.Errorf("rate limit rule %q: %w", entry, err)
		}
		if hasBurst {
			if rule.Burst, err = strconv.Atoi(burst); err != nil {
				return nil, fmt.Errorf("rate limit rule %q: %w", entry, err)
			}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadConfig builds a Config from RATE_LIMIT_* environment variables. Values
// that fail to parse keep their defaults; a bad RATE_LIMIT_RULES is logged by
// the caller through the returned error and DefaultRules are used.
func LoadConfig() (*Config, error) {
	env := envReader(os.Getenv)
	if !env.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}, nil
	}

	cfg := &Config{
		Enabled:         true,
		DefaultLimit:    env.int("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       env.set("RATE_LIMIT_WHITELIST"),
		Blacklist:       env.set("RATE_LIMIT_BLACKLIST"),
		Rules:           DefaultRules(),
	}

	raw := env("RATE_LIMIT_RULES")
	if raw == "" {
		return cfg, nil
	}
	rules, err := ParseRules(raw)
	if err != nil {
		return cfg, err
	}
	cfg.Rules = rules
	return cfg, nil
}

type envReader func(string) string

func (e envReader) int(key string, fallback int) int {
	if n, err := strconv.Atoi(e(key)); err == nil {
		return n
	}
	return fallback
}

func (e envReader) bool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(e(key)); err == nil {
		return b
	}
	return fallback
}

func (e envReader) duration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(e(key)); err == nil {
		return d
	}
	return fallback
}

// set splits a comma-separated list of client IDs.
func (e envReader) set(key string) map[string]bool {
	out := make(map[string]bool)
	for _, id := range strings.Split(e(key), ",") {
		if id = strings.TrimSpace(id); id != "" {
			out[id] = true
		}
	}
	return out
}

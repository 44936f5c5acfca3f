package ratelimit

import "strings"

// HealthPath is never rate limited.
const HealthPath = "/api/health"

// unlimited is returned for routes that skip limiting.
var unlimited = Rule{Pattern: "GET " + HealthPath}

// Match returns the rule for a request, or nil when the default limit applies.
// An exact pattern wins over a trailing-slash prefix; among prefixes the
// longest wins.
func Match(method, path string, rules []Rule) *Rule {
	if method == "GET" && path == HealthPath {
		return &unlimited
	}

	var best *Rule
	bestLen := -1
	for i := range rules {
		m, p := rules[i].split()
		if m != method {
			continue
		}
		if p == path {
			return &rules[i]
		}
		if strings.HasSuffix(p, "/") && strings.HasPrefix(path, p) && len(p) > bestLen {
			best, bestLen = &rules[i], len(p)
		}
	}
	return best
}

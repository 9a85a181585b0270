package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Cache annotations attach a cache policy to a query block inside a SQL
// file. Examples:
//
//	-- @cache ttl=5m
//	-- @cache ttl=30s force
//	-- @cache
//
// A bare @cache enables caching with the default TTL.

// DefaultAnnotationTTL applies when an annotation carries no ttl value.
const DefaultAnnotationTTL = 5 * time.Minute

var ttlRegex = regexp.MustCompile(`ttl=(\d+)([smhd])`)

// ParseAnnotation parses a cache directive from a single comment line.
// Returns nil if the line is not a cache annotation.
func ParseAnnotation(line string) *Policy {
	content := strings.TrimSpace(line)
	content = strings.TrimPrefix(content, "--")
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "@cache") {
		return nil
	}
	content = strings.TrimSpace(strings.TrimPrefix(content, "@cache"))

	policy := &Policy{Lifetime: DefaultAnnotationTTL}

	if matches := ttlRegex.FindStringSubmatch(content); len(matches) == 3 {
		n, _ := strconv.Atoi(matches[1])
		switch matches[2] {
		case "s":
			policy.Lifetime = time.Duration(n) * time.Second
		case "m":
			policy.Lifetime = time.Duration(n) * time.Minute
		case "h":
			policy.Lifetime = time.Duration(n) * time.Hour
		case "d":
			policy.Lifetime = time.Duration(n) * 24 * time.Hour
		}
	}

	for _, field := range strings.Fields(content) {
		if field == "force" {
			policy.ForceExecute = true
		}
	}

	return policy
}

// ParseAnnotations returns the first cache annotation found in lines, or
// nil when none is present.
func ParseAnnotations(lines []string) *Policy {
	for _, line := range lines {
		if p := ParseAnnotation(line); p != nil {
			return p
		}
	}
	return nil
}

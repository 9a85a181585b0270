package query

import (
	"testing"
	"time"
)

func TestParseAnnotation(t *testing.T) {
	cases := []struct {
		name string
		line string
		want *Policy
	}{
		{"not an annotation", "-- name: GetUser :select", nil},
		{"plain comment", "-- fetch the active user", nil},
		{"bare cache", "-- @cache", &Policy{Lifetime: DefaultAnnotationTTL}},
		{"seconds", "-- @cache ttl=30s", &Policy{Lifetime: 30 * time.Second}},
		{"minutes", "-- @cache ttl=5m", &Policy{Lifetime: 5 * time.Minute}},
		{"hours", "-- @cache ttl=2h", &Policy{Lifetime: 2 * time.Hour}},
		{"days", "-- @cache ttl=1d", &Policy{Lifetime: 24 * time.Hour}},
		{"force", "-- @cache ttl=1m force", &Policy{Lifetime: time.Minute, ForceExecute: true}},
		{"force without ttl", "-- @cache force", &Policy{Lifetime: DefaultAnnotationTTL, ForceExecute: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseAnnotation(tc.line)
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("ParseAnnotation(%q) = %+v, want %+v", tc.line, got, tc.want)
			}
			if got == nil {
				return
			}
			if got.Lifetime != tc.want.Lifetime || got.ForceExecute != tc.want.ForceExecute {
				t.Errorf("ParseAnnotation(%q) = %+v, want %+v", tc.line, got, tc.want)
			}
		})
	}
}

func TestParseAnnotationsReturnsFirstMatch(t *testing.T) {
	lines := []string{
		"-- doc comment",
		"-- @cache ttl=10s",
		"-- @cache ttl=20s",
	}
	got := ParseAnnotations(lines)
	if got == nil || got.Lifetime != 10*time.Second {
		t.Errorf("expected first annotation to win, got %+v", got)
	}

	if ParseAnnotations([]string{"-- nothing here"}) != nil {
		t.Error("expected nil for lines without annotations")
	}
}

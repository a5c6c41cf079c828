package config

import (
	"testing"
	"time"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("STR_TEST", "")
	if got := envOrDefault("STR_TEST", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback when unset, got %s", got)
	}
	t.Setenv("STR_TEST", "value")
	if got := envOrDefault("STR_TEST", "fallback"); got != "value" {
		t.Fatalf("expected value, got %s", got)
	}
}

func TestDurationEnvOrDefault(t *testing.T) {
	cases := []struct {
		val      string
		expected time.Duration
	}{
		{"", time.Minute},
		{"30s", 30 * time.Second},
		{"garbage", time.Minute},
		{"-5s", time.Minute}, // non-positive falls back
	}

	for _, tc := range cases {
		t.Setenv("DUR_TEST", tc.val)
		if got := durationEnvOrDefault("DUR_TEST", time.Minute); got != tc.expected {
			t.Fatalf("expected %s for %q, got %s", tc.expected, tc.val, got)
		}
	}
}

func TestIntEnvOrDefault(t *testing.T) {
	cases := []struct {
		val      string
		expected int
	}{
		{"", 7},
		{"3", 3},
		{"zero", 7},
		{"-1", 7},
	}

	for _, tc := range cases {
		t.Setenv("INT_TEST", tc.val)
		if got := intEnvOrDefault("INT_TEST", 7); got != tc.expected {
			t.Fatalf("expected %d for %q, got %d", tc.expected, tc.val, got)
		}
	}
}

func TestBoolEnvOrDefault(t *testing.T) {
	t.Setenv("BOOL_TEST", "")
	if got := boolEnvOrDefault("BOOL_TEST", true); !got {
		t.Fatalf("expected default true when unset")
	}

	cases := []struct {
		val      string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"FALSE", false},
		{"0", false},
		{"no", false},
		{"maybe", true}, // falls back to default on unknown
	}

	for _, tc := range cases {
		t.Setenv("BOOL_TEST", tc.val)
		if got := boolEnvOrDefault("BOOL_TEST", true); got != tc.expected {
			t.Fatalf("expected %v for %s, got %v", tc.expected, tc.val, got)
		}
	}
}

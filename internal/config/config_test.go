package config

import (
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	t.Setenv("CFG_TEST_KEY", "value")

	if got := Get("CFG_TEST_KEY", "fallback"); got != "value" {
		t.Fatalf("got %q, want %q", got, "value")
	}
	if got := Get("CFG_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("got %q, want fallback", got)
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv("CFG_TEST_DUR", "45s")
	t.Setenv("CFG_TEST_BAD_DUR", "soon")

	if got := GetDuration("CFG_TEST_DUR", time.Minute); got != 45*time.Second {
		t.Fatalf("got %v, want 45s", got)
	}
	if got := GetDuration("CFG_TEST_BAD_DUR", time.Minute); got != time.Minute {
		t.Fatalf("got %v, want the fallback on unparsable input", got)
	}
	if got := GetDuration("CFG_TEST_UNSET", time.Minute); got != time.Minute {
		t.Fatalf("got %v, want the fallback when unset", got)
	}
}

package config

import (
	"testing"
	"time"
)

func TestPrefixScoping(t *testing.T) {
	t.Setenv("CORE_API_PORT", ":5000")

	c := New().Prefix("CORE_API_")
	if got := c.MayString("PORT", ":4000"); got != ":5000" {
		t.Fatalf("MayString = %q, want :5000", got)
	}
}

func TestMayDefaults(t *testing.T) {
	c := New().Prefix("LICHHEN_TEST_ABSENT_")

	if got := c.MayString("STR", "fallback"); got != "fallback" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayInt("INT", 7); got != 7 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayBool("BOOL", true); !got {
		t.Fatal("MayBool = false")
	}
	if got := c.MayDuration("DUR", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration = %v", got)
	}
}

func TestMayParses(t *testing.T) {
	t.Setenv("LICHHEN_TEST_INT", "42")
	t.Setenv("LICHHEN_TEST_BOOL", "false")
	t.Setenv("LICHHEN_TEST_DUR", "90s")

	c := New().Prefix("LICHHEN_TEST_")
	if got := c.MayInt("INT", 0); got != 42 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayBool("BOOL", true); got {
		t.Fatal("MayBool = true")
	}
	if got := c.MayDuration("DUR", 0); got != 90*time.Second {
		t.Fatalf("MayDuration = %v", got)
	}
}

func TestMustStringPanicsWhenMissing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustString did not panic")
		}
	}()
	New().Prefix("LICHHEN_TEST_ABSENT_").MustString("DBURL")
}

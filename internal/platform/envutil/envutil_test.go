package envutil

import (
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	t.Setenv("VIBEMIX_TEST_INT", " 42 ")
	if got := Int("VIBEMIX_TEST_INT", 1); got != 42 {
		t.Fatalf("Int: got %d want 42", got)
	}
	t.Setenv("VIBEMIX_TEST_INT", "nope")
	if got := Int("VIBEMIX_TEST_INT", 7); got != 7 {
		t.Fatalf("Int fallback: got %d want 7", got)
	}
}

func TestBool(t *testing.T) {
	cases := []struct {
		raw  string
		def  bool
		want bool
	}{
		{raw: "", def: true, want: true},
		{raw: "on", def: false, want: true},
		{raw: "NO", def: true, want: false},
		{raw: "maybe", def: true, want: true},
	}
	for _, tc := range cases {
		t.Setenv("VIBEMIX_TEST_BOOL", tc.raw)
		if got := Bool("VIBEMIX_TEST_BOOL", tc.def); got != tc.want {
			t.Fatalf("Bool(%q, %v)=%v want %v", tc.raw, tc.def, got, tc.want)
		}
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("VIBEMIX_TEST_DUR", "250ms")
	if got := Duration("VIBEMIX_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("Duration: got %v", got)
	}
	t.Setenv("VIBEMIX_TEST_DUR", "3")
	if got := Duration("VIBEMIX_TEST_DUR", time.Second); got != 3*time.Second {
		t.Fatalf("Duration seconds: got %v", got)
	}
}

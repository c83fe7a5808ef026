package helper

import (
	"os"
	"testing"
)

func TestGetEnvVar(t *testing.T) {
	_ = os.Setenv("LP_TEST_ENV_VAR", "value")
	defer os.Unsetenv("LP_TEST_ENV_VAR")
	v, err := GetEnvVar("LP_TEST_ENV_VAR", true)
	if err != nil || v != "value" {
		t.Fatalf("expected value; got %q, %v", v, err)
	}
	_, err = GetEnvVar("LP_TEST_ENV_VAR_MISSING", true)
	if err == nil {
		t.Fatal("expected error for missing mandatory variable")
	}
	v, err = GetEnvVar("LP_TEST_ENV_VAR_MISSING", false)
	if err != nil || v != "" {
		t.Fatalf("expected empty value and no error; got %q, %v", v, err)
	}
}

func TestReadValueFromEnvWithDefault(t *testing.T) {
	if v := ReadValueFromEnvWithDefault("LP_TEST_ENV_VAR_MISSING", "warn"); v != "warn" {
		t.Fatalf("expected default; got %v", v)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if v := FirstNonEmpty("", "  ", "b", "c"); v != "b" {
		t.Fatalf("expected b; got %v", v)
	}
	if v := FirstNonEmpty(); v != "" {
		t.Fatalf("expected empty; got %v", v)
	}
}

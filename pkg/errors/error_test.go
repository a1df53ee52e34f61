package errors_test

import (
	"fmt"
	"strings"
	"testing"

	appErr "runbox/pkg/errors"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code appErr.ErrorCode
		want int
	}{
		{appErr.Success, 200},
		{appErr.InvalidParams, 400},
		{appErr.LanguageNotSupported, 400},
		{appErr.NotFound, 404},
		{appErr.ServiceUnavailable, 503},
		{appErr.InternalServerError, 500},
		{appErr.ToolMissing, 500},
		{appErr.CompilationError, 500},
		{appErr.RuntimeError, 500},
		{appErr.SignalError, 500},
		{appErr.DecodeError, 500},
		{appErr.CompileOrRunError, 500},
		{appErr.IoError, 500},
	}
	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Errorf("HTTPStatus(%d) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestNewUsesDefaultMessage(t *testing.T) {
	err := appErr.New(appErr.ToolMissing)
	if err.Error() != appErr.ToolMissing.Message() {
		t.Errorf("Error() = %q, want default message %q", err.Error(), appErr.ToolMissing.Message())
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	err := appErr.Newf(appErr.CompilationError, "Rust compilation failed:\n%s", "boom")
	if want := "Rust compilation failed:\nboom"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Code != appErr.CompilationError {
		t.Errorf("Code = %d, want %d", err.Code, appErr.CompilationError)
	}
}

func TestWrapKeepsUnderlying(t *testing.T) {
	base := fmt.Errorf("disk full")
	err := appErr.Wrap(base, appErr.IoError)
	if err.Unwrap() != base {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), base)
	}
	if appErr.GetCode(err) != appErr.IoError {
		t.Errorf("GetCode = %d, want %d", appErr.GetCode(err), appErr.IoError)
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if err := appErr.Wrap(nil, appErr.IoError); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestGetErrorWrapsForeignErrors(t *testing.T) {
	err := appErr.GetError(fmt.Errorf("plain"))
	if err.Code != appErr.InternalServerError {
		t.Errorf("Code = %d, want %d", err.Code, appErr.InternalServerError)
	}
	if err.Error() != "plain" {
		t.Errorf("Error() = %q, want %q", err.Error(), "plain")
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := appErr.New(appErr.SignalError)
	if !appErr.Is(err, appErr.SignalError) {
		t.Error("Is should match the error's own code")
	}
	if appErr.Is(err, appErr.RuntimeError) {
		t.Error("Is should not match a different code")
	}
	if appErr.Is(fmt.Errorf("plain"), appErr.SignalError) {
		t.Error("Is should not match a foreign error")
	}
}

func TestUnsupportedLanguageMessage(t *testing.T) {
	err := appErr.UnsupportedLanguage("nope")
	if want := "nope language is not supported"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Code.HTTPStatus() != 400 {
		t.Errorf("HTTPStatus = %d, want 400", err.Code.HTTPStatus())
	}
}

func TestWithDetail(t *testing.T) {
	err := appErr.New(appErr.ToolMissing).WithDetail("tool", "rustc")
	if err.Details["tool"] != "rustc" {
		t.Errorf("Details[tool] = %v, want rustc", err.Details["tool"])
	}
}

func TestStackIsCaptured(t *testing.T) {
	err := appErr.New(appErr.InternalServerError)
	if !strings.Contains(err.Stack, "error_test.go") {
		t.Errorf("Stack should reference the call site, got %q", err.Stack)
	}
}

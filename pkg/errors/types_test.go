package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewError(t *testing.T) {
	err := New(ErrCodeParse, "unterminated quote")

	if err.Code != ErrCodeParse {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeParse)
	}
	if !strings.Contains(err.Error(), "PARSE_ERROR") {
		t.Errorf("Error() = %q, want code in message", err.Error())
	}
	if len(err.Stack) == 0 {
		t.Error("expected captured stack frames")
	}
}

func TestWrap(t *testing.T) {
	underlying := stderrors.New("no such file")
	err := Wrap(underlying, ErrCodeConfigLoad, "reading config")

	if !stderrors.Is(err, underlying) {
		t.Error("wrapped error should unwrap to underlying")
	}
	if !strings.Contains(err.Error(), "no such file") {
		t.Errorf("Error() = %q, want underlying message", err.Error())
	}

	if Wrap(nil, ErrCodeConfigLoad, "noop") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWithContext(t *testing.T) {
	err := New(ErrCodeExecFailure, "command failed").
		WithContext("command", "ls -la").
		WithContext("exit_code", 2)

	msg := err.Error()
	if !strings.Contains(msg, "command: ls -la") {
		t.Errorf("Error() = %q, want command context", msg)
	}
	if !strings.Contains(msg, "exit_code: 2") {
		t.Errorf("Error() = %q, want exit_code context", msg)
	}
}

func TestDisplayMessage(t *testing.T) {
	err := New(ErrCodeConfirmCancelled, "confirmer aborted")
	if err.DisplayMessage() != "confirmer aborted" {
		t.Errorf("DisplayMessage() = %q, want fallback to Message", err.DisplayMessage())
	}

	err = err.WithUserMessage("cancelled by user")
	if err.DisplayMessage() != "cancelled by user" {
		t.Errorf("DisplayMessage() = %q, want user message", err.DisplayMessage())
	}
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", New(ErrCodeParse, "bad"), ErrCodeParse, true},
		{"different code", New(ErrCodeParse, "bad"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeParse, false},
		{"plain error", stderrors.New("plain"), ErrCodeParse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCode(tt.err, tt.code); got != tt.want {
				t.Errorf("IsCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeConfigInvalid, "bad prefix")); got != ErrCodeConfigInvalid {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeConfigInvalid)
	}
	if got := GetCode(stderrors.New("plain")); got != ErrCodeInternal {
		t.Errorf("GetCode(plain) = %v, want %v", got, ErrCodeInternal)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

package gemini

import (
	"errors"
	"strings"
	"testing"

	"ai-studio-server/modules/common/apperr"
)

func TestClassifyError(t *testing.T) {
	// permission failures surface the provider's own message
	err := classifyError(errors.New("rpc error: code = PERMISSION_DENIED desc = key lacks image generation"))
	if !apperr.IsBadRequest(err) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
	if !strings.Contains(err.Error(), "key lacks image generation") {
		t.Errorf("provider detail lost: %q", err.Error())
	}

	// rate limits collapse to the fixed user-facing message
	err = classifyError(errors.New("googleapi: Error 429: quota exceeded"))
	if err.Error() != MsgRateLimitExceeded {
		t.Errorf("rate limit message = %q", err.Error())
	}

	// everything else wraps the generic message around the cause
	err = classifyError(errors.New("connection reset"))
	if !strings.HasPrefix(err.Error(), MsgGenerationFailed) || !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("generic wrap = %q", err.Error())
	}
}

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("status 429"), true},
		{errors.New("Rate Limit hit"), true},
		{errors.New("quota exhausted for project"), true},
		{errors.New("RESOURCE EXHAUSTED"), true},
		{errors.New("internal error"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := isRateLimitError(tt.err); got != tt.want {
			t.Errorf("isRateLimitError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

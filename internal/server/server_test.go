package server

import (
	"context"
	"strings"
	"testing"

	"github.com/zulandar/tenco/internal/rollcall"
)

func TestStart_MissingService(t *testing.T) {
	err := Start(context.Background(), StartOpts{VerificationToken: "tok"})
	if err == nil || !strings.Contains(err.Error(), "service is required") {
		t.Errorf("err = %v, want service-is-required", err)
	}
}

func TestStart_MissingToken(t *testing.T) {
	svc, err := rollcall.NewService(context.Background(), newStubAPI())
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	startErr := Start(context.Background(), StartOpts{Service: svc})
	if startErr == nil || !strings.Contains(startErr.Error(), "verification token is required") {
		t.Errorf("err = %v, want token-is-required", startErr)
	}
}

package response

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"ruralhome_server/pkg/apperr"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"app error", apperr.NotFound("candidate"), 404, apperr.CodeNotFound, "candidate not found"},
		{"persistence", apperr.PersistenceUnavailable("create", errors.New("conn reset")), 503, apperr.CodePersistenceUnavailable, "recommendation store unavailable: create"},
		{"plain error hides detail", errors.New("pq: password authentication failed"), 500, apperr.CodeInternalError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				c.Locals("request_id", "req-1")
				return FromError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			body, _ := io.ReadAll(resp.Body)
			var got Response
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("decode %s: %v", body, err)
			}
			if got.Success || got.Error == nil {
				t.Fatalf("body = %s", body)
			}
			if got.Error.Code != tt.wantCode || got.Error.Message != tt.wantMsg {
				t.Errorf("error = %+v", got.Error)
			}
			if got.RequestID != "req-1" {
				t.Errorf("request_id = %q", got.RequestID)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	if got := StatusCode(503); got != "SERVICE_UNAVAILABLE" {
		t.Errorf("StatusCode(503) = %q", got)
	}
	if got := StatusCode(418); got != "UNKNOWN_ERROR" {
		t.Errorf("StatusCode(418) = %q", got)
	}
}

package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/arkodev/learnhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindPayload struct {
	Name  string `json:"name" binding:"required,min=2"`
	Email string `json:"email" binding:"required,email"`
}

func bindRouter() *gin.Engine {
	r := gin.New()

	r.POST("/bind", func(c *gin.Context) {
		var p bindPayload
		if !handlers.BindJSON(c, &p) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	return r
}

type bindErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details struct {
		JSON   string                `json:"json"`
		Reason string                `json:"reason"`
		Fields []handlers.FieldError `json:"fields"`
	} `json:"details"`
}

func decodeBindError(t *testing.T, raw []byte) bindErrorBody {
	t.Helper()

	var body bindErrorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, raw)
	}

	return body
}

func TestBindJSONValidationErrors(t *testing.T) {
	r := bindRouter()

	w := postJSON(r, "/bind", `{"name":"A","email":"not-an-email"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	body := decodeBindError(t, w.Body.Bytes())

	if body.Success {
		t.Fatal("success must be false")
	}

	if len(body.Details.Fields) != 2 {
		t.Fatalf("got %d field errors, want 2: %+v", len(body.Details.Fields), body.Details.Fields)
	}

	byField := map[string]handlers.FieldError{}
	for _, f := range body.Details.Fields {
		byField[f.Field] = f
	}

	// field names come back in the payload's casing, not Go's
	if f, ok := byField["name"]; !ok || f.Rule != "min" || f.Param != "2" {
		t.Fatalf("bad name error: %+v", byField)
	}

	if f, ok := byField["email"]; !ok || f.Rule != "email" {
		t.Fatalf("bad email error: %+v", byField)
	}
}

func TestBindJSONSyntaxError(t *testing.T) {
	r := bindRouter()

	w := postJSON(r, "/bind", `{"name":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	body := decodeBindError(t, w.Body.Bytes())

	if body.Details.JSON != "invalid_json_syntax" {
		t.Fatalf("got details %+v, want invalid_json_syntax", body.Details)
	}
}

func TestBindJSONTypeMismatch(t *testing.T) {
	r := bindRouter()

	w := postJSON(r, "/bind", `{"name":123,"email":"ada@example.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	body := decodeBindError(t, w.Body.Bytes())

	if body.Details.JSON != "invalid_json_type" {
		t.Fatalf("got details %+v, want invalid_json_type", body.Details)
	}

	if len(body.Details.Fields) != 1 || body.Details.Fields[0].Field != "name" {
		t.Fatalf("type error missing field detail: %+v", body.Details)
	}
}

package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type decodeTarget struct {
	Nome  string  `json:"nome"`
	Score float64 `json:"score"`
}

func TestDecodeStrict(t *testing.T) {
	cases := []struct {
		name, body, want string
	}{
		{"ok", `{"nome":"Alfa","score":7}`, ""},
		{"empty", ``, "request body is empty"},
		{"trailing", `{"nome":"Alfa"}{"nome":"Beta"}`, "unexpected additional JSON content"},
		{"unknown field", `{"nome":"Alfa","cor":"azul"}`, `unknown field "cor"`},
		{"wrong type", `{"score":"alto"}`, `field "score" must be float64`},
		{"truncated", `{"nome":`, "malformed JSON: unexpected end of body"},
		{"syntax", `{"nome" "Alfa"}`, "malformed JSON at offset"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var dst decodeTarget
			err := DecodeStrict(strings.NewReader(tc.body), &dst)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if dst.Nome != "Alfa" || dst.Score != 7 {
					t.Fatalf("decoded %+v", dst)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := DecodeError(err); !strings.Contains(got, tc.want) {
				t.Fatalf("got %q want substring %q", got, tc.want)
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	rr := httptest.NewRecorder()
	BadRequest(rr, "cnpj inválido")
	if rr.Code != http.StatusBadRequest || rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("status=%d ct=%q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"error":"cnpj inválido"}` {
		t.Fatalf("body %s", got)
	}
}

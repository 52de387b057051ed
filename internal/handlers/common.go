package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Werneck0live/pipeline-empresas/internal/events"
	"github.com/Werneck0live/pipeline-empresas/internal/utils"
)

const defaultTimeout = 5 * time.Second

type Notifier interface {
	Notify(ctx context.Context, ev events.Event)
}

// nopNotifier evita checar nil em todo handler.
type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, events.Event) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

func requestCtx(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(r.Context(), d)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	utils.WriteJSON(w, code, map[string]string{"error": msg})
}

func notFound(w http.ResponseWriter) { writeError(w, http.StatusNotFound, "not found") }

func internalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, err.Error())
}

// pathAfter devolve os segmentos depois do prefixo, ex.:
// pathAfter("/api/due-diligence/42/status", "/api/due-diligence") = ["42", "status"].
func pathAfter(path, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// pagination aplica limit (1..200, padrão 50) e skip (>= 0) sobre uma lista já carregada.
func pagination(r *http.Request) (limit, skip int) {
	q := r.URL.Query()
	limit, skip = 50, 0
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if s := q.Get("skip"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			skip = v
		}
	}
	return limit, skip
}

func page[T any](list []T, limit, skip int) []T {
	if skip >= len(list) {
		return []T{}
	}
	end := skip + limit
	if end > len(list) {
		end = len(list)
	}
	return list[skip:end]
}

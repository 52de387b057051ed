package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger monta o handler slog: JSON por padrão, "text" para leitura local.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// InitLogger escreve em stdout e vira o logger default do processo.
func InitLogger(level slog.Level, format string) *slog.Logger {
	l := NewLogger(os.Stdout, level, format)
	slog.SetDefault(l)
	return l
}

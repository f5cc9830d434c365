package utils

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"os"
	"time"
)

// LoggerConfig определяет конфигурацию для логгера
type LoggerConfig struct {
	// Формат логов (text/json)
	Format string
	// Выходной поток (os.Stdout, файл и т.д.)
	Output io.Writer
	// Включить/выключить цвета для консоли
	EnableColors bool
}

// InitLogger инициализирует и возвращает логгер
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	prefix := "[EngiLearn] "

	if cfg.Format == "json" {
		return log.New(&jsonWriter{out: cfg.Output, now: time.Now}, "", 0)
	}
	if cfg.EnableColors {
		prefix = "\033[36m" + prefix + "\033[0m" // Голубой цвет
	}
	return log.New(cfg.Output, prefix, log.LstdFlags|log.Lshortfile|log.LUTC)
}

// jsonWriter оборачивает каждую строку лога в JSON-объект
type jsonWriter struct {
	out io.Writer
	now func() time.Time
}

func (w *jsonWriter) Write(p []byte) (int, error) {
	line, err := json.Marshal(struct {
		Time    string `json:"time"`
		Service string `json:"service"`
		Message string `json:"message"`
	}{
		Time:    w.now().UTC().Format(time.RFC3339),
		Service: "EngiLearn",
		Message: string(bytes.TrimRight(p, "\n")),
	})
	if err != nil {
		return 0, err
	}
	if _, err := w.out.Write(append(line, '\n')); err != nil {
		return 0, err
	}
	return len(p), nil
}

// StatusColor возвращает ANSI-цвет для HTTP статуса
func StatusColor(status int) string {
	switch {
	case status >= 500:
		return "\033[31m" // Красный
	case status >= 400:
		return "\033[33m" // Желтый
	case status >= 300:
		return "\033[36m" // Голубой
	case status >= 200:
		return "\033[32m" // Зеленый
	default:
		return "\033[37m" // Белый
	}
}

// MethodColor возвращает ANSI-цвет для HTTP метода
func MethodColor(method string) string {
	switch method {
	case "GET":
		return "\033[34m" // Синий
	case "POST":
		return "\033[33m" // Желтый
	case "PUT":
		return "\033[36m" // Голубой
	case "DELETE":
		return "\033[31m" // Красный
	default:
		return "\033[37m" // Белый
	}
}

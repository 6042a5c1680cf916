package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controla destino y verbosidad.
type Config struct {
	Env     string // "development" escribe consola con color; el resto, JSON a stdout
	Level   string // trace|debug|info|warn|error; valor inválido cae a info
	Service string // nombre estampado en cada línea (opcional)
}

// Logger envuelve zerolog para inyectarse por constructor en vez de depender
// del logger global del paquete.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger según el entorno. El logger global de zerolog se
// redirige a la misma salida para que las librerías que lo usan no diverjan.
func New(cfg Config) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if cfg.Env == "development" {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
	} else {
		zl = zerolog.New(os.Stdout)
	}

	ctx := zl.Level(level).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	built := ctx.Logger()
	log.Logger = built

	return &Logger{zl: built}
}

// Eventos por nivel, delegados a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With abre un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context { return l.zl.With() }

// Zerolog expone el logger interno cuando se necesita la API completa.
func (l *Logger) Zerolog() zerolog.Logger { return l.zl }

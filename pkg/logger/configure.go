package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Configure replaces the global logger with one writing to the console and,
// when filename is set, to a size-rotated log file.
func Configure(level zerolog.Level, filename string) {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}}
	if filename != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(level)
}

// ParseLevel falls back to info for an empty or unknown level name.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return level
}

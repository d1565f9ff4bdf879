package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	colorRed = iota + 31
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(s interface{}, c int) string {
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

// New creates a logger based on the ENV environment variable
func New() zerolog.Logger {
	env := os.Getenv("ENV")

	if env == "development" || env == "dev" || env == "" {
		return NewDevelopment()
	}
	return NewProduction()
}

// NewDevelopment creates a development logger with console output and colors
func NewDevelopment() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
		FormatLevel: func(i interface{}) string {
			ll, ok := i.(string)
			if !ok {
				return strings.ToUpper(fmt.Sprintf("%s", i))[0:3]
			}
			switch ll {
			case "trace":
				return colorize("TRC", colorMagenta)
			case "debug":
				return colorize("DBG", colorYellow)
			case "info":
				return colorize("INF", colorGreen)
			case "warn", "error", "fatal", "panic":
				return colorize(strings.ToUpper(ll)[0:3], colorRed)
			default:
				return strings.ToUpper(ll)[0:3]
			}
		},
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// NewProduction creates a production logger with JSON output and UNIX timestamps
func NewProduction() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

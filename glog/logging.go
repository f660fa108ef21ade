// Package glog configures the process-wide zerolog logger used by every
// other package in this module.
package glog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	SetConsole(false)
}

var colourDisabled bool

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
	colorCyan
	colorWhite

	colorBold = 1
)

// V stringifies a value for a log message without letting it escape to the
// heap at the call site.
func V[T any](v T) string { return fmt.Sprintf("%v", v) }

// F is V with an explicit format string.
func F[T any](format string, v T) string { return fmt.Sprintf(format, v) }

func colorize(s interface{}, c int) string {
	if colourDisabled {
		return fmt.Sprintf("%s", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

// SetLevel maps a debug-level integer (0 info, 1 debug, >=2 trace) onto zerolog's levels.
func SetLevel(level int) {
	switch {
	case level <= 0:
		log.Logger = log.With().Logger().Level(zerolog.InfoLevel)
	case level == 1:
		log.Logger = log.With().Logger().Level(zerolog.DebugLevel)
	default:
		log.Logger = log.With().Logger().Level(zerolog.TraceLevel)
	}
}

// SetConsole installs a human-readable console writer, optionally without colour
// (useful for CI logs and for tests, which always disable colour).
func SetConsole(noColour bool) {
	colourDisabled = noColour
	zerolog.CallerMarshalFunc = callerMarshal

	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly, NoColor: noColour}
	cw.FormatCaller = formatCaller
	cw.FormatLevel = formatLevel
	cw.PartsOrder = []string{
		zerolog.TimestampFieldName,
		zerolog.CallerFieldName,
		zerolog.LevelFieldName,
		zerolog.MessageFieldName,
	}
	log.Logger = log.With().Caller().Logger().Output(cw)
}

func callerMarshal(pc uintptr, file string, line int) string {
	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}
	return colorize(fmt.Sprintf("%15s.%-4s", short, strconv.Itoa(line)), colorBlack)
}

func formatCaller(i any) string {
	c, _ := i.(string)
	if c == "" {
		return c
	}
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, c); err == nil {
			c = rel
		}
	}
	return colorize(c, colorBold)
}

func formatLevel(i any) string {
	ll, ok := i.(string)
	if !ok {
		if i == nil {
			return colorize("| ??? |", colorBold)
		}
		return strings.ToUpper(fmt.Sprintf("| %5s |", i))
	}
	switch ll {
	case zerolog.LevelTraceValue:
		return colorize("| TRACE |", colorMagenta)
	case zerolog.LevelDebugValue:
		return colorize("| DEBUG |", colorYellow)
	case zerolog.LevelInfoValue:
		return colorize("| INFO  |", colorGreen)
	case zerolog.LevelWarnValue:
		return colorize("| WARN  |", colorRed)
	case zerolog.LevelErrorValue:
		return colorize(colorize("| ERROR |", colorRed), colorBold)
	case zerolog.LevelFatalValue:
		return colorize(colorize("| FATAL |", colorRed), colorBold)
	case zerolog.LevelPanicValue:
		return colorize(colorize("| PANIC |", colorRed), colorBold)
	default:
		return colorize(ll, colorBold)
	}
}

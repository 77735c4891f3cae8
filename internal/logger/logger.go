// Package logger provides the service's zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

var marshalersOnce sync.Once

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// installErrorMarshalers makes .Stack().Err(err) render a stack even for
// plain errors by wrapping them with pkg/errors first.
func installErrorMarshalers() {
	marshalersOnce.Do(func() {
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			if _, ok := err.(stackTracer); !ok {
				err = pkgerrors.WithStack(err)
			}
			return zpkgerrors.MarshalStack(err)
		}
		zerolog.ErrorMarshalFunc = func(err error) interface{} {
			if _, ok := err.(stackTracer); ok {
				return err
			}
			return pkgerrors.WithStack(err)
		}
	})
}

// New returns a JSON logger on stdout tagged with serviceName.
// Call sites should use .Stack() on error events to include stacks.
func New(serviceName string) zerolog.Logger {
	return NewWithWriter(serviceName, os.Stdout)
}

// NewWithWriter is New with a caller supplied sink.
func NewWithWriter(serviceName string, w io.Writer) zerolog.Logger {
	installErrorMarshalers()
	return zerolog.New(w).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// SetLevel applies a global level such as "debug" or "warn". Empty means info.
func SetLevel(level string) error {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

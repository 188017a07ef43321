package logger

import (
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrAppNameIsEmpty is returned when log.appname (ORBITDESK_LOG_APPNAME) is unset.
	ErrAppNameIsEmpty = errors.New("log.appname must be set")

	// ErrServiceNameIsEmpty is returned when log.servicename (ORBITDESK_LOG_SERVICENAME) is unset.
	ErrServiceNameIsEmpty = errors.New("log.servicename must be set")

	// ErrUnsupportedLevel is returned when log.loglevel is not a zerolog level.
	ErrUnsupportedLevel = errors.New("log.loglevel is not supported")
)

// WriteErrors counts log events that no writer accepted.
var WriteErrors = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "log_write_errors_total",
	Help: "Number of log events that could not be written.",
})

// ErrorHandler is installed as zerolog.ErrorHandler. The logger itself failed, so it
// reports to stderr and counts the loss.
func ErrorHandler(err error) {
	WriteErrors.Inc()

	_, _ = fmt.Fprintf(os.Stderr, "orbitdesk: dropped log event: %v\n", err)
}

package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrRemote        = errors.New("remote error")
	ErrRouting       = errors.New("routing error")
	ErrConfiguration = errors.New("configuration error")
	ErrTimeout       = errors.New("timeout")
)

// Kind names the outcome class of a failed operation. It drives the HTTP
// status mapping and the error_kind log field.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindRemote        Kind = "remote"
	KindRouting       Kind = "routing"
	KindConfiguration Kind = "configuration"
	KindTimeout       Kind = "timeout"
	KindInternal      Kind = "internal"
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrRemote
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify reports the outcome kind an error was tagged with. Untagged errors
// classify as internal.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrRouting):
		return KindRouting
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrRemote):
		return KindRemote
	default:
		return KindInternal
	}
}

// HTTPStatus maps an error to the response status the HTTP surface should
// write. Routing errors are the only 404 class; validation and remote
// failures both surface as 500.
func HTTPStatus(err error) int {
	if errors.Is(err, ErrRouting) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

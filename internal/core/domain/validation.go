package domain

import (
	"errors"
	"strings"
)

// FieldErrorKind is the machine-readable reason code attached to a field
// validation failure. The set is closed; the API layer renders these codes
// verbatim so clients can branch on them.
type FieldErrorKind string

const (
	KindInvalidLength     FieldErrorKind = "invalid_length"
	KindInvalidFormat     FieldErrorKind = "invalid_format"
	KindWeakPassword      FieldErrorKind = "weak_password"
	KindInvalidIdentifier FieldErrorKind = "invalid_identifier"
	KindMissingField      FieldErrorKind = "missing_field"
	KindForbiddenField    FieldErrorKind = "forbidden_field"
)

// FieldError reports a single invalid field. Always recoverable by the
// caller, never process-fatal.
type FieldError struct {
	Field   string         `json:"field"`
	Kind    FieldErrorKind `json:"code"`
	Message string         `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors aggregates every invalid field found while constructing a
// shape, so one response can list all offending fields instead of just the
// first.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether a failure was recorded for the named field.
func (e ValidationErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// errList accumulates field errors during shape construction.
type errList struct {
	errs ValidationErrors
}

func (l *errList) add(field string, kind FieldErrorKind, message string) {
	l.errs = append(l.errs, FieldError{Field: field, Kind: kind, Message: message})
}

func (l *errList) addErr(err error) {
	if err == nil {
		return
	}
	var fe FieldError
	if errors.As(err, &fe) {
		l.errs = append(l.errs, fe)
		return
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		l.errs = append(l.errs, ve...)
		return
	}
	l.errs = append(l.errs, FieldError{Kind: KindInvalidFormat, Message: err.Error()})
}

// err returns the aggregate as an error, or nil when nothing was recorded.
func (l *errList) err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l.errs
}

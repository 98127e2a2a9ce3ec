package types

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrDonorNotFound     = errors.New("donor not found")
	ErrDonationNotFound  = errors.New("donation not found")
	ErrLowIncomeNotFound = errors.New("low income allocation not found")
	ErrZooNotFound       = errors.New("zoo allocation not found")
	ErrDuplicateEmail    = errors.New("donor email already registered")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrDeliveryFailure   = errors.New("mail delivery failed")
)

type ErrorKind string

const (
	KindRequired         ErrorKind = "required"
	KindNotFound         ErrorKind = "not_found"
	KindInvalidRange     ErrorKind = "invalid_range"
	KindInvalidChoice    ErrorKind = "invalid_choice"
	KindContradiction    ErrorKind = "contradiction"
	KindDuplicateKey     ErrorKind = "duplicate_key"
	KindInvalidReference ErrorKind = "invalid_reference"
	KindInvalidFormat    ErrorKind = "invalid_format"
	KindPastDate         ErrorKind = "past_date"
	KindVerification     ErrorKind = "verification"
)

// RecordField is the field name used for errors that span several fields.
const RecordField = "__all__"

type FieldError struct {
	Field   string
	Kind    ErrorKind
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every rule violation of one submission. A
// submission with any ValidationErrors is never persisted.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a violation. Only the first violation of a field is kept.
func (v *ValidationErrors) Add(field string, kind ErrorKind, message string) {
	if v.Get(field) != nil {
		return
	}
	*v = append(*v, &FieldError{Field: field, Kind: kind, Message: message})
}

func (v ValidationErrors) Get(field string) *FieldError {
	for _, e := range v {
		if e.Field == field {
			return e
		}
	}
	return nil
}

func (v ValidationErrors) Kind(field string) ErrorKind {
	if e := v.Get(field); e != nil {
		return e.Kind
	}
	return ""
}

// Fields maps field names to messages for template rendering. Record level
// errors are left out, see Record.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, e := range v {
		if e.Field == RecordField {
			continue
		}
		out[e.Field] = e.Message
	}
	return out
}

func (v ValidationErrors) Record() []string {
	var out []string
	for _, e := range v {
		if e.Field == RecordField {
			out = append(out, e.Message)
		}
	}
	return out
}

func (v ValidationErrors) FieldNames() []string {
	names := make([]string, 0, len(v))
	for _, e := range v {
		names = append(names, e.Field)
	}
	sort.Strings(names)
	return names
}

// OrNil returns nil when nothing was recorded so callers can return it as error.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// AsValidationErrors reports whether err carries validation failures.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

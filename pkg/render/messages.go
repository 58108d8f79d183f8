package render

import (
	"errors"
	"fmt"
	"strings"
)

// Message keys for the built-in violations.
const (
	MsgRequired  = "validation.required"
	MsgMinLength = "validation.min_length"
	MsgMaxLength = "validation.max_length"
	MsgMinValue  = "validation.min_value"
	MsgMaxValue  = "validation.max_value"
	MsgRegex     = "validation.regex"
	MsgFormat    = "validation.format"
	MsgOption    = "validation.option"
	MsgMask      = "validation.mask"
)

var defaultMessages = map[string]string{
	MsgRequired:  "This field is required",
	MsgMinLength: "Must be at least %s characters",
	MsgMaxLength: "Must be at most %s characters",
	MsgMinValue:  "Must be at least %s",
	MsgMaxValue:  "Must be at most %s",
	MsgRegex:     "Does not match the required pattern",
	MsgFormat:    "Invalid value %q",
	MsgOption:    "%q is not one of the allowed options",
	MsgMask:      "Enter a new value instead of the placeholder",
}

// ErrMissingTranslator is passed to the missing handler when no translator
// is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler produces a message when translation fails.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Localizer turns violations into display messages.
type Localizer struct {
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// Message returns the text for v. An explicit Violation.Message (set from the
// attribute's validation message override) always wins.
func (l Localizer) Message(v Violation) string {
	if strings.TrimSpace(v.Message) != "" {
		return v.Message
	}
	if l.Translator != nil {
		if msg, err := l.Translator.Translate(l.Locale, v.Key, v.Args...); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		} else if l.OnMissing != nil {
			return l.OnMissing(l.Locale, v.Key, v.Args, err)
		}
	} else if l.OnMissing != nil {
		return l.OnMissing(l.Locale, v.Key, v.Args, ErrMissingTranslator)
	}
	return DefaultMessage(v)
}

// Messages maps violations to display messages, preserving order.
func (l Localizer) Messages(violations []Violation) []string {
	if len(violations) == 0 {
		return nil
	}
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, l.Message(v))
	}
	return normalizeMessages(out)
}

// DefaultMessage renders the built-in English text for v.
func DefaultMessage(v Violation) string {
	format, ok := defaultMessages[v.Key]
	if !ok {
		return v.Key
	}
	if len(v.Args) == 0 {
		return format
	}
	return fmt.Sprintf(format, v.Args...)
}

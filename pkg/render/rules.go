package render

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-eavform/pkg/model"
)

// Rule identifiers reported in violations.
const (
	RuleRequired = "required"
	RuleMin      = "min"
	RuleMax      = "max"
	RuleRegex    = "regex"
	RuleFormat   = "format"
	RuleOption   = "option"
	RuleMask     = "mask"
)

// Measure selects what Min and Max bound.
type Measure int

const (
	// MeasureNone ignores Min and Max.
	MeasureNone Measure = iota
	// MeasureLength bounds the rune count of each entry.
	MeasureLength
	// MeasureNumeric bounds the parsed numeric value of each entry.
	MeasureNumeric
)

// Violation is one failed constraint.
type Violation struct {
	Rule    string
	Key     string
	Args    []any
	Message string
}

// Rules is the constraint set a renderer builds for an attribute. Entries
// are extracted from the input (one per line when Lines is set) and checked
// one by one; every failing rule is reported.
type Rules struct {
	Required bool
	Min      *float64
	Max      *float64
	Pattern  *regexp.Regexp
	Measure  Measure
	Lines    bool
	// Allowed restricts entries to a fixed set when non-empty.
	Allowed []string
	// Parse checks the entry format for typed kinds (numbers, dates, uuids).
	Parse func(entry string) error
	// RejectMask refuses mask tokens typed as a value.
	RejectMask bool
	// Message replaces every default message when set.
	Message string
}

// RulesFor builds the common constraint set from the attribute flags. For a
// confidential attribute whose stored value is kept, Required is dropped.
// Confidential attributes never accept a mask token as their new value.
func RulesFor(attr model.Attribute, hasValue bool, measure Measure) Rules {
	rules := Rules{
		Required:   attr.Required,
		Min:        attr.Min,
		Max:        attr.Max,
		Measure:    measure,
		Lines:      attr.Multiple,
		RejectMask: attr.Confidential,
		Message:    strings.TrimSpace(attr.ValidationMessage),
	}
	if attr.Confidential && hasValue {
		rules.Required = false
	}
	if attr.Regex != "" {
		if re, err := regexp.Compile(attr.Regex); err == nil {
			rules.Pattern = re
		}
	}
	return rules
}

// Validate checks input and returns every violation, nil when valid.
func (r Rules) Validate(input Input) []Violation {
	entries := r.entries(input)
	if len(entries) == 0 {
		if r.Required {
			return []Violation{r.violation(RuleRequired, MsgRequired)}
		}
		return nil
	}

	var out []Violation
	for _, entry := range entries {
		if r.RejectMask && IsMaskToken(strings.TrimSpace(entry)) {
			out = append(out, r.violation(RuleMask, MsgMask))
			continue
		}
		if r.Parse != nil {
			if err := r.Parse(entry); err != nil {
				out = append(out, r.violation(RuleFormat, MsgFormat, entry))
				continue
			}
		}
		out = append(out, r.bounds(entry)...)
		if r.Pattern != nil && !r.Pattern.MatchString(entry) {
			out = append(out, r.violation(RuleRegex, MsgRegex))
		}
		if len(r.Allowed) > 0 && !contains(r.Allowed, entry) {
			out = append(out, r.violation(RuleOption, MsgOption, entry))
		}
	}
	return dedupeViolations(out)
}

func (r Rules) bounds(entry string) []Violation {
	var out []Violation
	switch r.Measure {
	case MeasureLength:
		length := float64(utf8.RuneCountInString(entry))
		if r.Min != nil && length < *r.Min {
			out = append(out, r.violation(RuleMin, MsgMinLength, formatBound(*r.Min)))
		}
		if r.Max != nil && length > *r.Max {
			out = append(out, r.violation(RuleMax, MsgMaxLength, formatBound(*r.Max)))
		}
	case MeasureNumeric:
		value, err := strconv.ParseFloat(strings.TrimSpace(entry), 64)
		if err != nil {
			return []Violation{r.violation(RuleFormat, MsgFormat, entry)}
		}
		if r.Min != nil && value < *r.Min {
			out = append(out, r.violation(RuleMin, MsgMinValue, formatBound(*r.Min)))
		}
		if r.Max != nil && value > *r.Max {
			out = append(out, r.violation(RuleMax, MsgMaxValue, formatBound(*r.Max)))
		}
	}
	return out
}

func (r Rules) violation(rule, key string, args ...any) Violation {
	v := Violation{Rule: rule, Key: key, Args: args}
	if r.Message != "" {
		v.Message = r.Message
	}
	return v
}

func (r Rules) entries(input Input) []string {
	switch typed := input.(type) {
	case nil:
		return nil
	case string:
		if r.Lines {
			return SplitLines(typed)
		}
		if strings.TrimSpace(typed) == "" {
			return nil
		}
		return []string{typed}
	case []string:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if strings.TrimSpace(item) != "" {
				out = append(out, item)
			}
		}
		return out
	case bool:
		return []string{strconv.FormatBool(typed)}
	default:
		if s := model.PayloadString(typed); s != "" {
			return []string{s}
		}
		return nil
	}
}

func dedupeViolations(in []Violation) []Violation {
	if len(in) == 0 {
		return nil
	}
	out := make([]Violation, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		key := v.Rule + "\x00" + v.Key
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}

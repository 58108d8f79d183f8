package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	errDefinitionCodeMissing = errors.New("model: definition code is required")
	errAttributeCodeMissing  = errors.New("model: attribute code is required")
)

// ValidateDefinition rejects definitions the engine cannot address safely:
// missing codes, duplicate attribute codes, inverted bounds and regexes that
// do not compile.
func ValidateDefinition(def Definition) error {
	if strings.TrimSpace(def.Code) == "" {
		return errDefinitionCodeMissing
	}
	seen := make(map[string]struct{}, len(def.Attributes))
	for idx, attr := range def.Attributes {
		code := strings.TrimSpace(attr.Code)
		if code == "" {
			return fmt.Errorf("%w (position %d in %s)", errAttributeCodeMissing, idx, def.Key())
		}
		if _, exists := seen[code]; exists {
			return fmt.Errorf("model: duplicate attribute %q in %s", code, def.Key())
		}
		seen[code] = struct{}{}
		if err := validateAttribute(attr); err != nil {
			return fmt.Errorf("model: attribute %q: %w", code, err)
		}
	}
	return nil
}

func validateAttribute(attr Attribute) error {
	if attr.Min != nil && attr.Max != nil && *attr.Min > *attr.Max {
		return fmt.Errorf("min %v exceeds max %v", *attr.Min, *attr.Max)
	}
	if attr.Regex != "" {
		if _, err := regexp.Compile(attr.Regex); err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
	}
	return nil
}

package model

import (
	"fmt"
	"strconv"
	"time"
)

// Date layouts used when payloads are rendered as text.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = time.RFC3339
)

// PayloadString renders a payload the way it is shown in text inputs and in
// the properties view. Nil renders as the empty string.
func PayloadString(payload any) string {
	switch typed := payload.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case int32:
		return strconv.FormatInt(int64(typed), 10)
	case uint64:
		return strconv.FormatUint(typed, 10)
	case time.Time:
		return typed.Format(DateTimeLayout)
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}

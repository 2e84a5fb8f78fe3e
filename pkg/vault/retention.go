package vault

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RetentionPeriod is how long a file has left. The vault reports it either as
// milliseconds or, when formatted output was requested, as a human-readable
// string such as "332 days 7 hours 18 minutes 8 seconds".
type RetentionPeriod struct {
	millis    int64
	text      string
	formatted bool
}

// RetentionMillis builds a numeric retention period.
func RetentionMillis(ms int64) RetentionPeriod {
	return RetentionPeriod{millis: ms}
}

// RetentionText builds a formatted retention period.
func RetentionText(text string) RetentionPeriod {
	return RetentionPeriod{text: text, formatted: true}
}

// IsFormatted reports whether the period holds a human-readable string.
func (r RetentionPeriod) IsFormatted() bool {
	return r.formatted
}

// Milliseconds returns the numeric value; it is zero for formatted periods.
func (r RetentionPeriod) Milliseconds() int64 {
	return r.millis
}

// Duration converts the numeric value to a time.Duration.
func (r RetentionPeriod) Duration() time.Duration {
	return time.Duration(r.millis) * time.Millisecond
}

func (r RetentionPeriod) String() string {
	if r.formatted {
		return r.text
	}
	return strconv.FormatInt(r.millis, 10)
}

func (r RetentionPeriod) MarshalJSON() ([]byte, error) {
	if r.formatted {
		return json.Marshal(r.text)
	}
	return []byte(strconv.FormatInt(r.millis, 10)), nil
}

func (r *RetentionPeriod) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = RetentionPeriod{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("vault: decode retention period: %w", err)
		}
		*r = RetentionText(text)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("vault: decode retention period: %w", err)
	}
	ms, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return fmt.Errorf("vault: decode retention period: %w", err)
		}
		ms = int64(f)
	}
	*r = RetentionMillis(ms)
	return nil
}

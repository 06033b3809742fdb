package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration is returned by ParseDuration for unparseable input
var ErrInvalidDuration = errors.New("invalid duration")

// largest whole-second count a time.Duration can hold
const maxSeconds = math.MaxInt64 / int64(time.Second)

// Duration is a time.Duration stored as whole seconds
type Duration time.Duration

// NewDuration truncates d to whole seconds
func NewDuration(d time.Duration) *Duration {
	v := Duration(d.Truncate(time.Second))
	return &v
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String renders the duration as [D ]HH:MM:SS
func (d Duration) String() string {
	total := int64(time.Duration(d) / time.Second)
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	days := total / 86400
	h := (total % 86400) / 3600
	m := (total % 3600) / 60
	s := total % 60
	if days > 0 {
		return fmt.Sprintf("%s%d %02d:%02d:%02d", sign, days, h, m, s)
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}

// Value implements the driver.Valuer interface
func (d Duration) Value() (driver.Value, error) {
	return int64(time.Duration(d) / time.Second), nil
}

// Scan implements the sql.Scanner interface
func (d *Duration) Scan(value interface{}) error {
	var secs int64
	switch v := value.(type) {
	case nil:
		*d = 0
		return nil
	case int64:
		secs = v
	case int32:
		secs = int64(v)
	case float64:
		secs = int64(v)
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("scan duration: %w", err)
		}
		secs = n
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("scan duration: %w", err)
		}
		secs = n
	default:
		return fmt.Errorf("scan duration: unsupported type %T", value)
	}
	*d = Duration(time.Duration(secs) * time.Second)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDuration accepts "[D ]HH:MM:SS", "MM:SS", bare seconds ("600") and
// Go duration syntax ("10m", "1h30m"). Negative values are rejected.
func ParseDuration(raw string) (Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrInvalidDuration
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		if secs < 0 || secs > maxSeconds {
			return 0, ErrInvalidDuration
		}
		return Duration(time.Duration(secs) * time.Second), nil
	}

	if strings.Contains(s, ":") {
		return parseClock(s)
	}

	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, ErrInvalidDuration
	}
	return Duration(d.Truncate(time.Second)), nil
}

func parseClock(s string) (Duration, error) {
	if strings.ContainsAny(s, "+-") {
		return 0, ErrInvalidDuration
	}
	var days int64
	if day, rest, ok := strings.Cut(s, " "); ok {
		n, err := strconv.ParseInt(day, 10, 64)
		if err != nil || n < 0 || n > maxSeconds/86400 {
			return 0, ErrInvalidDuration
		}
		days = n
		s = strings.TrimSpace(rest)
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, ErrInvalidDuration
	}
	nums := make([]int64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, ErrInvalidDuration
		}
		// leading component may exceed 59
		if i > 0 && n > 59 {
			return 0, ErrInvalidDuration
		}
		nums[i] = n
	}

	// each term is bounded by maxSeconds so the sum cannot wrap
	unit := int64(60)
	if len(nums) == 3 {
		unit = 3600
	}
	if nums[0] > maxSeconds/unit {
		return 0, ErrInvalidDuration
	}
	secs := days*86400 + nums[0]*unit
	if len(nums) == 3 {
		secs += nums[1]*60 + nums[2]
	} else {
		secs += nums[1]
	}
	if secs > maxSeconds {
		return 0, ErrInvalidDuration
	}
	return Duration(time.Duration(secs) * time.Second), nil
}

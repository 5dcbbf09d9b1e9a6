package utils

import (
	"fmt"
	"strings"
	"time"
)

// MessageType selects the color of a CLI message.
type MessageType int

const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// ANSI colors of the CLI messages.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
)

var messageColors = map[MessageType]string{
	DefaultMessage: DefaultColor,
	SuccessMessage: SuccessColor,
	ErrorMessage:   ErrorColor,
	StatusMessage:  StatusColor,
}

// DecorateText wraps s in the color of the message type.
// Unknown message types are returned unchanged.
func DecorateText(s string, msgType MessageType) string {
	color, ok := messageColors[msgType]
	if !ok {
		return s
	}
	return color + s + DefaultColor
}

// FormatTime formats the duration of a run, e.g. "1m 4.25s".
// Leading zero units are omitted.
func FormatTime(d time.Duration) string {
	days := int64(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int64(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute

	var parts []string
	for _, u := range []struct {
		v    int64
		unit string
	}{{days, "d"}, {hours, "h"}, {minutes, "m"}} {
		if u.v > 0 || len(parts) > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", u.v, u.unit))
		}
	}
	parts = append(parts, fmt.Sprintf("%.2fs", d.Seconds()))

	return strings.Join(parts, " ")
}

// FormatPercent formats an integer percentage.
func FormatPercent(p int) string {
	return fmt.Sprintf("%d%%", p)
}

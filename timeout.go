package htmlpng

import (
	"fmt"
	"strconv"
	"time"
)

const maxTimeoutSeconds = 300

// parseTimeoutString parses a number of seconds, used for both --timeout and
// --wait. An empty string means 0.
func parseTimeoutString(timeout string) (int, error) {
	if timeout == "" {
		return 0, nil
	}

	seconds, err := strconv.Atoi(timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout value, must be a number")
	}

	if seconds < 0 {
		return 0, fmt.Errorf("timeout cannot be negative")
	}

	if seconds > maxTimeoutSeconds {
		return 0, fmt.Errorf("timeout cannot exceed %d seconds", maxTimeoutSeconds)
	}

	return seconds, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

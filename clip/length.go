package clip

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLength parses clip length text of the form H:MM:SS or MM:SS into
// seconds. Every field after the first must be below 60.
func ParseLength(text string) (int, error) {
	tokens := strings.Split(strings.TrimSpace(text), ":")
	if len(tokens) != 2 && len(tokens) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedLength, text)
	}

	seconds := 0
	for i, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 || (i > 0 && n >= 60) {
			return 0, fmt.Errorf("%w: %q", ErrMalformedLength, text)
		}
		seconds = seconds*60 + n
	}

	return seconds, nil
}

// FormatLength formats seconds as H:MM:SS.
func FormatLength(seconds int) string {
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

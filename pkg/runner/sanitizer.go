package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jmwilson/ollie/pkg/domain"
)

var (
	// DefaultMaxSlotSize bounds the text of one slot value, in bytes.
	DefaultMaxSlotSize = 256
	// EnvMaxSlotSize is the environment variable to override the default
	EnvMaxSlotSize = "OLLIE_MAX_SLOT_SIZE"
)

var (
	ErrSlotTooLarge = errors.New("slot value exceeds maximum allowed size")
	ErrInvalidUTF8  = errors.New("slot value contains invalid UTF-8 sequences")
)

// SanitizeIntent cleans the text of every slot in a copy of in.
func SanitizeIntent(in domain.Intent) (domain.Intent, error) {
	out := in
	out.Slots = make([]domain.Slot, len(in.Slots))
	for i, slot := range in.Slots {
		text, err := SanitizeText(slot.Text)
		if err != nil {
			return in, fmt.Errorf("slot %q: %w", slot.Name, err)
		}
		slot.Text = text
		out.Slots[i] = slot
	}
	return out, nil
}

// SanitizeText enforces the size limit, validates UTF-8 and strips control
// characters. Newlines are stripped too: they frame device commands.
func SanitizeText(input string) (string, error) {
	// 1. Enforce Size Limit
	limit := getMaxSlotSize()
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrSlotTooLarge, len(input), limit)
	}

	// 2. Validate UTF-8
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// 3. Strip Control Characters
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func getMaxSlotSize() int {
	if val := os.Getenv(EnvMaxSlotSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxSlotSize
}

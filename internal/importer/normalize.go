package importer

// normalize.go converts raw textual row fields into typed values. These
// functions are pure, never return errors, and know nothing about the pose
// schema: malformed input degrades to "unspecified" (pgtype Valid=false),
// never to a wrong value. Callers must distinguish unspecified from an
// explicit false/zero, because unspecified fields must not overwrite
// existing data.

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ParseList splits a pipe-delimited value into an ordered list: segments are
// trimmed, empty segments dropped, order and duplicates preserved as given.
// Missing or blank input yields an empty list.
func ParseList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseBool matches boolean-ish tokens case-insensitively. Anything outside
// both token sets, including blank input, is unspecified (Valid=false).
func ParseBool(raw string) pgtype.Bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1", "on":
		return pgtype.Bool{Bool: true, Valid: true}
	case "false", "no", "0", "off":
		return pgtype.Bool{Bool: false, Valid: true}
	default:
		return pgtype.Bool{Valid: false}
	}
}

// ParseInt integer-parses trimmed input. Non-numeric or blank input is
// unspecified (Valid=false).
func ParseInt(raw string) pgtype.Int4 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return pgtype.Int4{Valid: false}
	}

	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(n), Valid: true}
}

// joinVocab renders a vocabulary for error messages.
func joinVocab(vocab []string) string {
	return strings.Join(vocab, ", ")
}

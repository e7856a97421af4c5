package status

import "strings"

// separator is the literal sequence between a field name and its value in
// mod_status machine output.
const separator = ": "

// Parse turns raw status text into a key/value map.
//
// Each line must contain the separator exactly once to be kept; anything
// else — blank lines, the Scoreboard ASCII art, HTML served by a
// misconfigured endpoint — is skipped without error. Keys and values are
// whitespace-trimmed, and a key repeated on a later line overwrites the
// earlier value.
//
// An empty result is valid; the projector substitutes defaults for every
// field it needs.
func Parse(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		parts := strings.Split(line, separator)
		if len(parts) != 2 {
			continue
		}
		fields[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return fields
}

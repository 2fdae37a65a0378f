package deck

import "strings"

// Slugify lower-cases the title and turns every rune outside [a-z0-9] into '-'.
// Replacement is per rune, so a character outside the BMP such as an emoji
// yields a single '-'. Slugs are not unique.
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

package transcript

import "html"

// Normalize repairs entity escaping left behind by copy-paste chains.
//
// Pasted exports often arrive with "<" turned into "&lt;", and sometimes
// escaped twice ("&amp;lt;"). Unescaping is a no-op on plain markup, so both
// passes always run. Invalid or partial entities are left as they are.
func Normalize(raw string) string {
	return html.UnescapeString(html.UnescapeString(raw))
}

package folio

import (
	"fmt"
	"strconv"
	"strings"
)

// nullMarkers are textual placeholders that spreadsheet tooling writes for empty cells
var nullMarkers = map[string]struct{}{
	"nan":   {},
	"none":  {},
	"null":  {},
	"<nil>": {},
}

// Normalize canonicalizes a raw folio or sponsor folio into its comparable form.
//
// Rules, in order:
// 1. Render as text and trim surrounding whitespace
// 2. Strip a ".0" suffix left by numeric cells ("1001.0" -> "1001")
// 3. Empty values and null markers become ""
func Normalize(raw any) string {
	if raw == nil {
		return ""
	}

	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		s = fmt.Sprint(v)
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")

	if _, ok := nullMarkers[strings.ToLower(s)]; ok {
		return ""
	}
	return s
}

// Equal reports whether two identifiers are the same folio once normalized.
func Equal(a, b any) bool {
	return Normalize(a) == Normalize(b)
}

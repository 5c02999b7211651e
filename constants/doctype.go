package constants

import "strings"

// DocType identifies one of the registry document layouts the extractor knows.
type DocType string

// Stable values (these exact strings appear in prompts, payloads and workbooks).
const (
	ActesSocietes            DocType = "ACTES_SOCIETES"
	BiensImmobiliersAcheteur DocType = "BIENS_IMMOBILIERS_ACHETEUR"
	DocTypeUnknown           DocType = "UNKNOWN"
)

var allDocTypes = []DocType{
	ActesSocietes,
	BiensImmobiliersAcheteur,
}

// AllDocTypes returns the known document types in canonical order.
// The order is fixed so multi-type photos always yield records in the same sequence.
func AllDocTypes() []DocType {
	out := make([]DocType, len(allDocTypes))
	copy(out, allDocTypes)
	return out
}

// FileSuffix is the short identifier appended to artifact names when one photo
// yields more than one workbook. BIENS_IMMOBILIERS_ACHETEUR is shortened to
// BIENS_IMMO to keep filenames manageable.
func (t DocType) FileSuffix() string {
	if t == BiensImmobiliersAcheteur {
		return "BIENS_IMMO"
	}
	return string(t)
}

// ParseDocType canonicalizes a model-reported type label.
func ParseDocType(input string) (DocType, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	for _, t := range allDocTypes {
		if normalized == string(t) {
			return t, true
		}
	}
	return DocTypeUnknown, false
}

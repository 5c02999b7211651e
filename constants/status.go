package constants

// PhotoStatus is the per-photo outcome recorded in a batch manifest.
type PhotoStatus string

// Stable values (returned verbatim in manifests and API responses).
const (
	PhotoStatusSuccess PhotoStatus = "SUCCESS" // at least one genuine extraction artifact
	PhotoStatusFailed  PhotoStatus = "FAILED"  // fallback-only artifact(s)
)

// Marker values written into workbooks.
const (
	// EmptyValue stands in for a field the model did not report. Missing cells
	// are always written explicitly, never skipped.
	EmptyValue = ""

	// Unavailable marks metadata in fallback workbooks where extraction
	// produced nothing at all.
	Unavailable = "N/A"
)

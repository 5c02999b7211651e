package llm

import (
	"context"
	"errors"

	"github.com/nbelhadj/registre-extractor/constants"
	"github.com/nbelhadj/registre-extractor/internal/entity"
)

// Error kinds the orchestrator distinguishes. ErrExtractionService means the
// request never produced usable content (transport, quota, authorization);
// ErrMalformedResponse means the model replied but the content could not be
// parsed into the expected shape even after one normalization attempt.
var (
	ErrExtractionService = errors.New("extraction service failure")
	ErrMalformedResponse = errors.New("malformed model response")
)

// Row is one extracted table row as reported by the model. Values are untyped;
// the multiplexer coerces them against the schema.
type Row map[string]any

// ExtractionPayload is the raw structured result for one photo: which document
// tables the model saw, plus the photo-level header values. A payload with no
// tables is valid, it just means nothing was detected.
type ExtractionPayload struct {
	// ReportedType is the model's primary classification, kept even when the
	// per-type tables are empty so a typed zero-row workbook can be produced.
	ReportedType    string
	RaisonSociale   string
	MatriculeFiscal string
	Tables          map[constants.DocType][]Row
}

// Empty reports whether no table has any rows.
func (p ExtractionPayload) Empty() bool {
	for _, rows := range p.Tables {
		if len(rows) > 0 {
			return false
		}
	}
	return true
}

// PayloadExtractor is the interface the pipeline depends on. The raw JSON is
// returned alongside the payload for logging and diagnostics.
type PayloadExtractor interface {
	ExtractPayload(ctx context.Context, photo entity.UploadedPhoto) (ExtractionPayload, []byte, error)
}

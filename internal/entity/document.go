package entity

import (
	"path"
	"strings"

	"github.com/nbelhadj/registre-extractor/constants"
)

// UploadedPhoto is one photographed registry page as received from the upload
// boundary. The boundary validates extension and size before the core sees it;
// the core never mutates a photo.
type UploadedPhoto struct {
	Name    string // original filename, unique within a batch
	Content []byte
	Ext     string // normalized extension, no dot
}

// Stem returns the filename without its extension, used as the artifact name base.
func (p UploadedPhoto) Stem() string {
	return strings.TrimSuffix(p.Name, path.Ext(p.Name))
}

// DocumentRecord is one fully resolved unit of output: a single document type
// detected in a single photo, with rows conforming exactly to that type's
// schema column list.
type DocumentRecord struct {
	PhotoName       string
	DocType         constants.DocType
	RaisonSociale   string
	MatriculeFiscal string
	// Rows hold column name -> text value. Every row's key set equals the
	// schema's column list; absent values carry constants.EmptyValue.
	Rows []map[string]string
}

// OutputArtifact is one generated workbook. The orchestrator assigns Name and
// BatchID and owns the artifact for the lifetime of the batch.
type OutputArtifact struct {
	BatchID   string
	PhotoName string
	DocType   constants.DocType
	Name      string
	Content   []byte
	Fallback  bool
}

// PhotoResult is one manifest entry.
type PhotoResult struct {
	PhotoName string                `json:"photo_name"`
	Artifacts []string              `json:"artifacts"`
	Status    constants.PhotoStatus `json:"status"`
	Error     string                `json:"error,omitempty"`
}

// BatchManifest records what one batch produced, in submission order.
// Append-only during processing, immutable once the batch completes.
type BatchManifest struct {
	BatchID string        `json:"batch_id"`
	Entries []PhotoResult `json:"entries"`
}

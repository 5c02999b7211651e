// Package archive assembles a batch's artifacts into a single ZIP for the
// download-all endpoint.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/nbelhadj/registre-extractor/internal/entity"
)

// BuildZip packs artifacts flat (no folder structure) under their artifact
// names, which are unique within a batch by construction.
func BuildZip(artifacts []entity.OutputArtifact) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, a := range artifacts {
		w, err := zw.Create(a.Name)
		if err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", a.Name, err)
		}
		if _, err := w.Write(a.Content); err != nil {
			return nil, fmt.Errorf("zip write %s: %w", a.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}

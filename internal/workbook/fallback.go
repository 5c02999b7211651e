package workbook

import (
	"fmt"
	"time"

	"github.com/nbelhadj/registre-extractor/constants"
	"github.com/nbelhadj/registre-extractor/internal/entity"
	"github.com/nbelhadj/registre-extractor/internal/schema"
)

// RenderFallback produces a placeholder workbook with the same structural
// shape as a real one: the full metadata block (entity values marked
// unavailable) and the header row, with zero data rows. It is invoked when
// extraction failed outright or resolved to nothing, so every submitted photo
// still yields an artifact.
//
// When the document type never resolved, the workbook takes the default
// layout from the registry and is labeled UNKNOWN.
func (g *Generator) RenderFallback(photo entity.UploadedPhoto, t constants.DocType, at time.Time) (*entity.OutputArtifact, error) {
	s, err := schema.Lookup(t)
	if err != nil {
		s = schema.FallbackSchema()
		t = s.Type
	}

	rec := entity.DocumentRecord{
		PhotoName:       photo.Name,
		DocType:         t,
		RaisonSociale:   constants.Unavailable,
		MatriculeFiscal: constants.Unavailable,
	}

	content, err := g.render(rec, s, at)
	if err != nil {
		return nil, fmt.Errorf("render fallback for %s: %w", photo.Name, err)
	}

	g.log.Warn("workbook.fallback", "photo", photo.Name, "doc_type", t)
	return &entity.OutputArtifact{
		PhotoName: photo.Name,
		DocType:   t,
		Content:   content,
		Fallback:  true,
	}, nil
}

package llm

import (
	"encoding/json"
	"fmt"

	"github.com/nbelhadj/registre-extractor/constants"
)

// wirePayload mirrors the exact JSON format the prompt demands from the model.
type wirePayload struct {
	DocType          string         `json:"doc_type"`
	Header           map[string]any `json:"header"`
	ActesSocietes    []Row          `json:"actes_societes"`
	BiensImmobiliers []Row          `json:"biens_immobiliers"`
}

// DecodePayload validates normalized response JSON against the payload schema
// and lifts it into an ExtractionPayload. The content is treated as untrusted:
// shape is checked here, cell values are checked later against the registry.
func DecodePayload(data []byte) (ExtractionPayload, error) {
	if err := ValidatePayloadJSON(data); err != nil {
		return ExtractionPayload{}, err
	}

	var w wirePayload
	if err := json.Unmarshal(data, &w); err != nil {
		return ExtractionPayload{}, fmt.Errorf("decode payload: %w", err)
	}

	p := ExtractionPayload{
		ReportedType:    w.DocType,
		RaisonSociale:   headerString(w.Header, "raison_sociale"),
		MatriculeFiscal: headerString(w.Header, "matricule_fiscal"),
		Tables:          map[constants.DocType][]Row{},
	}
	if len(w.ActesSocietes) > 0 {
		p.Tables[constants.ActesSocietes] = w.ActesSocietes
	}
	if len(w.BiensImmobiliers) > 0 {
		p.Tables[constants.BiensImmobiliersAcheteur] = w.BiensImmobiliers
	}
	return p, nil
}

func headerString(header map[string]any, key string) string {
	if header == nil {
		return ""
	}
	if s, ok := header[key].(string); ok {
		return s
	}
	return ""
}

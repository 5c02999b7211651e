package llm

import "testing"

func TestValidatePayloadJSON(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "minimal valid",
			data: `{"doc_type": "ACTES_SOCIETES", "header": {}}`,
		},
		{
			name: "full valid",
			data: `{"doc_type": "BIENS_IMMOBILIERS_ACHETEUR",
				"header": {"raison_sociale": "STE", "matricule_fiscal": "1A"},
				"actes_societes": [], "biens_immobiliers": [{"annee": "2024", "nbr_parts": 2}]}`,
		},
		{
			name:    "missing doc_type",
			data:    `{"header": {}}`,
			wantErr: true,
		},
		{
			name:    "header not object",
			data:    `{"doc_type": "X", "header": "STE"}`,
			wantErr: true,
		},
		{
			name:    "table not array",
			data:    `{"doc_type": "X", "header": {}, "biens_immobiliers": {"annee": "2024"}}`,
			wantErr: true,
		},
		{
			name:    "row not object",
			data:    `{"doc_type": "X", "header": {}, "actes_societes": [42]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			data:    `doc_type: ACTES`,
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePayloadJSON([]byte(tc.data))
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// The compiled schema is shared; repeated validations must not interfere.
func TestValidatePayloadJSON_Repeated(t *testing.T) {
	valid := []byte(`{"doc_type": "ACTES_SOCIETES", "header": {}}`)
	invalid := []byte(`{"header": {}}`)
	for i := 0; i < 3; i++ {
		if err := ValidatePayloadJSON(valid); err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
		if err := ValidatePayloadJSON(invalid); err == nil {
			t.Fatalf("pass %d: invalid payload accepted", i)
		}
	}
}

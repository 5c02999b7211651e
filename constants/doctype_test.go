package constants

import "testing"

func TestParseDocType(t *testing.T) {
	cases := []struct {
		in   string
		want DocType
		ok   bool
	}{
		{"ACTES_SOCIETES", ActesSocietes, true},
		{"  actes_societes  ", ActesSocietes, true},
		{"BIENS_IMMOBILIERS_ACHETEUR", BiensImmobiliersAcheteur, true},
		{"UNKNOWN", DocTypeUnknown, false},
		{"", DocTypeUnknown, false},
		{"FACTURE", DocTypeUnknown, false},
	}
	for _, tc := range cases {
		got, ok := ParseDocType(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseDocType(%q) = %s, %v; want %s, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFileSuffix(t *testing.T) {
	if got := ActesSocietes.FileSuffix(); got != "ACTES_SOCIETES" {
		t.Fatalf("suffix = %q", got)
	}
	if got := BiensImmobiliersAcheteur.FileSuffix(); got != "BIENS_IMMO" {
		t.Fatalf("suffix = %q", got)
	}
}

func TestAllDocTypes_CopyAndOrder(t *testing.T) {
	a := AllDocTypes()
	if len(a) != 2 || a[0] != ActesSocietes || a[1] != BiensImmobiliersAcheteur {
		t.Fatalf("order = %v", a)
	}
	a[0] = "MUTATED"
	if AllDocTypes()[0] != ActesSocietes {
		t.Fatalf("catalog mutated through returned slice")
	}
}

func TestExtHelpers(t *testing.T) {
	if NormalizeExt(".JPG") != "jpg" {
		t.Fatalf("NormalizeExt(.JPG) = %q", NormalizeExt(".JPG"))
	}
	for _, ext := range []string{"jpg", ".jpeg", ".PNG"} {
		if !AllowedExt(ext) {
			t.Fatalf("%s should be allowed", ext)
		}
	}
	for _, ext := range []string{".pdf", "txt", ""} {
		if AllowedExt(ext) {
			t.Fatalf("%s should be rejected", ext)
		}
	}
	if MIMEForExt("png") != "image/png" || MIMEForExt(".jpg") != "image/jpeg" {
		t.Fatalf("MIME mapping wrong")
	}
}

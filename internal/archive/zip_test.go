package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/nbelhadj/registre-extractor/internal/entity"
)

func TestBuildZip(t *testing.T) {
	artifacts := []entity.OutputArtifact{
		{Name: "acte_1.xlsx", Content: []byte("first")},
		{Name: "mixed__BIENS_IMMO.xlsx", Content: []byte("second")},
	}

	data, err := BuildZip(artifacts)
	if err != nil {
		t.Fatalf("BuildZip error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("entries = %d, want 2", len(zr.File))
	}
	for i, want := range artifacts {
		f := zr.File[i]
		if f.Name != want.Name {
			t.Fatalf("entry %d = %s, want %s", i, f.Name, want.Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		if cerr := rc.Close(); cerr != nil {
			t.Fatalf("close entry %s: %v", f.Name, cerr)
		}
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		if !bytes.Equal(content, want.Content) {
			t.Fatalf("entry %s content = %q", f.Name, content)
		}
	}
}

func TestBuildZip_Empty(t *testing.T) {
	data, err := BuildZip(nil)
	if err != nil {
		t.Fatalf("BuildZip error: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	if len(zr.File) != 0 {
		t.Fatalf("entries = %d, want 0", len(zr.File))
	}
}

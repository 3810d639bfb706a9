package ocr

import (
	"context"
	"testing"
)

func TestExtractRejectsUnsupportedTypes(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	for _, name := range []string{"notes.txt", "archive.zip", "invoice", "photo.HEIC"} {
		if _, err := e.Extract(context.Background(), []byte("x"), name); err == nil {
			t.Errorf("Extract(%q) should refuse the file type", name)
		}
	}
}

func TestNewExtractorDefaults(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	if e.cfg.Languages != "vie+eng" {
		t.Errorf("default languages = %q", e.cfg.Languages)
	}
}

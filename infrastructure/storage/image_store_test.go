package storage

import (
	"context"
	"strings"
	"testing"

	apperrors "carmarket/pkg/errors"
)

func TestMemoryStoreSave(t *testing.T) {
	s := NewMemoryStore(1024)
	path, err := s.Save(context.Background(), Upload{
		ListingID: "l-1",
		Filename:  "Front.JPG",
		Size:      5,
		Body:      strings.NewReader("hello"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(path, "/uploads/listings/l-1/") || !strings.HasSuffix(path, ".jpg") {
		t.Errorf("unexpected path %s", path)
	}
	data, ok := s.Object(path)
	if !ok || string(data) != "hello" {
		t.Errorf("object not stored: %q", data)
	}
}

func TestMemoryStoreRejects(t *testing.T) {
	s := NewMemoryStore(4)
	tests := []struct {
		name string
		u    Upload
	}{
		{"bad extension", Upload{ListingID: "l-1", Filename: "doc.pdf", Size: 2, Body: strings.NewReader("ab")}},
		{"empty", Upload{ListingID: "l-1", Filename: "a.png", Size: 0, Body: strings.NewReader("")}},
		{"too large", Upload{ListingID: "l-1", Filename: "a.png", Size: 10, Body: strings.NewReader("0123456789")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Save(context.Background(), tt.u); !apperrors.Is(err, apperrors.CodeValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

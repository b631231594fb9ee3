package source

import (
	"errors"
	"testing"
)

func TestResolveExtractsSourceID(t *testing.T) {
	resolver := NewResolver("")
	resolved, err := resolver.Resolve("https://docs.google.com/spreadsheets/d/ABC123/edit#gid=0")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.SourceID != "ABC123" {
		t.Fatalf("expected source id ABC123, got %q", resolved.SourceID)
	}
	want := "https://docs.google.com/spreadsheets/d/ABC123/export?format=csv"
	if resolved.FetchURL != want {
		t.Fatalf("expected fetch url %q, got %q", want, resolved.FetchURL)
	}
}

func TestResolveCustomExportBase(t *testing.T) {
	resolver := NewResolver("http://127.0.0.1:9999/")
	resolved, err := resolver.Resolve("https://host/d/XYZ/edit")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := "http://127.0.0.1:9999/spreadsheets/d/XYZ/export?format=csv"
	if resolved.FetchURL != want {
		t.Fatalf("expected fetch url %q, got %q", want, resolved.FetchURL)
	}
}

func TestResolveWithoutTrailingSegment(t *testing.T) {
	resolved, err := NewResolver("").Resolve("https://host/d/XYZ")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.SourceID != "XYZ" {
		t.Fatalf("expected source id XYZ, got %q", resolved.SourceID)
	}
}

func TestResolveMissingMarker(t *testing.T) {
	_, err := NewResolver("").Resolve("https://host/spreadsheets/ABC123/edit")
	if !errors.Is(err, ErrInvalidSourceFormat) {
		t.Fatalf("expected ErrInvalidSourceFormat, got %v", err)
	}
}

func TestResolveEmptyID(t *testing.T) {
	_, err := NewResolver("").Resolve("https://host/d//edit")
	if !errors.Is(err, ErrInvalidSourceFormat) {
		t.Fatalf("expected ErrInvalidSourceFormat, got %v", err)
	}
}

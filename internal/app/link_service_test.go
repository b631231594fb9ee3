package app

import (
	"context"
	"errors"
	"testing"

	"sheetchat/internal/model"
)

type fakeLinkRepo struct {
	entries []model.LinkEntry
	nextID  uint
}

func (r *fakeLinkRepo) Create(entry *model.LinkEntry) error {
	r.nextID++
	entry.ID = r.nextID
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLinkRepo) List() ([]model.LinkEntry, error) {
	return append([]model.LinkEntry(nil), r.entries...), nil
}

func (r *fakeLinkRepo) GetByID(id uint) (*model.LinkEntry, error) {
	for i := range r.entries {
		if r.entries[i].ID == id {
			entry := r.entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (r *fakeLinkRepo) DeleteByID(id uint) error {
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestLinkServiceAddListDelete(t *testing.T) {
	svc := NewLinkService(&fakeLinkRepo{})

	entry, err := svc.Add("  sales  ", " https://docs.google.com/spreadsheets/d/AB/edit ")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if entry.Name != "sales" {
		t.Fatalf("expected trimmed name %q, got %q", "sales", entry.Name)
	}

	entries, err := svc.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != entry.ID {
		t.Fatalf("expected the added entry listed, got %+v", entries)
	}

	if err := svc.Delete(entry.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	entries, err = svc.List()
	if err != nil {
		t.Fatalf("List after delete returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty registry after delete, got %+v", entries)
	}
}

func TestLinkServiceAddRejectsBlankFields(t *testing.T) {
	svc := NewLinkService(&fakeLinkRepo{})

	if _, err := svc.Add("   ", "https://example.com"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
	if _, err := svc.Add("sales", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank url, got %v", err)
	}
}

func TestLinkServiceGetAbsent(t *testing.T) {
	svc := NewLinkService(&fakeLinkRepo{})

	if _, err := svc.Get(42); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}
}

func TestLinkServiceDeleteAbsent(t *testing.T) {
	repo := &fakeLinkRepo{}
	svc := NewLinkService(repo)

	if _, err := svc.Add("sales", "https://docs.google.com/spreadsheets/d/AB/edit"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if err := svc.Delete(99); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound for absent id, got %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("absent-id delete must not touch existing rows, got %+v", repo.entries)
	}
}

func TestLinkServiceOptions(t *testing.T) {
	svc := NewLinkService(&fakeLinkRepo{})

	if _, err := svc.Add("sales", "https://docs.google.com/spreadsheets/d/AB/edit"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if _, err := svc.Add("ops", "https://docs.google.com/spreadsheets/d/CD/edit"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	options, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options returned error: %v", err)
	}
	if len(options) != 2 || options[0].Name != "sales" || options[1].Name != "ops" {
		t.Fatalf("unexpected options: %+v", options)
	}
}

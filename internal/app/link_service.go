package app

import (
	"context"
	"errors"
	"strings"

	"sheetchat/internal/model"
	"sheetchat/internal/source"
)

var ErrLinkNotFound = errors.New("link not found")

// LinkRepository is the storage behind the registry.
type LinkRepository interface {
	Create(entry *model.LinkEntry) error
	List() ([]model.LinkEntry, error)
	GetByID(id uint) (*model.LinkEntry, error)
	DeleteByID(id uint) error
}

// LinkService owns the durable name-to-url registry. Writes go straight to
// storage; there is no caching layer in front of it.
type LinkService struct {
	linkRepo LinkRepository
}

func NewLinkService(linkRepo LinkRepository) *LinkService {
	return &LinkService{linkRepo: linkRepo}
}

func (s *LinkService) Add(name, url string) (*model.LinkEntry, error) {
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" || url == "" {
		return nil, ErrInvalidInput
	}

	entry := &model.LinkEntry{Name: name, URL: url}
	if err := s.linkRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *LinkService) List() ([]model.LinkEntry, error) {
	return s.linkRepo.List()
}

func (s *LinkService) Get(id uint) (*model.LinkEntry, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	entry, err := s.linkRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrLinkNotFound
	}
	return entry, nil
}

func (s *LinkService) Delete(id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	entry, err := s.linkRepo.GetByID(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrLinkNotFound
	}
	return s.linkRepo.DeleteByID(id)
}

// Options exposes the registry as a source listing, the registry-backed
// counterpart of source.InlineListing.
func (s *LinkService) Options(ctx context.Context) ([]source.Option, error) {
	entries, err := s.linkRepo.List()
	if err != nil {
		return nil, err
	}
	options := make([]source.Option, 0, len(entries))
	for _, entry := range entries {
		options = append(options, source.Option{Name: entry.Name, URL: entry.URL})
	}
	return options, nil
}

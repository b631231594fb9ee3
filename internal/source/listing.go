package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

var (
	ErrListingNotArray = errors.New("source listing is not a json array")
	ErrListingEmpty    = errors.New("source listing is empty")
	ErrListingBadItem  = errors.New("source listing item missing name or url")
)

// Option is one selectable source offered to the user.
type Option struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Listing supplies the selectable source options. The registry-backed
// implementation lives in the app layer; InlineListing parses the list the
// caller passes along with the request.
type Listing interface {
	Options(ctx context.Context) ([]Option, error)
}

// InlineListing holds options decoded from a caller-supplied payload.
type InlineListing struct {
	options []Option
}

func (l *InlineListing) Options(ctx context.Context) ([]Option, error) {
	return l.options, nil
}

// ParseInline decodes a URL-encoded JSON array of {name, url} objects. A
// payload that is not an array, an empty array, and items missing either
// field are rejected with distinct errors.
func ParseInline(encoded string) (*InlineListing, error) {
	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		decoded = encoded
	}

	var items []Option
	if err := json.Unmarshal([]byte(decoded), &items); err != nil {
		return nil, ErrListingNotArray
	}
	if len(items) == 0 {
		return nil, ErrListingEmpty
	}
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.URL) == "" {
			return nil, ErrListingBadItem
		}
	}
	return &InlineListing{options: items}, nil
}

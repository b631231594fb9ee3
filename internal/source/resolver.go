package source

import (
	"errors"
	"fmt"
	"strings"
)

// The share links users paste carry the container id between "/d/" and the
// next path segment, e.g. https://docs.google.com/spreadsheets/d/<id>/edit.
const idMarker = "/d/"

const DefaultExportBase = "https://docs.google.com"

var ErrInvalidSourceFormat = errors.New("source url has no /d/ container id")

// ResolvedSource is the fetchable form of a share link. Recomputed per
// selection, never persisted.
type ResolvedSource struct {
	SourceID string `json:"source_id"`
	FetchURL string `json:"fetch_url"`
}

// Resolver maps share links onto the CSV export endpoint of a single export
// host.
type Resolver struct {
	exportBase string
}

func NewResolver(exportBase string) *Resolver {
	exportBase = strings.TrimRight(strings.TrimSpace(exportBase), "/")
	if exportBase == "" {
		exportBase = DefaultExportBase
	}
	return &Resolver{exportBase: exportBase}
}

// Resolve extracts the container id from a share link and builds the CSV
// export endpoint for it.
func (r *Resolver) Resolve(url string) (ResolvedSource, error) {
	_, after, found := strings.Cut(url, idMarker)
	if !found {
		return ResolvedSource{}, ErrInvalidSourceFormat
	}
	id, _, _ := strings.Cut(after, "/")
	if id == "" {
		return ResolvedSource{}, ErrInvalidSourceFormat
	}
	return ResolvedSource{
		SourceID: id,
		FetchURL: fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv", r.exportBase, id),
	}, nil
}

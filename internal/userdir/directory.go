package userdir

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/lazyops/facet"
)

// Facet names served by the directory.
const (
	FacetProfile   = "profile"
	FacetAddresses = "addresses"
)

// ErrUnknownFacet indicates the directory has no data for a facet name.
var ErrUnknownFacet = errors.New("userdir: unknown facet")

// Name identifies a directory entry.
type Name struct {
	First string
	Last  string
}

func (n Name) String() string {
	return n.First + " " + n.Last
}

// Record is the materialized directory entry.
type Record struct {
	Name      Name
	FetchedAt time.Time
}

// Directory simulates a slow remote directory. Every call costs Latency.
type Directory struct {
	Latency time.Duration
}

// NewDirectory creates a directory whose calls each take latency.
func NewDirectory(latency time.Duration) *Directory {
	return &Directory{Latency: latency}
}

// Construct implements facet.Loader.
func (d *Directory) Construct(ctx context.Context, name Name) (*Record, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return &Record{Name: name, FetchedAt: time.Now()}, nil
}

// Load implements facet.Loader.
func (d *Directory) Load(ctx context.Context, _ *Record, name string) (any, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}

	switch name {
	case FacetProfile:
		return map[string]string{
			"cpf": "111.111.111-11",
			"rg":  "11.111.111-1",
		}, nil
	case FacetAddresses:
		return []map[string]any{
			{"rua": "Av. Brasil", "numero": 500},
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFacet, name)
}

func (d *Directory) wait(ctx context.Context) error {
	if d.Latency <= 0 {
		return nil
	}
	t := time.NewTimer(d.Latency)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ facet.Loader[Name, *Record] = (*Directory)(nil)

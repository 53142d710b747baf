package catalog

import (
	"errors"
	"fmt"
)

// Artwork is one catalog entry. Optional attributes are nil when the source
// does not carry them.
type Artwork struct {
	ID           string  `json:"id" yaml:"id"`
	Title        string  `json:"title" yaml:"title"`
	Artist       string  `json:"artist" yaml:"artist"`
	Year         *int    `json:"year,omitempty" yaml:"year,omitempty"`
	Medium       *string `json:"medium,omitempty" yaml:"medium,omitempty"`
	Dimensions   *string `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Department   *string `json:"department,omitempty" yaml:"department,omitempty"`
	Culture      *string `json:"culture,omitempty" yaml:"culture,omitempty"`
	Period       *string `json:"period,omitempty" yaml:"period,omitempty"`
	ImageURL     string  `json:"imageUrl" yaml:"imageUrl"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty" yaml:"thumbnailUrl,omitempty"`
	ObjectURL    *string `json:"objectUrl,omitempty" yaml:"objectUrl,omitempty"`
	Description  *string `json:"description,omitempty" yaml:"description,omitempty"`
	MetID        *int    `json:"metId,omitempty" yaml:"metId,omitempty"`
}

// Collection is the ordered set of artworks served for the lifetime of a
// Store. It must not be modified after it is built.
type Collection []Artwork

var errInvalidCollection = errors.New("invalid collection")

// validate enforces required attributes and identifier uniqueness.
func (c Collection) validate() error {
	seen := make(map[string]int, len(c))
	for i, a := range c {
		switch {
		case a.ID == "":
			return fmt.Errorf("%w: record %d: id required", errInvalidCollection, i)
		case a.Title == "":
			return fmt.Errorf("%w: record %q: title required", errInvalidCollection, a.ID)
		case a.Artist == "":
			return fmt.Errorf("%w: record %q: artist required", errInvalidCollection, a.ID)
		case a.ImageURL == "":
			return fmt.Errorf("%w: record %q: imageUrl required", errInvalidCollection, a.ID)
		}
		if j, dup := seen[a.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q at records %d and %d", errInvalidCollection, a.ID, j, i)
		}
		seen[a.ID] = i
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

// clone returns a copy that shares no pointers with a.
func (a Artwork) clone() Artwork {
	a.Year = clonePtr(a.Year)
	a.Medium = clonePtr(a.Medium)
	a.Dimensions = clonePtr(a.Dimensions)
	a.Department = clonePtr(a.Department)
	a.Culture = clonePtr(a.Culture)
	a.Period = clonePtr(a.Period)
	a.ThumbnailURL = clonePtr(a.ThumbnailURL)
	a.ObjectURL = clonePtr(a.ObjectURL)
	a.Description = clonePtr(a.Description)
	a.MetID = clonePtr(a.MetID)
	return a
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return ptr(*p)
}

func optInt(n int64, valid bool) *int {
	if !valid {
		return nil
	}
	v := int(n)
	return &v
}

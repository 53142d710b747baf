package met

import (
	"strconv"

	"Gallery/internal/catalog"
)

// Object is the subset of a Met collection object the catalog uses.
type Object struct {
	ObjectID          int    `json:"objectID"`
	Title             string `json:"title"`
	ArtistDisplayName string `json:"artistDisplayName"`
	ObjectDate        string `json:"objectDate"`
	ObjectBeginDate   int    `json:"objectBeginDate"`
	Medium            string `json:"medium"`
	Dimensions        string `json:"dimensions"`
	Department        string `json:"department"`
	Culture           string `json:"culture"`
	Period            string `json:"period"`
	PrimaryImage      string `json:"primaryImage"`
	PrimaryImageSmall string `json:"primaryImageSmall"`
	ObjectURL         string `json:"objectURL"`
	CreditLine        string `json:"creditLine"`
}

// Missing lists the required fields the object lacks. The catalog also needs
// an image, so primaryImage is required on top of the descriptive fields.
func (o Object) Missing() []string {
	var out []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", o.Title},
		{"artistDisplayName", o.ArtistDisplayName},
		{"objectDate", o.ObjectDate},
		{"medium", o.Medium},
		{"primaryImage", o.PrimaryImage},
	} {
		if f.value == "" {
			out = append(out, f.name)
		}
	}
	return out
}

// Artwork maps o onto a catalog record with id met-<objectID>. Call Missing
// first; required fields are copied as they are.
func (o Object) Artwork() catalog.Artwork {
	a := catalog.Artwork{
		ID:           "met-" + strconv.Itoa(o.ObjectID),
		Title:        o.Title,
		Artist:       o.ArtistDisplayName,
		Medium:       nonEmpty(o.Medium),
		Dimensions:   nonEmpty(o.Dimensions),
		Department:   nonEmpty(o.Department),
		Culture:      nonEmpty(o.Culture),
		Period:       nonEmpty(o.Period),
		ImageURL:     o.PrimaryImage,
		ThumbnailURL: nonEmpty(o.PrimaryImageSmall),
		ObjectURL:    nonEmpty(o.ObjectURL),
		Description:  nonEmpty(o.CreditLine),
	}
	if o.ObjectBeginDate != 0 {
		year := o.ObjectBeginDate
		a.Year = &year
	}
	if o.ObjectID != 0 {
		id := o.ObjectID
		a.MetID = &id
	}
	return a
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

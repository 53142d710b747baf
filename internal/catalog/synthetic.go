package catalog

import (
	"fmt"
	"math/rand"
)

const (
	SyntheticSize = 20

	syntheticYearMin  = 1800
	syntheticYearSpan = 200
)

// Synthetic builds the placeholder collection used when no data source is
// available. Only the year varies, and it is drawn from seed.
func Synthetic(seed int64) Collection {
	rng := rand.New(rand.NewSource(seed))

	out := make(Collection, 0, SyntheticSize)
	for i := 1; i <= SyntheticSize; i++ {
		out = append(out, Artwork{
			ID:           fmt.Sprintf("painting-%d", i),
			Title:        fmt.Sprintf("Artwork %d", i),
			Artist:       fmt.Sprintf("Artist %d", i),
			Year:         ptr(syntheticYearMin + rng.Intn(syntheticYearSpan)),
			Medium:       ptr("Oil on canvas"),
			Department:   ptr("European Paintings"),
			ImageURL:     fmt.Sprintf("https://picsum.photos/400/600?random=%d", i),
			ThumbnailURL: ptr(fmt.Sprintf("https://picsum.photos/200/300?random=%d", i)),
			Description:  ptr(fmt.Sprintf("This is a beautiful artwork number %d from our collection.", i)),
			MetID:        ptr(1000 + i),
		})
	}
	return out
}

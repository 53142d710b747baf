package catalog

import (
	"errors"
	"io"

	"github.com/parquet-go/parquet-go"
)

// parquetRow is the flat on-disk layout. Pointer columns are nullable, so a
// zero year or metId is kept distinct from an absent one.
type parquetRow struct {
	ID           string  `parquet:"id"`
	Title        string  `parquet:"title"`
	Artist       string  `parquet:"artist"`
	Year         *int64  `parquet:"year"`
	Medium       *string `parquet:"medium"`
	Dimensions   *string `parquet:"dimensions"`
	Department   *string `parquet:"department"`
	Culture      *string `parquet:"culture"`
	Period       *string `parquet:"period"`
	ImageURL     string  `parquet:"image_url"`
	ThumbnailURL *string `parquet:"thumbnail_url"`
	ObjectURL    *string `parquet:"object_url"`
	Description  *string `parquet:"description"`
	MetID        *int64  `parquet:"met_id"`
}

const parquetBatch = 128

func readParquet(r io.ReaderAt, size int64) (Collection, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, err
	}

	reader := parquet.NewGenericReader[parquetRow](pf)
	defer reader.Close()

	out := make(Collection, 0, pf.NumRows())
	rows := make([]parquetRow, parquetBatch)
	for {
		// Rows hand their pointers to the returned artworks.
		clear(rows)
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			out = append(out, row.artwork())
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// WriteParquet encodes c as a parquet file readable by FileSource.
func WriteParquet(w io.Writer, c Collection) error {
	rows := make([]parquetRow, 0, len(c))
	for _, a := range c {
		rows = append(rows, newParquetRow(a))
	}

	pw := parquet.NewGenericWriter[parquetRow](w)
	if _, err := pw.Write(rows); err != nil {
		_ = pw.Close()
		return err
	}
	return pw.Close()
}

func (r parquetRow) artwork() Artwork {
	return Artwork{
		ID:           r.ID,
		Title:        r.Title,
		Artist:       r.Artist,
		Year:         intFrom64(r.Year),
		Medium:       r.Medium,
		Dimensions:   r.Dimensions,
		Department:   r.Department,
		Culture:      r.Culture,
		Period:       r.Period,
		ImageURL:     r.ImageURL,
		ThumbnailURL: r.ThumbnailURL,
		ObjectURL:    r.ObjectURL,
		Description:  r.Description,
		MetID:        intFrom64(r.MetID),
	}
}

func newParquetRow(a Artwork) parquetRow {
	return parquetRow{
		ID:           a.ID,
		Title:        a.Title,
		Artist:       a.Artist,
		Year:         int64From(a.Year),
		Medium:       a.Medium,
		Dimensions:   a.Dimensions,
		Department:   a.Department,
		Culture:      a.Culture,
		Period:       a.Period,
		ImageURL:     a.ImageURL,
		ThumbnailURL: a.ThumbnailURL,
		ObjectURL:    a.ObjectURL,
		Description:  a.Description,
		MetID:        int64From(a.MetID),
	}
}

func intFrom64(p *int64) *int {
	if p == nil {
		return nil
	}
	return ptr(int(*p))
}

func int64From(p *int) *int64 {
	if p == nil {
		return nil
	}
	return ptr(int64(*p))
}

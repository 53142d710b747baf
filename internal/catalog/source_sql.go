package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Schema is the paintings table layout SQLSource expects. position carries
// the source order.
const Schema = `
CREATE TABLE IF NOT EXISTS paintings (
	id            TEXT PRIMARY KEY,
	position      INTEGER NOT NULL,
	title         TEXT NOT NULL,
	artist        TEXT NOT NULL,
	year          INTEGER,
	medium        TEXT,
	dimensions    TEXT,
	department    TEXT,
	culture       TEXT,
	period        TEXT,
	image_url     TEXT NOT NULL,
	thumbnail_url TEXT,
	object_url    TEXT,
	description   TEXT,
	met_id        INTEGER
);`

// SQLSource reads the paintings table. It never writes.
type SQLSource struct {
	db     *sql.DB
	driver string
}

func NewSQLSource(db *sql.DB, driver string) *SQLSource {
	return &SQLSource{db: db, driver: driver}
}

// OpenSQLSource opens dsn with one of the registered drivers.
func OpenSQLSource(driver, dsn string) (*SQLSource, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return NewSQLSource(db, driver), nil
}

func (s *SQLSource) Name() string {
	if s.driver == DriverPostgres {
		return "postgres"
	}
	return s.driver
}

func (s *SQLSource) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *SQLSource) Close() error {
	return s.db.Close()
}

func (s *SQLSource) Load(ctx context.Context) (Collection, error) {
	var out Collection

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, title, artist, year, medium, dimensions, department,
			       culture, period, image_url, thumbnail_url, object_url,
			       description, met_id
			FROM paintings
			ORDER BY position ASC, id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make(Collection, 0, 64)
		for rows.Next() {
			a, err := scanArtwork(rows)
			if err != nil {
				return err
			}
			out = append(out, a)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("load paintings from %s: %w", s.Name(), err)
	}
	return out, nil
}

func scanArtwork(rows *sql.Rows) (Artwork, error) {
	var (
		a           Artwork
		year, metID sql.NullInt64
		medium      sql.NullString
		dimensions  sql.NullString
		department  sql.NullString
		culture     sql.NullString
		period      sql.NullString
		thumbnail   sql.NullString
		objectURL   sql.NullString
		description sql.NullString
	)

	err := rows.Scan(
		&a.ID, &a.Title, &a.Artist, &year, &medium, &dimensions, &department,
		&culture, &period, &a.ImageURL, &thumbnail, &objectURL,
		&description, &metID,
	)
	if err != nil {
		return Artwork{}, err
	}

	a.Year = optInt(year.Int64, year.Valid)
	a.MetID = optInt(metID.Int64, metID.Valid)
	a.Medium = nullString(medium)
	a.Dimensions = nullString(dimensions)
	a.Department = nullString(department)
	a.Culture = nullString(culture)
	a.Period = nullString(period)
	a.ThumbnailURL = nullString(thumbnail)
	a.ObjectURL = nullString(objectURL)
	a.Description = nullString(description)
	return a, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

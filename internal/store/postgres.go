package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yourorg/listings-api/internal/listings"
	"github.com/yourorg/listings-api/internal/tenant"
)

type Store struct {
	DB *sql.DB
}

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tenants (
			id          TEXT PRIMARY KEY,
			slug        TEXT NOT NULL,
			domain      TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_tenants_slug ON tenants(slug);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_tenants_domain ON tenants(domain);`,
		`CREATE TABLE IF NOT EXISTS listings (
			id                TEXT PRIMARY KEY,
			tenant_id         TEXT REFERENCES tenants(id),
			status            TEXT NOT NULL,
			property_type     TEXT NOT NULL,
			price             BIGINT NOT NULL,
			beds              INTEGER NOT NULL DEFAULT 0,
			baths             INTEGER NOT NULL DEFAULT 0,
			sqft              INTEGER NOT NULL DEFAULT 0,
			lot_acres         NUMERIC,
			street            TEXT NOT NULL,
			city              TEXT NOT NULL,
			state             TEXT NOT NULL,
			zip               TEXT NOT NULL,
			neighborhood_slug TEXT,
			lat               DOUBLE PRECISION,
			lon               DOUBLE PRECISION,
			photos            JSONB,
			listed_at         TIMESTAMPTZ NOT NULL,
			updated_at        TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(city);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_listed_at ON listings(listed_at);`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) UpsertTenant(ctx context.Context, t tenant.Tenant) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO tenants (id, slug, domain)
		VALUES ($1,$2,$3)
		ON CONFLICT (id)
		DO UPDATE SET slug=EXCLUDED.slug, domain=EXCLUDED.domain`,
		t.ID, t.Slug, t.Domain)
	return err
}

func (s *Store) UpsertListing(ctx context.Context, tenantID string, l listings.Listing) error {
	var lat, lon sql.NullFloat64
	if l.Coords != nil {
		lat = sql.NullFloat64{Float64: l.Coords.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: l.Coords.Lng, Valid: true}
	}
	var lotAcres sql.NullFloat64
	if l.LotAcres != nil {
		lotAcres = sql.NullFloat64{Float64: *l.LotAcres, Valid: true}
	}
	photos, err := json.Marshal(l.Photos)
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO listings
			(id, tenant_id, status, property_type, price, beds, baths, sqft, lot_acres,
			 street, city, state, zip, neighborhood_slug, lat, lon, photos, listed_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (id)
		DO UPDATE SET tenant_id=EXCLUDED.tenant_id, status=EXCLUDED.status,
			property_type=EXCLUDED.property_type, price=EXCLUDED.price,
			beds=EXCLUDED.beds, baths=EXCLUDED.baths, sqft=EXCLUDED.sqft,
			lot_acres=EXCLUDED.lot_acres, street=EXCLUDED.street, city=EXCLUDED.city,
			state=EXCLUDED.state, zip=EXCLUDED.zip,
			neighborhood_slug=EXCLUDED.neighborhood_slug,
			lat=EXCLUDED.lat, lon=EXCLUDED.lon, photos=EXCLUDED.photos,
			listed_at=EXCLUDED.listed_at, updated_at=EXCLUDED.updated_at`,
		l.ID, nullString(tenantID), string(l.Status), l.PropertyType, l.Price,
		l.Beds, l.Baths, l.Sqft, lotAcres,
		l.Address.Street, l.Address.City, l.Address.State, l.Address.Zip,
		nullString(l.Address.NeighborhoodSlug), lat, lon, string(photos),
		l.ListedAt, l.UpdatedAt)
	return err
}

// LoadSnapshot reads the full listings dataset for the query engine.
func (s *Store) LoadSnapshot(ctx context.Context) ([]listings.Listing, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, status, property_type, price, beds, baths, sqft, lot_acres,
		       street, city, state, zip, neighborhood_slug, lat, lon, photos,
		       listed_at, updated_at
		FROM listings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []listings.Listing
	for rows.Next() {
		var (
			l        listings.Listing
			status   string
			lotAcres sql.NullFloat64
			hood     sql.NullString
			lat, lon sql.NullFloat64
			photos   sql.NullString
		)
		if err := rows.Scan(&l.ID, &status, &l.PropertyType, &l.Price,
			&l.Beds, &l.Baths, &l.Sqft, &lotAcres,
			&l.Address.Street, &l.Address.City, &l.Address.State, &l.Address.Zip,
			&hood, &lat, &lon, &photos, &l.ListedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		l.Status = listings.Status(status)
		if lotAcres.Valid {
			v := lotAcres.Float64
			l.LotAcres = &v
		}
		if hood.Valid {
			l.Address.NeighborhoodSlug = hood.String
		}
		// coordinates are both-or-neither
		if lat.Valid && lon.Valid {
			l.Coords = &listings.Coordinates{Lat: lat.Float64, Lng: lon.Float64}
		}
		if photos.Valid && photos.String != "" {
			_ = json.Unmarshal([]byte(photos.String), &l.Photos)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"gardenmap/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists plants in an embedded SQLite file. Position is flattened to
// latitude/longitude columns and seasonal info is stored as JSON text.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	// WAL enables one writer + many readers; busy_timeout helps avoid "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS plants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			scientific_name TEXT NOT NULL,
			type TEXT NOT NULL,
			description TEXT,
			image_url TEXT,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			planted_date TEXT NOT NULL,
			watering_frequency INTEGER NOT NULL,
			sunlight TEXT NOT NULL,
			soil_type TEXT NOT NULL,
			height INTEGER NOT NULL,
			spread INTEGER NOT NULL,
			notes TEXT,
			seasonal_info TEXT,
			created_seq INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_plants_seq ON plants(created_seq);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

const plantColumns = `id, name, scientific_name, type, description, image_url, latitude, longitude,
	planted_date, watering_frequency, sunlight, soil_type, height, spread, notes, seasonal_info`

func (s *SQLiteStore) GetAll(ctx context.Context) ([]model.Plant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+plantColumns+` FROM plants ORDER BY created_seq, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Plant{}
	for rows.Next() {
		var (
			p                  model.Plant
			desc, img, notes   sql.NullString
			seasonal           sql.NullString
			typ, sun, soil, pd string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.ScientificName, &typ, &desc, &img,
			&p.Position.Lat, &p.Position.Lng, &pd, &p.WateringFrequency, &sun, &soil,
			&p.Height, &p.Spread, &notes, &seasonal); err != nil {
			return nil, err
		}
		p.Type = model.PlantType(typ)
		p.Sunlight = model.Sunlight(sun)
		p.SoilType = model.SoilType(soil)
		p.PlantedDate = model.Date(pd)
		p.Description = desc.String
		p.ImageURL = img.String
		p.Notes = notes.String
		info, err := decodeSeasonalInfo(seasonal.String)
		if err != nil {
			return nil, err
		}
		p.SeasonalInfo = info
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Insert(ctx context.Context, p model.Plant) error {
	info, err := encodeSeasonalInfo(p.SeasonalInfo)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO plants (`+plantColumns+`, created_seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(created_seq), 0) + 1 FROM plants))`,
		p.ID, p.Name, p.ScientificName, string(p.Type), p.Description, p.ImageURL,
		p.Position.Lat, p.Position.Lng, string(p.PlantedDate), p.WateringFrequency,
		string(p.Sunlight), string(p.SoilType), p.Height, p.Spread, p.Notes, info)
	return err
}

func (s *SQLiteStore) Update(ctx context.Context, p model.Plant) error {
	info, err := encodeSeasonalInfo(p.SeasonalInfo)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE plants SET
		name = ?, scientific_name = ?, type = ?, description = ?, image_url = ?,
		latitude = ?, longitude = ?, planted_date = ?, watering_frequency = ?,
		sunlight = ?, soil_type = ?, height = ?, spread = ?, notes = ?, seasonal_info = ?
		WHERE id = ?`,
		p.Name, p.ScientificName, string(p.Type), p.Description, p.ImageURL,
		p.Position.Lat, p.Position.Lng, string(p.PlantedDate), p.WateringFrequency,
		string(p.Sunlight), string(p.SoilType), p.Height, p.Spread, p.Notes, info, p.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, p.ID)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plants WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, id)
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

// encodeSeasonalInfo serializes the season sets as one JSON blob, dropping empty sets.
func encodeSeasonalInfo(info model.SeasonalInfo) (string, error) {
	b, err := json.Marshal(info.Normalize())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeSeasonalInfo parses the blob written by encodeSeasonalInfo. A NULL/empty column reads
// back as three empty sets.
func decodeSeasonalInfo(s string) (model.SeasonalInfo, error) {
	if s == "" {
		return model.SeasonalInfo{}, nil
	}
	var info model.SeasonalInfo
	if err := json.Unmarshal([]byte(s), &info); err != nil {
		return model.SeasonalInfo{}, errors.New("decode seasonal info: " + err.Error())
	}
	return info.Normalize(), nil
}

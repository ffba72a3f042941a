package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"gardenmap/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// plantRow is the relational shape of a plant.
type plantRow struct {
	ID                string `gorm:"primaryKey"`
	Name              string `gorm:"not null"`
	ScientificName    string `gorm:"not null"`
	Type              string `gorm:"not null;index"`
	Description       string
	ImageURL          string
	Latitude          float64 `gorm:"not null"`
	Longitude         float64 `gorm:"not null"`
	PlantedDate       string  `gorm:"not null"`
	WateringFrequency int     `gorm:"not null"`
	Sunlight          string  `gorm:"not null"`
	SoilType          string  `gorm:"not null"`
	Height            int     `gorm:"not null"`
	Spread            int     `gorm:"not null"`
	Notes             string
	SeasonalInfo      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (plantRow) TableName() string { return "plants" }

func toRow(p model.Plant) (plantRow, error) {
	info, err := encodeSeasonalInfo(p.SeasonalInfo)
	if err != nil {
		return plantRow{}, err
	}
	return plantRow{
		ID:                p.ID,
		Name:              p.Name,
		ScientificName:    p.ScientificName,
		Type:              string(p.Type),
		Description:       p.Description,
		ImageURL:          p.ImageURL,
		Latitude:          p.Position.Lat,
		Longitude:         p.Position.Lng,
		PlantedDate:       string(p.PlantedDate),
		WateringFrequency: p.WateringFrequency,
		Sunlight:          string(p.Sunlight),
		SoilType:          string(p.SoilType),
		Height:            p.Height,
		Spread:            p.Spread,
		Notes:             p.Notes,
		SeasonalInfo:      info,
	}, nil
}

func (r plantRow) plant() (model.Plant, error) {
	info, err := decodeSeasonalInfo(r.SeasonalInfo)
	if err != nil {
		return model.Plant{}, err
	}
	return model.Plant{
		ID:                r.ID,
		Name:              r.Name,
		ScientificName:    r.ScientificName,
		Type:              model.PlantType(r.Type),
		Description:       r.Description,
		ImageURL:          r.ImageURL,
		Position:          model.LatLng{Lat: r.Latitude, Lng: r.Longitude},
		PlantedDate:       model.Date(r.PlantedDate),
		WateringFrequency: r.WateringFrequency,
		Sunlight:          model.Sunlight(r.Sunlight),
		SoilType:          model.SoilType(r.SoilType),
		Height:            r.Height,
		Spread:            r.Spread,
		SeasonalInfo:      info,
		Notes:             r.Notes,
	}, nil
}

// GormStore persists plants through GORM on the SQLite dialector.
type GormStore struct {
	db *gorm.DB
}

func OpenGorm(path string) (*GormStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&plantRow{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) GetAll(ctx context.Context) ([]model.Plant, error) {
	var rows []plantRow
	if err := s.db.WithContext(ctx).Order("created_at, rowid").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Plant, 0, len(rows))
	for _, r := range rows {
		p, err := r.plant()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *GormStore) Insert(ctx context.Context, p model.Plant) error {
	row, err := toRow(p)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *GormStore) Update(ctx context.Context, p model.Plant) error {
	row, err := toRow(p)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing plantRow
		if err := tx.Select("id", "created_at").Where("id = ?", p.ID).Take(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(p.ID)
			}
			return err
		}
		row.CreatedAt = existing.CreatedAt
		return tx.Save(&row).Error
	})
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&plantRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

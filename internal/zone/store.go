package zone

import (
	"context"
	"errors"

	"github.com/eleven-am/zone-feedback/internal/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Zone{})
}

// Create inserts the zone, or updates name, building and unit when the id already exists.
func (s *Store) Create(ctx context.Context, z *Zone) error {
	if z.ID == "" {
		return errors.New("zone id is required")
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "building", "unit", "updated_at"}),
	}).Create(z).Error
}

func (s *Store) Get(ctx context.Context, id string) (*Zone, error) {
	var z Zone
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&z).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &z, nil
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Zone{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (s *Store) List(ctx context.Context, building string) ([]*Zone, error) {
	var zones []*Zone
	q := s.db.WithContext(ctx).Order("building, name")
	if building != "" {
		q = q.Where("building = ?", building)
	}
	err := q.Find(&zones).Error
	return zones, err
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

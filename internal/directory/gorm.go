package directory

import (
	"context"
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/partyline/partyline/internal/domain"
)

// GormDirectory is the postgres-backed store for deployments where the
// room catalogue must survive restarts. Live membership never lives here.
type GormDirectory struct {
	db         *gorm.DB
	bcryptCost int
}

func NewGormDirectory(databaseURL string, bcryptCost int) (*GormDirectory, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&domain.Room{}); err != nil {
		return nil, err
	}
	return &GormDirectory{db: db, bcryptCost: bcryptCost}, nil
}

func (d *GormDirectory) FindRoomByName(ctx context.Context, name string) (*domain.Room, error) {
	var room domain.Room
	err := d.db.WithContext(ctx).Where("room_name = ?", name).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *GormDirectory) CreateRoom(ctx context.Context, input CreateRoomInput) (*domain.Room, error) {
	room, err := newRoom(input, d.bcryptCost)
	if err != nil {
		return nil, err
	}
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Room{}).Where("room_name = ?", room.RoomName).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateRoom
		}
		return tx.Create(room).Error
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (d *GormDirectory) DeleteRoom(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room domain.Room
		if err := tx.First(&room, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		return tx.Delete(&room).Error
	})
}

func (d *GormDirectory) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	var rooms []*domain.Room
	err := d.db.WithContext(ctx).Order("created_at DESC").Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

package ports

import (
	"context"
	"errors"

	"github.com/Vovarama1992/mediameta/internal/models"
)

var (
	// ErrRecordNotFound is returned when a filter matches no record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrUniqueViolation is returned when a write would duplicate media_id.
	ErrUniqueViolation = errors.New("unique media_id violation")
)

type MediaRepository interface {
	InsertMedia(ctx context.Context, media *models.MediaRecord) (*models.MediaRecord, error)
	FindByMobileNumber(ctx context.Context, mobileNumber string) ([]models.MediaRecord, error)
	// FindByMediaID returns ErrRecordNotFound when nothing matches.
	FindByMediaID(ctx context.Context, mediaID string) (*models.MediaRecord, error)
	// UpdateByMobileNumber sets media_id and filename on every record owned by
	// mobileNumber and reports how many records matched.
	UpdateByMobileNumber(ctx context.Context, mobileNumber, mediaID, filename string) (int64, error)
	// DeleteByMediaID returns the removed record, or ErrRecordNotFound.
	DeleteByMediaID(ctx context.Context, mediaID string) (*models.MediaRecord, error)
}

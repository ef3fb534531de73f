package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/mediameta/internal/models"
	"github.com/Vovarama1992/mediameta/internal/ports"
)

const eventBuffer = 100

type MediaService struct {
	repo   ports.MediaRepository
	log    *logger.ZapLogger
	events chan ports.MediaEvent
}

func NewMediaService(repo ports.MediaRepository, log *logger.ZapLogger) *MediaService {
	return &MediaService{
		repo:   repo,
		log:    log,
		events: make(chan ports.MediaEvent, eventBuffer),
	}
}

var _ ports.MediaService = (*MediaService)(nil)

func (s *MediaService) Events() <-chan ports.MediaEvent { return s.events }

// CreateMedia leaves requiredness and media_id uniqueness to the store; any
// rejection surfaces as ErrPersistence.
func (s *MediaService) CreateMedia(
	ctx context.Context,
	mobileNumber, phoneNumberID, mediaID, filename string,
) (*models.MediaRecord, error) {
	m, err := s.repo.InsertMedia(ctx, &models.MediaRecord{
		MobileNumber:  mobileNumber,
		PhoneNumberID: phoneNumberID,
		MediaID:       mediaID,
		Filename:      filename,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publish(ports.MediaEvent{
		Type:         ports.EventCreated,
		MobileNumber: m.MobileNumber,
		MediaID:      m.MediaID,
		Filename:     m.Filename,
	})
	return m, nil
}

func (s *MediaService) GetMediaByOwner(ctx context.Context, mobileNumber string) ([]models.MediaRecord, error) {
	if mobileNumber == "" {
		return nil, fmt.Errorf("%w: mobile_number is required", ErrInvalidArgument)
	}

	records, err := s.repo.FindByMobileNumber(ctx, mobileNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no media for %s", ErrNotFound, mobileNumber)
	}
	return records, nil
}

// UpdateMediaByOwner rejects a media_id that is already stored, including the
// owner's own current one. The pre-check and the write are separate store
// calls; the store's unique index catches writers that slip in between.
func (s *MediaService) UpdateMediaByOwner(ctx context.Context, mobileNumber, mediaID, filename string) error {
	if mediaID == "" || filename == "" {
		return fmt.Errorf("%w: media_id and filename are required", ErrInvalidArgument)
	}

	existing, err := s.repo.FindByMediaID(ctx, mediaID)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s already exists", ErrDuplicateKey, existing.MediaID)
	case !errors.Is(err, ports.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	matched, err := s.repo.UpdateByMobileNumber(ctx, mobileNumber, mediaID, filename)
	if err != nil {
		if errors.Is(err, ports.ErrUniqueViolation) {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if matched == 0 {
		return fmt.Errorf("%w: no media for %s", ErrNotFound, mobileNumber)
	}

	s.publish(ports.MediaEvent{
		Type:         ports.EventUpdated,
		MobileNumber: mobileNumber,
		MediaID:      mediaID,
		Filename:     filename,
	})
	return nil
}

func (s *MediaService) DeleteMediaByMediaID(ctx context.Context, mediaID string) error {
	m, err := s.repo.DeleteByMediaID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			return fmt.Errorf("%w: media %s", ErrNotFound, mediaID)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publish(ports.MediaEvent{
		Type:         ports.EventDeleted,
		MobileNumber: m.MobileNumber,
		MediaID:      m.MediaID,
		Filename:     m.Filename,
	})
	return nil
}

func (s *MediaService) publish(ev ports.MediaEvent) {
	select {
	case s.events <- ev:
	default:
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "media event dropped",
			Fields: map[string]any{
				"type":    ev.Type,
				"mediaID": ev.MediaID,
			},
		})
	}
}

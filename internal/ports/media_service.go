package ports

import (
	"context"

	"github.com/Vovarama1992/mediameta/internal/models"
)

type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

type MediaEvent struct {
	Type         EventType `json:"type"`
	MobileNumber string    `json:"mobile_number"`
	MediaID      string    `json:"media_id"`
	Filename     string    `json:"filename"`
}

type MediaService interface {
	CreateMedia(ctx context.Context, mobileNumber, phoneNumberID, mediaID, filename string) (*models.MediaRecord, error)
	GetMediaByOwner(ctx context.Context, mobileNumber string) ([]models.MediaRecord, error)
	UpdateMediaByOwner(ctx context.Context, mobileNumber, mediaID, filename string) error
	DeleteMediaByMediaID(ctx context.Context, mediaID string) error
	Events() <-chan MediaEvent
}

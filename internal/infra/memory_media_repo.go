package infra

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Vovarama1992/mediameta/internal/models"
	"github.com/Vovarama1992/mediameta/internal/ports"
	"github.com/google/uuid"
)

// MemoryMediaRepo keeps records in insertion order and enforces the same
// unique media_id rule as the database-backed repositories.
type MemoryMediaRepo struct {
	mu      sync.RWMutex
	records []models.MediaRecord
	now     func() time.Time
}

func NewMemoryMediaRepo() *MemoryMediaRepo {
	return &MemoryMediaRepo{now: time.Now}
}

func (r *MemoryMediaRepo) indexOf(mediaID string) int {
	for i := range r.records {
		if r.records[i].MediaID == mediaID {
			return i
		}
	}
	return -1
}

func (r *MemoryMediaRepo) InsertMedia(ctx context.Context, media *models.MediaRecord) (*models.MediaRecord, error) {
	if err := media.Validate(); err != nil {
		return nil, fmt.Errorf("insert media: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(media.MediaID) >= 0 {
		return nil, fmt.Errorf("insert media: %w: %s", ports.ErrUniqueViolation, media.MediaID)
	}

	media.ID = uuid.NewString()
	media.CreatedAt = r.now().UTC()
	media.UpdatedAt = media.CreatedAt
	r.records = append(r.records, *media)
	return media, nil
}

func (r *MemoryMediaRepo) FindByMobileNumber(ctx context.Context, mobileNumber string) ([]models.MediaRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.MediaRecord{}
	for _, m := range r.records {
		if m.MobileNumber == mobileNumber {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemoryMediaRepo) FindByMediaID(ctx context.Context, mediaID string) (*models.MediaRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(mediaID)
	if i < 0 {
		return nil, ports.ErrRecordNotFound
	}
	m := r.records[i]
	return &m, nil
}

// UpdateByMobileNumber is all-or-nothing, like a single SQL UPDATE.
func (r *MemoryMediaRepo) UpdateByMobileNumber(ctx context.Context, mobileNumber, mediaID, filename string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []int
	for i := range r.records {
		if r.records[i].MobileNumber == mobileNumber {
			matched = append(matched, i)
		}
	}
	if len(matched) == 0 {
		return 0, nil
	}
	if len(matched) > 1 {
		return 0, fmt.Errorf("update media: %w: %d records would share %s", ports.ErrUniqueViolation, len(matched), mediaID)
	}
	if i := r.indexOf(mediaID); i >= 0 && i != matched[0] {
		return 0, fmt.Errorf("update media: %w: %s", ports.ErrUniqueViolation, mediaID)
	}

	m := &r.records[matched[0]]
	m.MediaID = mediaID
	m.Filename = filename
	m.UpdatedAt = r.now().UTC()
	return 1, nil
}

func (r *MemoryMediaRepo) DeleteByMediaID(ctx context.Context, mediaID string) (*models.MediaRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(mediaID)
	if i < 0 {
		return nil, ports.ErrRecordNotFound
	}
	m := r.records[i]
	r.records = append(r.records[:i], r.records[i+1:]...)
	return &m, nil
}

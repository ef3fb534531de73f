package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/Vovarama1992/mediameta/internal/models"
	"github.com/Vovarama1992/mediameta/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

const mediaColumns = `id, mobile_number, phone_number_id, media_id, filename, created_at, updated_at`

type PostgresMediaRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresMediaRepo(pool *pgxpool.Pool) ports.MediaRepository {
	return &PostgresMediaRepo{pool: pool}
}

func pgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ports.ErrUniqueViolation, pgErr.ConstraintName)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.ErrRecordNotFound
	}
	return err
}

func (r *PostgresMediaRepo) InsertMedia(ctx context.Context, media *models.MediaRecord) (*models.MediaRecord, error) {
	if err := media.Validate(); err != nil {
		return nil, fmt.Errorf("insert media: %w", err)
	}

	query := `
		INSERT INTO media_records (id, mobile_number, phone_number_id, media_id, filename)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	id := uuid.NewString()
	row := r.pool.QueryRow(ctx, query, id, media.MobileNumber, media.PhoneNumberID, media.MediaID, media.Filename)
	if err := row.Scan(&media.CreatedAt, &media.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert media: %w", pgError(err))
	}
	media.ID = id
	return media, nil
}

func (r *PostgresMediaRepo) FindByMobileNumber(ctx context.Context, mobileNumber string) ([]models.MediaRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+mediaColumns+`
		 FROM media_records
		 WHERE mobile_number = $1
		 ORDER BY created_at ASC`,
		mobileNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("find media by mobile number: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.MediaRecord])
	if err != nil {
		return nil, fmt.Errorf("scan media rows: %w", err)
	}
	return records, nil
}

func (r *PostgresMediaRepo) FindByMediaID(ctx context.Context, mediaID string) (*models.MediaRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+mediaColumns+` FROM media_records WHERE media_id = $1`,
		mediaID,
	)
	if err != nil {
		return nil, fmt.Errorf("find media by media id: %w", err)
	}

	m, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.MediaRecord])
	if err != nil {
		return nil, fmt.Errorf("find media by media id: %w", pgError(err))
	}
	return m, nil
}

// UpdateByMobileNumber runs as a single statement, so a unique violation on any
// owner row leaves every row untouched.
func (r *PostgresMediaRepo) UpdateByMobileNumber(ctx context.Context, mobileNumber, mediaID, filename string) (int64, error) {
	query := `
		UPDATE media_records
		SET media_id = $2, filename = $3, updated_at = now()
		WHERE mobile_number = $1
	`
	tag, err := r.pool.Exec(ctx, query, mobileNumber, mediaID, filename)
	if err != nil {
		return 0, fmt.Errorf("update media: %w", pgError(err))
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresMediaRepo) DeleteByMediaID(ctx context.Context, mediaID string) (*models.MediaRecord, error) {
	rows, err := r.pool.Query(ctx,
		`DELETE FROM media_records WHERE media_id = $1 RETURNING `+mediaColumns,
		mediaID,
	)
	if err != nil {
		return nil, fmt.Errorf("delete media: %w", err)
	}

	m, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.MediaRecord])
	if err != nil {
		return nil, fmt.Errorf("delete media: %w", pgError(err))
	}
	return m, nil
}

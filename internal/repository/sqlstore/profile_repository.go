package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/profilehub/internal/db"
	"github.com/vytor/profilehub/internal/logger"
	"github.com/vytor/profilehub/internal/models"
	"github.com/vytor/profilehub/internal/repository"
)

var profileColumns = []string{
	"id", "full_name", "age", "street", "neighborhood", "state", "bio",
	"profile_image_url", "created_at", "updated_at",
}

type profileRepository struct {
	db      *sql.DB
	dialect db.Dialect
	sb      squirrel.StatementBuilderType

	// lookupID reads the singleton id inside the write transaction.
	lookupID func(ctx context.Context, tx *sql.Tx) (int64, error)
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(database *db.DB) repository.ProfileRepository {
	r := &profileRepository{
		db:      database.DB,
		dialect: database.Dialect,
		sb:      database.Dialect.Builder(),
	}
	r.lookupID = r.currentID
	return r
}

func (r *profileRepository) Get(ctx context.Context) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile")

	query, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no profile stored yet")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	log.Debug("profile found: id=%d", p.ID)
	return p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, p models.Profile) (models.UpsertResult, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	res, err := r.upsertOnce(ctx, p)
	if err != nil && r.dialect.IsUniqueViolation(err) {
		// A concurrent request created the row between our read and insert.
		log.Warn("profile created concurrently, retrying as update")
		res, err = r.upsertOnce(ctx, p)
	}
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to upsert profile: %v", err)
		}
		return models.UpsertResult{}, err
	}
	log.Debug("profile %s: id=%d", res.Mode, res.ID)
	return res, nil
}

func (r *profileRepository) upsertOnce(ctx context.Context, p models.Profile) (models.UpsertResult, error) {
	var res models.UpsertResult
	err := db.Tx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := r.lookupID(ctx, tx)
		if errors.Is(err, sql.ErrNoRows) {
			id, err = r.insert(ctx, tx, p)
			if err != nil {
				return err
			}
			res = models.UpsertResult{Mode: models.UpsertCreated, ID: id}
			return nil
		}
		if err != nil {
			return err
		}
		if err := r.update(ctx, tx, id, p); err != nil {
			return err
		}
		res = models.UpsertResult{Mode: models.UpsertUpdated, ID: id}
		return nil
	})
	return res, err
}

func (r *profileRepository) currentID(ctx context.Context, tx *sql.Tx) (int64, error) {
	query, args, err := r.sb.Select("id").
		From("profiles").
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	return id, err
}

func (r *profileRepository) insert(ctx context.Context, tx *sql.Tx, p models.Profile) (int64, error) {
	query, args, err := r.sb.Insert("profiles").
		Columns("full_name", "age", "street", "neighborhood", "state", "bio", "profile_image_url").
		Values(
			p.FullName,
			nullInt(p.Age),
			nullString(p.Street),
			nullString(p.Neighborhood),
			nullString(p.State),
			nullString(p.Bio),
			nullString(p.ProfileImageURL),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *profileRepository) update(ctx context.Context, tx *sql.Tx, id int64, p models.Profile) error {
	query, args, err := r.sb.Update("profiles").
		SetMap(map[string]any{
			"full_name":         p.FullName,
			"age":               nullInt(p.Age),
			"street":            nullString(p.Street),
			"neighborhood":      nullString(p.Neighborhood),
			"state":             nullString(p.State),
			"bio":               nullString(p.Bio),
			"profile_image_url": nullString(p.ProfileImageURL),
			"updated_at":        squirrel.Expr("CURRENT_TIMESTAMP"),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *profileRepository) ListSummaries(ctx context.Context) ([]models.ProfileSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("listing profile summaries")

	query, args, err := r.sb.Select("id", "full_name", "profile_image_url").
		From("profiles").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, err
	}
	defer rows.Close()

	summaries := []models.ProfileSummary{}
	for rows.Next() {
		var s models.ProfileSummary
		var image sql.NullString
		if err := rows.Scan(&s.ID, &s.FullName, &image); err != nil {
			log.Error("failed to scan profile row: %v", err)
			return nil, err
		}
		s.ProfileImageURL = image.String
		summaries = append(summaries, s)
	}

	log.Debug("found %d profiles", len(summaries))
	return summaries, rows.Err()
}

func (r *profileRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p                                          models.Profile
		age                                        sql.NullInt64
		street, neighborhood, state, bio, imageURL sql.NullString
	)
	err := row.Scan(&p.ID, &p.FullName, &age, &street, &neighborhood, &state, &bio, &imageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Age = intPtr(age)
	p.Street = street.String
	p.Neighborhood = neighborhood.String
	p.State = state.String
	p.Bio = bio.String
	p.ProfileImageURL = imageURL.String
	return &p, nil
}

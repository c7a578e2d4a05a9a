package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/surveyops/respops/core/banner"
)

type bannerRow struct {
	ID        uuid.UUID `db:"id"`
	Content   string    `db:"content"`
	SetBy     string    `db:"set_by"`
	CreatedAt time.Time `db:"created_at"`
}

type templateRow struct {
	ID      uuid.UUID `db:"id"`
	Title   string    `db:"title"`
	Content string    `db:"content"`
}

type bannerRepository struct {
	db *sqlx.DB
}

var _ banner.Repository = (*bannerRepository)(nil) // interface compliance check

func NewBannerRepository(db *sqlx.DB) banner.Repository {
	return &bannerRepository{db: db}
}

func (repo *bannerRepository) GetActiveBanner(ctx context.Context) (banner.Banner, error) {
	var row bannerRow
	err := repo.db.GetContext(ctx, &row, `SELECT id, content, set_by, created_at FROM banner LIMIT 1`)
	if err != nil {
		if err == sql.ErrNoRows {
			return banner.Banner{}, banner.ErrNoActiveBanner
		}
		return banner.Banner{}, errors.Wrap(err, "getting active banner")
	}
	return banner.Banner(row), nil
}

func (repo *bannerRepository) SetActiveBanner(ctx context.Context, b banner.Banner) (banner.Banner, error) {
	// only one banner may be live at a time
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return banner.Banner{}, errors.Wrap(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM banner`); err != nil {
		return banner.Banner{}, errors.Wrap(err, "clearing previous banner")
	}
	const q = `INSERT INTO banner (id, content, set_by, created_at) VALUES (:id, :content, :set_by, :created_at)`
	if _, err = tx.NamedExecContext(ctx, q, bannerRow(b)); err != nil {
		return banner.Banner{}, errors.Wrap(err, "inserting banner")
	}
	if err = tx.Commit(); err != nil {
		return banner.Banner{}, errors.Wrap(err, "committing banner")
	}
	return b, nil
}

func (repo *bannerRepository) ClearActiveBanner(ctx context.Context) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM banner`)
	if err != nil {
		return errors.Wrap(err, "clearing active banner")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return banner.ErrNoActiveBanner
	}
	return nil
}

func (repo *bannerRepository) CreateTemplate(ctx context.Context, t banner.Template) (banner.Template, error) {
	const q = `INSERT INTO banner_template (id, title, content) VALUES (:id, :title, :content)`
	if _, err := repo.db.NamedExecContext(ctx, q, templateRow(t)); err != nil {
		return banner.Template{}, errors.Wrap(err, "inserting banner template")
	}
	return t, nil
}

func (repo *bannerRepository) QueryAllTemplates(ctx context.Context) ([]banner.Template, error) {
	var rows []templateRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT id, title, content FROM banner_template ORDER BY title`); err != nil {
		return nil, errors.Wrap(err, "querying banner templates")
	}
	templates := make([]banner.Template, 0, len(rows))
	for _, row := range rows {
		templates = append(templates, banner.Template(row))
	}
	return templates, nil
}

func (repo *bannerRepository) GetTemplate(ctx context.Context, id uuid.UUID) (banner.Template, error) {
	var row templateRow
	err := repo.db.GetContext(ctx, &row, `SELECT id, title, content FROM banner_template WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return banner.Template{}, banner.ErrTemplateNotFound
		}
		return banner.Template{}, errors.Wrap(err, "getting banner template")
	}
	return banner.Template(row), nil
}

func (repo *bannerRepository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM banner_template WHERE id = $1`, id)
	return errors.Wrap(err, "deleting banner template")
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz"
)

// DBTX is an interface that allows us to use either a connection pool or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements tekmiz.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// handlePostgresError maps driver errors onto repository errors
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23503": // foreign_key_violation
			return tekmiz.ErrPlaylistNotFound
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

const playlistColumns = `
	id, title, description, thumbnail, thumbnail_key, category, author,
	author_id, views, likes, resources_count, trending, created_at, updated_at`

const resourceColumns = `
	id, playlist_id, type, title, description, file_url, file_key, file_name,
	file_size, duration, display_order, views, uploaded_by, created_at, updated_at`

func scanPlaylist(row pgx.Row) (*tekmiz.Playlist, error) {
	var p tekmiz.Playlist
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Thumbnail, &p.ThumbnailKey,
		&p.Category, &p.Author, &p.AuthorID, &p.Views, &p.Likes,
		&p.ResourcesCount, &p.Trending, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanResource(row pgx.Row) (*tekmiz.Resource, error) {
	var res tekmiz.Resource
	err := row.Scan(
		&res.ID, &res.PlaylistID, &res.Type, &res.Title, &res.Description,
		&res.FileURL, &res.FileKey, &res.FileName, &res.FileSize,
		&res.Duration, &res.Order, &res.Views, &res.UploadedBy,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Playlist operations

func (r *Repository) CreatePlaylist(ctx context.Context, playlist *tekmiz.Playlist) error {
	query := `
		INSERT INTO playlists (
			id, title, description, thumbnail, thumbnail_key, category, author,
			author_id, views, likes, resources_count, trending, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		playlist.ID, playlist.Title, playlist.Description, playlist.Thumbnail,
		playlist.ThumbnailKey, playlist.Category, playlist.Author, playlist.AuthorID,
		playlist.Views, playlist.Likes, playlist.ResourcesCount, playlist.Trending,
		playlist.CreatedAt, playlist.UpdatedAt,
	)
	if err != nil {
		return handlePostgresError("create playlist", err)
	}
	return nil
}

func (r *Repository) GetPlaylist(ctx context.Context, id uuid.UUID) (*tekmiz.Playlist, error) {
	query := `SELECT` + playlistColumns + ` FROM playlists WHERE id = $1`

	playlist, err := scanPlaylist(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tekmiz.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, handlePostgresError("get playlist", err)
	}
	return playlist, nil
}

func (r *Repository) ListPlaylists(ctx context.Context, filter tekmiz.PlaylistFilter) ([]*tekmiz.Playlist, error) {
	query := `SELECT` + playlistColumns + ` FROM playlists WHERE 1=1`
	args := []interface{}{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		query += fmt.Sprintf(" AND author_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError("list playlists", err)
	}
	defer rows.Close()

	result := []*tekmiz.Playlist{}
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, handlePostgresError("list playlists", err)
		}
		result = append(result, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list playlists", err)
	}
	return result, nil
}

func (r *Repository) UpdatePlaylist(ctx context.Context, playlist *tekmiz.Playlist) error {
	query := `
		UPDATE playlists
		SET title = $2, description = $3, category = $4, updated_at = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		playlist.ID, playlist.Title, playlist.Description, playlist.Category, playlist.UpdatedAt,
	)
	if err != nil {
		return handlePostgresError("update playlist", err)
	}
	if tag.RowsAffected() == 0 {
		return tekmiz.ErrPlaylistNotFound
	}
	return nil
}

func (r *Repository) DeletePlaylist(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete playlist", err)
	}
	if tag.RowsAffected() == 0 {
		return tekmiz.ErrPlaylistNotFound
	}
	return nil
}

// IncrementPlaylistViews increments store-side so concurrent increments
// never lose updates.
func (r *Repository) IncrementPlaylistViews(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE playlists
		SET views = views + 1, updated_at = now()
		WHERE id = $1
		RETURNING views`

	var views int64
	err := r.db.QueryRow(ctx, query, id).Scan(&views)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, tekmiz.ErrPlaylistNotFound
	}
	if err != nil {
		return 0, handlePostgresError("increment playlist views", err)
	}
	return views, nil
}

func (r *Repository) SetResourcesCount(ctx context.Context, id uuid.UUID, count int64) error {
	query := `
		UPDATE playlists
		SET resources_count = $2, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, count)
	if err != nil {
		return handlePostgresError("set resources count", err)
	}
	if tag.RowsAffected() == 0 {
		return tekmiz.ErrPlaylistNotFound
	}
	return nil
}

// Resource operations

func (r *Repository) CreateResource(ctx context.Context, resource *tekmiz.Resource) error {
	query := `
		INSERT INTO resources (
			id, playlist_id, type, title, description, file_url, file_key,
			file_name, file_size, duration, display_order, views, uploaded_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		resource.ID, resource.PlaylistID, resource.Type, resource.Title,
		resource.Description, resource.FileURL, resource.FileKey, resource.FileName,
		resource.FileSize, resource.Duration, resource.Order, resource.Views,
		resource.UploadedBy, resource.CreatedAt, resource.UpdatedAt,
	)
	if err != nil {
		return handlePostgresError("create resource", err)
	}
	return nil
}

func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*tekmiz.Resource, error) {
	query := `SELECT` + resourceColumns + ` FROM resources WHERE id = $1`

	resource, err := scanResource(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tekmiz.ErrResourceNotFound
	}
	if err != nil {
		return nil, handlePostgresError("get resource", err)
	}
	return resource, nil
}

func (r *Repository) ListResourcesByPlaylist(ctx context.Context, playlistID uuid.UUID) ([]*tekmiz.Resource, error) {
	query := `SELECT` + resourceColumns + `
		FROM resources
		WHERE playlist_id = $1
		ORDER BY display_order ASC, created_at ASC`

	rows, err := r.db.Query(ctx, query, playlistID)
	if err != nil {
		return nil, handlePostgresError("list resources", err)
	}
	defer rows.Close()

	result := []*tekmiz.Resource{}
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, handlePostgresError("list resources", err)
		}
		result = append(result, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list resources", err)
	}
	return result, nil
}

func (r *Repository) CountResourcesByPlaylist(ctx context.Context, playlistID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM resources WHERE playlist_id = $1`, playlistID).Scan(&count)
	if err != nil {
		return 0, handlePostgresError("count resources", err)
	}
	return count, nil
}

func (r *Repository) UpdateResource(ctx context.Context, resource *tekmiz.Resource) error {
	query := `
		UPDATE resources
		SET title = $2, description = $3, display_order = $4, updated_at = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		resource.ID, resource.Title, resource.Description, resource.Order, resource.UpdatedAt,
	)
	if err != nil {
		return handlePostgresError("update resource", err)
	}
	if tag.RowsAffected() == 0 {
		return tekmiz.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) UpdateResourceOrder(ctx context.Context, id uuid.UUID, order int) error {
	query := `
		UPDATE resources
		SET display_order = $2, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, order)
	if err != nil {
		return handlePostgresError("update resource order", err)
	}
	if tag.RowsAffected() == 0 {
		return tekmiz.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) DeleteResource(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete resource", err)
	}
	if tag.RowsAffected() == 0 {
		return tekmiz.ErrResourceNotFound
	}
	return nil
}

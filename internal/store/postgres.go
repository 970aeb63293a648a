package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SergeyParamoshkin/articles/internal/model"

	_ "github.com/lib/pq"
)

// PostgresStore keeps articles in the articles table.
type PostgresStore struct {
	conn *sql.DB
}

// OpenPostgres connects to dsn and checks the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{conn: conn}, nil
}

func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

func (s *PostgresStore) List(ctx context.Context, offset, limit int) ([]model.Article, error) {
	query := `
		SELECT id, title, body, created_at, updated_at
		FROM articles
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.conn.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := []model.Article{}
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		toUTC(&a)
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return count, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*model.Article, error) {
	query := `SELECT id, title, body, created_at, updated_at FROM articles WHERE id = $1`

	var a model.Article
	err := s.conn.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Title, &a.Body, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get article %d: %w", id, err)
	}
	toUTC(&a)

	return &a, nil
}

func (s *PostgresStore) Create(ctx context.Context, article *model.Article) error {
	query := `
		INSERT INTO articles (title, body, created_at, updated_at)
		VALUES ($1, $2, COALESCE($3, NOW()), COALESCE($4, $3, NOW()))
		RETURNING id, created_at, updated_at
	`
	err := s.conn.QueryRowContext(ctx, query,
		article.Title, article.Body,
		nullTime(article.CreatedAt), nullTime(article.UpdatedAt),
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	toUTC(article)

	return nil
}

func (s *PostgresStore) Update(ctx context.Context, article *model.Article) error {
	query := `
		UPDATE articles SET title = $1, body = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING created_at, updated_at
	`
	err := s.conn.QueryRowContext(ctx, query, article.Title, article.Body, article.ID).
		Scan(&article.CreatedAt, &article.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("failed to update article %d: %w", article.ID, err)
	}
	toUTC(article)

	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete article %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// toUTC drops the session time zone lib/pq attaches to TIMESTAMPTZ values.
func toUTC(a *model.Article) {
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
}

package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zx06/jsend/internal/db"
	"github.com/zx06/jsend/internal/errors"
)

// SQL 把 posts 存进 mysql/pg；created_at 以 unix 微秒保存，两种方言通用。
type SQL struct {
	db      *sql.DB
	q       queries
	now     func() time.Time
	closers []func() error
}

type queries struct {
	create string
	list   string
	insert string
	get    string
	delete string
}

func buildQueries(d db.Dialect) queries {
	return queries{
		create: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS posts (
	seq %s PRIMARY KEY,
	id VARCHAR(36) NOT NULL UNIQUE,
	title VARCHAR(200) NOT NULL,
	body TEXT NOT NULL,
	created_at BIGINT NOT NULL
)`, d.Serial),
		list:   "SELECT id, title, body, created_at FROM posts ORDER BY seq",
		insert: fmt.Sprintf("INSERT INTO posts (id, title, body, created_at) VALUES (%s, %s, %s, %s)", d.Bind(1), d.Bind(2), d.Bind(3), d.Bind(4)),
		get:    fmt.Sprintf("SELECT id, title, body, created_at FROM posts WHERE id = %s", d.Bind(1)),
		delete: fmt.Sprintf("DELETE FROM posts WHERE id = %s", d.Bind(1)),
	}
}

// NewSQL 确保 posts 表存在。closers 在 Close 时按顺序执行（例如关闭 SSH 隧道）。
func NewSQL(ctx context.Context, conn *sql.DB, d db.Dialect, closers ...func() error) (*SQL, *errors.XError) {
	s := &SQL{db: conn, q: buildQueries(d), now: time.Now, closers: closers}
	if _, err := conn.ExecContext(ctx, s.q.create); err != nil {
		return nil, errors.Wrap(errors.CodeDBExecFailed, "failed to create posts table", map[string]any{"dialect": d.Name}, err)
	}
	return s, nil
}

func (s *SQL) List(ctx context.Context) ([]Post, *errors.XError) {
	rows, err := s.db.QueryContext(ctx, s.q.list)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDBExecFailed, "failed to list posts", nil, err)
	}
	defer rows.Close()

	out := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, errors.Wrap(errors.CodeDBExecFailed, "failed to scan post", nil, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeDBExecFailed, "rows iteration error", nil, err)
	}
	return out, nil
}

func (s *SQL) Create(ctx context.Context, in NewPost) (Post, *errors.XError) {
	p := Post{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Body:      in.Body,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if _, err := s.db.ExecContext(ctx, s.q.insert, p.ID, p.Title, p.Body, p.CreatedAt.UnixMicro()); err != nil {
		return Post{}, errors.Wrap(errors.CodeDBExecFailed, "failed to insert post", nil, err)
	}
	return p, nil
}

func (s *SQL) Get(ctx context.Context, id string) (Post, bool, *errors.XError) {
	p, err := scanPost(s.db.QueryRowContext(ctx, s.q.get, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return Post{}, false, nil
	}
	if err != nil {
		return Post{}, false, errors.Wrap(errors.CodeDBExecFailed, "failed to get post", map[string]any{"id": id}, err)
	}
	return p, true, nil
}

func (s *SQL) Delete(ctx context.Context, id string) (bool, *errors.XError) {
	res, err := s.db.ExecContext(ctx, s.q.delete, id)
	if err != nil {
		return false, errors.Wrap(errors.CodeDBExecFailed, "failed to delete post", map[string]any{"id": id}, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(errors.CodeDBExecFailed, "failed to delete post", map[string]any{"id": id}, err)
	}
	return n > 0, nil
}

func (s *SQL) Close() error {
	err := s.db.Close()
	for _, c := range s.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(r scanner) (Post, error) {
	var p Post
	var created int64
	if err := r.Scan(&p.ID, &p.Title, &p.Body, &created); err != nil {
		return Post{}, err
	}
	p.CreatedAt = time.UnixMicro(created).UTC()
	return p, nil
}

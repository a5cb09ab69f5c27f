// Package store 保存 serve 命令演示用的 posts。
package store

import (
	"context"
	"time"

	"github.com/zx06/jsend/internal/errors"
)

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPost 是创建请求体；校验规则由 server 层的 validator 执行。
type NewPost struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required"`
}

// Store 的实现必须并发安全；List 按插入顺序返回。
type Store interface {
	List(ctx context.Context) ([]Post, *errors.XError)
	Create(ctx context.Context, in NewPost) (Post, *errors.XError)
	// Get 的 bool 表示是否存在；不存在不是错误。
	Get(ctx context.Context, id string) (Post, bool, *errors.XError)
	Delete(ctx context.Context, id string) (bool, *errors.XError)
	Close() error
}

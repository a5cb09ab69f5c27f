package store

import (
	"context"

	"github.com/zx06/jsend/internal/errors"
)

// Seed 写入一篇示例文章，serve --seed 使用。
func Seed(ctx context.Context, s Store) (Post, *errors.XError) {
	return s.Create(ctx, NewPost{Title: "Blog Post Title", Body: "Blog post body"})
}

package store

import (
	"context"

	"github.com/zx06/jsend/internal/db"
	"github.com/zx06/jsend/internal/errors"
)

type OpenOptions struct {
	// Kind: memory | 已注册的 db driver 名（mysql、pg）
	Kind   string
	DSN    string
	Dialer db.Dialer
	// Closers 随 store 一起关闭（例如 SSH 隧道）
	Closers []func() error
}

// Open 根据 profile 的 store 配置创建后端。
func Open(ctx context.Context, opts OpenOptions) (Store, *errors.XError) {
	if opts.Kind == "" || opts.Kind == "memory" {
		return NewMemory(), nil
	}
	drv, ok := db.Get(opts.Kind)
	if !ok {
		return nil, errors.New(errors.CodeDBDriverUnsupported, "unsupported store driver",
			map[string]any{"store": opts.Kind, "supported": append([]string{"memory"}, db.RegisteredNames()...)})
	}
	if opts.DSN == "" {
		return nil, errors.New(errors.CodeCfgInvalid, "dsn is required for sql store", map[string]any{"store": opts.Kind})
	}
	conn, xe := drv.Open(ctx, db.ConnOptions{DSN: opts.DSN, Dialer: opts.Dialer})
	if xe != nil {
		return nil, xe
	}
	s, xe := NewSQL(ctx, conn, drv.Dialect(), opts.Closers...)
	if xe != nil {
		_ = conn.Close()
		return nil, xe
	}
	return s, nil
}

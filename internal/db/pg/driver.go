package pg

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/zx06/jsend/internal/db"
	"github.com/zx06/jsend/internal/errors"
)

func init() {
	db.Register("pg", &Driver{})
}

type Driver struct{}

func (d *Driver) Dialect() db.Dialect {
	return db.Dialect{
		Name:   "pg",
		Bind:   func(n int) string { return fmt.Sprintf("$%d", n) },
		Serial: "BIGSERIAL",
	}
}

func (d *Driver) Open(ctx context.Context, opts db.ConnOptions) (*sql.DB, *errors.XError) {
	dsn := opts.DSN
	if dsn == "" {
		dsn = buildDSN(opts)
	}

	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(errors.CodeCfgInvalid, "invalid pg dsn", nil, err)
	}
	// 经 SSH 隧道时替换 pgx 的 dialer
	if opts.Dialer != nil {
		dialer := opts.Dialer
		config.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		}
	}
	conn := stdlib.OpenDB(*config)
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(errors.CodeDBConnectFailed, "failed to ping pg", nil, err)
	}
	return conn, nil
}

func buildDSN(opts db.ConnOptions) string {
	parts := []string{}
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", k, quote(v)))
		}
	}
	add("host", opts.Host)
	if opts.Port != 0 {
		add("port", fmt.Sprint(opts.Port))
	}
	add("user", opts.User)
	add("password", opts.Password)
	add("dbname", opts.Database)

	keys := make([]string, 0, len(opts.Params))
	for k := range opts.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, opts.Params[k])
	}
	return strings.Join(parts, " ")
}

// quote 按 libpq keyword/value 规则转义含空格或引号的值。
func quote(v string) string {
	if !strings.ContainsAny(v, " '\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

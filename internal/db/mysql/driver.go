package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/go-sql-driver/mysql"

	"github.com/zx06/jsend/internal/db"
	"github.com/zx06/jsend/internal/errors"
)

func init() {
	db.Register("mysql", &Driver{})
}

type Driver struct{}

// dialSeq 为每个带 dialer 的连接生成唯一的 network 名称。
var dialSeq atomic.Uint64

func (d *Driver) Dialect() db.Dialect {
	return db.Dialect{
		Name:   "mysql",
		Bind:   func(int) string { return "?" },
		Serial: "BIGINT AUTO_INCREMENT",
	}
}

func (d *Driver) Open(ctx context.Context, opts db.ConnOptions) (*sql.DB, *errors.XError) {
	cfg, xe := buildConfig(opts)
	if xe != nil {
		return nil, xe
	}
	if opts.Dialer != nil {
		netName := fmt.Sprintf("jsend-ssh-%d", dialSeq.Add(1))
		dialer := opts.Dialer
		mysql.RegisterDialContext(netName, func(ctx context.Context, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp", addr)
		})
		cfg.Net = netName
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.CodeCfgInvalid, "invalid mysql config", nil, err)
	}
	conn := sql.OpenDB(connector)
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(errors.CodeDBConnectFailed, "failed to ping mysql", nil, err)
	}
	return conn, nil
}

func buildConfig(opts db.ConnOptions) (*mysql.Config, *errors.XError) {
	if opts.DSN != "" {
		cfg, err := mysql.ParseDSN(opts.DSN)
		if err != nil {
			return nil, errors.Wrap(errors.CodeCfgInvalid, "invalid mysql dsn", nil, err)
		}
		cfg.ParseTime = true
		return cfg, nil
	}
	cfg := mysql.NewConfig()
	cfg.User = opts.User
	cfg.Passwd = opts.Password
	cfg.Net = "tcp"
	port := opts.Port
	if port == 0 {
		port = 3306
	}
	cfg.Addr = net.JoinHostPort(opts.Host, fmt.Sprint(port))
	cfg.DBName = opts.Database
	cfg.ParseTime = true
	if len(opts.Params) > 0 {
		cfg.Params = map[string]string{}
		for k, v := range opts.Params {
			cfg.Params[k] = v
		}
	}
	return cfg, nil
}

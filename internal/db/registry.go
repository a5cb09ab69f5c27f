package db

import (
	"context"
	"database/sql"
	"net"
	"sort"
	"sync"

	"github.com/zx06/jsend/internal/errors"
)

// Driver 打开一个 *sql.DB，并描述该后端的 SQL 方言。
type Driver interface {
	Open(ctx context.Context, opts ConnOptions) (*sql.DB, *errors.XError)
	Dialect() Dialect
}

// Dialect 是 store 构造 SQL 时需要的最小方言差异。
type Dialect struct {
	Name string
	// Bind 返回第 n 个（从 1 开始）参数占位符。
	Bind func(n int) string
	// Serial 是自增 BIGINT 列的类型声明，用来保持插入顺序。
	Serial string
}

// Dialer 由 ssh.Client 实现，用于经 SSH 隧道连接数据库。
type Dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

type ConnOptions struct {
	DSN      string // 原生 DSN（优先）
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Params   map[string]string
	Dialer   Dialer // 可选
}

var (
	mu      sync.RWMutex
	drivers = map[string]Driver{}
)

func Register(name string, d Driver) {
	mu.Lock()
	defer mu.Unlock()
	if name == "" {
		panic("db.Register: empty name")
	}
	if d == nil {
		panic("db.Register: nil driver")
	}
	if _, exists := drivers[name]; exists {
		panic("db.Register: duplicate driver: " + name)
	}
	drivers[name] = d
}

func Get(name string) (Driver, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := drivers[name]
	return d, ok
}

// RegisteredNames 返回已注册的驱动名（排序后）。
func RegisteredNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(drivers))
	for k := range drivers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

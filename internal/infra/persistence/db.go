package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/config"
)

// DB は PostgreSQL への接続を表す。sqlx.DB をラップする。
type DB struct {
	conn *sqlx.DB
}

// NewDB はデータベース接続を確立する。
func NewDB(cfg config.DatabaseConfig) (*DB, error) {
	conn, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return &DB{conn: conn}, nil
}

// NewDBFromConn は既存の接続をラップする。テストで使用する。
func NewDBFromConn(conn *sqlx.DB) *DB {
	return &DB{conn: conn}
}

// Conn は内部の sqlx.DB を返す。
func (db *DB) Conn() *sqlx.DB {
	return db.conn
}

// Healthy はデータベースへの接続を確認する。
func (db *DB) Healthy(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close はデータベース接続を閉じる。
func (db *DB) Close() error {
	return db.conn.Close()
}

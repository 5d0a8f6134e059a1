package cache

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"sort"
	"time"
)

const scopeIndexPrefix = "cachescope:"

// Store はキャッシュアサイド方式の読み出しと明示的無効化を提供する。
// キャッシュは派生データであり正本ではない。バックエンド障害は
// 強制ミスとして扱い、リクエスト自体を失敗させない。
type Store struct {
	client CacheClient
}

// NewStore は新しい Store を生成する。
func NewStore(client CacheClient) *Store {
	return &Store{client: client}
}

// GetOrLoad は key を参照し、ヒットすればキャッシュ値を返す。
// ミス時は loader を呼び出し、結果を ttl 付きで格納して返す。
// scope が空でなければ key を無効化スコープの索引に登録する。
// キャッシュ操作のエラーはログに残してミス扱いとし、loader のエラーのみ伝播する。
func (s *Store) GetOrLoad(ctx context.Context, key, scope string, ttl time.Duration, loader func(context.Context) (string, error)) (string, error) {
	cached, err := s.client.Get(ctx, key)
	if err != nil {
		slog.Warn("cache get failed, treating as miss", "key", key, "error", err)
	}
	if cached != nil {
		return *cached, nil
	}

	value, err := loader(ctx)
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, key, value, &ttl); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
		return value, nil
	}
	if scope != "" {
		if err := s.client.AddToSet(ctx, scopeIndexPrefix+scope, key); err != nil {
			slog.Warn("cache scope index update failed", "scope", scope, "key", key, "error", err)
		}
	}
	return value, nil
}

// Invalidate は単一キーを無効化する。
func (s *Store) Invalidate(ctx context.Context, key string) {
	if _, err := s.client.Delete(ctx, key); err != nil {
		slog.Warn("cache invalidation failed", "key", key, "error", err)
	}
}

// InvalidateScope はスコープ索引に登録された全キーを無効化する。
// KEYS によるパターン走査は行わず、索引集合のメンバーのみを削除する。
func (s *Store) InvalidateScope(ctx context.Context, scope string) {
	indexKey := scopeIndexPrefix + scope
	members, err := s.client.SetMembers(ctx, indexKey)
	if err != nil {
		slog.Warn("cache scope members lookup failed", "scope", scope, "error", err)
		return
	}
	for _, key := range members {
		if _, err := s.client.Delete(ctx, key); err != nil {
			slog.Warn("cache invalidation failed", "key", key, "error", err)
		}
	}
	if _, err := s.client.Delete(ctx, indexKey); err != nil {
		slog.Warn("cache scope index delete failed", "scope", scope, "error", err)
	}
}

// QuerySignature はクエリパラメータの正規化シグネチャを生成する。
// キーを昇順に並べ、空値を除外して JSON エンコードした結果の base64。
// 論理的に同一のクエリは引数の順序に関わらず同じキーに写像される。
func QuerySignature(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(params[k])
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

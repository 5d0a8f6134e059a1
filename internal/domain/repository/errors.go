package repository

import "errors"

// ErrNotFound は対象レコードが存在しないことを示す。
var ErrNotFound = errors.New("record not found")

// ErrDuplicate は一意制約に衝突したことを示す。
// 利用記録の条件付き挿入で (couponId, claimantId) が既登録の場合に返る。
var ErrDuplicate = errors.New("record already exists")

package store

import (
	"context"
	"errors"

	"crmsync/normalization"
)

// パイプラインが永続状態に触れる唯一の窓口。
// FetchPage はストア側の1リクエスト上限に合わせてページ単位で読む。
// Insert/Update は1件ずつ同期的に発行される前提(バッチAPIは使わない)。
type CandidateStore interface {
	FetchPage(ctx context.Context, offset, limit int) ([]normalization.StoredCandidate, error)
	Insert(ctx context.Context, rec normalization.CandidateRecord) error
	Update(ctx context.Context, externalID string, rec normalization.CandidateRecord) error
	FetchConsultants(ctx context.Context) ([]Consultant, error)
}

// Consultant 担当コンサルタント。担当者名の解決に使う
type Consultant struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

var (
	// ErrUnauthorized APIトークンが無効か権限不足
	ErrUnauthorized = errors.New("store: unauthorized")
	// ErrNotFound 指定したレコードが存在しない
	ErrNotFound = errors.New("store: record not found")
)

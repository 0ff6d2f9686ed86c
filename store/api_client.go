package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"crmsync/normalization"
)

// APIStore CRM本体のREST APIをたたく CandidateStore 実装。
// トークン認証・リクエストレート制限つき。
type APIStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// APIStoreConfig APIクライアントの設定
type APIStoreConfig struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	RateLimit rate.Limit
	Logger    *slog.Logger
}

// NewAPIStore 新しいAPIクライアントを生成する。
// BaseURLとTokenは必須(欠けていれば起動時の設定エラーとして扱う)。
func NewAPIStore(config APIStoreConfig) (*APIStore, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("store: base URL is required")
	}
	if config.Token == "" {
		return nil, fmt.Errorf("store: API token is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(200 * time.Millisecond) // 5リクエスト/秒
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &APIStore{
		baseURL: config.BaseURL,
		token:   config.Token,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(config.RateLimit, 1),
		logger:  config.Logger,
	}, nil
}

// candidatePage 候補者一覧APIのレスポンス
type candidatePage struct {
	Records []normalization.StoredCandidate `json:"records"`
	Total   int                             `json:"total"`
}

// consultantList コンサルタント一覧APIのレスポンス
type consultantList struct {
	Consultants []Consultant `json:"consultants"`
}

// FetchPage 候補者スナップショットを1ページ取得する
func (s *APIStore) FetchPage(ctx context.Context, offset, limit int) ([]normalization.StoredCandidate, error) {
	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))

	var page candidatePage
	if err := s.doJSON(ctx, http.MethodGet, "/api/v1/candidates?"+params.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return page.Records, nil
}

// Insert 候補者レコードを新規登録する
func (s *APIStore) Insert(ctx context.Context, rec normalization.CandidateRecord) error {
	return s.doJSON(ctx, http.MethodPost, "/api/v1/candidates", rec, nil)
}

// Update 候補者レコードを全項目置き換えで更新する(ストア側はupsert)
func (s *APIStore) Update(ctx context.Context, externalID string, rec normalization.CandidateRecord) error {
	return s.doJSON(ctx, http.MethodPut, "/api/v1/candidates/"+url.PathEscape(externalID), rec, nil)
}

// FetchConsultants 担当者名簿を取得する
func (s *APIStore) FetchConsultants(ctx context.Context) ([]Consultant, error) {
	var list consultantList
	if err := s.doJSON(ctx, http.MethodGet, "/api/v1/consultants", nil, &list); err != nil {
		return nil, err
	}
	return list.Consultants, nil
}

// doJSON レート制限を待ってからJSONリクエストを1回発行する
func (s *APIStore) doJSON(ctx context.Context, method, path string, body, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s %s: %s", resp.StatusCode, method, path, string(excerpt))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

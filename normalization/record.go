package normalization

import "time"

// CandidateRecord 外部ソースの1行を正規化した候補者レコード。
// ExternalID は8桁の候補者IDで、同一実行内で一意かつ不変。
type CandidateRecord struct {
	ExternalID    string `json:"external_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"` // 数字のみ。未入力は空文字列
	Email         string `json:"email"`
	BirthDate     string `json:"birth_date,omitempty"` // YYYY-MM-DD。未入力は空文字列
	Age           *int   `json:"age,omitempty"`
	Prefecture    string `json:"prefecture"`
	City          string `json:"city"`
	Employment    string `json:"employment"` // 希望勤務形態
	JobType       string `json:"job_type"`   // 希望職種
	Qualification string `json:"qualification"`
	Salary        *int   `json:"salary,omitempty"` // 希望年収(円)
	Memo          string `json:"memo,omitempty"`
	Phase         string `json:"phase,omitempty"`       // ステータスから導出したフェーズ
	Probability   string `json:"probability,omitempty"` // 確度 A/B/C
	ClientName    string `json:"client_name,omitempty"` // 園名
	OwnerID       int    `json:"owner_id,omitempty"`    // 担当コンサルタントの内部ID。未解決は0
	OwnerName     string `json:"owner_name,omitempty"`
}

// StoredCandidate ストア側に保存されている候補者レコード。
// CreatedAt/UpdatedAt はストア内部の管理項目で、差分判定には使わない。
type StoredCandidate struct {
	RecordID      int64     `json:"record_id"`
	ExternalID    string    `json:"external_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	BirthDate     string    `json:"birth_date,omitempty"`
	Age           *int      `json:"age,omitempty"`
	Prefecture    string    `json:"prefecture"`
	City          string    `json:"city"`
	Employment    string    `json:"employment"`
	JobType       string    `json:"job_type"`
	Qualification string    `json:"qualification"`
	Salary        *int      `json:"salary,omitempty"`
	Memo          string    `json:"memo,omitempty"`
	Phase         string    `json:"phase,omitempty"`
	Probability   string    `json:"probability,omitempty"`
	ClientName    string    `json:"client_name,omitempty"`
	OwnerID       int       `json:"owner_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

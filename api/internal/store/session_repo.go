package store

import (
	"context"
	"database/sql"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var jsonx = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	SessionPending    = "pending"
	SessionProcessing = "processing"
	SessionDone       = "done"
	SessionFailed     = "failed"
)

type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

type Session struct {
	ID            int64
	UserID        int64
	FrontFileID   string
	ProfileFileID string
	Status        string
	ResultJSON    []byte
	ReportText    string
	CreatedAt     time.Time
	FinishedAt    *time.Time
}

func (r *SessionRepo) Create(ctx context.Context, userID int64) (int64, error) {
	const q = `insert into sessions (user_id) values ($1) returning id`
	var id int64
	err := r.DB.QueryRowContext(ctx, q, userID).Scan(&id)
	return id, err
}

func (r *SessionRepo) Get(ctx context.Context, id int64) (*Session, error) {
	const q = `
select id, user_id, coalesce(front_file_id,''), coalesce(profile_file_id,''),
       status, coalesce(result_json,'null'::jsonb), coalesce(report_text,''),
       created_at, finished_at
from sessions where id = $1`
	var s Session
	err := r.DB.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.UserID, &s.FrontFileID, &s.ProfileFileID,
		&s.Status, &s.ResultJSON, &s.ReportText,
		&s.CreatedAt, &s.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepo) SetFrontPhoto(ctx context.Context, id int64, fileID string) error {
	_, err := r.DB.ExecContext(ctx, `update sessions set front_file_id = $2 where id = $1`, id, fileID)
	return err
}

func (r *SessionRepo) SetProfilePhoto(ctx context.Context, id int64, fileID string) error {
	_, err := r.DB.ExecContext(ctx, `update sessions set profile_file_id = $2 where id = $1`, id, fileID)
	return err
}

func (r *SessionRepo) SetStatus(ctx context.Context, id int64, status string) error {
	_, err := r.DB.ExecContext(ctx, `update sessions set status = $2 where id = $1`, id, status)
	return err
}

// Finish записывает результат анализа и отчёт, помечает сессию done.
// result сериализуется в jsonb.
func (r *SessionRepo) Finish(ctx context.Context, id int64, result any, report string) error {
	js, err := jsonx.Marshal(result)
	if err != nil {
		return err
	}
	const q = `
update sessions set status = $2, result_json = $3, report_text = $4, finished_at = now()
where id = $1`
	_, err = r.DB.ExecContext(ctx, q, id, SessionDone, js, report)
	return err
}

func (r *SessionRepo) Fail(ctx context.Context, id int64) error {
	const q = `update sessions set status = $2, finished_at = now() where id = $1`
	_, err := r.DB.ExecContext(ctx, q, id, SessionFailed)
	return err
}

// LastDone — последняя завершённая сессия пользователя (контекст для чата).
func (r *SessionRepo) LastDone(ctx context.Context, userID int64) (*Session, error) {
	const q = `
select id, user_id, coalesce(front_file_id,''), coalesce(profile_file_id,''),
       status, coalesce(result_json,'null'::jsonb), coalesce(report_text,''),
       created_at, finished_at
from sessions
where user_id = $1 and status = 'done'
order by finished_at desc
limit 1`
	var s Session
	err := r.DB.QueryRowContext(ctx, q, userID).Scan(
		&s.ID, &s.UserID, &s.FrontFileID, &s.ProfileFileID,
		&s.Status, &s.ResultJSON, &s.ReportText,
		&s.CreatedAt, &s.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

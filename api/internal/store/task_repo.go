package store

import (
	"context"
	"database/sql"
	"time"
)

const (
	TaskPending    = "pending"
	TaskProcessing = "processing"
	TaskDone       = "done"
	TaskFailed     = "failed"
)

type TaskRepo struct{ DB *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{DB: db} }

type Task struct {
	ID           int64
	SessionID    int64
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

func (r *TaskRepo) Create(ctx context.Context, sessionID int64) (int64, error) {
	const q = `insert into tasks (session_id) values ($1) returning id`
	var id int64
	err := r.DB.QueryRowContext(ctx, q, sessionID).Scan(&id)
	return id, err
}

func (r *TaskRepo) Start(ctx context.Context, id int64) error {
	const q = `update tasks set status = $2, started_at = now() where id = $1`
	_, err := r.DB.ExecContext(ctx, q, id, TaskProcessing)
	return err
}

func (r *TaskRepo) Done(ctx context.Context, id int64) error {
	const q = `update tasks set status = $2, finished_at = now() where id = $1`
	_, err := r.DB.ExecContext(ctx, q, id, TaskDone)
	return err
}

func (r *TaskRepo) Fail(ctx context.Context, id int64, msg string) error {
	const q = `update tasks set status = $2, error_message = $3, finished_at = now() where id = $1`
	_, err := r.DB.ExecContext(ctx, q, id, TaskFailed, msg)
	return err
}

// BySession — задача по сессии (последняя, если их несколько после ретраев).
func (r *TaskRepo) BySession(ctx context.Context, sessionID int64) (*Task, error) {
	const q = `
select id, session_id, status, coalesce(error_message,''), created_at, started_at, finished_at
from tasks where session_id = $1
order by created_at desc limit 1`
	var t Task
	err := r.DB.QueryRowContext(ctx, q, sessionID).Scan(
		&t.ID, &t.SessionID, &t.Status, &t.ErrorMessage, &t.CreatedAt, &t.StartedAt, &t.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

package store

import (
	"context"
	"database/sql"
)

var ErrNotFound = sql.ErrNoRows

// Setup создаёт таблицы, если их ещё нет. Миграционный движок не тащим:
// схема маленькая, добавочные колонки едут через ALTER ... IF NOT EXISTS.
func Setup(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`create table if not exists users (
			id bigint primary key,
			username text not null default '',
			is_active boolean not null default true,
			is_active_until timestamptz,
			analyses_left int not null default 0,
			messages_left int not null default 0,
			is_ambassador boolean not null default false,
			referred_by_id bigint,
			referral_payout_pending boolean not null default false,
			created_at timestamptz not null default now(),
			updated_at timestamptz not null default now()
		)`,
		`create table if not exists sessions (
			id bigserial primary key,
			user_id bigint not null references users(id),
			front_file_id text,
			profile_file_id text,
			status text not null default 'pending',
			result_json jsonb,
			report_text text,
			created_at timestamptz not null default now(),
			finished_at timestamptz
		)`,
		`create table if not exists tasks (
			id bigserial primary key,
			session_id bigint not null references sessions(id),
			status text not null default 'pending',
			error_message text,
			created_at timestamptz not null default now(),
			started_at timestamptz,
			finished_at timestamptz
		)`,
		`alter table if exists users add column if not exists is_ambassador boolean default false`,
		`alter table if exists users add column if not exists referred_by_id bigint`,
		`alter table if exists users add column if not exists referral_payout_pending boolean default false`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

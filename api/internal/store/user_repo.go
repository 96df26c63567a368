package store

import (
	"context"
	"database/sql"
	"time"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

type User struct {
	ID                    int64
	Username              string
	IsActive              bool
	IsActiveUntil         *time.Time
	AnalysesLeft          int
	MessagesLeft          int
	IsAmbassador          bool
	ReferredByID          *int64
	ReferralPayoutPending bool
	CreatedAt             time.Time
}

// Subscribed — активна ли подписка на момент now.
func (u *User) Subscribed(now time.Time) bool {
	return u.IsActive && u.IsActiveUntil != nil && u.IsActiveUntil.After(now)
}

// Upsert регистрирует пользователя при первом /start и обновляет username.
// referredBy записывается только при создании — реферала задним числом не меняем.
func (r *UserRepo) Upsert(ctx context.Context, id int64, username string, referredBy *int64) error {
	const q = `
insert into users (id, username, referred_by_id)
values ($1, $2, $3)
on conflict (id) do update set username = excluded.username, updated_at = now()`
	_, err := r.DB.ExecContext(ctx, q, id, username, referredBy)
	return err
}

func (r *UserRepo) Get(ctx context.Context, id int64) (*User, error) {
	const q = `
select id, coalesce(username,''), is_active, is_active_until,
       analyses_left, messages_left, is_ambassador, referred_by_id,
       referral_payout_pending, created_at
from users where id = $1`
	var u User
	err := r.DB.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Username, &u.IsActive, &u.IsActiveUntil,
		&u.AnalysesLeft, &u.MessagesLeft, &u.IsAmbassador, &u.ReferredByID,
		&u.ReferralPayoutPending, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Grant продлевает подписку и начисляет квоты. Если подписка ещё активна —
// новый срок отсчитывается от её конца, а не от now.
func (r *UserRepo) Grant(ctx context.Context, id int64, days, analyses, messages int) error {
	const q = `
update users set
	is_active = true,
	is_active_until = greatest(coalesce(is_active_until, now()), now()) + make_interval(days => $2),
	analyses_left = analyses_left + $3,
	messages_left = messages_left + $4,
	updated_at = now()
where id = $1`
	res, err := r.DB.ExecContext(ctx, q, id, days, analyses, messages)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) Revoke(ctx context.Context, id int64) error {
	const q = `
update users set is_active_until = null, analyses_left = 0, messages_left = 0, updated_at = now()
where id = $1`
	res, err := r.DB.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementAnalyses атомарно списывает одну попытку анализа.
// false — квота уже исчерпана.
func (r *UserRepo) DecrementAnalyses(ctx context.Context, id int64) (bool, error) {
	const q = `update users set analyses_left = analyses_left - 1, updated_at = now()
where id = $1 and analyses_left > 0`
	res, err := r.DB.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *UserRepo) DecrementMessages(ctx context.Context, id int64) (bool, error) {
	const q = `update users set messages_left = messages_left - 1, updated_at = now()
where id = $1 and messages_left > 0`
	res, err := r.DB.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ExpiringIn возвращает активных пользователей, у которых подписка
// заканчивается ровно через daysLeft дней (для напоминаний).
func (r *UserRepo) ExpiringIn(ctx context.Context, daysLeft int) ([]User, error) {
	const q = `
select id, coalesce(username,''), is_active, is_active_until,
       analyses_left, messages_left, is_ambassador, referred_by_id,
       referral_payout_pending, created_at
from users
where is_active
  and is_active_until >= date_trunc('day', now()) + make_interval(days => $1)
  and is_active_until <  date_trunc('day', now()) + make_interval(days => $1 + 1)`
	rows, err := r.DB.QueryContext(ctx, q, daysLeft)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.IsActive, &u.IsActiveUntil,
			&u.AnalysesLeft, &u.MessagesLeft, &u.IsAmbassador, &u.ReferredByID,
			&u.ReferralPayoutPending, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// MarkReferralPayout помечает амбассадора: за оплатившего реферала положена выплата.
func (r *UserRepo) MarkReferralPayout(ctx context.Context, ambassadorID int64) error {
	const q = `update users set referral_payout_pending = true, updated_at = now()
where id = $1 and is_ambassador`
	_, err := r.DB.ExecContext(ctx, q, ambassadorID)
	return err
}

type Stats struct {
	TotalUsers     int
	ActiveSubs     int
	SessionsToday  int
	PendingPayouts int
}

func (r *UserRepo) Stats(ctx context.Context) (Stats, error) {
	const q = `
select
	(select count(*) from users),
	(select count(*) from users where is_active and is_active_until > now()),
	(select count(*) from sessions where created_at >= date_trunc('day', now())),
	(select count(*) from users where referral_payout_pending)`
	var s Stats
	err := r.DB.QueryRowContext(ctx, q).Scan(&s.TotalUsers, &s.ActiveSubs, &s.SessionsToday, &s.PendingPayouts)
	return s, err
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// AppendBooking adds an entry to the user's booking log. Entries are never merged.
	AppendBooking(ctx context.Context, userID string, booking domain.UserBooking) error
	// ToggleFavourite flips membership and reports whether the event is now a favourite.
	ToggleFavourite(ctx context.Context, userID, eventID string) (bool, error)
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) Create(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRow(ctx, `INSERT INTO users (id, username, email, phone_number) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		u.ID, u.Username, u.Email, u.PhoneNumber).Scan(&u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *PGUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}

	var u domain.User
	err := r.db.QueryRow(ctx, `SELECT id, username, email, phone_number, created_at FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PhoneNumber, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	favRows, err := r.db.Query(ctx, `SELECT event_id FROM user_favourites WHERE user_id=$1 ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("list favourites: %w", err)
	}
	u.Favourites, err = pgx.CollectRows(favRows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan favourites: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT id, event_id, quantity, total_paid_cents, booked_at FROM user_bookings WHERE user_id=$1 ORDER BY booked_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b domain.UserBooking
		if err := rows.Scan(&b.ID, &b.EventID, &b.Quantity, &b.TotalPaidCents, &b.BookedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		u.Bookings = append(u.Bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return &u, nil
}

func (r *PGUserRepository) AppendBooking(ctx context.Context, userID string, b domain.UserBooking) error {
	if !validID(userID) {
		return domain.ErrUserNotFound
	}
	_, err := conn(ctx, r.db).Exec(ctx, `INSERT INTO user_bookings (id, user_id, event_id, quantity, total_paid_cents, booked_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, b.ID, userID, b.EventID, b.Quantity, b.TotalPaidCents, b.BookedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("append booking: %w", err)
	}
	return nil
}

func (r *PGUserRepository) ToggleFavourite(ctx context.Context, userID, eventID string) (bool, error) {
	if !validID(userID) {
		return false, domain.ErrUserNotFound
	}
	if !validID(eventID) {
		return false, domain.ErrEventNotFound
	}

	var favourited bool
	err := withTx(ctx, r.db, func(ctx context.Context) error {
		q := conn(ctx, r.db)
		tag, err := q.Exec(ctx, `DELETE FROM user_favourites WHERE user_id=$1 AND event_id=$2`, userID, eventID)
		if err != nil {
			return fmt.Errorf("remove favourite: %w", err)
		}
		if tag.RowsAffected() > 0 {
			favourited = false
			return nil
		}
		if _, err := q.Exec(ctx, `INSERT INTO user_favourites (user_id, event_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, eventID); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrEventNotFound
			}
			return fmt.Errorf("add favourite: %w", err)
		}
		favourited = true
		return nil
	})
	return favourited, err
}

var _ UserRepository = (*PGUserRepository)(nil)

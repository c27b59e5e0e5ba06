package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	GetDetails(ctx context.Context, id string) (*domain.EventDetails, error)
	List(ctx context.Context) ([]domain.Event, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Event, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Event, error)
	// Reserve decrements the inventory only if enough tickets remain and
	// merges the purchase into the attendee ledger, atomically.
	Reserve(ctx context.Context, in domain.ReserveInput) (int, error)
}

type PGEventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) EventRepository {
	return &PGEventRepository{db: db}
}

const eventColumns = `id, owner_id, title, type, date_posted, event_date, start_time, end_time, location, price_cents,
	description, performers, booking_phone_number, background_image, ticket_image, ticket_quantity,
	initial_ticket_quantity, created_at, updated_at`

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	err := row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Type, &e.DatePosted, &e.EventDate, &e.StartTime, &e.EndTime,
		&e.Location, &e.PriceCents, &e.Description, &e.Performers, &e.BookingPhoneNumber, &e.BackgroundImage,
		&e.TicketImage, &e.TicketQuantity, &e.InitialTicketQuantity, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *PGEventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.Performers == nil {
		e.Performers = []string{}
	}
	err := r.db.QueryRow(ctx, `INSERT INTO events (id, owner_id, title, type, date_posted, event_date, start_time, end_time,
		location, price_cents, description, performers, booking_phone_number, background_image, ticket_image,
		ticket_quantity, initial_ticket_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`,
		e.ID, e.OwnerID, e.Title, e.Type, e.DatePosted, e.EventDate, e.StartTime, e.EndTime, e.Location, e.PriceCents,
		e.Description, e.Performers, e.BookingPhoneNumber, e.BackgroundImage, e.TicketImage, e.TicketQuantity,
		e.InitialTicketQuantity).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *PGEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if !validID(id) {
		return nil, domain.ErrEventNotFound
	}
	q := conn(ctx, r.db)
	e, err := scanEvent(q.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	rows, err := q.Query(ctx, `SELECT user_id, quantity, total_paid_cents FROM event_attendees WHERE event_id=$1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a domain.Attendee
		if err := rows.Scan(&a.UserID, &a.Quantity, &a.TotalPaidCents); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		e.Attendees = append(e.Attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return &e, nil
}

func (r *PGEventRepository) GetDetails(ctx context.Context, id string) (*domain.EventDetails, error) {
	if !validID(id) {
		return nil, domain.ErrEventNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id=$1`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	details := &domain.EventDetails{Event: e}
	if err := r.db.QueryRow(ctx, `SELECT username FROM users WHERE id=$1`, e.OwnerID).Scan(&details.OwnerUsername); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get owner: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT a.user_id, a.quantity, a.total_paid_cents, COALESCE(u.username, '')
		FROM event_attendees a LEFT JOIN users u ON u.id = a.user_id
		WHERE a.event_id=$1 ORDER BY a.id`, id)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v domain.AttendeeView
		if err := rows.Scan(&v.UserID, &v.Quantity, &v.TotalPaidCents, &v.Username); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		details.Attendees = append(details.Attendees, v)
		details.Event.Attendees = append(details.Event.Attendees, v.Attendee)
	}
	return details, rows.Err()
}

func (r *PGEventRepository) List(ctx context.Context) ([]domain.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events ORDER BY event_date, created_at`)
}

func (r *PGEventRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Event, error) {
	if !validID(ownerID) {
		return []domain.Event{}, nil
	}
	return r.list(ctx, `SELECT `+eventColumns+` FROM events WHERE owner_id=$1 ORDER BY event_date, created_at`, ownerID)
}

func (r *PGEventRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Event, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []domain.Event{}, nil
	}
	return r.list(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ANY($1::uuid[]) ORDER BY event_date, created_at`, valid)
}

func (r *PGEventRepository) list(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PGEventRepository) Reserve(ctx context.Context, in domain.ReserveInput) (int, error) {
	if !validID(in.EventID) {
		return 0, domain.ErrEventNotFound
	}

	var remaining int
	err := withTx(ctx, r.db, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		err := q.QueryRow(ctx, `UPDATE events SET ticket_quantity = ticket_quantity - $2, updated_at = now()
			WHERE id=$1 AND ticket_quantity >= $2 RETURNING ticket_quantity`, in.EventID, in.Quantity).Scan(&remaining)
		if errors.Is(err, pgx.ErrNoRows) {
			var current int
			if err := q.QueryRow(ctx, `SELECT ticket_quantity FROM events WHERE id=$1`, in.EventID).Scan(&current); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domain.ErrEventNotFound
				}
				return fmt.Errorf("read remaining tickets: %w", err)
			}
			return &domain.InsufficientInventoryError{Remaining: current}
		}
		if err != nil {
			return fmt.Errorf("decrement tickets: %w", err)
		}

		if _, err := q.Exec(ctx, `INSERT INTO event_attendees (event_id, user_id, quantity, total_paid_cents)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (event_id, user_id) DO UPDATE SET
				quantity = event_attendees.quantity + EXCLUDED.quantity,
				total_paid_cents = event_attendees.total_paid_cents + EXCLUDED.total_paid_cents`,
			in.EventID, in.UserID, in.Quantity, in.TotalPaidCents); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("upsert attendee: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

var _ EventRepository = (*PGEventRepository)(nil)

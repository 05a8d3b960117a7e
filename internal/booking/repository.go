package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// Decide moves a WAITING booking to status atomically. A booking that is
	// no longer WAITING yields ErrAlreadyDecided. With rejectOverlap set, an
	// approval overlapping another approved booking of the same item yields
	// ErrTimeConflict.
	Decide(ctx context.Context, id string, status Status, rejectOverlap bool) (*Booking, error)

	// LastApproved returns the approved booking of the item with the latest
	// start not after now, or nil.
	LastApproved(ctx context.Context, itemID string, now time.Time) (*Booking, error)
	// NextApproved returns the approved booking of the item with the
	// earliest start after now, or nil.
	NextApproved(ctx context.Context, itemID string, now time.Time) (*Booking, error)
	// HasCompleted reports whether the booker has an approved booking of the
	// item that ended before now.
	HasCompleted(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
	"b.start_time", "b.end_time", "b.status", "b.created_at", "b.updated_at",
}

func selectBookings(extra ...string) squirrel.SelectBuilder {
	cols := append(append([]string{}, bookingColumns...), extra...)
	return psql.Select(cols...).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	var status string
	dest := []any{
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &status, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	b.Status = Status(status)
	b.Start = b.Start.UTC()
	b.End = b.End.UTC()
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, string(b.Status)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

// statePredicate is the SQL form of Matches.
func statePredicate(state State, now time.Time) (squirrel.Sqlizer, error) {
	switch state {
	case StateAll:
		return nil, nil
	case StateCurrent:
		return squirrel.And{
			squirrel.LtOrEq{"b.start_time": now},
			squirrel.GtOrEq{"b.end_time": now},
		}, nil
	case StatePast:
		return squirrel.And{
			squirrel.Lt{"b.end_time": now},
			squirrel.Eq{"b.status": string(StatusApproved)},
		}, nil
	case StateFuture:
		return squirrel.Gt{"b.start_time": now}, nil
	case StateWaiting:
		return squirrel.Eq{"b.status": string(StatusWaiting)}, nil
	case StateRejected:
		return squirrel.Eq{"b.status": string(StatusRejected)}, nil
	default:
		return nil, ErrUnknownState(string(state))
	}
}

// listQuery selects one page of bookings seen by a booker or an item owner,
// newest start first, with the unpaged total as the last column.
func listQuery(filter Filter) (squirrel.SelectBuilder, error) {
	query := selectBookings("count(*) OVER() AS total_count")

	switch {
	case filter.BookerID != "":
		query = query.Where(squirrel.Eq{"b.booker_id": filter.BookerID})
	case filter.OwnerID != "":
		query = query.Where(squirrel.Eq{"i.owner_id": filter.OwnerID})
	default:
		return query, errors.New("list bookings requires a booker or an owner")
	}

	pred, err := statePredicate(filter.State, filter.Now)
	if err != nil {
		return query, err
	}
	if pred != nil {
		query = query.Where(pred)
	}

	query = query.OrderBy("b.start_time DESC", "b.id DESC")
	if filter.Page.Limit > 0 {
		query = query.Limit(uint64(filter.Page.Limit)).Offset(uint64(filter.Page.Offset))
	}
	return query, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query, err := listQuery(filter)
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) Decide(ctx context.Context, id string, status Status, rejectOverlap bool) (*Booking, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var (
			itemID     string
			current    string
			start, end time.Time
		)
		err := tx.QueryRow(ctx,
			`SELECT item_id, status, start_time, end_time FROM public.bookings WHERE id = $1 FOR UPDATE`,
			id,
		).Scan(&itemID, &current, &start, &end)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock booking failed: %w", err)
		}

		if !Status(current).CanTransitionTo(status) {
			return ErrAlreadyDecided
		}

		if rejectOverlap && status == StatusApproved {
			// Approvals of one item serialize on the item row.
			if _, err := tx.Exec(ctx, `SELECT 1 FROM public.items WHERE id = $1 FOR UPDATE`, itemID); err != nil {
				return fmt.Errorf("lock item failed: %w", err)
			}

			var conflict bool
			err := tx.QueryRow(ctx,
				`SELECT EXISTS (
					SELECT 1 FROM public.bookings
					WHERE item_id = $1 AND id <> $2 AND status = $3
					  AND start_time < $5 AND end_time > $4
				)`,
				itemID, id, string(StatusApproved), start, end,
			).Scan(&conflict)
			if err != nil {
				return fmt.Errorf("check overlapping bookings failed: %w", err)
			}
			if conflict {
				return ErrTimeConflict
			}
		}

		_, err = tx.Exec(ctx,
			`UPDATE public.bookings SET status = $1, updated_at = now() WHERE id = $2`,
			string(status), id,
		)
		if err != nil {
			return fmt.Errorf("update booking status failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func lastApprovedQuery(itemID string, now time.Time) squirrel.SelectBuilder {
	return selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID, "b.status": string(StatusApproved)}).
		Where(squirrel.LtOrEq{"b.start_time": now}).
		OrderBy("b.start_time DESC", "b.id DESC").
		Limit(1)
}

func nextApprovedQuery(itemID string, now time.Time) squirrel.SelectBuilder {
	return selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID, "b.status": string(StatusApproved)}).
		Where(squirrel.Gt{"b.start_time": now}).
		OrderBy("b.start_time ASC", "b.id ASC").
		Limit(1)
}

func (r *pgxRepository) LastApproved(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	return r.first(ctx, lastApprovedQuery(itemID, now))
}

func (r *pgxRepository) NextApproved(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	return r.first(ctx, nextApprovedQuery(itemID, now))
}

func (r *pgxRepository) first(ctx context.Context, query squirrel.SelectBuilder) (*Booking, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) HasCompleted(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{
			"booker_id": bookerID,
			"item_id":   itemID,
			"status":    string(StatusApproved),
		}).
		Where(squirrel.Lt{"end_time": now}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build completed rental query failed: %w", err)
	}

	var ok bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("check completed rental failed: %w", err)
	}
	return ok, nil
}

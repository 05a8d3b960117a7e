package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// ItemCatalog resolves items for booking.
type ItemCatalog interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
}

// UserDirectory resolves users taking part in bookings.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// TransitionRecorder counts bookings entering a status.
type TransitionRecorder interface {
	BookingTransition(status string)
}

type CreateRequest struct {
	BookerID string
	ItemID   string
	Start    time.Time
	End      time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	UpdateStatus(ctx context.Context, actorID, id string, approve bool) (*Booking, error)
	GetByID(ctx context.Context, actorID, id string) (*Booking, error)
	ListByBooker(ctx context.Context, actorID string, state State, page Page) ([]*Booking, int, error)
	ListByOwner(ctx context.Context, actorID string, state State, page Page) ([]*Booking, int, error)
}

type service struct {
	repo    Repository
	items   ItemCatalog
	users   UserDirectory
	policy  Policy
	metrics TransitionRecorder
	log     *slog.Logger
	now     func() time.Time
}

type Option func(*service)

// WithClock replaces the wall clock used for state classification.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithMetrics counts bookings entering each status.
func WithMetrics(m TransitionRecorder) Option {
	return func(s *service) { s.metrics = m }
}

func NewService(repo Repository, items ItemCatalog, users UserDirectory, policy Policy, log *slog.Logger, opts ...Option) Service {
	s := &service{
		repo:   repo,
		items:  items,
		users:  users,
		policy: policy,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if !req.Start.Before(req.End) {
		return nil, ErrInvalidTimeRange
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if !it.Available {
		return nil, ErrItemUnavailable
	}

	booker, err := s.lookupUser(ctx, req.BookerID)
	if err != nil {
		return nil, err
	}
	if booker.ID == it.OwnerID {
		return nil, s.policy.ownItemErr()
	}

	b := &Booking{
		ItemID:      it.ID,
		ItemName:    it.Name,
		ItemOwnerID: it.OwnerID,
		BookerID:    booker.ID,
		BookerName:  booker.Name,
		Start:       req.Start.UTC(),
		End:         req.End.UTC(),
		Status:      StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingTransition(string(StatusWaiting))
	}
	s.log.InfoContext(ctx, "booking created",
		slog.String("booking_id", b.ID),
		slog.String("item_id", b.ItemID),
		slog.String("booker_id", b.BookerID),
	)
	return b, nil
}

func (s *service) UpdateStatus(ctx context.Context, actorID, id string, approve bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.ItemOwnerID != actorID {
		return nil, s.policy.ownerOnlyErr()
	}

	next := StatusRejected
	if approve {
		next = StatusApproved
	}
	if !b.Status.CanTransitionTo(next) {
		return nil, ErrAlreadyDecided
	}

	// The store re-checks the status under a row lock, so a concurrent
	// decision that got there first still surfaces as ErrAlreadyDecided.
	decided, err := s.repo.Decide(ctx, id, next, s.policy.RejectOverlappingApprovals)
	if err != nil {
		if errors.Is(err, ErrAlreadyDecided) || errors.Is(err, ErrTimeConflict) {
			s.log.WarnContext(ctx, "booking decision refused",
				slog.String("booking_id", id),
				slog.String("status", string(next)),
				slog.Any("error", err),
			)
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingTransition(string(decided.Status))
	}
	s.log.InfoContext(ctx, "booking decided",
		slog.String("booking_id", decided.ID),
		slog.String("status", string(decided.Status)),
	)
	return decided, nil
}

func (s *service) GetByID(ctx context.Context, actorID, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != b.BookerID && actorID != b.ItemOwnerID {
		return nil, s.policy.notParticipantErr()
	}
	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, actorID string, state State, page Page) ([]*Booking, int, error) {
	if _, err := s.lookupUser(ctx, actorID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, Filter{BookerID: actorID, State: state, Now: s.now(), Page: page})
}

func (s *service) ListByOwner(ctx context.Context, actorID string, state State, page Page) ([]*Booking, int, error) {
	if _, err := s.lookupUser(ctx, actorID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, Filter{OwnerID: actorID, State: state, Now: s.now(), Page: page})
}

func (s *service) lookupUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

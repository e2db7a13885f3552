package usecase

import (
	"context"
	"sync"
	"time"

	"car-rental/internal/data/entity"

	"github.com/google/uuid"
)

// In-memory repository fakes. They hold state behind a mutex so the
// concurrency tests exercise the same interleavings the real storage would.

type fakeCarRepo struct {
	mu   sync.Mutex
	cars map[uuid.UUID]*entity.Car

	findErr error
}

func newFakeCarRepo() *fakeCarRepo {
	return &fakeCarRepo{cars: make(map[uuid.UUID]*entity.Car)}
}

func (f *fakeCarRepo) Create(ctx context.Context, car *entity.Car) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *car
	f.cars[car.ID] = &c
	return nil
}

func (f *fakeCarRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	car, ok := f.cars[id]
	if !ok {
		return nil, nil
	}
	c := *car
	return &c, nil
}

func (f *fakeCarRepo) FindAllAvailable(ctx context.Context) ([]*entity.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Car
	for _, car := range f.cars {
		if car.IsAvailable && car.OwnerID != nil {
			c := *car
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeCarRepo) FindAvailableByLocation(ctx context.Context, location string) ([]*entity.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Car
	for _, car := range f.cars {
		if car.Location == location && car.IsAvailable && car.OwnerID != nil {
			c := *car
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeCarRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Car
	for _, car := range f.cars {
		if car.OwnerID != nil && *car.OwnerID == ownerID {
			c := *car
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeCarRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	cars, _ := f.FindByOwner(ctx, ownerID)
	return int64(len(cars)), nil
}

func (f *fakeCarRepo) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if car, ok := f.cars[id]; ok {
		car.IsAvailable = available
	}
	return nil
}

func (f *fakeCarRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if car, ok := f.cars[id]; ok {
		car.OwnerID = nil
		car.IsAvailable = false
	}
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*entity.Booking

	// overlapDelay stretches FindOverlapping to widen race windows.
	overlapDelay time.Duration
	// overlapErrFor fails FindOverlapping for a specific car.
	overlapErrFor map[uuid.UUID]error
	createErr     error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{overlapErrFor: make(map[uuid.UUID]error)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b := *booking
	f.bookings = append(f.bookings, &b)
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			c := *b
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindOverlapping(ctx context.Context, carID uuid.UUID, pickup, ret time.Time) ([]*entity.Booking, error) {
	if err := f.overlapErrFor[carID]; err != nil {
		return nil, err
	}
	if f.overlapDelay > 0 {
		time.Sleep(f.overlapDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.CarID == carID && b.Overlaps(pickup, ret) {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindByRenter(ctx context.Context, renterID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*entity.Booking
	for _, b := range f.bookings {
		if b.RenterID == renterID {
			c := *b
			all = append(all, &c)
		}
	}
	return page(all, limit, offset), nil
}

func (f *fakeBookingRepo) CountByRenter(ctx context.Context, renterID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.bookings {
		if b.RenterID == renterID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*entity.Booking
	for _, b := range f.bookings {
		if b.OwnerID == ownerID {
			c := *b
			all = append(all, &c)
		}
	}
	return page(all, limit, offset), nil
}

func (f *fakeBookingRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.bookings {
		if b.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) CountByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status entity.BookingStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.bookings {
		if b.OwnerID == ownerID && b.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) SumRevenueByOwnerSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum float64
	for _, b := range f.bookings {
		if b.OwnerID == ownerID && b.Status == entity.BookingStatusConfirmed && !b.CreatedAt.Before(since) {
			sum += b.Price
		}
	}
	return sum, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == bookingID {
			b.Status = status
			return nil
		}
	}
	return nil
}

func (f *fakeBookingRepo) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bookings)
}

func page(all []*entity.Booking, limit, offset int) []*entity.Booking {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	f.users[user.ID] = &u
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	u := *user
	return &u, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	f.users[user.ID] = &u
	return nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role entity.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		user.Role = role
	}
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := *session
	f.sessions[session.Token] = &s
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}
	session, ok := f.sessions[tokenUUID]
	if !ok || session.RevokedAt != nil || session.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	s := *session
	return &s, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return nil
	}
	if session, ok := f.sessions[tokenUUID]; ok {
		now := time.Now()
		session.RevokedAt = &now
	}
	return nil
}

func (f *fakeSessionRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, session := range f.sessions {
		if session.UserID == userID {
			session.RevokedAt = &now
		}
	}
	return nil
}

package usecase

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"time"

	"parking-booking/internal/data/entity"
	"parking-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memDB backs the fake repositories. StartActive is deliberately not
// atomic: it counts, yields, then inserts, so only a caller side lock keeps
// capacity intact.
type memDB struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	sessions map[uuid.UUID]*entity.Session
	stations map[uuid.UUID]*entity.Station
	bookings map[uuid.UUID]*entity.Booking

	failBookings error
}

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[uuid.UUID]*entity.Session),
		stations: make(map[uuid.UUID]*entity.Station),
		bookings: make(map[uuid.UUID]*entity.Booking),
	}
}

func (db *memDB) repository() *repository.Repository {
	return &repository.Repository{
		User:    &fakeUserRepo{db},
		Session: &fakeSessionRepo{db},
		Station: &fakeStationRepo{db},
		Booking: &fakeBookingRepo{db},
	}
}

func (db *memDB) activeCount(stationID uuid.UUID, vt entity.VehicleType) int {
	n := 0
	for _, b := range db.bookings {
		if b.StationID == stationID && b.VehicleType == vt && b.IsActive() {
			n++
		}
	}
	return n
}

// ---- users ----

type fakeUserRepo struct{ db *memDB }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Phone == user.Phone {
			return repository.ErrDuplicatePhone
		}
	}
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var all []*entity.User
	for _, u := range r.db.users {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.users)), nil
}

// ---- sessions ----

type fakeSessionRepo struct{ db *memDB }

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *session
	r.db.sessions[session.Token] = &cp
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[token]
	if !ok || !s.Valid(time.Now()) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[token]
	if !ok || s.RevokedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

// ---- stations ----

type fakeStationRepo struct{ db *memDB }

func (r *fakeStationRepo) Create(_ context.Context, station *entity.Station) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *station
	r.db.stations[station.ID] = &cp
	return nil
}

func (r *fakeStationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Station, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stations[id]
	if !ok || s.Deleted() {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStationRepo) live() []*entity.Station {
	var out []*entity.Station
	for _, s := range r.db.stations {
		if !s.Deleted() {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out
}

func (r *fakeStationRepo) FindAll(_ context.Context, limit, offset int, _ *string) ([]*entity.Station, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := r.live()
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *fakeStationRepo) CountAll(_ context.Context, _ *string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.live())), nil
}

func (r *fakeStationRepo) FindEnabledFor(_ context.Context, vt entity.VehicleType) ([]*entity.Station, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Station
	for _, s := range r.live() {
		if cfg, ok := s.ConfigFor(vt); ok && cfg.Enabled {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeStationRepo) Update(_ context.Context, station *entity.Station) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stations[station.ID]
	if !ok || s.Deleted() {
		return repository.ErrNotFound
	}
	cp := *station
	r.db.stations[station.ID] = &cp
	return nil
}

func (r *fakeStationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stations[id]
	if !ok || s.Deleted() {
		return repository.ErrNotFound
	}
	for _, b := range r.db.bookings {
		if b.StationID == id && b.IsActive() {
			return repository.ErrStationHasActiveBookings
		}
	}
	now := time.Now()
	s.DeletedAt = &now
	return nil
}

// ---- bookings ----

type fakeBookingRepo struct{ db *memDB }

func (r *fakeBookingRepo) StartActive(_ context.Context, stationID uuid.UUID, vt entity.VehicleType, build repository.StartFunc) (*entity.Booking, error) {
	r.db.mu.Lock()
	if r.db.failBookings != nil {
		r.db.mu.Unlock()
		return nil, r.db.failBookings
	}
	s, ok := r.db.stations[stationID]
	if !ok || s.Deleted() {
		r.db.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	station := *s
	active := r.db.activeCount(stationID, vt)
	r.db.mu.Unlock()

	runtime.Gosched()

	booking, err := build(&station, active)
	if err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.bookings {
		if b.UserID == booking.UserID && b.IsActive() {
			return nil, repository.ErrActiveBookingExists
		}
	}
	cp := *booking
	r.db.bookings[booking.ID] = &cp
	return booking, nil
}

func (r *fakeBookingRepo) FindActiveByUser(_ context.Context, userID uuid.UUID) (*entity.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failBookings != nil {
		return nil, r.db.failBookings
	}
	for _, b := range r.db.bookings {
		if b.UserID == userID && b.IsActive() {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindActiveByIDAndUser(_ context.Context, id, userID uuid.UUID) (*entity.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.bookings[id]
	if !ok || b.UserID != userID || !b.IsActive() {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) Complete(_ context.Context, booking *entity.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.bookings[booking.ID]
	if !ok || b.UserID != booking.UserID || !b.IsActive() {
		return repository.ErrNotFound
	}
	b.EndTime = booking.EndTime
	b.TotalHours = booking.TotalHours
	b.TotalAmount = booking.TotalAmount
	b.Status = entity.BookingStatusCompleted
	b.UpdatedAt = booking.UpdatedAt
	return nil
}

func (r *fakeBookingRepo) CountActiveByStation(_ context.Context, vt entity.VehicleType) (map[uuid.UUID]int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	counts := make(map[uuid.UUID]int)
	for _, b := range r.db.bookings {
		if b.VehicleType == vt && b.IsActive() {
			counts[b.StationID]++
		}
	}
	return counts, nil
}

func (r *fakeBookingRepo) FindHistoryByUser(_ context.Context, userID uuid.UUID) ([]*entity.BookingHistory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.BookingHistory
	for _, b := range r.db.bookings {
		if b.UserID != userID {
			continue
		}
		h := &entity.BookingHistory{Booking: *b}
		if s, ok := r.db.stations[b.StationID]; ok {
			h.StationName, h.StationPlace = s.Name, s.Place
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---- cache and events ----

type fakeCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entity.Booking
	done    map[uuid.UUID]bool
	sets    int
	deletes int
	err     error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[uuid.UUID]*entity.Booking),
		done:    make(map[uuid.UUID]bool),
	}
}

func (c *fakeCache) Get(_ context.Context, userID uuid.UUID) (*entity.Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	b, ok := c.entries[userID]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (c *fakeCache) Set(_ context.Context, booking *entity.Booking) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.err != nil {
		return c.err
	}
	if c.done[booking.ID] {
		return nil
	}
	cp := *booking
	c.entries[booking.UserID] = &cp
	return nil
}

func (c *fakeCache) Delete(_ context.Context, booking *entity.Booking) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	c.done[booking.ID] = true
	delete(c.entries, booking.UserID)
	return c.err
}

type fakeEvents struct {
	mu        sync.Mutex
	started   []uuid.UUID
	completed []uuid.UUID
	err       error
}

func (e *fakeEvents) BookingStarted(_ context.Context, b *entity.Booking) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = append(e.started, b.ID)
	return e.err
}

func (e *fakeEvents) BookingCompleted(_ context.Context, b *entity.Booking) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completed = append(e.completed, b.ID)
	return e.err
}

// ---- fixtures ----

type fixture struct {
	db     *memDB
	cache  *fakeCache
	events *fakeEvents
	svc    *bookingService
	clock  *testClock
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFixture() *fixture {
	db := newMemDB()
	cache := newFakeCache()
	events := &fakeEvents{}
	clock := &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	svc := newBookingService(db.repository(), cache, events, zap.NewNop())
	svc.now = clock.Now

	return &fixture{db: db, cache: cache, events: events, svc: svc, clock: clock}
}

func (f *fixture) addUser(vt entity.VehicleType) *entity.User {
	u := &entity.User{
		Phone:         uuid.NewString()[:12],
		VehicleNumber: "KA01AB1234",
		VehicleType:   vt,
		Role:          entity.RoleUser,
	}
	u.ID = uuid.New()
	u.CreatedAt = f.clock.Now()
	f.db.users[u.ID] = u
	return u
}

func (f *fixture) addStation(name string, two, four entity.SlotConfig) *entity.Station {
	s := &entity.Station{Name: name, Place: "Central", TwoWheeler: two, FourWheeler: four}
	s.ID = uuid.New()
	s.CreatedAt = f.clock.Now()
	f.db.stations[s.ID] = s
	return s
}

// lotA offers 4W only: 2 slots at 10/h, EV at 12/h.
func (f *fixture) lotA() *entity.Station {
	return f.addStation("Lot A",
		entity.SlotConfig{},
		entity.SlotConfig{Enabled: true, Slots: 2, RatePerHour: 10, EVEnabled: true, EVRatePerHour: 12},
	)
}

var errDatabaseDown = errors.New("database down")

package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
	"github.com/sm8ta/webike_rental_microservice/internal/core/ports"
)

// memStore implements the three repository ports in memory. CreateRental and
// UpdateRental run their checks under one lock like the postgres transaction.
type memStore struct {
	mu           sync.Mutex
	bikes        []*domain.Bike
	customers    []*domain.Customer
	rentals      []*domain.Rental
	beforeUpdate func(rental *domain.Rental) error
}

func newMemStore() *memStore {
	return &memStore{}
}

func cloneRental(r *domain.Rental) *domain.Rental {
	c := *r
	if r.End != nil {
		end := *r.End
		c.End = &end
	}
	return &c
}

func (m *memStore) CreateBike(_ context.Context, bike *domain.Bike) (*domain.Bike, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := *bike
	m.bikes = append(m.bikes, &b)
	return bike, nil
}

func (m *memStore) GetBikeByID(_ context.Context, bikeID uuid.UUID) (*domain.Bike, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bikes {
		if b.ID == bikeID {
			c := *b
			return &c, nil
		}
	}
	return nil, domain.NewNotFound(domain.EntityBike, bikeID)
}

func (m *memStore) ListBikes(_ context.Context) ([]*domain.Bike, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Bike, 0, len(m.bikes))
	for _, b := range m.bikes {
		c := *b
		out = append(out, &c)
	}
	return out, nil
}

func (m *memStore) UpdateBike(_ context.Context, bike *domain.Bike) (*domain.Bike, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bikes {
		if b.ID == bike.ID {
			c := *bike
			m.bikes[i] = &c
			return bike, nil
		}
	}
	return nil, domain.NewNotFound(domain.EntityBike, bike.ID)
}

func (m *memStore) DeleteBike(_ context.Context, bikeID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bikes {
		if b.ID == bikeID {
			m.bikes = append(m.bikes[:i], m.bikes[i+1:]...)
			m.rentals = dropRentals(m.rentals, func(r *domain.Rental) bool { return r.BikeID == bikeID })
			return nil
		}
	}
	return domain.NewNotFound(domain.EntityBike, bikeID)
}

func (m *memStore) CreateCustomer(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *customer
	m.customers = append(m.customers, &c)
	return customer, nil
}

func (m *memStore) GetCustomerByID(_ context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.ID == customerID {
			cc := *c
			return &cc, nil
		}
	}
	return nil, domain.NewNotFound(domain.EntityCustomer, customerID)
}

func (m *memStore) ListCustomers(_ context.Context, lastName string) ([]*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Customer
	for _, c := range m.customers {
		if lastName == "" || c.LastName == lastName {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (m *memStore) UpdateCustomer(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.customers {
		if c.ID == customer.ID {
			cc := *customer
			m.customers[i] = &cc
			return customer, nil
		}
	}
	return nil, domain.NewNotFound(domain.EntityCustomer, customer.ID)
}

func (m *memStore) DeleteCustomer(_ context.Context, customerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.customers {
		if c.ID == customerID {
			m.customers = append(m.customers[:i], m.customers[i+1:]...)
			m.rentals = dropRentals(m.rentals, func(r *domain.Rental) bool { return r.CustomerID == customerID })
			return nil
		}
	}
	return domain.NewNotFound(domain.EntityCustomer, customerID)
}

func dropRentals(rentals []*domain.Rental, drop func(r *domain.Rental) bool) []*domain.Rental {
	kept := rentals[:0]
	for _, r := range rentals {
		if !drop(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

func (m *memStore) CreateRental(_ context.Context, rental *domain.Rental) (*domain.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rentals {
		if r.CustomerID == rental.CustomerID && r.IsOpen() {
			return nil, domain.NewConflict(domain.EntityCustomer, rental.CustomerID, domain.RuleActiveRentalExists)
		}
		if r.BikeID == rental.BikeID && r.BlocksBike() {
			return nil, domain.NewConflict(domain.EntityBike, rental.BikeID, domain.RuleBikeNotAvailable)
		}
	}
	m.rentals = append(m.rentals, cloneRental(rental))
	return cloneRental(rental), nil
}

func (m *memStore) GetRentalByID(_ context.Context, rentalID uuid.UUID) (*domain.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rentals {
		if r.ID == rentalID {
			return cloneRental(r), nil
		}
	}
	return nil, domain.NewNotFound(domain.EntityRental, rentalID)
}

func (m *memStore) GetRentalsByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Rental, error) {
	return m.ListRentals(ctx, domain.RentalFilter{CustomerID: customerID})
}

func (m *memStore) GetRentalsByBikeID(ctx context.Context, bikeID uuid.UUID) ([]*domain.Rental, error) {
	return m.ListRentals(ctx, domain.RentalFilter{BikeID: bikeID})
}

func (m *memStore) ListRentals(_ context.Context, filter domain.RentalFilter) ([]*domain.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Rental
	for _, r := range m.rentals {
		if filter.CustomerID != uuid.Nil && r.CustomerID != filter.CustomerID {
			continue
		}
		if filter.BikeID != uuid.Nil && r.BikeID != filter.BikeID {
			continue
		}
		if filter.OpenOnly && !r.IsOpen() {
			continue
		}
		out = append(out, cloneRental(r))
	}
	return out, nil
}

func (m *memStore) ListUnpaidRentals(_ context.Context) ([]*domain.UnpaidRental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.UnpaidRental
	for _, r := range m.rentals {
		if !r.Outstanding() {
			continue
		}
		view := &domain.UnpaidRental{
			CustomerID: r.CustomerID,
			RentalID:   r.ID,
			Begin:      r.Begin,
			End:        *r.End,
			TotalCost:  r.TotalCost.Decimal,
		}
		for _, c := range m.customers {
			if c.ID == r.CustomerID {
				view.FirstName, view.LastName = c.FirstName, c.LastName
			}
		}
		out = append(out, view)
	}
	return out, nil
}

func (m *memStore) UpdateRental(_ context.Context, rental *domain.Rental) (*domain.Rental, error) {
	if m.beforeUpdate != nil {
		if err := m.beforeUpdate(rental); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rentals {
		if r.ID != rental.ID {
			continue
		}
		if r.Version != rental.Version {
			return nil, domain.NewConcurrency(domain.EntityRental, rental.ID)
		}
		stored := cloneRental(rental)
		stored.Version++
		m.rentals[i] = stored
		return cloneRental(stored), nil
	}
	return nil, domain.NewNotFound(domain.EntityRental, rental.ID)
}

func (m *memStore) DeleteRental(_ context.Context, rentalID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.rentals)
	m.rentals = dropRentals(m.rentals, func(r *domain.Rental) bool { return r.ID == rentalID })
	if len(m.rentals) == before {
		return domain.NewNotFound(domain.EntityRental, rentalID)
	}
	return nil
}

func (m *memStore) addBike(firstHour, additionalHours string) *domain.Bike {
	bike := &domain.Bike{
		ID:                   uuid.New(),
		Brand:                "Gazelle",
		PurchaseDate:         time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		Category:             domain.Trekking,
		PriceFirstHour:       decimal.RequireFromString(firstHour),
		PriceAdditionalHours: decimal.RequireFromString(additionalHours),
	}
	_, _ = m.CreateBike(context.Background(), bike)
	return bike
}

func (m *memStore) addCustomer(firstName, lastName string) *domain.Customer {
	customer := &domain.Customer{
		ID:        uuid.New(),
		Gender:    domain.Unknown,
		FirstName: firstName,
		LastName:  lastName,
	}
	_, _ = m.CreateCustomer(context.Background(), customer)
	return customer
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return value, nil
}

func (c *memCache) Set(key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memCache) Incr(key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	if value, ok := c.entries[key]; ok {
		parsed, err := strconv.ParseInt(string(value), 10, 64)
		if err != nil {
			return 0, err
		}
		n = parsed
	}
	n++
	c.entries[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (c *memCache) generation() int64 {
	n, _ := availabilityGeneration(c)
	return n
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

var (
	_ ports.BikeService     = (*BikeService)(nil)
	_ ports.CustomerService = (*CustomerService)(nil)
	_ ports.RentalService   = (*RentalService)(nil)
	_ ports.PaymentService  = (*PaymentService)(nil)

	_ ports.BikeRepository     = (*memStore)(nil)
	_ ports.CustomerRepository = (*memStore)(nil)
	_ ports.RentalRepository   = (*memStore)(nil)
	_ ports.CachePort          = (*memCache)(nil)
)

package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/repository"
)

var errUnknownTarget = errors.New("unknown rating target")

// Marketplace holds users, products, histories and ratings as id-indexed
// tables. Relationships are plain id lookups.
type Marketplace struct {
	mu sync.RWMutex

	users       map[int64]model.User
	categories  map[int64]model.Category
	brands      map[int64]model.Brand
	products    map[int64]model.Product
	specs       map[int64]model.Specs
	gear        model.GearOptions
	histories   map[int64]*model.RentalHistory
	ratings     map[int64]model.Rating
	submissions map[uuid.UUID]int64

	lastID int64
}

func NewMarketplace() *Marketplace {
	return &Marketplace{
		users:       map[int64]model.User{},
		categories:  map[int64]model.Category{},
		brands:      map[int64]model.Brand{},
		products:    map[int64]model.Product{},
		specs:       map[int64]model.Specs{},
		gear:        gearOptions,
		histories:   map[int64]*model.RentalHistory{},
		ratings:     map[int64]model.Rating{},
		submissions: map[uuid.UUID]int64{},
	}
}

func (m *Marketplace) nextID() int64 {
	m.lastID++
	return m.lastID
}

func sortedKeys[V any](table map[int64]V) []int64 {
	ids := make([]int64, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Users

func (m *Marketplace) AddUser(u model.User) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.ID = m.nextID()
	m.users[u.ID] = u
	return u.ID
}

// CreateUser stores u unless its email, compared without case, is taken.
func (m *Marketplace) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.users {
		if strings.EqualFold(other.Email, u.Email) {
			return repository.ErrConflict
		}
	}
	u.ID = m.nextID()
	m.users[u.ID] = *u
	return nil
}

func (m *Marketplace) UserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range sortedKeys(m.users) {
		if strings.EqualFold(m.users[id].Email, email) {
			return m.users[id], nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *Marketplace) User(_ context.Context, id int64) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *Marketplace) PostalCodesInUse(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[string]struct{}{}
	codes := []string{}
	for _, id := range sortedKeys(m.users) {
		code := m.users[id].PostalCode
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

func (m *Marketplace) UsersInPostalCodes(_ context.Context, codes []string) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		wanted[c] = struct{}{}
	}

	var users []model.User
	for _, id := range sortedKeys(m.users) {
		if _, ok := wanted[m.users[id].PostalCode]; ok {
			users = append(users, m.users[id])
		}
	}
	return users, nil
}

// Deactivate delists every product of the user and marks the user inactive.
func (m *Marketplace) Deactivate(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, p := range m.products {
		if p.OwnerID == userID {
			p.Available = false
			m.products[id] = p
		}
	}
	u.Active = false
	m.users[userID] = u
	return nil
}

// Catalog

func (m *Marketplace) AddCategory(name string, kind model.GearKind) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID()
	m.categories[id] = model.Category{ID: id, Name: name, Kind: kind}
	return id
}

func (m *Marketplace) GearOptions(_ context.Context) (model.GearOptions, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.gear, nil
}

func (m *Marketplace) Categories(_ context.Context) ([]model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Category, 0, len(m.categories))
	for _, id := range sortedKeys(m.categories) {
		out = append(out, m.categories[id])
	}
	return out, nil
}

func (m *Marketplace) Category(_ context.Context, id int64) (model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return model.Category{}, repository.ErrNotFound
	}
	return c, nil
}

func (m *Marketplace) Brands(_ context.Context) ([]model.Brand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Brand, 0, len(m.brands))
	for _, id := range sortedKeys(m.brands) {
		out = append(out, m.brands[id])
	}
	return out, nil
}

func (m *Marketplace) Brand(_ context.Context, id int64) (model.Brand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.brands[id]
	if !ok {
		return model.Brand{}, repository.ErrNotFound
	}
	return b, nil
}

// CreateBrand returns the id of the brand called name, creating it first
// when it does not exist yet.
func (m *Marketplace) CreateBrand(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.brandID(name), nil
}

func (m *Marketplace) brandID(name string) int64 {
	for id, b := range m.brands {
		if b.Name == name {
			return id
		}
	}
	id := m.nextID()
	m.brands[id] = model.Brand{ID: id, Name: name}
	return id
}

// Products

func (m *Marketplace) CreateProduct(ctx context.Context, p *model.Product) error {
	return m.CreateListing(ctx, p, "")
}

// CreateListing stores p with its specs, creating newBrand first when it is
// not empty.
func (m *Marketplace) CreateListing(_ context.Context, p *model.Product, newBrand string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if newBrand != "" {
		p.BrandID = m.brandID(newBrand)
	}
	p.ID = m.nextID()
	m.store(*p)
	return nil
}

// UpdateListing replaces a stored product and its specs.
func (m *Marketplace) UpdateListing(_ context.Context, p *model.Product, newBrand string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	if newBrand != "" {
		p.BrandID = m.brandID(newBrand)
	}
	m.store(*p)
	return nil
}

// store keeps the specs apart so listings read in bulk come without them.
func (m *Marketplace) store(p model.Product) {
	if p.Specs != nil {
		m.specs[p.ID] = *p.Specs
	} else {
		delete(m.specs, p.ID)
	}
	p.Specs = nil
	m.products[p.ID] = p
}

// Product returns the product with its specs.
func (m *Marketplace) Product(_ context.Context, id int64) (model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	if specs, ok := m.specs[id]; ok {
		p.Specs = &specs
	}
	return p, nil
}

func (m *Marketplace) SetAvailable(_ context.Context, productID int64, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Available = available
	m.products[productID] = p
	return nil
}

func (m *Marketplace) ProductsByOwner(ctx context.Context, ownerID int64) ([]model.Product, error) {
	return m.ProductsByOwners(ctx, []int64{ownerID})
}

func (m *Marketplace) ProductsByOwners(_ context.Context, ownerIDs []int64) ([]model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		wanted[id] = struct{}{}
	}

	var out []model.Product
	for _, id := range sortedKeys(m.products) {
		if _, ok := wanted[m.products[id].OwnerID]; ok {
			out = append(out, m.products[id])
		}
	}
	return out, nil
}

// Histories

// CreateRental stores h and takes the product off the market. It fails with
// ErrConflict when the product is no longer available.
func (m *Marketplace) CreateRental(_ context.Context, h *model.RentalHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[h.ProductID]
	if !ok {
		return repository.ErrNotFound
	}
	if !p.Available {
		return repository.ErrConflict
	}
	p.Available = false
	m.products[p.ID] = p

	h.ID = m.nextID()
	stored := *h
	m.histories[h.ID] = &stored
	return nil
}

func (m *Marketplace) History(_ context.Context, id int64) (model.RentalHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.histories[id]
	if !ok {
		return model.RentalHistory{}, repository.ErrNotFound
	}
	return *h, nil
}

func (m *Marketplace) filterHistories(keep func(h *model.RentalHistory) bool) []model.RentalHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.RentalHistory
	for _, id := range sortedKeys(m.histories) {
		if h := m.histories[id]; keep(h) {
			out = append(out, *h)
		}
	}
	return out
}

func (m *Marketplace) HistoriesForProducts(_ context.Context, productIDs []int64) ([]model.RentalHistory, error) {
	wanted := make(map[int64]struct{}, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = struct{}{}
	}
	return m.filterHistories(func(h *model.RentalHistory) bool {
		_, ok := wanted[h.ProductID]
		return ok
	}), nil
}

func (m *Marketplace) HistoriesByProduct(ctx context.Context, productID int64) ([]model.RentalHistory, error) {
	return m.HistoriesForProducts(ctx, []int64{productID})
}

func (m *Marketplace) HistoriesByRenter(_ context.Context, renterID int64) ([]model.RentalHistory, error) {
	return m.filterHistories(func(h *model.RentalHistory) bool {
		return h.RenterID == renterID
	}), nil
}

// Ratings

// AttachRating stores r and links it to the history. A submission id seen
// before returns the rating stored the first time; a link that is already
// set is never replaced.
func (m *Marketplace) AttachRating(_ context.Context, historyID int64, target model.RatingTarget, r *model.Rating) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.submissions[r.SubmissionID]; ok {
		return id, nil
	}

	h, ok := m.histories[historyID]
	if !ok {
		return 0, repository.ErrNotFound
	}

	var link **int64
	switch target {
	case model.RateOwner:
		link = &h.OwnerRatingID
	case model.RateRenter:
		link = &h.RenterRatingID
	case model.RateProduct:
		link = &h.ProductRatingID
	default:
		return 0, errUnknownTarget
	}
	if *link != nil {
		return 0, repository.ErrConflict
	}

	r.ID = m.nextID()
	m.ratings[r.ID] = *r
	m.submissions[r.SubmissionID] = r.ID
	id := r.ID
	*link = &id
	return r.ID, nil
}

func (m *Marketplace) Ratings(_ context.Context, ids []int64) ([]model.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Rating, 0, len(ids))
	for _, id := range ids {
		if r, ok := m.ratings[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

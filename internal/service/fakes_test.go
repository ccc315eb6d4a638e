package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"store_rating/internal/model"
	"store_rating/internal/repository"
)

// memDB is an in-memory stand-in for the database. mu guards the maps only;
// storeLocks play the part of the store row locks taken by LockStore.
type memDB struct {
	mu         sync.Mutex
	storeLocks map[int]*sync.Mutex

	users   map[int]*model.User
	stores  map[int]*model.Store
	ratings map[[2]int]*model.Rating

	nextUserID   int
	nextStoreID  int
	nextRatingID int64

	failScoreTotals  error
	failDeactivation error

	// onUpsert runs inside the rating tx, with the store lock held
	onUpsert func(storeID int)
}

func newMemDB() *memDB {
	return &memDB{
		storeLocks: map[int]*sync.Mutex{},
		users:      map[int]*model.User{},
		stores:     map[int]*model.Store{},
		ratings:    map[[2]int]*model.Rating{},
	}
}

func (db *memDB) storeLock(id int) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	mu, ok := db.storeLocks[id]
	if !ok {
		mu = &sync.Mutex{}
		db.storeLocks[id] = mu
	}
	return mu
}

func (db *memDB) allocRatingID() int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextRatingID++
	return db.nextRatingID
}

func (db *memDB) addUser(name, email, role string) *model.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextUserID++
	u := &model.User{ID: db.nextUserID, Name: name, Email: email, Role: role, IsActive: true}
	db.users[u.ID] = u
	return u
}

func (db *memDB) addStore(name string, owner *model.User) *model.Store {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextStoreID++
	s := &model.Store{ID: db.nextStoreID, Name: name, OwnerID: owner.ID, IsActive: true}
	db.stores[s.ID] = s
	id := s.ID
	owner.StoreID = &id
	return s
}

func (db *memDB) store(id int) model.Store {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.stores[id]
}

func (db *memDB) ratingCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.ratings)
}

type fakeRatings struct{ db *memDB }

// InTx only serializes transactions that lock the same store. Ledger writes
// against a store the tx has not locked fail, and writes are applied only
// when fn succeeds.
func (f fakeRatings) InTx(ctx context.Context, fn func(tx repository.RatingTx) error) error {
	tx := &fakeRatingTx{db: f.db, locked: map[int]*lockedStore{}}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type lockedStore struct {
	mu      *sync.Mutex
	row     *model.Store
	ratings map[int]*model.Rating
}

type fakeRatingTx struct {
	db     *memDB
	locked map[int]*lockedStore
}

func (t *fakeRatingTx) held(storeID int) (*lockedStore, error) {
	ls, ok := t.locked[storeID]
	if !ok {
		return nil, fmt.Errorf("store %d not locked", storeID)
	}
	return ls, nil
}

func (t *fakeRatingTx) release() {
	for _, ls := range t.locked {
		ls.mu.Unlock()
	}
}

func (t *fakeRatingTx) commit() {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	for id, ls := range t.locked {
		if ls.row != nil {
			cp := *ls.row
			t.db.stores[id] = &cp
		}
		for key := range t.db.ratings {
			if key[1] == id {
				delete(t.db.ratings, key)
			}
		}
		for userID, r := range ls.ratings {
			t.db.ratings[[2]int{userID, id}] = r
		}
	}
}

func (t *fakeRatingTx) LockStore(ctx context.Context, storeID int) (*model.Store, error) {
	if ls, ok := t.locked[storeID]; ok {
		if ls.row == nil {
			return nil, nil
		}
		cp := *ls.row
		return &cp, nil
	}

	mu := t.db.storeLock(storeID)
	mu.Lock()

	t.db.mu.Lock()
	ls := &lockedStore{mu: mu, ratings: map[int]*model.Rating{}}
	if s, ok := t.db.stores[storeID]; ok {
		cp := *s
		ls.row = &cp
	}
	for key, r := range t.db.ratings {
		if key[1] == storeID {
			cp := *r
			ls.ratings[key[0]] = &cp
		}
	}
	t.db.mu.Unlock()
	t.locked[storeID] = ls

	if ls.row == nil {
		return nil, nil
	}
	cp := *ls.row
	return &cp, nil
}

func (t *fakeRatingTx) Upsert(ctx context.Context, rating *model.Rating) (bool, error) {
	ls, err := t.held(rating.StoreID)
	if err != nil {
		return false, err
	}
	if hook := t.db.onUpsert; hook != nil {
		hook(rating.StoreID)
	}

	now := time.Now()
	if existing, ok := ls.ratings[rating.UserID]; ok {
		existing.Rating = rating.Rating
		if rating.Comment != nil {
			existing.Comment = rating.Comment
		}
		existing.UpdatedAt = now
		*rating = *existing
		return false, nil
	}
	rating.ID = t.db.allocRatingID()
	rating.CreatedAt, rating.UpdatedAt = now, now
	cp := *rating
	ls.ratings[rating.UserID] = &cp
	return true, nil
}

func (t *fakeRatingTx) Delete(ctx context.Context, userID, storeID int) (bool, error) {
	ls, err := t.held(storeID)
	if err != nil {
		return false, err
	}
	if _, ok := ls.ratings[userID]; !ok {
		return false, nil
	}
	delete(ls.ratings, userID)
	return true, nil
}

func (t *fakeRatingTx) ScoreTotals(ctx context.Context, storeID int) (int, int, error) {
	ls, err := t.held(storeID)
	if err != nil {
		return 0, 0, err
	}
	if t.db.failScoreTotals != nil {
		return 0, 0, t.db.failScoreTotals
	}
	var sum int
	for _, r := range ls.ratings {
		sum += r.Rating
	}
	return len(ls.ratings), sum, nil
}

func (t *fakeRatingTx) SetAggregate(ctx context.Context, storeID int, agg model.StoreAggregate) error {
	ls, err := t.held(storeID)
	if err != nil {
		return err
	}
	if ls.row == nil {
		return errors.New("store not found for aggregate update")
	}
	ls.row.AverageRating = agg.AverageRating
	ls.row.TotalRatings = agg.TotalRatings
	return nil
}

func (f fakeRatings) FindByUserAndStore(ctx context.Context, userID, storeID int) (*model.Rating, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	r, ok := f.db.ratings[[2]int{userID, storeID}]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f fakeRatings) FindByUserForStores(ctx context.Context, userID int, storeIDs []int) (map[int]*model.Rating, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := map[int]*model.Rating{}
	for _, id := range storeIDs {
		if r, ok := f.db.ratings[[2]int{userID, id}]; ok {
			cp := *r
			out[id] = &cp
		}
	}
	return out, nil
}

func (f fakeRatings) ListByStore(ctx context.Context, storeID int, _ model.Sort, page model.Page) ([]model.RatingWithUser, int, error) {
	all, err := f.RecentByStore(ctx, storeID, 0)
	if err != nil {
		return nil, 0, err
	}
	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f fakeRatings) RecentByStore(ctx context.Context, storeID, limit int) ([]model.RatingWithUser, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.RatingWithUser
	for key, r := range f.db.ratings {
		if key[1] != storeID {
			continue
		}
		rw := model.RatingWithUser{Rating: *r}
		if u, ok := f.db.users[r.UserID]; ok {
			rw.User = model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		out = append(out, rw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeRatings) Count(ctx context.Context) (int, error) {
	return f.db.ratingCount(), nil
}

type fakeUsers struct{ db *memDB }

func (f fakeUsers) Create(ctx context.Context, user *model.User) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.Email == user.Email {
			return &repository.DuplicateError{Constraint: repository.ConstraintUserEmail}
		}
	}
	f.db.nextUserID++
	user.ID = f.db.nextUserID
	user.IsActive = true
	cp := *user
	f.db.users[user.ID] = &cp
	return nil
}

func (f fakeUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeUsers) FindByID(ctx context.Context, id int) (*model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) FindDetailByID(ctx context.Context, id int) (*model.UserDetail, error) {
	u, err := f.FindByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	detail := &model.UserDetail{User: *u}
	if u.StoreID != nil {
		s := f.db.store(*u.StoreID)
		detail.Store = &model.StoreSummary{ID: s.ID, Name: s.Name, AverageRating: s.AverageRating}
	}
	return detail, nil
}

func (f fakeUsers) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return errors.New("user not found for password update")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f fakeUsers) List(ctx context.Context, filters model.UserFilters) ([]model.UserDetail, int, error) {
	return nil, 0, errors.New("not used")
}

func (f fakeUsers) CountActive(ctx context.Context) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n := 0
	for _, u := range f.db.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

func (f fakeUsers) DeactivateWithStore(ctx context.Context, userID int, storeID *int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.failDeactivation != nil {
		return f.db.failDeactivation
	}
	f.db.users[userID].IsActive = false
	if storeID != nil {
		f.db.stores[*storeID].IsActive = false
	}
	return nil
}

type fakeStores struct{ db *memDB }

func (f fakeStores) FindByID(ctx context.Context, id int) (*model.StoreWithOwner, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.stores[id]
	if !ok {
		return nil, nil
	}
	out := &model.StoreWithOwner{Store: *s}
	if u, ok := f.db.users[s.OwnerID]; ok {
		out.Owner = &model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return out, nil
}

func (f fakeStores) FindByEmail(ctx context.Context, email string) (*model.Store, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, s := range f.db.stores {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeStores) List(ctx context.Context, filters model.StoreFilters) ([]model.StoreWithOwner, int, error) {
	f.db.mu.Lock()
	var ids []int
	for id, s := range f.db.stores {
		if s.IsActive {
			ids = append(ids, id)
		}
	}
	f.db.mu.Unlock()
	sort.Ints(ids)

	out := make([]model.StoreWithOwner, 0, len(ids))
	for _, id := range ids {
		s, _ := f.FindByID(ctx, id)
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (f fakeStores) CountActive(ctx context.Context) (int, error) {
	_, n, err := f.List(ctx, model.StoreFilters{})
	return n, err
}

func (f fakeStores) CreateWithOwner(ctx context.Context, store *model.Store, owner *model.User) error {
	if err := (fakeUsers{db: f.db}).Create(ctx, owner); err != nil {
		return err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.nextStoreID++
	store.ID = f.db.nextStoreID
	store.OwnerID = owner.ID
	store.IsActive = true
	cp := *store
	f.db.stores[store.ID] = &cp
	id := store.ID
	owner.StoreID = &id
	f.db.users[owner.ID].StoreID = &id
	return nil
}

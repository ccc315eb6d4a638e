package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"store_rating/internal/logger"
	"store_rating/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ratingFixture struct {
	db      *memDB
	service RatingService
	owner   *model.User
	store   *model.Store
}

func newRatingFixture(t *testing.T) *ratingFixture {
	t.Helper()
	db := newMemDB()
	owner := db.addUser("Store Owner Of The Corner Shop", "owner@example.com", model.RoleStoreOwner)
	store := db.addStore("Corner Coffee Roasters Ltd", owner)
	svc := NewRatingService(fakeRatings{db}, fakeUsers{db}, fakeStores{db}, nil, logger.NewNop())
	return &ratingFixture{db: db, service: svc, owner: owner, store: store}
}

func (f *ratingFixture) submit(t *testing.T, userID, score int) bool {
	t.Helper()
	_, created, err := f.service.SubmitRating(context.Background(), userID, model.SubmitRatingRequest{StoreID: f.store.ID, Rating: score})
	require.NoError(t, err)
	return created
}

func TestSubmitRating_AggregateFollowsLedger(t *testing.T) {
	f := newRatingFixture(t)
	alice := f.db.addUser("Alice Wonderland Normal User", "alice@example.com", model.RoleUser)
	bob := f.db.addUser("Bob Builder The Normal User", "bob@example.com", model.RoleUser)

	assert.True(t, f.submit(t, alice.ID, 5))
	s := f.db.store(f.store.ID)
	assert.Equal(t, model.Decimal2(5.00), s.AverageRating)
	assert.Equal(t, 1, s.TotalRatings)

	assert.False(t, f.submit(t, alice.ID, 3))
	s = f.db.store(f.store.ID)
	assert.Equal(t, model.Decimal2(3.00), s.AverageRating)
	assert.Equal(t, 1, s.TotalRatings)

	assert.True(t, f.submit(t, bob.ID, 4))
	s = f.db.store(f.store.ID)
	assert.Equal(t, model.Decimal2(3.50), s.AverageRating)
	assert.Equal(t, 2, s.TotalRatings)
}

func TestSubmitRating_ResubmitKeepsOneRow(t *testing.T) {
	f := newRatingFixture(t)
	alice := f.db.addUser("Alice Wonderland Normal User", "alice@example.com", model.RoleUser)

	f.submit(t, alice.ID, 4)
	f.submit(t, alice.ID, 4)

	assert.Equal(t, 1, f.db.ratingCount())
	assert.Equal(t, 1, f.db.store(f.store.ID).TotalRatings)
}

func TestSubmitRating_NilCommentKeepsPrevious(t *testing.T) {
	f := newRatingFixture(t)
	alice := f.db.addUser("Alice Wonderland Normal User", "alice@example.com", model.RoleUser)
	comment := "Lovely place"

	_, _, err := f.service.SubmitRating(context.Background(), alice.ID, model.SubmitRatingRequest{StoreID: f.store.ID, Rating: 4, Comment: &comment})
	require.NoError(t, err)
	rating, created, err := f.service.SubmitRating(context.Background(), alice.ID, model.SubmitRatingRequest{StoreID: f.store.ID, Rating: 2})
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, 2, rating.Rating)
	require.NotNil(t, rating.Comment)
	assert.Equal(t, comment, *rating.Comment)
}

func TestSubmitRating_RejectsInvalidInput(t *testing.T) {
	f := newRatingFixture(t)
	long := strings.Repeat("é", model.MaxCommentLength+1)

	tests := []struct {
		name string
		req  model.SubmitRatingRequest
		want error
	}{
		{"score too low", model.SubmitRatingRequest{StoreID: f.store.ID, Rating: 0}, ErrInvalidRating},
		{"score too high", model.SubmitRatingRequest{StoreID: f.store.ID, Rating: 6}, ErrInvalidRating},
		{"comment too long", model.SubmitRatingRequest{StoreID: f.store.ID, Rating: 3, Comment: &long}, ErrCommentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.service.SubmitRating(context.Background(), 42, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, KindInvalidInput, KindOf(err))
		})
	}
	assert.Equal(t, 0, f.db.ratingCount())
}

func TestSubmitRating_UnknownOrInactiveStore(t *testing.T) {
	f := newRatingFixture(t)
	alice := f.db.addUser("Alice Wonderland Normal User", "alice@example.com", model.RoleUser)

	_, _, err := f.service.SubmitRating(context.Background(), alice.ID, model.SubmitRatingRequest{StoreID: 999, Rating: 3})
	assert.ErrorIs(t, err, ErrStoreNotFound)

	f.db.stores[f.store.ID].IsActive = false
	_, _, err = f.service.SubmitRating(context.Background(), alice.ID, model.SubmitRatingRequest{StoreID: f.store.ID, Rating: 3})
	assert.ErrorIs(t, err, ErrStoreNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, 0, f.db.ratingCount())
}

func TestSubmitRating_RecomputeFailureRollsBack(t *testing.T) {
	f := newRatingFixture(t)
	alice := f.db.addUser("Alice Wonderland Normal User", "alice@example.com", model.RoleUser)
	bob := f.db.addUser("Bob Builder The Normal User", "bob@example.com", model.RoleUser)
	f.submit(t, alice.ID, 5)

	f.db.failScoreTotals = errors.New("connection reset")
	_, _, err := f.service.SubmitRating(context.Background(), bob.ID, model.SubmitRatingRequest{StoreID: f.store.ID, Rating: 1})

	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, 1, f.db.ratingCount())
	s := f.db.store(f.store.ID)
	assert.Equal(t, model.Decimal2(5.00), s.AverageRating)
	assert.Equal(t, 1, s.TotalRatings)
}

func TestSubmitRating_ConcurrentWritersConverge(t *testing.T) {
	f := newRatingFixture(t)
	const writers = 25

	users := make([]*model.User, writers)
	for i := range users {
		users[i] = f.db.addUser("Concurrent Rating Writer User", "writer"+string(rune('a'+i))+"@example.com", model.RoleUser)
	}

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	sum := 0
	for i, u := range users {
		score := i%5 + 1
		sum += score
		wg.Add(1)
		go func(userID, score int) {
			defer wg.Done()
			_, _, err := f.service.SubmitRating(context.Background(), userID, model.SubmitRatingRequest{StoreID: f.store.ID, Rating: score})
			errs <- err
		}(u.ID, score)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	s := f.db.store(f.store.ID)
	want := ComputeAggregate(writers, sum)
	assert.Equal(t, writers, s.TotalRatings)
	assert.Equal(t, want.AverageRating, s.AverageRating)
}

// blockFirstUpsert parks the first Upsert against storeID, store lock held,
// until release is closed.
func blockFirstUpsert(db *memDB, storeID int) (entered, release chan struct{}) {
	entered, release = make(chan struct{}), make(chan struct{})
	var once sync.Once
	db.onUpsert = func(id int) {
		if id != storeID {
			return
		}
		once.Do(func() {
			close(entered)
			<-release
		})
	}
	return entered, release
}

func TestSubmitRating_OtherStoreNotBlocked(t *testing.T) {
	f := newRatingFixture(t)
	otherOwner := f.db.addUser("Owner Of The Second Test Store", "owner2@example.com", model.RoleStoreOwner)
	other := f.db.addStore("Second Street Book Market", otherOwner)
	alice := f.db.addUser("Alice Wonderland Normal User", "alice@example.com", model.RoleUser)
	entered, release := blockFirstUpsert(f.db, f.store.ID)

	first := make(chan error, 1)
	go func() {
		_, _, err := f.service.SubmitRating(context.Background(), alice.ID, model.SubmitRatingRequest{StoreID: f.store.ID, Rating: 4})
		first <- err
	}()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first writer never reached the ledger")
	}

	second := make(chan error, 1)
	go func() {
		_, _, err := f.service.SubmitRating(context.Background(), alice.ID, model.SubmitRatingRequest{StoreID: other.ID, Rating: 2})
		second <- err
	}()
	select {
	case err := <-second:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("writer on another store waited for a lock it does not need")
	}

	close(release)
	require.NoError(t, <-first)
	assert.Equal(t, 1, f.db.store(f.store.ID).TotalRatings)
	assert.Equal(t, model.Decimal2(2.00), f.db.store(other.ID).AverageRating)
}

func TestSubmitRating_SameStoreWaitsForLock(t *testing.T) {
	f := newRatingFixture(t)
	alice := f.db.addUser("Alice Wonderland Normal User", "alice@example.com", model.RoleUser)
	bob := f.db.addUser("Bob Builder The Normal User", "bob@example.com", model.RoleUser)
	entered, release := blockFirstUpsert(f.db, f.store.ID)

	first := make(chan error, 1)
	go func() {
		_, _, err := f.service.SubmitRating(context.Background(), alice.ID, model.SubmitRatingRequest{StoreID: f.store.ID, Rating: 5})
		first <- err
	}()
	<-entered

	second := make(chan error, 1)
	go func() {
		_, _, err := f.service.SubmitRating(context.Background(), bob.ID, model.SubmitRatingRequest{StoreID: f.store.ID, Rating: 2})
		second <- err
	}()
	select {
	case <-second:
		close(release)
		t.Fatal("second writer finished while the store was locked")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-first)
	require.NoError(t, <-second)
	s := f.db.store(f.store.ID)
	assert.Equal(t, 2, s.TotalRatings)
	assert.Equal(t, model.Decimal2(3.50), s.AverageRating)
}

func TestDeleteRating_BackToZero(t *testing.T) {
	f := newRatingFixture(t)
	alice := f.db.addUser("Alice Wonderland Normal User", "alice@example.com", model.RoleUser)
	f.submit(t, alice.ID, 4)

	require.NoError(t, f.service.DeleteRating(context.Background(), alice.ID, f.store.ID))

	s := f.db.store(f.store.ID)
	assert.Equal(t, model.Decimal2(0), s.AverageRating)
	assert.Equal(t, 0, s.TotalRatings)
	assert.Equal(t, 0, f.db.ratingCount())
}

func TestDeleteRating_MissingIsNoop(t *testing.T) {
	f := newRatingFixture(t)

	assert.NoError(t, f.service.DeleteRating(context.Background(), 42, f.store.ID))
	assert.NoError(t, f.service.DeleteRating(context.Background(), 42, 999))
}

func TestStoreRatingsForOwner(t *testing.T) {
	f := newRatingFixture(t)
	alice := f.db.addUser("Alice Wonderland Normal User", "alice@example.com", model.RoleUser)
	bob := f.db.addUser("Bob Builder The Normal User", "bob@example.com", model.RoleUser)
	f.submit(t, alice.ID, 5)
	f.submit(t, bob.ID, 2)

	store, ratings, pagination, err := f.service.StoreRatingsForOwner(context.Background(), f.owner.ID,
		model.Sort{Field: "createdAt", Desc: true}, model.Page{Number: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, f.store.ID, store.ID)
	assert.Equal(t, model.Decimal2(3.50), store.AverageRating)
	assert.Len(t, ratings, 2)
	assert.Equal(t, 2, pagination.Total)
	assert.False(t, pagination.HasNext)
}

func TestStoreRatingsForOwner_NoStore(t *testing.T) {
	f := newRatingFixture(t)
	alice := f.db.addUser("Alice Wonderland Normal User", "alice@example.com", model.RoleUser)

	_, _, _, err := f.service.StoreRatingsForOwner(context.Background(), alice.ID, model.Sort{}, model.Page{Number: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrOwnerHasNoStore)

	f.db.stores[f.store.ID].IsActive = false
	_, _, _, err = f.service.StoreRatingsForOwner(context.Background(), f.owner.ID, model.Sort{}, model.Page{Number: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrOwnerHasNoStore)
}

package profiles

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-matcher/internal/colleges"
)

func newTestService() (*Service, *colleges.Service) {
	collegeSvc := colleges.NewService(colleges.NewMemoryRepo())
	return NewService(NewMemoryRepo(), collegeSvc), collegeSvc
}

func TestGetOrCreateDefaults(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.GetOrCreate(ctx, Owner{AccountID: "a-1", Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, "alice@example.com", p.Email)
	assert.Nil(t, p.CollegeID)

	q, err := svc.GetOrCreate(ctx, Owner{AccountID: "a-2", Username: "bob", FullName: "Bob Stone"})
	require.NoError(t, err)
	assert.Equal(t, "Bob Stone", q.Name)
	assert.Equal(t, "", q.Email)

	long, err := svc.GetOrCreate(ctx, Owner{AccountID: "a-3", Username: strings.Repeat("u", 150)})
	require.NoError(t, err)
	assert.Len(t, long.Name, maxNameLen)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := Owner{AccountID: "a-1", Username: "alice"}

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.GetOrCreate(ctx, owner)
			if err == nil {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.NotEmpty(t, ids[0])
}

func TestGetOrCreateDropsTakenEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, Owner{AccountID: "a-1", Username: "alice", Email: "shared@example.com"})
	require.NoError(t, err)
	p, err := svc.GetOrCreate(ctx, Owner{AccountID: "a-2", Username: "bob", Email: "shared@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "", p.Email)
}

func TestUpdateValidatesAndChecksCollege(t *testing.T) {
	svc, collegeSvc := newTestService()
	ctx := context.Background()
	_, err := svc.GetOrCreate(ctx, Owner{AccountID: "a-1", Username: "alice"})
	require.NoError(t, err)
	_, err = svc.GetOrCreate(ctx, Owner{AccountID: "a-2", Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "a-1", UpdateInput{Name: "", Email: "nope"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	missing := "missing"
	_, err = svc.Update(ctx, "a-1", UpdateInput{Name: "Alice", CollegeID: &missing})
	assert.ErrorIs(t, err, ErrUnknownCollege)

	_, err = svc.Update(ctx, "a-1", UpdateInput{Name: "Alice", Email: "bob@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	college, err := collegeSvc.Create(ctx, "MIT", "CS")
	require.NoError(t, err)
	p, err := svc.Update(ctx, "a-1", UpdateInput{Name: "Alice", Email: "alice@example.com", CollegeID: &college.ID})
	require.NoError(t, err)
	require.NotNil(t, p.CollegeID)
	assert.Equal(t, college.ID, *p.CollegeID)
}

func TestDeletingCollegeClearsProfiles(t *testing.T) {
	svc, collegeSvc := newTestService()
	collegeSvc.OnDeleted(svc.ClearCollege)
	ctx := context.Background()

	college, err := collegeSvc.Create(ctx, "MIT", "CS")
	require.NoError(t, err)
	_, err = svc.GetOrCreate(ctx, Owner{AccountID: "a-1", Username: "alice"})
	require.NoError(t, err)
	_, err = svc.AssignCollege(ctx, "a-1", &college.ID)
	require.NoError(t, err)

	require.NoError(t, collegeSvc.Delete(ctx, college.ID))

	p, err := svc.Get(ctx, "a-1")
	require.NoError(t, err)
	assert.Nil(t, p.CollegeID)
	assert.Equal(t, "alice", p.Name)
}

func TestDeleteByAccountToleratesMissing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.GetOrCreate(ctx, Owner{AccountID: "a-1", Username: "alice"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByAccount(ctx, "a-1"))
	require.NoError(t, svc.DeleteByAccount(ctx, "a-1"))
	_, err = svc.Get(ctx, "a-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

type accountSet map[string]bool

func (a accountSet) Exists(ctx context.Context, accountID string) (bool, error) {
	return a[accountID], nil
}

func TestGetOrCreateRefusesMissingAccount(t *testing.T) {
	svc, _ := newTestService()
	svc.Accounts = accountSet{"a-1": true}
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, Owner{AccountID: "a-1", Username: "alice"})
	require.NoError(t, err)

	_, err = svc.GetOrCreate(ctx, Owner{AccountID: "gone", Username: "bob"})
	assert.ErrorIs(t, err, ErrNoAccount)
	_, err = svc.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileLabel(t *testing.T) {
	p := Profile{Name: "Alice Liddell"}
	assert.Equal(t, "Alice Liddell (alice)", p.Label("alice"))
}

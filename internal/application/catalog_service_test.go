package application

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arcrobot/admin_backend/internal/arrayfield"
	"github.com/arcrobot/admin_backend/internal/domain"
	"github.com/arcrobot/admin_backend/internal/domain/domaintest"
	"github.com/arcrobot/admin_backend/internal/ranking"
	"github.com/arcrobot/admin_backend/internal/ranking/rankingtest"
)

func newCatalogService(t *testing.T, policy ranking.Policy) *CatalogService {
	t.Helper()
	store := rankingtest.NewStore()
	ranker := ranking.NewRanker(store, store, policy, zap.NewNop())
	return NewCatalogService(domaintest.NewCatalogs(store), ranker, &domaintest.Uploader{}, zap.NewNop())
}

func TestCatalogCreate(t *testing.T) {
	svc := newCatalogService(t, ranking.PolicyClamp)

	_, err := svc.Create(context.Background(), CreateCatalogInput{CatalogInput: CatalogInput{Name: "x"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	item, err := svc.Create(context.Background(), CreateCatalogInput{
		CatalogInput: CatalogInput{
			Name:         "Arm",
			Property:     `{"axes":6}`,
			Price:        "199.5",
			IsDiscount:   "true",
			DeliveryDays: "7",
			StorageDays:  "bad",
			Images:       strPtr(`{"http://x/old.jpg"}`),
		},
		OtherFiles: files("o.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, arrayfield.List{"http://x/old.jpg"}, item.Images)
	assert.Equal(t, arrayfield.List{"http://cdn/o.jpg"}, item.OtherImages)
	assert.Equal(t, arrayfield.Object{"axes": float64(6)}, item.Property)
	assert.Equal(t, 199.5, item.Price)
	assert.True(t, item.IsDiscount)
	assert.Equal(t, 7, item.DeliveryDays)
	assert.Equal(t, 0, item.StorageDays)
	assert.Equal(t, 1, item.OrderKey)
}

func TestCatalogCreateBadPropertyFallsBack(t *testing.T) {
	svc := newCatalogService(t, ranking.PolicyClamp)
	item, err := svc.Create(context.Background(), CreateCatalogInput{
		CatalogInput: CatalogInput{Property: "{broken"},
		Files:        files("a.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, arrayfield.Object{}, item.Property)
}

func TestCatalogUpdate(t *testing.T) {
	svc := newCatalogService(t, ranking.PolicyClamp)
	ctx := context.Background()
	item, err := svc.Create(ctx, CreateCatalogInput{
		CatalogInput: CatalogInput{Name: "Arm", Price: "10"},
		Files:        files("a.jpg", "b.jpg"),
		OtherFiles:   files("o.jpg"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, item.ID, UpdateCatalogInput{
		CatalogInput:       CatalogInput{Title: "New", OtherImages: strPtr("[]")},
		UpdatedImages:      files("r.jpg"),
		NewOtherImages:     files("n.jpg"),
		UpdatedOtherImages: files("u.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, arrayfield.List{"http://cdn/r.jpg", "http://cdn/b.jpg"}, updated.Images)
	assert.Equal(t, arrayfield.List{"http://cdn/u.jpg", "http://cdn/n.jpg"}, updated.OtherImages)
	assert.Equal(t, "Arm", updated.Name)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, 10.0, updated.Price)
}

func TestCatalogRanking(t *testing.T) {
	ctx := context.Background()
	for _, tt := range []struct {
		policy ranking.Policy
		want   int
	}{
		{ranking.PolicyClamp, 3},
		{ranking.PolicyLegacy, 9},
	} {
		t.Run(string(tt.policy), func(t *testing.T) {
			svc := newCatalogService(t, tt.policy)
			for i := 0; i < 2; i++ {
				_, err := svc.Create(ctx, CreateCatalogInput{Files: files("a.jpg")})
				require.NoError(t, err)
			}
			item, err := svc.Create(ctx, CreateCatalogInput{CatalogInput: CatalogInput{OrderKey: "9"}, Files: files("c.jpg")})
			require.NoError(t, err)
			assert.Equal(t, tt.want, item.OrderKey)
		})
	}
}

func TestCatalogMoveBackward(t *testing.T) {
	svc := newCatalogService(t, ranking.PolicyClamp)
	ctx := context.Background()
	var ids []int64
	for _, name := range []string{"A", "B", "C", "D"} {
		item, err := svc.Create(ctx, CreateCatalogInput{CatalogInput: CatalogInput{Name: name}, Files: files("x.jpg")})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}

	_, err := svc.Update(ctx, ids[0], UpdateCatalogInput{CatalogInput: CatalogInput{OrderKey: "3"}})
	require.NoError(t, err)

	res, err := svc.List(ctx, domain.NewPage(1, 10))
	require.NoError(t, err)
	names := []string{}
	for _, c := range res.Data {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"B", "C", "A", "D"}, names)
}

func TestCatalogUpdateKeepsRankShiftedDuringUpload(t *testing.T) {
	store := rankingtest.NewStore()
	up := &domaintest.Uploader{}
	ranker := ranking.NewRanker(store, store, ranking.PolicyClamp, zap.NewNop())
	svc := NewCatalogService(domaintest.NewCatalogs(store), ranker, up, zap.NewNop())
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateCatalogInput{CatalogInput: CatalogInput{Name: "A"}, Files: files("a.jpg")})
	require.NoError(t, err)

	up.Before = func(*multipart.FileHeader) {
		up.Before = nil
		_, err := svc.Create(ctx, CreateCatalogInput{CatalogInput: CatalogInput{Name: "B", OrderKey: "1"}, Files: files("b.jpg")})
		require.NoError(t, err)
	}
	updated, err := svc.Update(ctx, a.ID, UpdateCatalogInput{
		CatalogInput: CatalogInput{Title: "renamed"},
		NewImages:    files("a2.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.OrderKey)
	assert.Equal(t, map[int64]int{a.ID: 2, a.ID + 1: 1}, store.Snapshot(ranking.ScopeCatalog))
}

func TestCatalogHome(t *testing.T) {
	svc := newCatalogService(t, ranking.PolicyClamp)
	ctx := context.Background()
	item, err := svc.Create(ctx, CreateCatalogInput{Files: files("a.jpg")})
	require.NoError(t, err)

	_, err = svc.AddToHome(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	home, err := svc.AddToHome(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, home.IsHome)

	list, err := svc.ListHome(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.RemoveFromHome(ctx, item.ID)
	require.NoError(t, err)
	list, err = svc.ListHome(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.AddToHome(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

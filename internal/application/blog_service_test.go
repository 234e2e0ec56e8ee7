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

func newBlogService(t *testing.T) (*BlogService, *domaintest.Blogs, *domaintest.Uploader) {
	t.Helper()
	store := rankingtest.NewStore()
	repo := domaintest.NewBlogs(store)
	up := &domaintest.Uploader{}
	ranker := ranking.NewRanker(store, store, ranking.PolicyClamp, zap.NewNop())
	return NewBlogService(repo, ranker, up, zap.NewNop()), repo, up
}

func createBlog(t *testing.T, svc *BlogService, title, orderKey string) *domain.Blog {
	t.Helper()
	blog, err := svc.Create(context.Background(), CreateBlogInput{
		BlogInput: BlogInput{Title: title, OrderKey: orderKey},
		Files:     files(title + ".jpg"),
	})
	require.NoError(t, err)
	return blog
}

func titlesInOrder(t *testing.T, svc *BlogService) []string {
	t.Helper()
	res, err := svc.List(context.Background(), domain.NewPage(1, 100))
	require.NoError(t, err)
	out := []string{}
	for _, b := range res.Data {
		out = append(out, b.Title)
	}
	return out
}

func TestBlogCreateRequiresFiles(t *testing.T) {
	svc, _, _ := newBlogService(t)
	_, err := svc.Create(context.Background(), CreateBlogInput{BlogInput: BlogInput{Title: "x"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(context.Background(), CreateBlogInput{Files: files("1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBlogCreateUploadsAndRanks(t *testing.T) {
	svc, _, up := newBlogService(t)
	ctx := context.Background()

	blog, err := svc.Create(ctx, CreateBlogInput{
		BlogInput:   BlogInput{Title: "A", AuthorName: "Ann"},
		Files:       files("a1.jpg", "a2.jpg"),
		AuthorImage: files("ann.png")[0],
	})
	require.NoError(t, err)
	assert.Equal(t, arrayfield.List{"http://cdn/a1.jpg", "http://cdn/a2.jpg"}, blog.Images)
	assert.Equal(t, "http://cdn/ann.png", blog.AuthorImage)
	assert.Equal(t, 1, blog.OrderKey)
	assert.Len(t, up.Uploaded, 3)

	createBlog(t, svc, "B", "")
	createBlog(t, svc, "C", "")
	d := createBlog(t, svc, "D", "2")
	assert.Equal(t, 2, d.OrderKey)
	assert.Equal(t, []string{"A", "D", "B", "C"}, titlesInOrder(t, svc))
}

func TestBlogCreateUploadFailure(t *testing.T) {
	svc, repo, up := newBlogService(t)
	up.Err = errBoom
	_, err := svc.Create(context.Background(), CreateBlogInput{Files: files("a.jpg")})
	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, repo.Len())
}

func TestBlogUpdateImages(t *testing.T) {
	svc, _, _ := newBlogService(t)
	ctx := context.Background()
	blog := createBlog(t, svc, "A", "")

	updated, err := svc.Update(ctx, blog.ID, UpdateBlogInput{
		Images:        strPtr(`["http://x/1.jpg","http://x/2.jpg"]`),
		UpdatedImages: files("r0.jpg", "r1.jpg", "r2.jpg"),
		NewImages:     files("n.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, arrayfield.List{"http://cdn/r0.jpg", "http://cdn/r1.jpg", "http://cdn/r2.jpg", "http://cdn/n.jpg"}, updated.Images)
}

func TestBlogUpdateKeepsImagesWhenAbsent(t *testing.T) {
	svc, _, _ := newBlogService(t)
	blog := createBlog(t, svc, "A", "")

	updated, err := svc.Update(context.Background(), blog.ID, UpdateBlogInput{NewImages: files("n.jpg")})
	require.NoError(t, err)
	assert.Equal(t, arrayfield.List{"http://cdn/A.jpg", "http://cdn/n.jpg"}, updated.Images)
}

func TestBlogUpdateDecodesLegacyImages(t *testing.T) {
	svc, _, _ := newBlogService(t)
	blog := createBlog(t, svc, "A", "")

	updated, err := svc.Update(context.Background(), blog.ID, UpdateBlogInput{Images: strPtr(`{"a","b,c"}`)})
	require.NoError(t, err)
	assert.Equal(t, arrayfield.List{"a", "b,c"}, updated.Images)
}

func TestBlogUpdateAuthorFallbacks(t *testing.T) {
	svc, _, _ := newBlogService(t)
	ctx := context.Background()
	blog, err := svc.Create(ctx, CreateBlogInput{
		BlogInput:   BlogInput{Title: "A", AuthorName: "Ann", AuthorPhone: "123", AuthorDescription: "writer"},
		Files:       files("a.jpg"),
		AuthorImage: files("ann.png")[0],
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, blog.ID, UpdateBlogInput{BlogInput: BlogInput{AuthorName: "Bob"}})
	require.NoError(t, err)
	assert.Equal(t, "Bob", updated.AuthorName)
	assert.Equal(t, "123", updated.AuthorPhone)
	assert.Equal(t, "writer", updated.AuthorDescription)
	assert.Equal(t, "http://cdn/ann.png", updated.AuthorImage)
	assert.Equal(t, "A", updated.Title)

	updated, err = svc.Update(ctx, blog.ID, UpdateBlogInput{AuthorOldImage: `"http://old/img.png"`})
	require.NoError(t, err)
	assert.Equal(t, "http://old/img.png", updated.AuthorImage)

	updated, err = svc.Update(ctx, blog.ID, UpdateBlogInput{AuthorOldImage: "http://bare/img.png"})
	require.NoError(t, err)
	assert.Equal(t, "http://bare/img.png", updated.AuthorImage)

	updated, err = svc.Update(ctx, blog.ID, UpdateBlogInput{
		AuthorOldImage: "http://bare/img.png",
		AuthorImage:    files("new.png")[0],
	})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/new.png", updated.AuthorImage)
}

func TestBlogUpdateMovesRank(t *testing.T) {
	svc, _, _ := newBlogService(t)
	ctx := context.Background()
	createBlog(t, svc, "A", "")
	createBlog(t, svc, "B", "")
	createBlog(t, svc, "C", "")
	d := createBlog(t, svc, "D", "")

	moved, err := svc.Update(ctx, d.ID, UpdateBlogInput{BlogInput: BlogInput{OrderKey: "2"}})
	require.NoError(t, err)
	assert.Equal(t, 2, moved.OrderKey)
	assert.Equal(t, []string{"A", "D", "B", "C"}, titlesInOrder(t, svc))

	kept, err := svc.Update(ctx, d.ID, UpdateBlogInput{BlogInput: BlogInput{OrderKey: "oops"}})
	require.NoError(t, err)
	assert.Equal(t, 2, kept.OrderKey)
}

func TestBlogUpdateMoveSeesRanksShiftedDuringUpload(t *testing.T) {
	svc, _, up := newBlogService(t)
	ctx := context.Background()
	createBlog(t, svc, "A", "")
	createBlog(t, svc, "B", "")
	c := createBlog(t, svc, "C", "")

	// another request inserts D at the top while C's file is uploading
	up.Before = func(*multipart.FileHeader) {
		up.Before = nil
		createBlog(t, svc, "D", "1")
	}
	moved, err := svc.Update(ctx, c.ID, UpdateBlogInput{
		BlogInput:     BlogInput{OrderKey: "2"},
		UpdatedImages: files("c2.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, moved.OrderKey)
	assert.Equal(t, []string{"D", "C", "A", "B"}, titlesInOrder(t, svc))
}

func TestBlogUpdateNotFound(t *testing.T) {
	svc, _, _ := newBlogService(t)
	_, err := svc.Update(context.Background(), 99, UpdateBlogInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBlogDeleteLeavesGap(t *testing.T) {
	svc, _, _ := newBlogService(t)
	ctx := context.Background()
	createBlog(t, svc, "A", "")
	b := createBlog(t, svc, "B", "")
	createBlog(t, svc, "C", "")

	require.NoError(t, svc.Delete(ctx, b.ID))
	res, err := svc.List(ctx, domain.NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, 1, res.Data[0].OrderKey)
	assert.Equal(t, 3, res.Data[1].OrderKey)

	e := createBlog(t, svc, "E", "")
	assert.Equal(t, 4, e.OrderKey)

	assert.ErrorIs(t, svc.Delete(ctx, b.ID), domain.ErrNotFound)
}

func TestBlogListPagination(t *testing.T) {
	svc, _, _ := newBlogService(t)
	for _, title := range []string{"A", "B", "C"} {
		createBlog(t, svc, title, "")
	}
	res, err := svc.List(context.Background(), domain.NewPage(2, 2))
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "C", res.Data[0].Title)
	assert.Equal(t, 3, res.Pagination.TotalRecords)
	assert.Equal(t, 2, res.Pagination.TotalPages)
	assert.Nil(t, res.Pagination.NextPage)
	require.NotNil(t, res.Pagination.PrevPage)
	assert.Equal(t, 1, *res.Pagination.PrevPage)
}

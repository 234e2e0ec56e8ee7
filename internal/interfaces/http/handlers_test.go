package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arcrobot/admin_backend/internal/application"
	"github.com/arcrobot/admin_backend/internal/domain"
	"github.com/arcrobot/admin_backend/internal/domain/domaintest"
	"github.com/arcrobot/admin_backend/internal/ranking"
	"github.com/arcrobot/admin_backend/internal/ranking/rankingtest"
)

type testEnv struct {
	app      *fiber.App
	catalogs *domaintest.Catalogs
	logs     *observer.ObservedLogs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ranks := rankingtest.NewStore()
	ranker := ranking.NewRanker(ranks, ranks, ranking.PolicyClamp, logger)
	uploader := &domaintest.Uploader{}
	catalogs := domaintest.NewCatalogs(ranks)
	sites := domaintest.NewSites(domain.Site{ID: 1, Name: "Shop", Link: "http://shop"})

	h := Handlers{
		Blog:    NewBlogHandler(application.NewBlogService(domaintest.NewBlogs(ranks), ranker, uploader, logger)),
		Catalog: NewCatalogHandler(application.NewCatalogService(catalogs, ranker, uploader, logger)),
		Site:    NewSiteHandler(application.NewSiteService(sites)),
		Consult: NewConsultHandler(
			application.NewConsultService(&domaintest.Consults{}, &domaintest.Notifier{}, logger),
			application.NewRateLimiter(time.Minute, 2),
		),
		Worker:        NewWorkerHandler(application.NewWorkerService(domaintest.NewWorkers(), uploader, logger)),
		ImagePosition: NewImagePositionHandler(application.NewImagePositionService(&domaintest.ImagePositions{}, catalogs, uploader)),
		Upload:        NewUploadHandler(uploader),
	}
	return &testEnv{
		app:      NewApp(AppConfig{AllowOrigins: "*"}, h, logger),
		catalogs: catalogs,
		logs:     logs,
	}
}

type formBody struct {
	fields map[string]string
	files  map[string][]string
}

// multipartRequest builds a multipart request; each file holds its own name.
func multipartRequest(t *testing.T, method, target string, form formBody) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range form.fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, names := range form.files {
		for _, name := range names {
			part, err := w.CreateFormFile(field, name)
			require.NoError(t, err)
			_, err = part.Write([]byte(name))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// do runs req and decodes the JSON answer into out when out is non-nil.
func (e *testEnv) do(t *testing.T, req *http.Request, out any) int {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), "body: %s", body)
	}
	return resp.StatusCode
}

func (e *testEnv) createBlog(t *testing.T, title, orderKey string) domain.Blog {
	t.Helper()
	var blog domain.Blog
	status := e.do(t, multipartRequest(t, "POST", "/api/blog/create", formBody{
		fields: map[string]string{"title": title, "order_key": orderKey},
		files:  map[string][]string{"files": {title + ".jpg"}},
	}), &blog)
	require.Equal(t, fiber.StatusCreated, status)
	return blog
}

func TestBlogCreate(t *testing.T) {
	env := newTestEnv(t)

	var blog domain.Blog
	status := env.do(t, multipartRequest(t, "POST", "/api/blog/create", formBody{
		fields: map[string]string{"title": "Hello", "author_name": "Ann"},
		files:  map[string][]string{"files": {"a.jpg", "b.jpg"}, "author_image": {"ann.png"}},
	}), &blog)

	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Hello", blog.Title)
	assert.ElementsMatch(t, []string{"http://cdn/a.jpg", "http://cdn/b.jpg"}, []string(blog.Images))
	assert.Equal(t, "http://cdn/ann.png", blog.AuthorImage)
	assert.Equal(t, 1, blog.OrderKey)
}

func TestBlogCreateWithoutFiles(t *testing.T) {
	env := newTestEnv(t)
	var body map[string]string
	status := env.do(t, multipartRequest(t, "POST", "/api/blog/create", formBody{
		fields: map[string]string{"title": "Hello"},
	}), &body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "no files uploaded")
}

func TestBlogGet(t *testing.T) {
	env := newTestEnv(t)
	created := env.createBlog(t, "A", "")

	var blog domain.Blog
	assert.Equal(t, fiber.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/blog/1", nil), &blog))
	assert.Equal(t, created.ID, blog.ID)

	assert.Equal(t, fiber.StatusNotFound, env.do(t, httptest.NewRequest("GET", "/api/blog/99", nil), nil))
	assert.Equal(t, fiber.StatusBadRequest, env.do(t, httptest.NewRequest("GET", "/api/blog/abc", nil), nil))
}

func TestBlogListOrderAndEnvelope(t *testing.T) {
	env := newTestEnv(t)
	env.createBlog(t, "A", "")
	env.createBlog(t, "B", "")
	env.createBlog(t, "C", "")
	env.createBlog(t, "D", "2")

	var page domain.PageResult[domain.Blog]
	require.Equal(t, fiber.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/blog?page=1&pageSize=3", nil), &page))

	titles := []string{}
	for _, b := range page.Data {
		titles = append(titles, b.Title)
	}
	assert.Equal(t, []string{"A", "D", "B"}, titles)
	assert.Equal(t, 4, page.Pagination.TotalRecords)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	require.NotNil(t, page.Pagination.NextPage)
	assert.Equal(t, 2, *page.Pagination.NextPage)
	assert.Nil(t, page.Pagination.PrevPage)
}

func TestBlogUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.createBlog(t, "A", "")
	env.createBlog(t, "B", "")
	c := env.createBlog(t, "C", "")

	var blog domain.Blog
	status := env.do(t, multipartRequest(t, "PUT", "/api/blog/update/3", formBody{
		fields: map[string]string{
			"images":           `["http://x/1.jpg","http://x/2.jpg"]`,
			"order_key":        "1",
			"author_old_image": `"http://x/author.png"`,
		},
		files: map[string][]string{"updatedImages": {"r.jpg"}, "newImages": {"n.jpg"}},
	}), &blog)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, c.ID, blog.ID)
	assert.Equal(t, "C", blog.Title)
	assert.Equal(t, 1, blog.OrderKey)
	assert.Equal(t, []string{"http://cdn/r.jpg", "http://x/2.jpg", "http://cdn/n.jpg"}, []string(blog.Images))
	assert.Equal(t, "http://x/author.png", blog.AuthorImage)

	assert.Equal(t, fiber.StatusNotFound, env.do(t, multipartRequest(t, "PUT", "/api/blog/update/42", formBody{}), nil))
}

func TestBlogDelete(t *testing.T) {
	env := newTestEnv(t)
	env.createBlog(t, "A", "")

	assert.Equal(t, fiber.StatusOK, env.do(t, httptest.NewRequest("DELETE", "/api/blog/1", nil), nil))
	assert.Equal(t, fiber.StatusNotFound, env.do(t, httptest.NewRequest("DELETE", "/api/blog/1", nil), nil))
}

func TestCatalogCreateAndHome(t *testing.T) {
	env := newTestEnv(t)

	status := env.do(t, multipartRequest(t, "POST", "/api/catalog/create", formBody{
		fields: map[string]string{"name": "Arm"},
	}), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var item domain.Catalog
	status = env.do(t, multipartRequest(t, "POST", "/api/catalog/create", formBody{
		fields: map[string]string{
			"name":         "Arm",
			"property":     `{"axes":6}`,
			"price":        "99.9",
			"isDiscount":   "true",
			"other_images": `{"http://x/o.jpg"}`,
		},
		files: map[string][]string{"files": {"a.jpg"}},
	}), &item)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, []string{"http://cdn/a.jpg"}, []string(item.Images))
	assert.Equal(t, []string{"http://x/o.jpg"}, []string(item.OtherImages))
	assert.Equal(t, 99.9, item.Price)
	assert.True(t, item.IsDiscount)
	assert.Equal(t, float64(6), item.Property["axes"])

	var home domain.Catalog
	require.Equal(t, fiber.StatusOK, env.do(t, jsonRequest(t, "POST", "/api/catalog/home", map[string]int64{"id": item.ID}), &home))
	assert.True(t, home.IsHome)

	var list []domain.Catalog
	require.Equal(t, fiber.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/catalog/home", nil), &list))
	assert.Len(t, list, 1)

	require.Equal(t, fiber.StatusOK, env.do(t, httptest.NewRequest("DELETE", "/api/catalog/home/1", nil), &home))
	assert.False(t, home.IsHome)

	assert.Equal(t, fiber.StatusNotFound, env.do(t, jsonRequest(t, "POST", "/api/catalog/home", map[string]int64{"id": 9}), nil))
}

func TestCatalogUpdateKeepsAbsentLists(t *testing.T) {
	env := newTestEnv(t)
	env.catalogs.Put(domain.Catalog{ID: 1, Name: "Arm", Images: []string{"http://x/1.jpg"}, OrderKey: 1})

	var item domain.Catalog
	status := env.do(t, multipartRequest(t, "PUT", "/api/catalog/update/1", formBody{
		fields: map[string]string{"title": "Robot arm"},
		files:  map[string][]string{"newOtherImages": {"o.jpg"}},
	}), &item)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Arm", item.Name)
	assert.Equal(t, "Robot arm", item.Title)
	assert.Equal(t, []string{"http://x/1.jpg"}, []string(item.Images))
	assert.Equal(t, []string{"http://cdn/o.jpg"}, []string(item.OtherImages))
}

func TestSiteUpdate(t *testing.T) {
	env := newTestEnv(t)

	var site domain.Site
	require.Equal(t, fiber.StatusOK, env.do(t, jsonRequest(t, "PUT", "/api/sites/update/1", map[string]string{"link": "http://new"}), &site))
	assert.Equal(t, "Shop", site.Name)
	assert.Equal(t, "http://new", site.Link)

	assert.Equal(t, fiber.StatusNotFound, env.do(t, jsonRequest(t, "PUT", "/api/sites/update/5", map[string]string{}), nil))

	var page domain.PageResult[domain.Site]
	require.Equal(t, fiber.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/sites", nil), &page))
	assert.Len(t, page.Data, 1)
}

func TestConsultCreate(t *testing.T) {
	env := newTestEnv(t)

	status := env.do(t, jsonRequest(t, "POST", "/api/consult/create", map[string]string{"name": "Ann"}), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var consult domain.Consult
	status = env.do(t, jsonRequest(t, "POST", "/api/consult/create", map[string]string{
		"name": "Ann", "phone_number": "+998901234567", "email": "a@x.io", "reason": "demo",
	}), &consult)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, int64(1), consult.ID)

	// the limiter allows two requests per minute per IP
	status = env.do(t, jsonRequest(t, "POST", "/api/consult/create", map[string]string{"name": "Ann"}), nil)
	assert.Equal(t, fiber.StatusTooManyRequests, status)

	var list []domain.Consult
	require.Equal(t, fiber.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/consult", nil), &list))
	assert.Len(t, list, 1)
}

func TestWorkerLifecycle(t *testing.T) {
	env := newTestEnv(t)

	status := env.do(t, multipartRequest(t, "POST", "/api/worker", formBody{
		fields: map[string]string{"name": "Ann"},
	}), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var worker domain.Worker
	status = env.do(t, multipartRequest(t, "POST", "/api/worker", formBody{
		fields: map[string]string{"name": "Ann", "worker_type": "engineer"},
		files:  map[string][]string{"image": {"ann.jpg"}},
	}), &worker)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "http://cdn/ann.jpg", worker.Image)

	status = env.do(t, multipartRequest(t, "PUT", "/api/worker/1", formBody{
		fields: map[string]string{"description": "lead", "image": "http://cdn/ann.jpg"},
	}), &worker)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "lead", worker.Description)
	assert.Equal(t, "http://cdn/ann.jpg", worker.Image)

	assert.Equal(t, fiber.StatusOK, env.do(t, httptest.NewRequest("DELETE", "/api/worker/1", nil), nil))
	assert.Equal(t, fiber.StatusNotFound, env.do(t, httptest.NewRequest("GET", "/api/worker/1", nil), nil))
}

func TestImagePosition(t *testing.T) {
	env := newTestEnv(t)
	env.catalogs.Put(domain.Catalog{ID: 1, Name: "Arm", OrderKey: 1})
	imageURL := "http://x/arm.jpg"
	target := "/api/image-position/" + url.PathEscape(imageURL)

	assert.Equal(t, fiber.StatusNotFound, env.do(t, httptest.NewRequest("GET", target, nil), nil))

	status := env.do(t, multipartRequest(t, "POST", "/api/image-position/create", formBody{
		fields: map[string]string{"image_url": imageURL},
	}), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status = env.do(t, multipartRequest(t, "POST", "/api/image-position/create", formBody{
		fields: map[string]string{"catalog_id": "7", "image_url": imageURL},
	}), nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	var position domain.ImagePosition
	status = env.do(t, multipartRequest(t, "POST", "/api/image-position/create", formBody{
		fields: map[string]string{"catalog_id": "1", "image_url": imageURL, "top": "10%", "left_pos": "20%"},
	}), &position)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "20%", position.LeftPos)

	var list []domain.ImagePosition
	require.Equal(t, fiber.StatusOK, env.do(t, httptest.NewRequest("GET", target, nil), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "10%", list[0].Top)
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, fiber.StatusBadRequest, env.do(t, multipartRequest(t, "POST", "/api/upload/images", formBody{}), nil))

	var body map[string]string
	status := env.do(t, multipartRequest(t, "POST", "/api/upload/images", formBody{
		files: map[string][]string{"file": {"pic.png"}},
	}), &body)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "http://cdn/pic.png", body["url"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	var body map[string]string
	require.Equal(t, fiber.StatusOK, env.do(t, httptest.NewRequest("GET", "/health", nil), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, errorStatus(domain.ErrNotFound))
	assert.Equal(t, fiber.StatusBadRequest, errorStatus(domain.ErrInvalidInput))
	assert.Equal(t, fiber.StatusConflict, errorStatus(ranking.ErrRankConflict))
	assert.Equal(t, fiber.StatusTooManyRequests, errorStatus(application.ErrRateLimited))
	assert.Equal(t, fiber.StatusInternalServerError, errorStatus(assert.AnError))
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, httptest.NewRequest("GET", "/api/blog/99", nil), nil)

	entries := env.logs.FilterMessage("request").All()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	fields := last.ContextMap()
	assert.Equal(t, "/api/blog/99", fields["path"])
	assert.Equal(t, int64(fiber.StatusNotFound), fields["status"])
	assert.True(t, strings.Contains(fields["error"].(string), "not found"))
}

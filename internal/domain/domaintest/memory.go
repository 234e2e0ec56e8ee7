// Package domaintest provides in-memory repositories and collaborators for
// tests. Ranked repositories mirror order_key into a rankingtest.Store so a
// ranking.Ranker over that store sees the same rows.
package domaintest

import (
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"github.com/arcrobot/admin_backend/internal/domain"
	"github.com/arcrobot/admin_backend/internal/ranking"
	"github.com/arcrobot/admin_backend/internal/ranking/rankingtest"
)

// Uploader pretends to store files under http://cdn/<filename>.
type Uploader struct {
	mu       sync.Mutex
	Uploaded []string
	Err      error
	// Before, when set, runs ahead of every upload.
	Before func(fh *multipart.FileHeader)
}

func (u *Uploader) Upload(_ context.Context, fh *multipart.FileHeader) (string, error) {
	if u.Before != nil {
		u.Before(fh)
	}
	if u.Err != nil {
		return "", u.Err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	url := "http://cdn/" + fh.Filename
	u.Uploaded = append(u.Uploaded, url)
	return url, nil
}

// Notifier records consult notifications.
type Notifier struct {
	Sent []domain.Consult
	Err  error
}

func (n *Notifier) NotifyConsult(_ context.Context, c *domain.Consult) error {
	n.Sent = append(n.Sent, *c)
	return n.Err
}

func paginate[T any](all []T, page domain.Page) []T {
	start := min(page.Offset(), len(all))
	end := min(start+page.Size, len(all))
	return all[start:end]
}

type Blogs struct {
	mu     sync.Mutex
	ranks  *rankingtest.Store
	rows   map[int64]domain.Blog
	nextID int64
}

func NewBlogs(ranks *rankingtest.Store) *Blogs {
	return &Blogs{ranks: ranks, rows: make(map[int64]domain.Blog)}
}

// Len returns the number of stored posts.
func (r *Blogs) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// sync copies shifted ranks back into the rows before they are read.
func (r *Blogs) sync() {
	for id, rank := range r.ranks.Snapshot(ranking.ScopeBlog) {
		if b, ok := r.rows[id]; ok {
			b.OrderKey = rank
			r.rows[id] = b
		}
	}
}

func (r *Blogs) List(_ context.Context, page domain.Page) ([]domain.Blog, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sync()
	all := make([]domain.Blog, 0, len(r.rows))
	for _, b := range r.rows {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].OrderKey < all[j].OrderKey })
	return paginate(all, page), len(all), nil
}

func (r *Blogs) GetByID(_ context.Context, id int64) (*domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sync()
	b, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("blog %d: %w", id, domain.ErrNotFound)
	}
	return &b, nil
}

func (r *Blogs) Create(_ context.Context, blog *domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	blog.ID = r.nextID
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = blog.CreatedAt
	r.rows[blog.ID] = *blog
	r.ranks.Set(ranking.ScopeBlog, blog.ID, blog.OrderKey)
	return nil
}

func (r *Blogs) Update(_ context.Context, blog *domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[blog.ID]; !ok {
		return fmt.Errorf("blog %d: %w", blog.ID, domain.ErrNotFound)
	}
	blog.UpdatedAt = time.Now()
	r.rows[blog.ID] = *blog
	r.ranks.Set(ranking.ScopeBlog, blog.ID, blog.OrderKey)
	return nil
}

func (r *Blogs) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("blog %d: %w", id, domain.ErrNotFound)
	}
	delete(r.rows, id)
	r.ranks.Delete(ranking.ScopeBlog, id)
	return nil
}

type Catalogs struct {
	mu     sync.Mutex
	ranks  *rankingtest.Store
	rows   map[int64]domain.Catalog
	nextID int64
}

func NewCatalogs(ranks *rankingtest.Store) *Catalogs {
	return &Catalogs{ranks: ranks, rows: make(map[int64]domain.Catalog)}
}

// Put stores c as is, keeping its id.
func (r *Catalogs) Put(c domain.Catalog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = c
	r.nextID = max(r.nextID, c.ID)
	r.ranks.Set(ranking.ScopeCatalog, c.ID, c.OrderKey)
}

func (r *Catalogs) sync() {
	for id, rank := range r.ranks.Snapshot(ranking.ScopeCatalog) {
		if c, ok := r.rows[id]; ok {
			c.OrderKey = rank
			r.rows[id] = c
		}
	}
}

func (r *Catalogs) sorted(keep func(domain.Catalog) bool) []domain.Catalog {
	r.sync()
	all := []domain.Catalog{}
	for _, c := range r.rows {
		if keep(c) {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].OrderKey < all[j].OrderKey })
	return all
}

func (r *Catalogs) List(_ context.Context, page domain.Page) ([]domain.Catalog, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(func(domain.Catalog) bool { return true })
	return paginate(all, page), len(all), nil
}

func (r *Catalogs) ListHome(context.Context) ([]domain.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(c domain.Catalog) bool { return c.IsHome }), nil
}

func (r *Catalogs) GetByID(_ context.Context, id int64) (*domain.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sync()
	c, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("catalog %d: %w", id, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *Catalogs) Create(_ context.Context, c *domain.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.rows[c.ID] = *c
	r.ranks.Set(ranking.ScopeCatalog, c.ID, c.OrderKey)
	return nil
}

func (r *Catalogs) Update(_ context.Context, c *domain.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[c.ID]; !ok {
		return fmt.Errorf("catalog %d: %w", c.ID, domain.ErrNotFound)
	}
	r.rows[c.ID] = *c
	r.ranks.Set(ranking.ScopeCatalog, c.ID, c.OrderKey)
	return nil
}

func (r *Catalogs) SetHome(_ context.Context, id int64, home bool) (*domain.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sync()
	c, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("catalog %d: %w", id, domain.ErrNotFound)
	}
	c.IsHome = home
	r.rows[id] = c
	return &c, nil
}

func (r *Catalogs) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("catalog %d: %w", id, domain.ErrNotFound)
	}
	delete(r.rows, id)
	r.ranks.Delete(ranking.ScopeCatalog, id)
	return nil
}

type Sites struct {
	mu   sync.Mutex
	rows map[int64]domain.Site
}

func NewSites(sites ...domain.Site) *Sites {
	r := &Sites{rows: make(map[int64]domain.Site)}
	for _, s := range sites {
		r.rows[s.ID] = s
	}
	return r
}

func (r *Sites) List(_ context.Context, page domain.Page) ([]domain.Site, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Site, 0, len(r.rows))
	for _, s := range r.rows {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page), len(all), nil
}

func (r *Sites) GetByID(_ context.Context, id int64) (*domain.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("site %d: %w", id, domain.ErrNotFound)
	}
	return &s, nil
}

func (r *Sites) Update(_ context.Context, site *domain.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[site.ID]; !ok {
		return fmt.Errorf("site %d: %w", site.ID, domain.ErrNotFound)
	}
	r.rows[site.ID] = *site
	return nil
}

type Consults struct {
	mu   sync.Mutex
	rows []domain.Consult
	// Err, when set, fails Create and List.
	Err error
}

func (r *Consults) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *Consults) List(context.Context) ([]domain.Consult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return append([]domain.Consult{}, r.rows...), nil
}

func (r *Consults) GetByID(_ context.Context, id int64) (*domain.Consult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("consult %d: %w", id, domain.ErrNotFound)
}

func (r *Consults) Create(_ context.Context, c *domain.Consult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	c.ID = int64(len(r.rows) + 1)
	c.CreatedAt = time.Now()
	r.rows = append(r.rows, *c)
	return nil
}

type Workers struct {
	mu     sync.Mutex
	rows   map[int64]domain.Worker
	nextID int64
}

func NewWorkers() *Workers {
	return &Workers{rows: make(map[int64]domain.Worker)}
}

func (r *Workers) List(_ context.Context, page domain.Page) ([]domain.Worker, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Worker, 0, len(r.rows))
	for _, w := range r.rows {
		all = append(all, w)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, page), len(all), nil
}

func (r *Workers) GetByID(_ context.Context, id int64) (*domain.Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("worker %d: %w", id, domain.ErrNotFound)
	}
	return &w, nil
}

func (r *Workers) Create(_ context.Context, w *domain.Worker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	w.ID = r.nextID
	r.rows[w.ID] = *w
	return nil
}

func (r *Workers) Update(_ context.Context, w *domain.Worker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[w.ID]; !ok {
		return fmt.Errorf("worker %d: %w", w.ID, domain.ErrNotFound)
	}
	r.rows[w.ID] = *w
	return nil
}

func (r *Workers) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("worker %d: %w", id, domain.ErrNotFound)
	}
	delete(r.rows, id)
	return nil
}

type ImagePositions struct {
	mu   sync.Mutex
	rows []domain.ImagePosition
}

func (r *ImagePositions) Create(_ context.Context, p *domain.ImagePosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, *p)
	return nil
}

func (r *ImagePositions) ListByImageURL(_ context.Context, url string) ([]domain.ImagePosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.ImagePosition{}
	for _, p := range r.rows {
		if p.ImageURL == url {
			out = append(out, p)
		}
	}
	return out, nil
}

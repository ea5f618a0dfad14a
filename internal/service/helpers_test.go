package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/repo"
	pkgdb "github.com/Skotchmaster/inventory/pkg/db"
	"github.com/Skotchmaster/inventory/pkg/hash"
	"github.com/Skotchmaster/inventory/pkg/tokens"
)

var testSecret = []byte("service-test-secret")

type published struct {
	topic string
	key   string
	event map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	m, _ := event.(map[string]any)
	p.events = append(p.events, published{topic: topic, key: key, event: m})
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.event["type"].(string))
	}
	return out
}

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[string]models.Product
	err     error
	lastQ   string
	lastOff int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]models.Product{}}
}

func (ix *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.err != nil {
		return ix.err
	}
	ix.docs[p.ID] = *p
	return nil
}

func (ix *fakeIndex) DeleteProduct(_ context.Context, id string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.err != nil {
		return ix.err
	}
	delete(ix.docs, id)
	return nil
}

func (ix *fakeIndex) Search(_ context.Context, query string, from, _ int) (int64, []models.Product, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.lastQ, ix.lastOff = query, from
	if ix.err != nil {
		return 0, nil, ix.err
	}
	var hits []models.Product
	for _, p := range ix.docs {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
			hits = append(hits, p)
		}
	}
	return int64(len(hits)), hits, nil
}

type fixture struct {
	repo     *repo.GormRepo
	tokens   *tokens.Service
	events   *fakePublisher
	index    *fakeIndex
	users    *UserService
	products *ProductService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	r := &repo.GormRepo{DB: db}
	ts := tokens.NewService(testSecret)
	ev := &fakePublisher{}
	ix := newFakeIndex()

	return &fixture{
		repo:   r,
		tokens: ts,
		events: ev,
		index:  ix,
		users: &UserService{
			Repo:   r,
			Hasher: hash.Hasher{Cost: bcrypt.MinCost},
			Tokens: ts,
			Events: ev,
		},
		products: &ProductService{
			Repo:   r,
			Tokens: ts,
			Events: ev,
			Index:  ix,
		},
	}
}

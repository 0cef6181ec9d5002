package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/inventory/internal/authz"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/uploads"
	"github.com/Skotchmaster/inventory/internal/watermark"
	pkgdb "github.com/Skotchmaster/inventory/pkg/db"
)

var (
	admin     = authz.Identity{User: "admin", Role: models.RoleAdmin}
	factory   = authz.Identity{User: "factory", Role: models.RoleFactory}
	warehouse = authz.Identity{User: "warehouse", Role: models.RoleWarehouse}
	purchases = authz.Identity{User: "purchases", Role: models.RolePurchases}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []map[string]any
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.(map[string]any))
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e["type"].(string))
	}
	return out
}

type testEnv struct {
	Svc    *CatalogService
	Auth   *AuthService
	Repo   *repo.GormRepo
	Store  *uploads.Store
	Events *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { pkgdb.Close(db) })

	r := &repo.GormRepo{DB: db, HashCost: bcrypt.MinCost}
	require.NoError(t, r.Bootstrap(context.Background(), repo.DefaultAccounts))

	store, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	pub := &recordingPublisher{}
	return &testEnv{
		Svc: &CatalogService{
			Repo:      r,
			Uploads:   store,
			Watermark: watermark.New("", watermark.DefaultFonts(nil)),
			Events:    pub,
		},
		Auth:   &AuthService{Repo: r, SessionSecret: []byte("test-session-secret")},
		Repo:   r,
		Store:  store,
		Events: pub,
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 20, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageFile(t *testing.T, name string) *uploads.File {
	t.Helper()
	return &uploads.File{Name: name, Body: bytes.NewReader(pngBytes(t, 200, 100))}
}

func (env *testEnv) mustAdd(t *testing.T, ident authz.Identity, name, category string) *models.Product {
	t.Helper()

	p, err := env.Svc.Add(context.Background(), ident, ProductInput{Name: name, Available: true, Category: category})
	require.NoError(t, err)
	return p
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

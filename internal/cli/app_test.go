package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ecomlens/internal/localstore"
	"ecomlens/internal/session"
	"ecomlens/internal/studio"
	"ecomlens/internal/users"

	"github.com/stretchr/testify/require"
)

const pngB64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type stubGenerator struct {
	calls int
	fail  bool
}

func (g *stubGenerator) Generate(ctx context.Context, source, instruction string) (string, error) {
	g.calls++
	if g.fail {
		return "", errors.New("no image")
	}
	return "data:image/png;base64," + pngB64, nil
}

type appEnv struct {
	app   *App
	out   *bytes.Buffer
	gen   *stubGenerator
	users *users.Service
	dir   string
}

func newAppEnv(t *testing.T) *appEnv {
	t.Helper()
	ctx := context.Background()

	orig := readPassword
	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }
	t.Cleanup(func() { readPassword = orig })

	db, err := localstore.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	usersSvc := users.NewService(
		localstore.NewUserRepository(db),
		session.NewLocalStore(localstore.NewKV(db), 0),
		users.Options{Location: time.UTC},
	)
	gen := &stubGenerator{}
	studioSvc, err := studio.NewService(gen, usersSvc, studio.Options{})
	require.NoError(t, err)

	dir := t.TempDir()
	out := &bytes.Buffer{}
	app := NewApp(usersSvc, studioSvc, filepath.Join(dir, "exports"), strings.NewReader(""), out, nil)
	return &appEnv{app: app, out: out, gen: gen, users: usersSvc, dir: dir}
}

func (e *appEnv) writePNG(t *testing.T) string {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(pngB64)
	require.NoError(t, err)
	path := filepath.Join(e.dir, "product.png")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestApp_SignupLoginLogout(t *testing.T) {
	env := newAppEnv(t)
	ctx := context.Background()

	require.False(t, env.app.isLoggedIn(ctx))
	require.Error(t, env.app.Signup(ctx, nil))

	require.NoError(t, env.app.Signup(ctx, []string{"Shop@Example.com"}))
	require.True(t, env.app.isLoggedIn(ctx))
	require.Contains(t, env.out.String(), "shop@example.com (user) - 0 of 5 generations used today, 5 left")
	require.Equal(t, "[shop@example.com 0/5]", env.app.status(ctx))

	require.ErrorIs(t, env.app.Signup(ctx, []string{"shop@example.com"}), users.ErrDuplicateUser)

	require.NoError(t, env.app.Logout(ctx))
	require.False(t, env.app.isLoggedIn(ctx))
	require.Equal(t, "[guest]", env.app.status(ctx))

	require.ErrorIs(t, env.app.Login(ctx, []string{"nobody@example.com"}), users.ErrUserNotFound)
	require.NoError(t, env.app.Login(ctx, []string{"SHOP@example.com"}))
	require.True(t, env.app.isLoggedIn(ctx))
}

func TestApp_GenerateAndDownload(t *testing.T) {
	env := newAppEnv(t)
	ctx := context.Background()
	require.NoError(t, env.app.Signup(ctx, []string{"maker@example.com"}))

	require.ErrorIs(t, env.app.Batch(ctx), studio.ErrNoSourceImage)

	require.Error(t, env.app.Upload(ctx, []string{filepath.Join(env.dir, "missing.png")}))
	require.NoError(t, env.app.Upload(ctx, []string{env.writePNG(t)}))

	require.NoError(t, env.app.Batch(ctx))
	require.Equal(t, 5, env.gen.calls)
	require.Contains(t, env.out.String(), "5 of 5 styles generated.")

	require.NoError(t, env.app.Custom(ctx, []string{"on", "a", "beach"}))
	require.ErrorIs(t, env.app.Custom(ctx, nil), studio.ErrEmptyPrompt)

	assets := env.app.studio.Assets(SessionKey)
	require.Len(t, assets, 6)
	require.Equal(t, "on a beach", assets[0].Prompt)

	require.NoError(t, env.app.Download(ctx, []string{assets[1].ID}))
	saved := filepath.Join(env.dir, "exports", "ecomlens-amazon.png")
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	want, _ := base64.StdEncoding.DecodeString(pngB64)
	require.Equal(t, want, data)

	other := filepath.Join(env.dir, "elsewhere")
	require.NoError(t, env.app.Download(ctx, []string{assets[0].ID, other}))
	_, err = os.Stat(filepath.Join(other, "ecomlens-custom.png"))
	require.NoError(t, err)

	require.Error(t, env.app.Download(ctx, []string{"missing"}))

	u := env.app.current(ctx)
	require.Equal(t, 2, u.UsageCount)

	require.NoError(t, env.app.Clear(ctx))
	require.Empty(t, env.app.studio.Assets(SessionKey))
}

func TestApp_QuotaExceeded(t *testing.T) {
	env := newAppEnv(t)
	ctx := context.Background()
	require.NoError(t, env.app.Signup(ctx, []string{"busy@example.com"}))
	require.NoError(t, env.app.Upload(ctx, []string{env.writePNG(t)}))

	u := env.app.current(ctx)
	for i := 0; i < 5; i++ {
		_, err := env.users.Increment(ctx, u.ID)
		require.NoError(t, err)
	}

	require.ErrorIs(t, env.app.Batch(ctx), studio.ErrQuotaExceeded)
	require.Zero(t, env.gen.calls)
	require.Contains(t, env.out.String(), "daily limit")
}

func TestApp_AdminCommands(t *testing.T) {
	env := newAppEnv(t)
	ctx := context.Background()

	require.NoError(t, env.app.Signup(ctx, []string{"member@example.com"}))
	member := env.app.current(ctx)

	env.out.Reset()
	require.NoError(t, env.app.Users(ctx))
	require.Contains(t, env.out.String(), "Admin access required.")

	require.NoError(t, env.app.Login(ctx, []string{"admin@admin.com"}))
	env.out.Reset()
	require.NoError(t, env.app.Users(ctx))
	out := env.out.String()
	require.Contains(t, out, users.AdminID)
	require.Contains(t, out, "member@example.com")

	require.NoError(t, env.app.Adjust(ctx, []string{member.ID, "5"}))
	require.Contains(t, env.out.String(), "member@example.com now has a daily limit of 10.")

	require.NoError(t, env.app.Limit(ctx, []string{member.ID, "-100"}))
	require.Contains(t, env.out.String(), "member@example.com now has a daily limit of 0.")

	require.Error(t, env.app.Limit(ctx, []string{member.ID, "many"}))
	require.ErrorIs(t, env.app.Limit(ctx, []string{"ghost", "3"}), users.ErrUserNotFound)
}

func TestApp_Presets(t *testing.T) {
	env := newAppEnv(t)
	require.NoError(t, env.app.Presets(context.Background()))
	out := env.out.String()
	for _, p := range studio.DefaultPresets {
		require.Contains(t, out, p.Label)
	}
}

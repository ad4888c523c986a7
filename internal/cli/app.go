// Package cli is an interactive terminal front end for the studio, backed
// by the same user store, quota and generation services as the server.
package cli

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"ecomlens/internal/export"
	"ecomlens/internal/models"
	"ecomlens/internal/studio"
	"ecomlens/internal/users"
)

// SessionKey is the fixed session slot used by the terminal client, so a
// login survives restarts.
const SessionKey = "cli"

type App struct {
	users     *users.Service
	studio    *studio.Service
	exportDir string
	in        io.Reader
	out       io.Writer
	log       *slog.Logger
}

func NewApp(usersSvc *users.Service, studioSvc *studio.Service, exportDir string, in io.Reader, out io.Writer, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		users:     usersSvc,
		studio:    studioSvc,
		exportDir: exportDir,
		in:        in,
		out:       out,
		log:       logger,
	}
}

// Run starts the REPL on the app's input.
func (a *App) Run(ctx context.Context) error {
	if err := a.users.Initialize(ctx); err != nil {
		return err
	}
	printlnFn("Welcome to EcomLens. Type 'help' for commands.")
	runREPL(ctx, a, func() string { return a.status(ctx) }, bufio.NewScanner(a.in))
	return nil
}

func (a *App) current(ctx context.Context) *models.User {
	u, err := a.users.Current(ctx, SessionKey)
	if err != nil {
		a.log.Error("failed to resolve session", slog.Any("error", err))
		return nil
	}
	return u
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.current(ctx) != nil
}

func (a *App) status(ctx context.Context) string {
	u := a.current(ctx)
	if u == nil {
		return "[guest]"
	}
	return fmt.Sprintf("[%s %d/%d]", u.Email, u.UsageCount, u.UsageLimit)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printUser(u *models.User) {
	a.println(fmt.Sprintf("%s (%s) - %d of %d generations used today, %d left",
		u.Email, u.Role, u.UsageCount, u.UsageLimit, u.Remaining()))
}

func (a *App) fail(msg string, err error) error {
	a.println(msg)
	return err
}

func (a *App) Signup(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.fail("Usage: signup <email>", errors.New("missing email"))
	}
	password, err := GetPassword(a.out, "Password (optional, Enter to skip): ")
	if err != nil {
		password = ""
	}

	u, err := a.users.Signup(ctx, SessionKey, args[0], password)
	switch {
	case errors.Is(err, users.ErrInvalidEmail):
		return a.fail("That does not look like an email address.", err)
	case errors.Is(err, users.ErrDuplicateUser):
		return a.fail("An account with that email already exists.", err)
	case err != nil:
		return a.fail("Signup failed: "+err.Error(), err)
	}
	a.studio.Clear(SessionKey)
	a.println("Account created.")
	a.printUser(u)
	return nil
}

func (a *App) Login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.fail("Usage: login <email>", errors.New("missing email"))
	}
	password, err := GetPassword(a.out, "Password: ")
	if err != nil {
		password = ""
	}

	u, err := a.users.Login(ctx, SessionKey, args[0], password)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) || errors.Is(err, users.ErrInvalidCredentials) {
			return a.fail("Invalid email or password.", err)
		}
		return a.fail("Login failed: "+err.Error(), err)
	}
	a.studio.Clear(SessionKey)
	a.println("Logged in.")
	a.printUser(u)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.users.Logout(ctx, SessionKey); err != nil {
		return a.fail("Logout failed: "+err.Error(), err)
	}
	a.studio.Clear(SessionKey)
	a.println("Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u := a.current(ctx)
	if u == nil {
		a.println("Not logged in.")
		return nil
	}
	a.printUser(u)
	return nil
}

func (a *App) Presets(ctx context.Context) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, p := range a.studio.Presets() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Label, p.Description)
	}
	return tw.Flush()
}

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.fail("Usage: upload <path>", errors.New("missing path"))
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return a.fail("Cannot read file: "+err.Error(), err)
	}
	mime := http.DetectContentType(data)
	switch mime {
	case "image/png", "image/jpeg", "image/webp":
	default:
		return a.fail("Unsupported image type "+mime+". Use PNG, JPEG or WebP.", errors.New("unsupported image"))
	}

	uri := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
	if err := a.studio.Upload(SessionKey, uri); err != nil {
		return a.fail("Upload failed: "+err.Error(), err)
	}
	a.println(fmt.Sprintf("Loaded %s (%d bytes). Run 'batch' or 'custom <prompt>'.", args[0], len(data)))
	return nil
}

func (a *App) generationError(err error) error {
	switch {
	case errors.Is(err, studio.ErrNoSourceImage):
		return a.fail("Upload a product image first.", err)
	case errors.Is(err, studio.ErrEmptyPrompt):
		return a.fail("Usage: custom <prompt...>", err)
	case errors.Is(err, studio.ErrQuotaExceeded):
		return a.fail("You have reached your daily limit. Please contact admin for more access.", err)
	default:
		return a.fail("Failed to generate image. Please try again.", err)
	}
}

func (a *App) Batch(ctx context.Context) error {
	u := a.current(ctx)
	if u == nil {
		return a.fail("Please log in first.", users.ErrUserNotFound)
	}
	a.println("Generating 5 styles, this can take a while...")
	res, err := a.studio.GenerateBatch(ctx, SessionKey, u)
	if err != nil {
		return a.generationError(err)
	}
	a.println(fmt.Sprintf("%d of %d styles generated.", len(res.Assets), len(a.studio.Presets())))
	a.printAssets(res.Assets)
	return nil
}

func (a *App) Custom(ctx context.Context, args []string) error {
	u := a.current(ctx)
	if u == nil {
		return a.fail("Please log in first.", users.ErrUserNotFound)
	}
	res, err := a.studio.GenerateCustom(ctx, SessionKey, u, strings.Join(args, " "))
	if err != nil {
		return a.generationError(err)
	}
	a.printAssets(res.Assets)
	return nil
}

func (a *App) printAssets(assets []models.Asset) {
	if len(assets) == 0 {
		a.println("No images yet.")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, as := range assets {
		label := as.Prompt
		if as.Category == models.CategoryCustom {
			label = "Custom Edit: " + as.Prompt
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", as.ID, as.Category, label)
	}
	tw.Flush()
}

func (a *App) List(ctx context.Context) error {
	a.printAssets(a.studio.Assets(SessionKey))
	return nil
}

func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return a.fail("Usage: download <assetId> [dir]", errors.New("bad arguments"))
	}
	asset, err := a.studio.Asset(SessionKey, args[0])
	if err != nil {
		return a.fail("No image with that id.", err)
	}

	dir := a.exportDir
	if len(args) == 2 {
		dir = args[1]
	}
	dest, err := export.NewLocalStorage(dir)
	if err != nil {
		return a.fail("Cannot use directory: "+err.Error(), err)
	}
	path, err := dest.SaveDataURI(export.FileName(asset.Category), asset.DataURI)
	if err != nil {
		return a.fail("Download failed: "+err.Error(), err)
	}
	a.println("Saved " + path)
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	a.studio.Clear(SessionKey)
	a.println("Workspace cleared.")
	return nil
}

// requireAdmin reports whether the logged-in user may run admin commands.
func (a *App) requireAdmin(ctx context.Context) bool {
	u := a.current(ctx)
	if u == nil || !u.IsAdmin() {
		a.println("Admin access required.")
		return false
	}
	return true
}

func (a *App) Users(ctx context.Context) error {
	if !a.requireAdmin(ctx) {
		return nil
	}
	list, err := a.users.ListAllUsers(ctx)
	if err != nil {
		return a.fail("Cannot list users: "+err.Error(), err)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tROLE\tUSED\tLIMIT")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", u.ID, u.Email, u.Role, u.UsageCount, u.UsageLimit)
	}
	return tw.Flush()
}

func (a *App) Limit(ctx context.Context, args []string) error {
	return a.changeLimit(ctx, args, "Usage: limit <userId> <n>", a.users.SetLimit)
}

func (a *App) Adjust(ctx context.Context, args []string) error {
	return a.changeLimit(ctx, args, "Usage: adjust <userId> <delta>", a.users.AdjustLimit)
}

func (a *App) changeLimit(ctx context.Context, args []string, usage string, apply func(context.Context, string, int) (*models.User, error)) error {
	if !a.requireAdmin(ctx) {
		return nil
	}
	if len(args) != 2 {
		return a.fail(usage, errors.New("bad arguments"))
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return a.fail(usage, err)
	}
	u, err := apply(ctx, args[0], n)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return a.fail("No user with that id.", err)
		}
		return a.fail("Cannot update limit: "+err.Error(), err)
	}
	a.println(fmt.Sprintf("%s now has a daily limit of %d.", u.Email, u.UsageLimit))
	return nil
}

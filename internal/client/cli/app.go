// Package cli implements the interactive terminal frontend of the inkfeed
// client: a small REPL over the session store, the recovery state machine,
// the content store, and the interaction coordinator.
package cli

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/avencello/inkfeed/internal/client/api"
	"github.com/avencello/inkfeed/internal/client/config"
	"github.com/avencello/inkfeed/internal/client/content"
	"github.com/avencello/inkfeed/internal/client/interaction"
	"github.com/avencello/inkfeed/internal/client/models"
	"github.com/avencello/inkfeed/internal/client/session"
	"github.com/avencello/inkfeed/internal/client/upload"
	"github.com/avencello/inkfeed/internal/common"
	"github.com/avencello/inkfeed/internal/logging"
)

type App struct {
	config      *config.Config
	client      api.Client
	sessions    *session.Store
	store       *content.Store
	coordinator *interaction.Coordinator
	uploader    *upload.Uploader
	log         logging.Logger
	reader      *bufio.Reader

	// feed view state: changing the query resets the page to 1.
	query string
	page  int
}

func NewApp(c *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	sessions := session.New()
	client := api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, sessions)
	store := content.New(client)
	coordinator := interaction.NewCoordinator(client, store, sessions, log)
	uploader := upload.NewUploader(upload.Settings{
		Endpoint:      c.Upload.Endpoint,
		Region:        c.Upload.Region,
		Bucket:        c.Upload.Bucket,
		AccessKey:     c.Upload.AccessKey,
		SecretKey:     c.Upload.SecretKey,
		PublicBaseURL: c.Upload.PublicBaseURL,
	})

	return &App{
		config:      c,
		client:      client,
		sessions:    sessions,
		store:       store,
		coordinator: coordinator,
		uploader:    uploader,
		log:         log,
		reader:      bufio.NewReader(os.Stdin),
		page:        1,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	a.bootstrap(ctx)
	a.Root(ctx)
}

// bootstrap restores a session from a configured token by fetching the
// profile. An unauthorized answer only means "not signed in" — it routes the
// user to the login prompt instead of touching any other state.
func (a *App) bootstrap(ctx context.Context) {
	if a.config.Token == "" {
		return
	}

	restore := session.New()
	restore.Login(models.Identity{}, a.config.Token)
	probe := api.NewHTTPClient(a.config.APIBaseURL, a.config.RequestTimeout, restore)
	defer probe.Close()

	identity, err := probe.Me(ctx)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			a.log.Info(ctx, "stored token no longer valid, please sign in")
			return
		}
		a.log.Warn(ctx, "could not restore session", "error", err)
		return
	}
	a.sessions.Login(*identity, a.config.Token)
	a.log.Info(ctx, "session restored", "user", identity.Email)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current().Authenticated()
}

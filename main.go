package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Brawl345/picedit/ai"
	"github.com/Brawl345/picedit/gallery"
	"github.com/Brawl345/picedit/logger"
	"github.com/Brawl345/picedit/model"
	"github.com/Brawl345/picedit/model/sql"
	"github.com/Brawl345/picedit/utils"
	"github.com/Brawl345/picedit/utils/httpUtils"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/xid"
	"github.com/urfave/cli/v2"
)

var log = logger.New("main")

type env struct {
	store  model.Store
	editor *gallery.Service
}

// current is set on first use so commands like version run without a database.
var current *env

func setup() (*env, error) {
	policy, err := ai.PolicyFromEnv()
	if err != nil {
		return nil, err
	}

	attemptTimeout, err := aiTimeout()
	if err != nil {
		return nil, err
	}

	db, err := sql.New()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Debug().Msg("Database connection established")

	store := sql.NewStore(db)
	client := ai.NewClient(
		ai.WithPolicy(policy),
		ai.WithSender(ai.NewTransport(httpUtils.NewHttpClient(attemptTimeout))),
	)

	return &env{
		store:  store,
		editor: gallery.NewService(store, client),
	}, nil
}

// withEnv connects on first use and hands the environment to action.
func withEnv(action func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if current == nil {
			e, err := setup()
			if err != nil {
				return err
			}
			current = e
		}
		return action(c, current)
	}
}

// aiTimeout reads AI_TIMEOUT, the limit for a single HTTP attempt. Zero means none.
func aiTimeout() (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv("AI_TIMEOUT"))
	if raw == "" {
		return 0, nil
	}
	d, err := ai.ParseDelay(raw)
	if err != nil {
		return 0, fmt.Errorf("AI_TIMEOUT: %w", err)
	}
	return d, nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "picedit",
		Usage: "Edit images with an OpenAI compatible vision model",
		Commands: []*cli.Command{
			editCommand,
			generateStyleCommand,
			settingsCommand,
			stylesCommand,
			galleryCommand,
			usageCommand,
			versionCommand,
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		guid := xid.New().String()
		log.Err(err).
			Str("guid", guid).
			Msg("Command failed")
		_, _ = fmt.Fprintln(os.Stderr, "Error: "+err.Error()+utils.EmbedGUID(guid))
		os.Exit(1)
	}
}

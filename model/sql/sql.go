package sql

import (
	"embed"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Brawl345/picedit/logger"
	"github.com/Brawl345/picedit/model"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*
var embeddedMigrations embed.FS

var log = logger.New("sql")

// New connects to MySQL using the MYSQL_* environment and applies pending migrations.
func New() (*sqlx.DB, error) {
	host := strings.TrimSpace(os.Getenv("MYSQL_HOST"))
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(os.Getenv("MYSQL_PORT"))
	if port == "" {
		port = "3306"
	}
	tls := strings.TrimSpace(os.Getenv("MYSQL_TLS"))
	if tls == "" {
		tls = "false"
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = host + ":" + port
	cfg.User = strings.TrimSpace(os.Getenv("MYSQL_USER"))
	cfg.Passwd = strings.TrimSpace(os.Getenv("MYSQL_PASSWORD"))
	cfg.DBName = strings.TrimSpace(os.Getenv("MYSQL_DB"))
	cfg.TLSConfig = tls
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	db, err := sqlx.Connect("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}

	_, ignoreMigration := os.LookupEnv("IGNORE_SQL_MIGRATION")
	if !ignoreMigration {
		n, err := Migrate(db)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			log.Info().Msgf("Applied %d migration(s)", n)
		}
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

func Migrate(db *sqlx.DB) (int, error) {
	migrationSource := &migrate.EmbedFileSystemMigrationSource{FileSystem: embeddedMigrations, Root: "migrations"}
	return migrate.Exec(db.DB, "mysql", migrationSource, migrate.Up)
}

// Store is the process-wide handle to the record services. One mutex forms the
// exclusive section; callers hold it only for the duration of fn.
type Store struct {
	mu    sync.Mutex
	repos *model.Repositories
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		repos: &model.Repositories{
			Galleries: NewGalleryService(db),
			Messages:  NewMessageService(db),
			Settings:  NewSettingService(db),
			Styles:    NewStyleService(db),
		},
	}
}

func (s *Store) Exclusive(fn func(repos *model.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.repos)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

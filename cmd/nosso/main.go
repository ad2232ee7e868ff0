package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dukerupert/nosso/internal/backup"
	"github.com/dukerupert/nosso/internal/config"
	"github.com/dukerupert/nosso/internal/database"
	"github.com/dukerupert/nosso/internal/engine"
	"github.com/dukerupert/nosso/internal/logging"
	"github.com/dukerupert/nosso/internal/session"
	"github.com/dukerupert/nosso/internal/state"
	"github.com/dukerupert/nosso/internal/store"
)

const usage = `usage: nosso <command> [args]

commands:
  dump                 print the stored dataset as indented JSON
  stats                print record counts per collection and couple
  export <file>        write an encrypted copy of the dataset
  import <file>        replace the dataset with an encrypted copy
  push                 upload an encrypted copy to the configured S3 bucket
  pull <key>           restore the dataset from an S3 object
  version              check and update the stored version marker
  watch <email>        sign in and print changes as they happen (password from NOSSO_PASSWORD)
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, flag.Args(), os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	kv, closeKV, err := openKV(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeKV()
	blobs := store.NewBlobStore(kv, cfg.DataKey, cfg.VersionKey, logger.With("component", "store"))

	switch args[0] {
	case "dump":
		return dump(ctx, blobs, out)
	case "stats":
		return stats(ctx, blobs, out)
	case "export":
		if len(args) != 2 {
			return errUsage
		}
		return exportFile(ctx, blobs, args[1], cfg.BackupPassphrase)
	case "import":
		if len(args) != 2 {
			return errUsage
		}
		return importFile(ctx, blobs, args[1], cfg.BackupPassphrase)
	case "push":
		remote, err := backup.NewRemote(cfg.S3)
		if err != nil {
			return err
		}
		key, err := remote.Push(ctx, blobs, cfg.BackupPassphrase)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, key)
		return nil
	case "pull":
		if len(args) != 2 {
			return errUsage
		}
		remote, err := backup.NewRemote(cfg.S3)
		if err != nil {
			return err
		}
		return remote.Pull(ctx, blobs, args[1], cfg.BackupPassphrase)
	case "version":
		changed, err := blobs.CheckVersion(ctx, engine.AppVersion)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(out, "version marker updated to %s\n", engine.AppVersion)
		} else {
			fmt.Fprintf(out, "version %s\n", engine.AppVersion)
		}
		return nil
	case "watch":
		if len(args) != 2 {
			return errUsage
		}
		return watch(ctx, cfg, logger, blobs, args[1], os.Getenv("NOSSO_PASSWORD"), out)
	}
	return errUsage
}

func openKV(ctx context.Context, cfg *config.Config) (store.KV, func(), error) {
	if cfg.StoreDriver == config.DriverRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return store.NewRedisKV(client), func() { client.Close() }, nil
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return store.NewSQLiteKV(db), func() { db.Close() }, nil
}


func dump(ctx context.Context, blobs *store.BlobStore, out io.Writer) error {
	ds, err := blobs.Load(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(ds)
}

func stats(ctx context.Context, blobs *store.BlobStore, out io.Writer) error {
	ds, err := blobs.Load(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "users\t%d\ncouples\t%d\ntasks\t%d\nrewards\t%d\nvouchers\t%d\nactivities\t%d\n",
		len(ds.Users), len(ds.Couples), len(ds.Tasks), len(ds.Rewards), len(ds.Vouchers), len(ds.Activities))

	today := time.Now()
	perCouple := make(map[string]int)
	overdue := make(map[string]int)
	for _, t := range ds.Tasks {
		perCouple[t.CoupleID]++
		if state.ComputeStatus(t, today) == state.StatusOverdue {
			overdue[t.CoupleID]++
		}
	}
	ids := make([]string, 0, len(ds.Couples))
	for _, c := range ds.Couples {
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := ds.CoupleByID(id)
		link := "open"
		if c.Full() {
			link = "linked"
		}
		fmt.Fprintf(out, "couple %s\t%s\tpoints=%d\ttasks=%d\toverdue=%d\n", id, link, c.TotalPoints, perCouple[id], overdue[id])
	}
	return nil
}

func exportFile(ctx context.Context, blobs *store.BlobStore, path, passphrase string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := backup.Export(ctx, blobs, f, passphrase); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func importFile(ctx context.Context, blobs *store.BlobStore, path, passphrase string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()
	return backup.Import(ctx, blobs, f, passphrase)
}

// watch runs a signed-in session and prints every change notification
// until ctx is cancelled.
func watch(ctx context.Context, cfg *config.Config, logger *slog.Logger, blobs *store.BlobStore, email, password string, out io.Writer) error {
	eng := engine.New(blobs, nil, logger)
	s := session.New(eng, cfg.PollInterval, logger)
	defer s.Close()

	if err := s.Open(ctx); err != nil {
		return err
	}
	sub := s.Hub().Subscribe(0)
	defer s.Hub().Unsubscribe(sub)

	u, err := s.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "signed in as %s (%s), polling=%t\n", u.Name, u.UserCode, s.Polling())

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-sub.C():
			if !ok {
				return nil
			}
			snap := s.State()
			points := 0
			if snap.CurrentUser != nil {
				points = snap.CurrentUser.Points
			}
			fmt.Fprintf(out, "%s %s points=%d pending=%d feed=%d\n", msg.Type, msg.ID, points, len(snap.PendingTasks()), len(snap.Activities))
		}
	}
}

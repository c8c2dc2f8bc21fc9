package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ItsNotGoodName/portfolio-os/internal/api"
	"github.com/ItsNotGoodName/portfolio-os/internal/build"
	"github.com/ItsNotGoodName/portfolio-os/internal/bus"
	"github.com/ItsNotGoodName/portfolio-os/internal/config"
	"github.com/ItsNotGoodName/portfolio-os/internal/core"
	"github.com/ItsNotGoodName/portfolio-os/internal/server"
	"github.com/ItsNotGoodName/portfolio-os/internal/session"
	"github.com/ItsNotGoodName/portfolio-os/internal/store"
	"github.com/ItsNotGoodName/portfolio-os/pkg/sutureext"
	"github.com/ItsNotGoodName/portfolio-os/web"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/k0kubun/pp"
	"github.com/phsym/console-slog"
	"github.com/spf13/cobra"
)

type Options struct {
	Debug  bool   `doc:"enable debug"`
	Host   string `doc:"host to listen on"`
	Port   int    `doc:"port to listen on" default:"8080"`
	Config string `doc:"config file (.yaml or .json)" default:"portfolio-os.yaml"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			bus.SetContext(ctx)

			cfg, err := loadConfig(options.Config)
			if err != nil {
				return err
			}

			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SetYearsExperience(ctx, cfg.Portfolio.YearsExperience); err != nil {
				return err
			}

			sessions := session.NewRegistry(cfg.DesktopConfig(), session.Options{
				IdleTimeout: time.Duration(cfg.Sessions.IdleTimeout),
				Max:         cfg.Sessions.Max,
			})
			likes := bus.NewHub[store.Likes]()
			unregister := likes.Register("api.likes")
			defer unregister()

			router := server.NewRouter(api.New(db, sessions, likes), web.FS())

			super := sutureext.NewSimple("root")
			sutureext.Add(super, server.New(core.Address(options.Host, options.Port), router))
			sutureext.Add(super, session.NewJanitor(sessions, time.Minute))

			return super.Serve(ctx)
		})
	})

	cli.Root().Use = "portfolio-os"
	cli.Root().Version = build.Current.String()

	cli.Root().AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *Options) {
			ctx := cmd.Context()
			cfg := core.Must2(loadConfig(options.Config))
			db := core.Must2(openStore(ctx, cfg))
			defer db.Close()

			fmt.Printf("Migrated %s database at %s\n", db.Driver(), cfg.Database.Path)
		}),
	})

	cli.Root().AddCommand(&cobra.Command{
		Use:   "import-projects <file.yaml>",
		Short: "Create the projects listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *Options) {
			ctx := cmd.Context()

			file := core.Must2(os.Open(args[0]))
			defer file.Close()
			projects := core.Must2(store.DecodeProjects(file))

			cfg := core.Must2(loadConfig(options.Config))
			db := core.Must2(openStore(ctx, cfg))
			defer db.Close()

			count := core.Must2(db.ImportProjects(ctx, projects))
			fmt.Printf("Imported %d projects\n", count)
		}),
	})

	cli.Root().AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the resolved config",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *Options) {
			pp.Println(core.Must2(loadConfig(options.Config)))
		}),
	})

	cli.Run()
}

func loadConfig(path string) (config.Config, error) {
	configFilePath, err := filepath.Abs(path)
	if err != nil {
		return config.Config{}, err
	}

	driver, err := config.NewDriver(configFilePath)
	if err != nil {
		return config.Config{}, err
	}

	cfgStore, err := config.NewStore(driver)
	if err != nil {
		return config.Config{}, err
	}

	if err := config.NormalizeConfig(cfgStore); err != nil {
		return config.Config{}, err
	}

	return cfgStore.GetConfig()
}

func openStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	db, err := store.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("Opened database", "driver", cfg.Database.Driver, "path", cfg.Database.Path)

	return db, nil
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}

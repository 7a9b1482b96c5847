// Boilerplate for initializing the program
package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelajfisher/conference-bridge/internal/bot"
	"github.com/angelajfisher/conference-bridge/internal/config"
	"github.com/angelajfisher/conference-bridge/internal/db"
	"github.com/angelajfisher/conference-bridge/internal/orchestrator"
	"github.com/angelajfisher/conference-bridge/internal/server"
	"github.com/joho/godotenv"
	"github.com/oklog/run"
)

const (
	AppVersion    = "1.0"
	fatalErrorMsg = "\nfatal: %v\n\nA fatal error occurred. Conference Bridge shut down.\n"
	separator     = "\n--------------------------------------\n\n"
)

// Options are the command-line settings; empty strings defer to the config file.
type Options struct {
	DevMode    bool
	EnvPath    string
	ConfigPath string
	Port       string
	DBPath     string
	DBDisabled bool
}

type setup struct {
	bot          *bot.Config
	server       *server.Config
	orchestrator *orchestrator.Orchestrator
	database     db.DatabasePool
	configPath   string
}

func Initialize(opts Options) {
	fmt.Print(
		"\n(o_o)/ ~ ~ ~\n",
		"Hi, Welcome to Conference Bridge v"+AppVersion+"!\n\n",
		"Conference events posted to the bridge are re-broadcast to every registered receiver.\n",
	)

	s, err := validateEnv(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, fatalErrorMsg, err)
		os.Exit(1)
	}
	defer func() {
		if err := s.database.Close(); err != nil {
			log.Println(err)
		}
	}()

	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)

	g := run.Group{}

	g.Add(func() error {
		<-osSignal
		return nil
	}, func(error) {
		signal.Stop(osSignal)
		close(osSignal)
		err := bot.Stop(s.bot)
		if err != nil {
			log.Println(err)
		}
		s.orchestrator.Shutdown()
	})

	g.Add(func() error { return server.Start(s.server) }, func(error) {
		err := server.Stop(s.server)
		if err != nil {
			log.Println(err)
		}
	})

	if s.configPath != "" {
		reloader, err := config.NewReloader(s.configPath, func(cfg config.Config) {
			kinds, _ := cfg.NotifyKinds() // validated by LoadConfig
			s.orchestrator.SetDefaultKinds(kinds)
		})
		if err != nil {
			log.Printf("warn: config hot-reload disabled: %s", err)
		} else {
			ctx, cancel := context.WithCancel(context.Background())
			g.Add(func() error { return reloader.Run(ctx) }, func(error) { cancel() })
		}
	}

	err = bot.Run(s.bot)
	if err != nil {
		fmt.Fprintf(os.Stderr, fatalErrorMsg, err)
		os.Exit(1)
	}

	err = g.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, fatalErrorMsg, err)
		os.Exit(1)
	}

	fmt.Println("See you later! o/")
}

func validateEnv(opts Options) (*setup, error) {
	fmt.Println(separator + "Starting setup...\n\nLoading environment variables")
	defer fmt.Print(separator)

	if opts.EnvPath != "" {
		fmt.Println(
			"Loading variables from",
			opts.EnvPath,
			"(existing environment variables are not overridden)",
		)
		err := godotenv.Load(opts.EnvPath)
		if err != nil {
			return nil, errors.New("could not load .env file at provided path")
		}
	} else {
		fmt.Println("note: no .env file provided")
	}

	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}

	if opts.DevMode {
		fmt.Print(
			"\nStarting in DEVELOPMENT mode:\n",
			"\t- Server running insecurely (HTTP without TLS)\n",
			"\t- Requests are accepted unsigned unless BRIDGE_SECRET is set\n",
			"This mode is for testing purposes only.\n",
		)
	} else if os.Getenv("SSL_CERT") == "" || os.Getenv("SSL_KEY") == "" {
		return nil, errors.New("required SSL_CERT and/or SSL_KEY filepaths missing from environment")
	}

	secret := os.Getenv("BRIDGE_SECRET")
	if secret == "" && !opts.DevMode {
		return nil, errors.New("required variable BRIDGE_SECRET missing from environment")
	}

	var dbPool db.DatabasePool
	if opts.DBDisabled {
		fmt.Println("Database disabled, skipping initialization")
		dbPool = db.DatabasePool{Enabled: false}
	} else {
		fmt.Println("\nInitializing database at", cfg.DBPath)
		dbPool, err = db.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("could not initialize database: %w", err)
		}
	}

	o := orchestrator.NewOrchestrator(dbPool)
	notifyKinds, _ := cfg.NotifyKinds()
	o.SetDefaultKinds(notifyKinds)

	configPath := ""
	if opts.ConfigPath != "" {
		if _, statErr := os.Stat(opts.ConfigPath); statErr == nil {
			configPath = opts.ConfigPath
		}
	}

	fmt.Println("\nSetup complete! Time to get the party started!")

	return &setup{
		bot: &bot.Config{
			BotToken:     os.Getenv("BOT_TOKEN"),
			AppID:        os.Getenv("APP_ID"),
			Orchestrator: o,
		},
		server: &server.Config{
			DevMode:      opts.DevMode,
			Orchestrator: o,
			BaseURL:      cfg.BaseURL,
			Port:         cfg.Port,
			Secret:       secret,
		},
		orchestrator: o,
		database:     dbPool,
		configPath:   configPath,
	}, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"kitkattimer/internal/config"
	"kitkattimer/internal/core/dispatch"
	"kitkattimer/internal/core/model"
	"kitkattimer/internal/core/tracker"
	"kitkattimer/internal/platform"
	"kitkattimer/internal/snp"
	"kitkattimer/internal/ui/about"
	"kitkattimer/internal/ui/tray"
	"kitkattimer/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	flag "github.com/spf13/pflag"
)

const appName = "KitKatTimer"

func main() {
	var (
		configPath string
		debug      bool
		help       bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.BoolVar(&debug, "debug", false, "Log daemon connection and status changes")
	flag.BoolVar(&help, "help", false, "Show help message")
	flag.Parse()

	if help {
		printUsage()
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("config: %v", err)
		os.Exit(1)
	}
	if debug {
		cfg.Debug = true
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("com.kitkattimer.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconActive))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	aboutWindow := about.New(fyneApp, appName)
	aboutWindow.Window().Hide()
	desktopApp.SetSystemTrayWindow(aboutWindow.Window())

	keeper := tracker.New(cfg.Interval(), time.Now)
	client := snp.NewClient(snp.Config{
		App:     appName,
		Address: cfg.Address,
		Timeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var loop *dispatch.Loop
	post := func(event dispatch.Event) {
		go func() {
			if err := loop.Post(ctx, event); err != nil && cfg.Debug {
				log.Printf("post %s: %v", event.Kind, err)
			}
		}()
	}

	trayManager := tray.New(desktopApp, appName, tray.Icons{
		Active: resources.MustIcon(resources.IconActive),
		Away:   resources.MustIcon(resources.IconAway),
	}, cfg.Interval(), tray.Callbacks{
		OnInterval: func(interval model.BreakInterval) {
			post(dispatch.IntervalSelected(interval))
		},
		OnAbout: aboutWindow.Show,
		OnExit: func() {
			post(dispatch.ExitRequested())
		},
	})

	loop = dispatch.New(keeper, client, trayManager, time.Now, dispatch.Config{
		TickInterval: cfg.TickInterval,
		Debug:        cfg.Debug,
	})

	go watchStatus(ctx, loop, cfg.Debug)
	go watchIdle(ctx, loop, cfg)

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		err := loop.Run(ctx)
		if err == nil {
			fyne.Do(fyneApp.Quit)
			return
		}
		if !errors.Is(err, context.Canceled) {
			log.Printf("dispatch: %v", err)
		}
	}()

	fyneApp.Run()
	// The app can also end without the Exit item being used.
	cancel()
	select {
	case <-loopDone:
	case <-time.After(2 * cfg.DialTimeout):
	}
}

func watchStatus(ctx context.Context, sink platform.Sink, debug bool) {
	err := platform.NewStatusSource(platform.StatusConfig{Debug: debug}).Watch(ctx, sink)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	if errors.Is(err, platform.ErrStatusUnsupported) && !debug {
		return
	}
	log.Printf("status source: %v", err)
}

func watchIdle(ctx context.Context, sink platform.Sink, cfg *config.Config) {
	err := platform.WatchIdle(ctx, platform.NewIdleProvider(), platform.IdleWatchConfig{
		Threshold:    cfg.IdleThreshold,
		PollInterval: cfg.IdlePoll,
		Debug:        cfg.Debug,
	}, sink)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	if errors.Is(err, platform.ErrIdleUnsupported) && !cfg.Debug {
		return
	}
	log.Printf("idle watch: %v", err)
}

func printUsage() {
	fmt.Println("kitkattimer - reminds you to take a break after working too long")
	fmt.Println()
	fmt.Println("Usage: kitkattimer [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  KITKAT_CONFIG            Path to config file")
	fmt.Println("  KITKAT_ADDRESS           Loopback daemon address (default: 127.0.0.1:9887)")
	fmt.Println("  KITKAT_DIAL_TIMEOUT      Connect and write timeout (default: 2s)")
	fmt.Println("  KITKAT_DEFAULT_INTERVAL  Initial break interval: 30m, 1h, 2h, 3h or 4h")
	fmt.Println("  KITKAT_DEBUG             Log connection problems (true/false)")
	fmt.Println()
	fmt.Println("Configuration file: ~/.config/kitkattimer/config.yaml")
}

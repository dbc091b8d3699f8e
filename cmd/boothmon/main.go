package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"boothmon/internal/aqara"
	"boothmon/internal/config"
	"boothmon/internal/fsutil"
	"boothmon/internal/history"
	"boothmon/internal/logging"
	"boothmon/internal/monitor"
	"boothmon/internal/notify"
	"boothmon/internal/secrets"
	"boothmon/internal/sheet"
	"boothmon/internal/status"
	"boothmon/internal/tui"
)

const version = "0.1.0-dev"

func main() {
	config.LoadEnv()

	if len(os.Args) <= 1 {
		runTUI()
		return
	}

	command := strings.ToLower(os.Args[1])
	if handler, ok := commandHandlers()[command]; ok {
		handler()
		return
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
	printUsage()
	os.Exit(1)
}

func commandHandlers() map[string]func() {
	return map[string]func(){
		"status":  runStatus,
		"watch":   runWatch,
		"lock":    func() { runControl(true) },
		"unlock":  func() { runControl(false) },
		"config":  runConfig,
		"pin":     runPIN,
		"secret":  runSecret,
		"version": runVersion,
		"help":    printUsage,
		"--help":  printUsage,
		"-h":      printUsage,
	}
}

func runVersion() {
	fmt.Printf("boothmon version %s\n", version)
}

func printUsage() {
	fmt.Println("boothmon - photo booth printer monitor")
	fmt.Println()
	fmt.Println("Usage: boothmon [command]")
	fmt.Println()
	fmt.Println("Without a command the interactive dashboard starts.")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  status [printer]   One-shot status check for a printer")
	fmt.Println("  watch [printer]    Poll continuously and print each snapshot")
	fmt.Println("  lock               Send the lock signal to the booth")
	fmt.Println("  unlock             Send the unlock signal to the booth")
	fmt.Println("  config test [path] Validate the configuration file(s)")
	fmt.Println("  pin set            Store the admin PIN in the secret store")
	fmt.Println("  secret set aqara   Store the Aqara client secret in the secret store")
	fmt.Println("  version            Print version")
	fmt.Println("  help               Show this help")
}

// newLogger builds the process logger; BOOTHMON_LOG_FILE switches from
// stdout to an append-only file.
func newLogger(cfg config.Config) *logging.Logger {
	level := logging.ParseLevel(cfg.Logging.Level)
	if path := os.Getenv(config.EnvLogFile); path != "" {
		logger, err := logging.NewFileLogger(level, path)
		if err == nil {
			return logger
		}
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file, logging to stdout: %v\n", err)
	}
	return logging.NewLogger(level)
}

func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// pickPrinter resolves the printer name from an optional trailing
// argument, falling back to the configured default.
func pickPrinter(cfg config.Config, args []string) string {
	if len(args) > 0 {
		name := strings.Join(args, " ")
		for _, known := range cfg.PrinterNames() {
			if known == name {
				return name
			}
		}
		fmt.Fprintf(os.Stderr, "Unknown printer: %s\n", name)
		fmt.Fprintf(os.Stderr, "Configured printers: %s\n", strings.Join(cfg.PrinterNames(), ", "))
		os.Exit(1)
	}
	return cfg.DefaultPrinter
}

func newAgent(cfg config.Config, printer string, logger *logging.Logger) *monitor.Agent {
	profile := cfg.Profile(printer)

	classifier := status.New(profile.WarningThreshold)
	classifier.HeartbeatWarn = cfg.HeartbeatWarn()
	classifier.Location = cfg.Location()

	client := sheet.NewClient(logger)
	source := sheet.NewTabSource(client, config.SheetID(profile), cfg.SheetTab)

	return monitor.New(printer, profile, source, classifier,
		cfg.WindowMinutes, cfg.PollInterval(), logger)
}

func runTUI() {
	cfg := loadConfig()
	logger := newLogger(cfg)
	defer func() { _ = logger.Close() }()

	logger.Info("app.started", "Application started", map[string]interface{}{
		"version": version,
		"ts":      time.Now().UTC().Format(time.RFC3339),
	})

	var store *secrets.Store
	if s, err := secrets.NewStore(secrets.DefaultStoreConfig(), logger); err == nil {
		store = s
	}

	client := sheet.NewClient(logger)
	opts := tui.Options{
		Config: cfg,
		Logger: logger,
		Sources: func(profile config.PrinterProfile) sheet.Source {
			return sheet.NewTabSource(client, config.SheetID(profile), cfg.SheetTab)
		},
		VerifyPIN: buildPINCheck(store),
		StateDir:  fsutil.GetStateDir(fsutil.DefaultStateDir),
	}

	if topic := config.NtfyTopic(); topic != "" {
		opts.Booth = notify.NewClient(config.NtfyBaseURL(cfg), topic, logger)
	}

	creds := aqara.CredentialsFromEnv()
	if store != nil {
		creds = aqara.ResolveCredentials(store)
	}
	if creds.Complete() {
		plug, err := aqara.NewClient(creds, logger)
		if err == nil {
			opts.Plug = plug
			opts.PlugDeviceID = os.Getenv(config.EnvAqaraPlug)
		}
	}

	p := tea.NewProgram(tui.NewModel(opts))
	if _, err := p.Run(); err != nil {
		logger.Error("app.error", "Application error", map[string]interface{}{
			"error": err.Error(),
		})
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}

	logger.Info("app.exited", "Application exited", map[string]interface{}{
		"ts": time.Now().UTC().Format(time.RFC3339),
	})
}

// buildPINCheck prefers the encrypted store; the APP_LOGIN_PIN
// environment variable is the fallback for installs without one.
func buildPINCheck(store *secrets.Store) func(string) bool {
	if store != nil && store.HasPIN() {
		return store.VerifyPIN
	}

	return func(attempt string) bool {
		pin := config.LoginPIN()
		return pin != "" && attempt == pin
	}
}

func runStatus() {
	cfg := loadConfig()
	logger := logging.NewLogger(logging.LevelError)

	printer := pickPrinter(cfg, os.Args[2:])
	agent := newAgent(cfg, printer, logger)

	snap := agent.Poll()
	printSnapshot(snap)

	if snap.Status.Severity == status.SeverityError {
		os.Exit(2)
	}
}

func runWatch() {
	cfg := loadConfig()
	logger := newLogger(cfg)
	defer func() { _ = logger.Close() }()

	printer := pickPrinter(cfg, os.Args[2:])
	agent := newAgent(cfg, printer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshots := make(chan monitor.Snapshot, 1)
	go agent.Run(ctx, snapshots)

	fmt.Printf("Watching %s every %s (Ctrl+C to stop)\n", printer, agent.Interval())
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped.")
			return
		case snap := <-snapshots:
			printSnapshot(snap)
		}
	}
}

func printSnapshot(snap monitor.Snapshot) {
	fmt.Printf("[%s] %s\n", snap.FetchedAt.Format("15:04:05"), snap.Printer)

	// no observation means no derived status worth printing, even when
	// the fetch itself succeeded
	if !snap.HasData() {
		if snap.Outcome == history.OutcomeBadSchema {
			fmt.Println("  Tabellenformat unerwartet – Spalten der Statusliste prüfen.")
		} else {
			fmt.Println("  Warte auf Daten vom Drucker…")
		}
		fmt.Printf("  Zeilen: %d (übersprungen: %d)\n", snap.RowsSeen, snap.RowsDropped)
		return
	}

	fmt.Printf("  %s\n", snap.Status.Display)

	fmt.Printf("  Papier: %d Bilder übrig\n", snap.MediaRemaining)
	fmt.Printf("  Verbrauch: %d Bilder", snap.Stats.PrintsTotal)
	if snap.Stats.ThroughputOverall != nil {
		fmt.Printf(" (%.1f/Min)", *snap.Stats.ThroughputOverall)
	}
	fmt.Println()
	if snap.HasCost {
		fmt.Printf("  Materialkosten: %.2f EUR\n", snap.CostUsed)
	}
}

func runControl(lock bool) {
	cfg := loadConfig()
	logger := logging.NewLogger(logging.LevelInfo)

	topic := config.NtfyTopic()
	if topic == "" {
		fmt.Fprintf(os.Stderr, "No control topic configured (set %s)\n", config.EnvNtfyTopic)
		os.Exit(1)
	}

	client := notify.NewClient(config.NtfyBaseURL(cfg), topic, logger)

	ok := false
	verb := "unlock"
	if lock {
		verb = "lock"
		ok = client.Lock()
	} else {
		ok = client.Unlock()
	}

	if !ok {
		fmt.Fprintf(os.Stderr, "Failed to send %s signal\n", verb)
		os.Exit(1)
	}
	fmt.Printf("Sent %s signal.\n", verb)
}

func runConfig() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: boothmon config <subcommand>\n")
		fmt.Fprintf(os.Stderr, "Subcommands:\n")
		fmt.Fprintf(os.Stderr, "  test [path]  Test configuration file for validity\n")
		os.Exit(1)
	}

	switch strings.ToLower(os.Args[2]) {
	case "test":
		runConfigTest()
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", os.Args[2])
		fmt.Fprintf(os.Stderr, "Valid subcommands: test\n")
		os.Exit(1)
	}
}

func runConfigTest() {
	var cfg config.Config
	var configErr error

	if len(os.Args) > 3 {
		path := os.Args[3]
		fmt.Printf("Testing configuration file: %s\n", path)
		cfg, configErr = config.LoadFrom(path)
	} else {
		fmt.Println("Testing configuration (system + user merge):")
		fmt.Printf("  System config: %s\n", config.SystemConfigPath())
		if userPath := config.UserConfigPath(); userPath != "" {
			fmt.Printf("  User config:   %s\n", userPath)
		}
		fmt.Println()
		cfg, configErr = config.Load()
	}

	if configErr != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration validation FAILED:\n")
		fmt.Fprintf(os.Stderr, "   %v\n", configErr)
		os.Exit(1)
	}

	fmt.Println("✓ Configuration is valid")
	fmt.Printf("  Poll interval: %s\n", cfg.PollInterval())
	fmt.Printf("  Sheet tab:     %s\n", cfg.SheetTab)
	fmt.Printf("  Printers:      %s\n", strings.Join(cfg.PrinterNames(), ", "))
	fmt.Printf("  Default:       %s\n", cfg.DefaultPrinter)
}

func runPIN() {
	logger := logging.NewLogger(logging.LevelInfo)

	if len(os.Args) < 3 || strings.ToLower(os.Args[2]) != "set" {
		fmt.Fprintf(os.Stderr, "Usage: boothmon pin set\n")
		os.Exit(1)
	}

	store, err := secrets.NewStore(secrets.DefaultStoreConfig(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening secret store: %v\n", err)
		os.Exit(1)
	}

	pin := promptLine("New admin PIN (digits only): ")

	if len(pin) < 4 {
		fmt.Fprintln(os.Stderr, "PIN must have at least 4 digits.")
		os.Exit(1)
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			fmt.Fprintln(os.Stderr, "PIN must contain digits only.")
			os.Exit(1)
		}
	}

	if err := store.SetPIN(pin); err != nil {
		fmt.Fprintf(os.Stderr, "Error storing PIN: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Admin PIN stored.")
}

// runSecret stores named secrets; the dashboard resolves them before
// falling back to the environment.
func runSecret() {
	logger := logging.NewLogger(logging.LevelInfo)

	if len(os.Args) < 4 || strings.ToLower(os.Args[2]) != "set" || strings.ToLower(os.Args[3]) != "aqara" {
		fmt.Fprintf(os.Stderr, "Usage: boothmon secret set aqara\n")
		os.Exit(1)
	}

	store, err := secrets.NewStore(secrets.DefaultStoreConfig(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening secret store: %v\n", err)
		os.Exit(1)
	}

	value := promptLine("Aqara client secret: ")
	if value == "" {
		fmt.Fprintln(os.Stderr, "No input.")
		os.Exit(1)
	}

	if err := store.Set(secrets.NameAqaraSecret, []byte(value)); err != nil {
		fmt.Fprintf(os.Stderr, "Error storing secret: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Aqara client secret stored.")
}

func promptLine(prompt string) string {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		fmt.Fprintln(os.Stderr, "No input.")
		os.Exit(1)
	}
	return strings.TrimSpace(scanner.Text())
}

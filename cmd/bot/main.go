package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"tothemoon/internal/analyzer"
	"tothemoon/internal/collector"
	"tothemoon/internal/config"
	"tothemoon/internal/console"
	"tothemoon/internal/recorder"
	"tothemoon/internal/scheduler"
	"tothemoon/internal/txlog"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ToTheMoon starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	fetcher := collector.NewBinanceFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init transaction log (clears the previous run's output)
	txs, err := txlog.New(cfg.Transactions.Dir, cfg.Transactions.File)
	if err != nil {
		log.Fatalf("[FATAL] init transaction log: %v", err)
	}
	log.Printf("[INFO] transaction log: %s", txs.Path())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init analyzer and scheduler
	anz := analyzer.New(txs, rec)
	sched := scheduler.New(fetcher, anz, rec, scheduler.Options{
		PollInterval: cfg.PollInterval(),
		FoldInterval: cfg.FoldInterval(),
		SeedInterval: cfg.DataSource.SeedInterval,
		BootstrapDir: cfg.Bootstrap.Dir,
		TxLogPath:    txs.Path(),
	})

	// One synchronous snapshot so symbols given on the command line can be
	// validated before the actors start.
	if err := sched.Prime(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	for _, arg := range os.Args[1:] {
		if reply := sched.HandleCommand("add " + arg); reply != "" {
			fmt.Println(reply)
		}
	}

	if err := sched.RegisterSnapshotJob(cfg.Schedule.SnapshotCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.StartCron()
	defer sched.StopCron()

	// Context shared by both actors for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.RunPoller(ctx)
	}()

	// Console actor. Reading stdin cannot be interrupted, so the reader gets
	// no context: it stops on "withdraw" or EOF and is not waited on when
	// shutdown comes from a signal.
	withdrawn := make(chan struct{})
	reader := &console.Reader{In: os.Stdin, Out: os.Stdout}
	go func() {
		reader.Run(sched.HandleCommand, cancel)
		close(withdrawn)
	}()

	fmt.Println("ToTheMoon is running. Type 'help' for commands.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
		cancel()
	case <-withdrawn:
	}
	wg.Wait()

	total := anz.WithdrawAll()
	fmt.Printf("You ended up with %v USD\n", total)
	log.Println("[INFO] ToTheMoon stopped")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/caption-queue/internal/caption"
	"github.com/nguyentantai21042004/caption-queue/internal/classifier"
	"github.com/nguyentantai21042004/caption-queue/internal/config"
	"github.com/nguyentantai21042004/caption-queue/internal/handler"
	"github.com/nguyentantai21042004/caption-queue/internal/ingest"
	"github.com/nguyentantai21042004/caption-queue/internal/lifecycle"
	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/metrics"
	"github.com/nguyentantai21042004/caption-queue/internal/notifier"
	"github.com/nguyentantai21042004/caption-queue/internal/processor"
	"github.com/nguyentantai21042004/caption-queue/internal/publisher"
	"github.com/nguyentantai21042004/caption-queue/internal/store"
	"github.com/nguyentantai21042004/caption-queue/internal/tone"
	"github.com/nguyentantai21042004/caption-queue/internal/transcriber"
	"github.com/nguyentantai21042004/caption-queue/internal/watcher"
	"github.com/nguyentantai21042004/caption-queue/pkg/executor"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "Caption queue starting on %s/%s, %d CPUs", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Error(ctx, "Failed to open store: %v", err)
		os.Exit(1)
	}
	defer st.Close()
	log.Info(ctx, "Storage: %s %s", cfg.Storage.Driver, cfg.Storage.Path)

	m := metrics.New()

	selector := tone.New(cfg.Caption.Tones(), tone.WithLogger(log))
	var engineOpts []caption.Option
	if cfg.Gemini.Ready() {
		engineOpts = append(engineOpts, caption.WithGenerator(caption.NewGemini(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)))
		log.Info(ctx, "Captions: Gemini %s with %d key(s), corpus fallback", cfg.Gemini.Model, len(cfg.Gemini.APIKeys))
	} else {
		log.Info(ctx, "Captions: corpus only")
	}
	engine := caption.New(selector, log, engineOpts...)

	svc := lifecycle.New(st, newPublisher(ctx, cfg, log), newNotifier(ctx, cfg, log), engine, log,
		lifecycle.WithMetrics(m),
		lifecycle.WithMaxLength(cfg.Caption.MaxLength),
	)

	pipeline := ingest.New(newTranscriber(ctx, cfg, log), classifier.New(), engine, svc, log,
		ingest.WithMetrics(m),
		ingest.WithMaxLength(cfg.Caption.MaxLength),
	)

	h := handler.New(handler.Config{
		UploadDir:       cfg.Paths.Uploads,
		DefaultTone:     cfg.Caption.DefaultTone,
		SMSTone:         cfg.Caption.SMSTone,
		ApprovedNumbers: cfg.SMS.ApprovedNumbers,
		TwilioAuthToken: cfg.Twilio.AuthToken,
		PublicURL:       cfg.Server.PublicURL,
		RequestTimeout:  cfg.Performance.RequestTimeout,
	}, pipeline, svc, log, m)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	proc := processor.New(processor.Config{
		ArchiveDir:  cfg.Paths.Archived,
		DefaultTone: cfg.Caption.DefaultTone,
	}, pipeline, log)

	w, err := watcher.New(cfg.Paths.Input, proc.Process, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 2)
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("watcher: %w", err)
		}
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	log.Info(ctx, "Listening on %s", cfg.Server.Addr)
	log.Info(ctx, "Monitoring drop folder: %s", cfg.Paths.Input)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "%v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "HTTP shutdown: %v", err)
	}

	// The store is closed by a deferred call; in-flight drop-folder work must finish first.
	select {
	case <-watcherDone:
	case <-shutdownCtx.Done():
		log.Warn(shutdownCtx, "Drop-folder processing did not finish before the shutdown timeout")
	}

	log.Info(shutdownCtx, "Caption queue stopped")
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Storage.Driver != config.DriverSQLite {
		return store.NewMemory(), nil
	}
	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	st, err := store.NewSQLite(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func newPublisher(ctx context.Context, cfg *config.Config, log logger.Logger) publisher.Publisher {
	if cfg.Twitter.BearerToken == "" {
		log.Warn(ctx, "Posting: no bearer token, using stub publisher")
		return publisher.NewStub(log)
	}
	pub, err := publisher.NewX(publisher.Config{
		APIBase:     cfg.Twitter.APIBase,
		BearerToken: cfg.Twitter.BearerToken,
		Handle:      cfg.Twitter.Handle,
	}, log)
	if err != nil {
		log.Warn(ctx, "Posting: %v, using stub publisher", err)
		return publisher.NewStub(log)
	}
	return pub
}

func newNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) notifier.Notifier {
	n, err := notifier.NewTwilio(notifier.Config{
		APIBase:    cfg.Twilio.APIBase,
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		From:       cfg.Twilio.PhoneNumber,
	}, log)
	if err != nil {
		log.Warn(ctx, "Notifications: %v, using stub notifier", err)
		return notifier.NewStub(log)
	}
	return n
}

func newTranscriber(ctx context.Context, cfg *config.Config, log logger.Logger) transcriber.Transcriber {
	if !cfg.Whisper.Enabled {
		log.Info(ctx, "Transcription: disabled")
		return transcriber.Disabled("whisper is disabled")
	}

	exec := executor.New()
	tcfg := transcriber.Config{
		WhisperBinary: cfg.Whisper.BinaryPath,
		ModelPath:     cfg.Whisper.ModelPath,
		Language:      cfg.Whisper.Language,
		Threads:       cfg.Whisper.Threads,
		Prompt:        cfg.Whisper.Prompt,
		FFmpegBinary:  cfg.FFmpeg.BinaryPath,
		TempDir:       cfg.Paths.Temp,
		MaxConcurrent: cfg.Performance.MaxConcurrent,
	}
	if err := transcriber.Check(tcfg, exec); err != nil {
		log.Warn(ctx, "Transcription unavailable: %v", err)
		return transcriber.Disabled(err.Error())
	}
	log.Info(ctx, "Transcription: whisper %d threads, model %s", tcfg.Threads, tcfg.ModelPath)
	return transcriber.NewWhisper(tcfg, exec, log)
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Uploads,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

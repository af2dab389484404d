package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/coca/internal/capture"
	"github.com/blackwell-systems/coca/internal/focus"
	"github.com/blackwell-systems/coca/internal/keys"
	"github.com/blackwell-systems/coca/internal/logging"
	"github.com/blackwell-systems/coca/internal/output"
	"github.com/blackwell-systems/coca/internal/settings"
	"github.com/blackwell-systems/coca/internal/source"
	"github.com/blackwell-systems/coca/internal/store"
)

var (
	recordDaemon      bool
	recordDaemonChild bool
	recordPIDFile     string
	recordLogFile     string
	recordStop        bool

	recordCmd = &cobra.Command{
		Use:   "record",
		Short: "Record gamepad input",
		Long: `Record every gamepad input event to the local record log.

Each event is stored with the time it happened, the name of the device and
the application that had focus. Axis and trigger movements smaller than the
precision setting, measured from the last recorded value of that control,
are dropped.

Record modes:
  • Foreground (default): Run in current terminal with Ctrl+C to stop
  • Daemon: Run as background process
  • Stop: Stop a running daemon

Only one recorder can write to a record log at a time. Changes to the
settings file are applied while recording.`,
		Example: `  # Record in foreground (Ctrl+C to stop)
  coca record

  # Record in the background
  coca record --daemon

  # Stop the background recorder
  coca record --stop

  # Use custom PID and log files
  coca record --daemon --pid-file /tmp/coca.pid --log-file /tmp/coca.log`,
		RunE: runRecord,
	}
)

func init() {
	recordCmd.Flags().BoolVar(&recordDaemon, "daemon", false, "run as background daemon")
	recordCmd.Flags().BoolVar(&recordDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	recordCmd.Flags().StringVar(&recordPIDFile, "pid-file", "", "PID file path (default: ~/.coca/record.pid)")
	recordCmd.Flags().StringVar(&recordLogFile, "log-file", "", "log file path (default: ~/.coca/record.log)")
	recordCmd.Flags().BoolVar(&recordStop, "stop", false, "stop running daemon")

	// Hide the internal daemon-child flag from help
	recordCmd.Flags().MarkHidden("daemon-child")
}

func runRecord(cmd *cobra.Command, args []string) error {
	if recordPIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		recordPIDFile = defaultPID
	}

	if recordLogFile == "" {
		defaultLog, err := getDefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to get default log file path: %w", err)
		}
		recordLogFile = defaultLog
	}

	if recordStop {
		return stopRecordDaemon()
	}

	if recordDaemon {
		return startRecordDaemon()
	}

	return runRecorder(recordDaemonChild)
}

func stopRecordDaemon() error {
	running, err := capture.IsDaemonRunning(recordPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running {
		fmt.Println("Recorder is not running")
		return nil
	}

	spinner := output.NewSpinner("Stopping recorder")
	spinner.Start()
	if err := capture.StopDaemon(recordPIDFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Recorder stopped")

	return nil
}

// daemonArgs forwards the global flags to the child process as absolute
// paths, since the child does not share the parent's working directory.
func daemonArgs() ([]string, error) {
	var args []string

	db, err := getDBPath()
	if err != nil {
		return nil, err
	}
	if db, err = filepath.Abs(db); err != nil {
		return nil, err
	}
	args = append(args, "--db", db)

	if configPath != "" {
		cfg, err := filepath.Abs(configPath)
		if err != nil {
			return nil, err
		}
		args = append(args, "--config", cfg)
	}

	args = append(args, "--pid-file", recordPIDFile, "--log-file", recordLogFile, "--log-format", logFormat)
	return args, nil
}

func startRecordDaemon() error {
	args, err := daemonArgs()
	if err != nil {
		return fmt.Errorf("failed to resolve daemon paths: %w", err)
	}

	spinner := output.NewSpinner("Starting recorder")
	spinner.Start()
	if err := capture.StartDaemon(recordPIDFile, recordLogFile, args...); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Recorder started")

	fmt.Printf("\nGamepad recorder started\n")
	fmt.Printf("  PID file: %s\n", recordPIDFile)
	fmt.Printf("  Log file: %s\n", recordLogFile)
	fmt.Printf("\nTo stop: coca record --stop\n")

	return nil
}

// recorder bundles everything a recording session owns.
type recorder struct {
	store   *store.Store
	src     source.Source
	poller  *focus.Poller
	watcher *settings.Watcher
	worker  *capture.Worker
	logger  *zap.Logger
}

func (r *recorder) close() {
	if r.poller != nil {
		r.poller.Stop()
	}
	if r.watcher != nil {
		r.watcher.Close()
	}
	if r.src != nil {
		r.src.Close()
	}
	if r.store != nil {
		r.store.Close()
	}
	if r.logger != nil {
		r.logger.Sync()
	}
}

// newRecorder opens the log, the event source and the focus poller, and
// starts following the settings file.
func newRecorder() (*recorder, error) {
	cfg, cfgPath, err := loadSettings()
	if err != nil {
		return nil, err
	}

	logger, atom, err := newLogger(cfg.Logging)
	if err != nil {
		// An unknown level in the settings file should not stop recording.
		if logger, atom, err = newLogger("info"); err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		logger.Warn("unknown log level in settings; using info", zap.String("logging", cfg.Logging))
	}

	r := &recorder{logger: logger}

	path, err := getDBPath()
	if err != nil {
		r.close()
		return nil, fmt.Errorf("failed to get database path: %w", err)
	}

	r.store, err = store.New(path)
	if err != nil {
		r.close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := r.store.CreateSchema(keys.CurrentVersion); err != nil {
		r.close()
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}

	shared := settings.NewShared(cfg)
	r.watcher = settings.NewWatcher(cfgPath, shared)
	r.watcher.OnChange(func(s settings.Settings) {
		if err := logging.SetLevel(atom, s.Logging); err != nil {
			logger.Warn("ignoring log level from settings", zap.Error(err))
		}
		logger.Info("settings reloaded",
			zap.Float32("precision", s.Precision),
			zap.String("logging", s.Logging))
	})
	if err := r.watcher.Start(); err != nil {
		logger.Warn("settings changes will not be picked up", zap.Error(err))
	} else {
		go func(errs <-chan error) {
			for err := range errs {
				logger.Warn("settings reload failed", zap.Error(err))
			}
		}(r.watcher.Errors())
	}

	r.src, err = source.Open(logger.Named("source"))
	if err != nil {
		r.close()
		return nil, fmt.Errorf("failed to open gamepad input: %w", err)
	}

	cell, writer := focus.NewCell()
	r.poller = focus.NewPoller(writer, nil, focus.DefaultInterval, logger.Named("focus"))
	r.poller.Start()

	r.worker, err = capture.New(r.store, r.src, cell, shared, logger.Named("capture"))
	if err != nil {
		r.close()
		return nil, fmt.Errorf("failed to create recorder: %w", err)
	}

	logger.Info("recorder ready",
		zap.String("db", path),
		zap.String("settings", cfgPath),
		zap.Float32("precision", shared.Precision()))
	return r, nil
}

func runRecorder(daemonChild bool) error {
	r, err := newRecorder()
	if err != nil {
		return err
	}
	defer r.close()

	if daemonChild {
		// Output goes to the log file.
		return r.worker.RunDaemon(recordPIDFile)
	}

	fmt.Println("Recording gamepad input (press Ctrl+C to stop)...")
	fmt.Println()

	runErr := r.worker.RunDaemon("")

	fmt.Printf("\nRecorded %s events (%s filtered by precision)\n",
		output.FormatCount(int(r.worker.Written())), output.FormatCount(int(r.worker.Dropped())))
	return runErr
}

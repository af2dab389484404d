// Package capture records gamepad input into the coca record log.
//
// A Worker pulls samples from a source.Source, passes analog samples
// through a precision deadband, attributes each admitted sample to the
// current foreground application and appends it to the store under a
// time-ordered key. It is the only writer of the log.
//
// Key features:
//   - Bounded-timeout polling of the event source (no busy-waiting)
//   - Precision read per sample, so settings changes apply immediately
//   - Write failures stop the worker and surface through Err
//   - Daemon mode support with PID file management
//   - Graceful shutdown with SIGTERM/SIGINT handling
//
// Example usage:
//
//	st, err := store.New("~/.coca/coca.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer st.Close()
//
//	w, err := capture.New(st, src, cell, shared, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package capture

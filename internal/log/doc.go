// Package log provides the application's slog setup.
//
// RedactingHandler wraps any slog.Handler and rewrites attributes before
// they reach the output:
//   - credentials (password, token, secret, authorization) are masked
//   - e-mail addresses found in string values keep only their domain
//   - markup values (content, head, html) are cut to MaxMarkupLength
//
// Templates routinely embed subscriber addresses and whole documents, so
// every logger built by this package goes through the handler.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Info("processed", "source", "newsletter.html", "content", html)
//	slog.SetDefault(logger)
package log

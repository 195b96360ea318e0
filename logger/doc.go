/*
Package logger constructs the [*log/slog.Logger]s used alongside enumfields.

Records carry a "kind" attribute naming the part of the application emitting them,
such as [enumfields.AppLogKind] or [enumfields.DatabaseLogKind].

In development, records are printed by a colorized [github.com/lmittmann/tint] handler:

	2024-04-28 15:55:21.042 INF postgres/migrate.go:43 ran migration kind=database key=add-color

Everywhere else, and whenever LOG_JSON is "true", records are JSON-encoded.

postgres.Connect builds one of kind [enumfields.DatabaseLogKind] when given none.
A Registry takes one through [enumfields.WithLogger].

When SENTRY_DSN is set, a [SentryHandler] reports records at ERROR or above to Sentry.
*/
package logger

package enumfields

import "log/slog"

const LogKindKey = "kind"

var (
	AppLogKind      = slog.StringValue("app")
	DatabaseLogKind = slog.StringValue("database")
)

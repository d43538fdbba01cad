package logging

import "context"

type contextKey int

const logDataKey contextKey = 0

// ContextWithLogData returns a context carrying the LogData.
func ContextWithLogData(ctx context.Context, logData *LogData) context.Context {
	return context.WithValue(ctx, logDataKey, logData)
}

// GetLogData returns the request's LogData, or nil when the request did not
// pass through the logging middleware.
func GetLogData(ctx context.Context) *LogData {
	logData, _ := ctx.Value(logDataKey).(*LogData)
	return logData
}

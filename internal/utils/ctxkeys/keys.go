// Package ctxkeys names the values stored on a request's gin context.
package ctxkeys

const (
	// TraceID holds the per-request trace id string.
	TraceID = "trace_id"
	// User holds the authenticated *db.User.
	User = "user"
)

// Package routers wires HTTP endpoints to the service layer.
package routers

// Route parameter names.
const (
	ParamID          = "id"
	ParamOrderNumber = "orderNumber"
)

// Error messages.
const (
	errInvalidID        = "invalid id"
	errInvalidBody      = "invalid request body"
	errOrderNotFound    = "order not found"
	errServiceNotFound  = "service not found"
	errWorkNotFound     = "work not found"
	errNoHandlerForName = "no workflow supports this service"
	errMissingToken     = "missing bearer token"
	errAdminOnly        = "admin access required"
)

// Context keys set by the auth middleware.
const (
	ctxKeyUserID = "auth.userID"
	ctxKeyRole   = "auth.role"
)

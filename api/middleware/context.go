package middleware

import (
	"context"

	"github.com/angelmondragon/karaoke-backend/pkg/enums"
)

type contextKey string

const (
	ctxStaffID contextKey = "staff_id"
	ctxRole    contextKey = "staff_role"
)

// StaffIDFromContext returns the authenticated staff id, or 0 when absent.
func StaffIDFromContext(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxStaffID).(uint); ok {
		return v
	}
	return 0
}

func RoleFromContext(ctx context.Context) enums.StaffRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.StaffRole); ok {
		return v
	}
	return ""
}

// WithStaff injects the staff identity into the context.
func WithStaff(ctx context.Context, staffID uint, role enums.StaffRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxStaffID, staffID)
	return context.WithValue(ctx, ctxRole, role)
}

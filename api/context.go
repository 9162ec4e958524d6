package api

import (
	"context"
)

type keyType string

const adminKey keyType = "admin"

// Admin identifies who holds admin standing for a request
type Admin struct {
	Subject string // email, token subject or "shared-key"
	Method  string // session, google or token
}

func ctxWithAdmin(ctx context.Context, admin Admin) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

// ctxGetAdmin retrieves the admin from the context, if any
func ctxGetAdmin(ctx context.Context) (Admin, bool) {
	admin, ok := ctx.Value(adminKey).(Admin)
	return admin, ok
}

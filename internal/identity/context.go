package identity

import "context"

type ctxKey string

const (
	ctxUserIDKey ctxKey = "user_id"
	ctxRoleKey   ctxKey = "role"
	ctxLojaIDKey ctxKey = "loja_id"
)

// WithUser records the resolved request identity. Every handler reads the
// identity from here instead of any ambient/global auth state.
func WithUser(ctx context.Context, userID, role, lojaID string) context.Context {
	ctx = context.WithValue(ctx, ctxUserIDKey, userID)
	ctx = context.WithValue(ctx, ctxRoleKey, role)
	ctx = context.WithValue(ctx, ctxLojaIDKey, lojaID)
	return ctx
}

func UserID(ctx context.Context) (string, bool) {
	v := ctx.Value(ctxUserIDKey)
	id, ok := v.(string)
	return id, ok
}

func Role(ctx context.Context) (string, bool) {
	v := ctx.Value(ctxRoleKey)
	role, ok := v.(string)
	return role, ok
}

func LojaID(ctx context.Context) (string, bool) {
	v := ctx.Value(ctxLojaIDKey)
	id, ok := v.(string)
	return id, ok
}

func IsAdmin(ctx context.Context) bool {
	role, _ := Role(ctx)
	return role == "admin"
}

// CanManage reports whether the requester may perform manager-level
// mutations such as archiving an obra.
func CanManage(ctx context.Context) bool {
	role, _ := Role(ctx)
	return role == "admin" || role == "gerente"
}

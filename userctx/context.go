package userctx

import "context"

// Context key type
type contextKey string

const usuarioKey contextKey = "usuario"

// Usuario is the authenticated identity carried through the request context.
// It mirrors what the session stores: who is logged in and with which role.
type Usuario struct {
	ID     int
	Nombre string
	Correo string
	Rol    string
}

// SetUsuario adds the authenticated user to the request context
func SetUsuario(ctx context.Context, u Usuario) context.Context {
	return context.WithValue(ctx, usuarioKey, u)
}

// GetUsuario retrieves the authenticated user from the request context.
// The zero value (ID 0) means no authenticated user.
func GetUsuario(ctx context.Context) Usuario {
	u, ok := ctx.Value(usuarioKey).(Usuario)
	if !ok {
		return Usuario{}
	}
	return u
}

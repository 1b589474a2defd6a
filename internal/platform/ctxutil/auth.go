package ctxutil

import "context"

type authDataKey struct{}

// AuthData is attached by the auth middleware once a Firebase ID token verifies.
type AuthData struct {
	UID           string
	Email         string
	EmailVerified bool
	TokenString   string
}

func WithAuthData(ctx context.Context, ad *AuthData) context.Context {
	return context.WithValue(ctx, authDataKey{}, ad)
}

func GetAuthData(ctx context.Context) *AuthData {
	if ctx == nil {
		return nil
	}
	if ad, ok := ctx.Value(authDataKey{}).(*AuthData); ok {
		return ad
	}
	return nil
}

// UID returns the verified caller id or "".
func UID(ctx context.Context) string {
	if ad := GetAuthData(ctx); ad != nil {
		return ad.UID
	}
	return ""
}

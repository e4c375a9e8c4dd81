package repository

import "context"

// TokenKey is the fixed name under which the client persists its access token.
const TokenKey = "focusboard.token"

// TokenStore is the client's durable key-value storage. The access token is
// the only state that survives a restart; everything else is refetched.
type TokenStore interface {
	// Load returns "" when nothing is stored.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// ChangeNotifier is implemented by stores that can report writes made by
// other processes sharing the same storage.
type ChangeNotifier interface {
	Watch(ctx context.Context, onChange func()) error
}

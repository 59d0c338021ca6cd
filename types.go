package authpair

import "context"

// UserRecord is a stored account: one login, one argon2id password digest.
type UserRecord struct {
	ID           string
	Login        string
	PasswordHash string
}

// UserStore is the durable credential store the engine reads and writes.
// FindByLogin and FindByID return ErrUserNotFound (possibly wrapped) when
// no account exists. Create must reject duplicate logins with ErrConflict
// and may assign the record's ID.
type UserStore interface {
	FindByLogin(ctx context.Context, login string) (*UserRecord, error)
	FindByID(ctx context.Context, id string) (*UserRecord, error)
	Create(ctx context.Context, user *UserRecord) error
}

// AvatarStore resolves a login to its stored avatar URI. Implementations
// return "" with a nil error when the account has no avatar. The engine
// only ever reads from it.
type AvatarStore interface {
	FindByLogin(ctx context.Context, login string) (string, error)
}

// TokenPair is the result of every token-issuing flow. AvatarURI is empty
// when the account has no avatar.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	AvatarURI    string `json:"uri,omitempty"`
}

// RegisterRequest carries the inputs of a registration. Confirm is
// optional; when set it must equal Password.
type RegisterRequest struct {
	Login    string
	Password string
	Confirm  string
}

// Identity is the account a validated access token resolves to.
type Identity struct {
	User      UserRecord
	AvatarURI string
}

// noopAvatars is the default AvatarStore: every account is avatar-less.
type noopAvatars struct{}

func (noopAvatars) FindByLogin(context.Context, string) (string, error) {
	return "", nil
}

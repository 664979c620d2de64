package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
)

// Identity is what an identity provider vouches for.
type Identity struct {
	ID        string
	FirstName string
	LastName  string
	Username  string
	PhotoURL  string
	Email     string
}

// IdentityProvider checks a credential issued by a third party.
type IdentityProvider interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}

// TelegramProvider verifies Telegram Mini App init data against the bot token.
type TelegramProvider struct {
	botToken string
	maxAge   time.Duration
}

func NewTelegramProvider(botToken string, maxAge time.Duration) *TelegramProvider {
	return &TelegramProvider{botToken: botToken, maxAge: maxAge}
}

// Verify validates the signature and age of the init data and extracts the user.
// User ids are prefixed with "tg_" so other providers can share the users table.
func (p *TelegramProvider) Verify(_ context.Context, credential string) (*Identity, error) {
	if p.botToken == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}
	if err := initdata.Validate(credential, p.botToken, p.maxAge); err != nil {
		return nil, apperr.ErrUnauthorized
	}

	data, err := initdata.Parse(credential)
	if err != nil {
		return nil, apperr.Invalid("initData", "cannot be parsed")
	}
	if data.User.ID == 0 {
		return nil, apperr.Invalid("initData", "has no user")
	}

	return &Identity{
		ID:        "tg_" + strconv.FormatInt(data.User.ID, 10),
		FirstName: data.User.FirstName,
		LastName:  data.User.LastName,
		Username:  data.User.Username,
		PhotoURL:  data.User.PhotoURL,
	}, nil
}

package payments

import (
	"context"
	"errors"
)

var ErrProvider = errors.New("payment provider")

const (
	IntentStatusSucceeded = "succeeded"
)

// Intent is the provider-neutral view of a payment authorization. The
// client secret is handed to the browser for card confirmation and never
// persisted.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
}

type Provider interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

package payment

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/apperror"
)

// Gateway starts card payments with the upstream processor.
type Gateway interface {
	CreateIntent(ctx context.Context, totalPrice float64) (clientSecret string, err error)
}

// IntentCreator is the subset of the Stripe payment intent client used here.
type IntentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type StripeGateway struct {
	intents IntentCreator
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return NewGatewayWithClient(&paymentintent.Client{
		B:   stripe.GetBackend(stripe.APIBackend),
		Key: secretKey,
	})
}

func NewGatewayWithClient(intents IntentCreator) *StripeGateway {
	return &StripeGateway{intents: intents}
}

// ToCents converts a price in currency units to the smallest unit, rounding half away from zero.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (g *StripeGateway) CreateIntent(ctx context.Context, totalPrice float64) (string, error) {
	if totalPrice <= 0 {
		return "", ErrInvalidAmount
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(ToCents(totalPrice)),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := g.intents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
			return "", apperror.Gateway(errors.New(stripeErr.Msg))
		}
		return "", apperror.Gateway(err)
	}
	return pi.ClientSecret, nil
}

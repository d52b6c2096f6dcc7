// Package stripe implements the payment.Provider port with Stripe hosted
// checkout sessions.
package stripe

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/xenking/dinehall/internal/payment"
)

const metadataOrderID = "order_id"

var _ payment.Provider = (*Provider)(nil)

// Config holds the Stripe account and redirect settings.
type Config struct {
	SecretKey string

	// SuccessURL must contain the {CHECKOUT_SESSION_ID} placeholder; Stripe
	// substitutes the session id, and the returning client reads it back as
	// the session_id query parameter.
	SuccessURL string
	CancelURL  string
}

// Provider creates and retrieves Stripe checkout sessions. The API client is
// owned by the Provider instance; no package-level key is set.
type Provider struct {
	api        *client.API
	successURL string
	cancelURL  string
}

// New creates a Provider for the given account configuration.
func New(cfg Config) *Provider {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &Provider{
		api:        api,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

// CreateSession creates a hosted checkout session with one Stripe line item
// per order line item and, when a discount applies, a once-off percentage
// coupon. The order id travels in the session metadata.
func (p *Provider) CreateSession(ctx context.Context, params payment.CreateSessionParams) (*payment.Session, error) {
	lineItems := make([]*stripego.CheckoutSessionLineItemParams, len(params.Items))
	for i, item := range params.Items {
		productData := &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripego.String(item.Name),
		}
		if item.ImageURL != "" {
			productData.Images = stripego.StringSlice([]string{item.ImageURL})
		}
		lineItems[i] = &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripego.String(params.Currency),
				UnitAmount:  stripego.Int64(item.UnitAmountCents),
				ProductData: productData,
			},
			Quantity: stripego.Int64(int64(item.Quantity)),
		}
	}

	methods := params.PaymentMethods
	if len(methods) == 0 {
		methods = []string{"card"}
	}

	sessionParams := &stripego.CheckoutSessionParams{
		Params:             stripego.Params{Context: ctx},
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		LineItems:          lineItems,
		SuccessURL:         stripego.String(p.successURL),
		CancelURL:          stripego.String(p.cancelURL),
		PaymentMethodTypes: stripego.StringSlice(methods),
	}
	sessionParams.AddMetadata(metadataOrderID, params.OrderID)
	if params.CustomerID != "" {
		sessionParams.AddMetadata("customer_id", params.CustomerID)
	}

	if params.PercentOff != nil {
		c, err := p.api.Coupons.New(&stripego.CouponParams{
			Params:     stripego.Params{Context: ctx},
			PercentOff: stripego.Float64(params.PercentOff.InexactFloat64()),
			Duration:   stripego.String(string(stripego.CouponDurationOnce)),
			Name:       stripego.String(fmt.Sprintf("%s%% Loyalty Discount", params.PercentOff.String())),
		})
		if err != nil {
			return nil, errors.Wrap(err, "create coupon")
		}
		sessionParams.Discounts = []*stripego.CheckoutSessionDiscountParams{
			{Coupon: stripego.String(c.ID)},
		}
	}

	sess, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, errors.Wrap(err, "create checkout session")
	}

	out := &payment.Session{
		ID:  sess.ID,
		URL: sess.URL,
	}
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	return out, nil
}

// RetrieveSession fetches the authoritative session state.
func (p *Provider) RetrieveSession(ctx context.Context, sessionID string) (*payment.SessionStatus, error) {
	sess, err := p.api.CheckoutSessions.Get(sessionID, &stripego.CheckoutSessionParams{
		Params: stripego.Params{Context: ctx},
	})
	if err != nil {
		var stripeErr *stripego.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripego.ErrorCodeResourceMissing {
			return nil, payment.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "get checkout session")
	}

	status := &payment.SessionStatus{
		ID:      sess.ID,
		Paid:    sess.PaymentStatus == stripego.CheckoutSessionPaymentStatusPaid,
		OrderID: sess.Metadata[metadataOrderID],
	}
	if sess.PaymentIntent != nil {
		status.PaymentIntentID = sess.PaymentIntent.ID
	}
	return status, nil
}

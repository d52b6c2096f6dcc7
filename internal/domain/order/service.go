package order

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/dinehall/internal/domain/discount"
	"github.com/xenking/dinehall/internal/domain/pricing"
	"github.com/xenking/dinehall/internal/domain/profile"
	"github.com/xenking/dinehall/internal/payment"
)

// DefaultCurrency is used when a checkout request does not specify one.
const DefaultCurrency = "usd"

// CheckoutRequest holds the input for a payment-gated checkout or a direct
// placement. CustomerID is resolved from the caller's session, never from the
// request body; empty means anonymous.
type CheckoutRequest struct {
	CustomerID     string
	CustomerName   string
	CustomerMobile string
	TableNumber    string
	Currency       string
	Items          []pricing.LineItem
	PaymentMethods []string
}

// CheckoutResult is a created pending order plus the provider redirect.
type CheckoutResult struct {
	Order       *Order
	SessionID   string
	RedirectURL string
}

// VerifyResult reports the outcome of a payment verification.
type VerifyResult struct {
	Verified bool
	Order    *Order
}

// Service orchestrates checkout, direct placement, and payment verification.
type Service struct {
	orders   Repository
	profiles profile.Repository
	tiers    discount.Repository
	provider payment.Provider
}

// NewService creates a Service with the required collaborators.
func NewService(
	orders Repository,
	profiles profile.Repository,
	tiers discount.Repository,
	provider payment.Provider,
) *Service {
	return &Service{
		orders:   orders,
		profiles: profiles,
		tiers:    tiers,
		provider: provider,
	}
}

// Checkout validates the request, prices the order with the customer's
// loyalty discount, creates the order in pending state, creates the provider
// session referencing it, and attaches the session id to the order.
//
// Ordering is load-bearing: the order row exists before the provider session
// is created, so a charge can always be tied back to an order. The converse
// partial state (pending order, session creation failed) is accepted and
// recoverable because the session metadata embeds the order id.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	o, tier, err := s.buildOrder(ctx, req, StatusPending)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	sessionItems := make([]payment.SessionItem, len(o.Items))
	for i, item := range o.Items {
		sessionItems[i] = payment.SessionItem{
			Name:            item.Name,
			UnitAmountCents: item.UnitPriceCents,
			Quantity:        item.Quantity,
			ImageURL:        item.ImageURL,
		}
	}

	params := payment.CreateSessionParams{
		OrderID:        o.ID,
		CustomerID:     o.CustomerID,
		Currency:       o.Currency,
		Items:          sessionItems,
		PaymentMethods: req.PaymentMethods,
	}
	if tier != nil && o.DiscountCents > 0 {
		percentOff := tier.Percentage
		params.PercentOff = &percentOff
	}

	sess, err := s.provider.CreateSession(ctx, params)
	if err != nil {
		// The pending order stays behind without a session id; it is
		// recoverable by an out-of-band cleanup, never silently retried here.
		zctx.From(ctx).Warn("Provider session creation failed, pending order left unattached",
			zap.String("order_id", o.ID), zap.Error(err))
		return nil, errors.Wrap(err, "create payment session")
	}

	if err := s.orders.AttachPaymentSession(ctx, o.ID, sess.ID, sess.PaymentIntentID); err != nil {
		// The session exists and its metadata carries the order id, so
		// verification can still recover it.
		zctx.From(ctx).Warn("Attach payment session failed",
			zap.String("order_id", o.ID), zap.String("session_id", sess.ID), zap.Error(err))
		return nil, errors.Wrap(err, "attach payment session")
	}
	o.PaymentSessionID = sess.ID
	o.PaymentIntentID = sess.PaymentIntentID

	return &CheckoutResult{
		Order:       o,
		SessionID:   sess.ID,
		RedirectURL: sess.URL,
	}, nil
}

// PlaceDirect creates an order at received status without a payment gate,
// using the same validation and pricing path as Checkout.
func (s *Service) PlaceDirect(ctx context.Context, req CheckoutRequest) (*Order, error) {
	o, _, err := s.buildOrder(ctx, req, StatusReceived)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// buildOrder validates the request, resolves the loyalty discount, and prices
// the order. No side effects are performed: a validation failure leaves no
// artifacts anywhere.
func (s *Service) buildOrder(ctx context.Context, req CheckoutRequest, initial Status) (*Order, *discount.Tier, error) {
	if len(req.Items) == 0 {
		return nil, nil, ErrEmptyItems
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, nil, ErrNameRequired
	}
	if strings.TrimSpace(req.CustomerMobile) == "" {
		return nil, nil, ErrMobileRequired
	}

	tier, err := s.resolveTier(ctx, req.CustomerID)
	if err != nil {
		return nil, nil, err
	}

	quote, err := pricing.Price(req.Items, tier)
	if err != nil {
		return nil, nil, err
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	items := make([]LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = LineItem{
			ItemID:         item.ItemID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			ImageURL:       item.ImageURL,
		}
	}

	return &Order{
		ID:             uuid.New().String(),
		CustomerID:     req.CustomerID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerMobile: strings.TrimSpace(req.CustomerMobile),
		TableNumber:    strings.TrimSpace(req.TableNumber),
		Items:          items,
		SubtotalCents:  quote.SubtotalCents,
		DiscountCents:  quote.DiscountCents,
		TotalCents:     quote.TotalCents,
		Currency:       currency,
		Status:         initial,
	}, tier, nil
}

// resolveTier loads the customer's profile and the active tiers concurrently
// and resolves the applicable discount. Anonymous customers are never
// discount-eligible.
func (s *Service) resolveTier(ctx context.Context, customerID string) (*discount.Tier, error) {
	if customerID == "" {
		return nil, nil
	}

	var (
		prof  *profile.Profile
		tiers []discount.Tier
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.GetByID(gctx, customerID)
		if err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				return nil
			}
			return errors.Wrap(err, "get profile")
		}
		prof = p
		return nil
	})
	g.Go(func() error {
		t, err := s.tiers.ListActive(gctx)
		if err != nil {
			return errors.Wrap(err, "list active tiers")
		}
		tiers = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if prof == nil {
		return nil, nil
	}
	return discount.Resolve(prof.TotalSpentCents, tiers), nil
}

// VerifyPayment fetches the authoritative session status from the provider
// and reconciles it into order state. On confirmed payment the order moves
// pending -> received and the customer's cumulative spend is credited; both
// are applied at most once under concurrent verification attempts, because
// only the caller whose conditional update wins performs the credit.
func (s *Service) VerifyPayment(ctx context.Context, sessionID string) (*VerifyResult, error) {
	status, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "retrieve payment session")
	}

	o, err := s.findBySession(ctx, sessionID, status.OrderID)
	if err != nil {
		return nil, err
	}

	// Repair the link if checkout crashed between session creation and
	// attachment; the metadata order id is the recovery path.
	if o.PaymentSessionID == "" {
		if err := s.orders.AttachPaymentSession(ctx, o.ID, sessionID, status.PaymentIntentID); err != nil {
			return nil, errors.Wrap(err, "attach payment session")
		}
		o.PaymentSessionID = sessionID
		o.PaymentIntentID = status.PaymentIntentID
	}

	if !status.Paid {
		return &VerifyResult{Verified: false, Order: o}, nil
	}

	updated, err := s.orders.UpdateStatus(ctx, o.ID, StatusReceived)
	if err != nil {
		var invalid *InvalidTransitionError
		if errors.As(err, &invalid) {
			// Another verification attempt already advanced the order. The
			// payment is confirmed either way; do not credit spend again.
			return &VerifyResult{Verified: true, Order: o}, nil
		}
		return nil, errors.Wrap(err, "update order status")
	}

	if updated.CustomerID != "" {
		if err := s.profiles.AddSpending(ctx, updated.CustomerID, updated.TotalCents); err != nil {
			// The order state already advanced; surface the miss in logs
			// rather than failing a confirmed payment.
			zctx.From(ctx).Error("Crediting customer spend failed",
				zap.String("order_id", updated.ID),
				zap.String("customer_id", updated.CustomerID),
				zap.Error(err))
		}
	}

	return &VerifyResult{Verified: true, Order: updated}, nil
}

// findBySession locates the order for a provider session, preferring the
// stored session id link and falling back to the metadata order id.
func (s *Service) findBySession(ctx context.Context, sessionID, metadataOrderID string) (*Order, error) {
	o, err := s.orders.GetBySessionID(ctx, sessionID)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "get order by session")
	}

	if metadataOrderID == "" {
		return nil, ErrSessionUnknown
	}
	o, err = s.orders.Get(ctx, metadataOrderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrSessionUnknown
		}
		return nil, errors.Wrap(err, "get order")
	}
	return o, nil
}

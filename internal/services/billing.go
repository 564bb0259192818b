package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/samber/do"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	customerpkg "github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/uptrace/bun"

	"chadder/internal/datastore"
	"chadder/internal/models"
	"chadder/internal/pkg/caching"
)

// ServiceBilling relays Stripe subscription events into tier state and gem
// credits. Signature verification happens before any payload is trusted;
// processing failures after that are logged and acknowledged so the provider
// does not retry-storm the endpoint.
type ServiceBilling struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	serviceUser *ServiceUser

	webhookSecret string
	checkoutURL   string
	priceToTier   map[string]string
}

func NewServiceBilling(container *do.Injector) (*ServiceBilling, error) {
	vs := do.MustInvokeNamed[map[string]string](container, "envs")

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	serviceUser, err := do.Invoke[*ServiceUser](container)
	if err != nil {
		return nil, err
	}

	stripe.Key = vs["STRIPE_SECRET_KEY"]

	priceToTier := map[string]string{
		vs["STRIPE_PRICE_COMMON"]: models.TIER_COMMON,
		vs["STRIPE_PRICE_RARE"]:   models.TIER_RARE,
		vs["STRIPE_PRICE_EPIC"]:   models.TIER_EPIC,
	}
	delete(priceToTier, "")

	return &ServiceBilling{
		container:          container,
		postgresDB:         postgresDB,
		readonlyPostgresDB: readonlyPostgresDB,
		cache:              cache,
		readonlyCache:      readonlyCache,
		serviceUser:        serviceUser,
		webhookSecret:      vs["STRIPE_WEBHOOK_SECRET"],
		checkoutURL:        vs["CHECKOUT_RETURN_URL"],
		priceToTier:        priceToTier,
	}, nil
}

func (service *ServiceBilling) getOrCreateCustomer(ctx context.Context, user *models.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email:    stripe.String(user.Email),
		Name:     stripe.String(user.DisplayName),
		Metadata: map[string]string{"user_id": user.ID},
	}
	cust, err := customerpkg.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe customer: %w", err)
	}

	if err := datastore.SetStripeCustomerID(ctx, service.postgresDB, user.ID, cust.ID); err != nil {
		return "", err
	}
	_ = service.serviceUser.ClearUserCache(ctx, user.ID)

	return cust.ID, nil
}

// CreateCheckoutSession starts a subscription checkout for the given tier and
// returns the hosted payment URL.
func (service *ServiceBilling) CreateCheckoutSession(ctx context.Context, user *models.User, tier string) (string, error) {
	priceID := ""
	for price, t := range service.priceToTier {
		if t == tier {
			priceID = price
		}
	}
	if priceID == "" {
		return "", ErrUnknownTier
	}

	customerID, err := service.getOrCreateCustomer(ctx, user)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          []*stripe.CheckoutSessionLineItemParams{{Price: stripe.String(priceID), Quantity: stripe.Int64(1)}},
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:         stripe.String(service.checkoutURL + "?status=success"),
		CancelURL:          stripe.String(service.checkoutURL + "?status=cancel"),
		Metadata:           map[string]string{"user_id": user.ID, "tier": tier},
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	return sess.URL, nil
}

// VerifyEvent checks the webhook signature and decodes the event envelope.
func (service *ServiceBilling) VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, service.webhookSecret)
}

// ProcessEvent applies one verified billing event. Replays are harmless: gem
// credits key on the event ID through the grant ledger and the subscription
// row is an upsert.
func (service *ServiceBilling) ProcessEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return fmt.Errorf("invalid checkout.session payload: %w", err)
		}

		userID := cs.Metadata["user_id"]
		if userID == "" {
			return errors.New("missing user_id in checkout session metadata")
		}

		tier := cs.Metadata["tier"]
		if !models.ValidTier(tier) || tier == models.TIER_FREE {
			return fmt.Errorf("invalid tier in checkout session metadata: %q", tier)
		}

		var subID *string
		if cs.Subscription != nil {
			subID = stripe.String(cs.Subscription.ID)
		}

		return service.applyRenewal(ctx, userID, tier, event.ID, subID)

	case "customer.subscription.updated":
		var ss stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &ss); err != nil {
			return fmt.Errorf("invalid subscription payload: %w", err)
		}

		userID, err := service.userIDFromEvent(ctx, ss.Metadata, ss.Customer)
		if err != nil {
			return err
		}

		if ss.Status == stripe.SubscriptionStatusCanceled {
			return service.cancelSubscription(ctx, userID)
		}

		tier, err := service.tierFromSubscription(&ss)
		if err != nil {
			return err
		}

		return service.applyRenewal(ctx, userID, tier, event.ID, stripe.String(ss.ID))

	case "customer.subscription.deleted":
		var ss stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &ss); err != nil {
			return fmt.Errorf("invalid subscription payload: %w", err)
		}

		userID, err := service.userIDFromEvent(ctx, ss.Metadata, ss.Customer)
		if err != nil {
			return err
		}

		return service.cancelSubscription(ctx, userID)

	default:
		log.Println("Unhandled billing event:", event.Type)
		return nil
	}
}

func (service *ServiceBilling) userIDFromEvent(ctx context.Context, metadata map[string]string, customer *stripe.Customer) (string, error) {
	if userID := metadata["user_id"]; userID != "" {
		return userID, nil
	}
	if customer == nil || customer.ID == "" {
		return "", errors.New("cannot determine user: missing metadata and customer id")
	}

	user, err := datastore.FindUserByStripeCustomerID(ctx, service.readonlyPostgresDB, customer.ID)
	if err != nil {
		return "", fmt.Errorf("lookup user by stripe customer: %w", err)
	}

	return user.ID, nil
}

func (service *ServiceBilling) tierFromSubscription(ss *stripe.Subscription) (string, error) {
	if ss.Items == nil || len(ss.Items.Data) == 0 || ss.Items.Data[0].Price == nil {
		return "", errors.New("subscription has no priced items")
	}

	tier, ok := service.priceToTier[ss.Items.Data[0].Price.ID]
	if !ok {
		return "", fmt.Errorf("no tier mapped for price %s", ss.Items.Data[0].Price.ID)
	}

	return tier, nil
}

// applyRenewal credits the tier allotment exactly once per billing event and
// brings the subscription row and user flags up to date.
func (service *ServiceBilling) applyRenewal(ctx context.Context, userID string, tier string, eventID string, stripeSubID *string) error {
	gems, ok := models.TierWeeklyGems[tier]
	if !ok {
		return ErrUnknownTier
	}

	granted, err := service.serviceUser.CreditGems(ctx, userID, gems, fmt.Sprintf("subscription:%s", eventID))
	if err != nil {
		return err
	}
	if !granted {
		log.Println("Duplicate billing event, credit skipped:", eventID)
	}

	sub := &models.Subscription{
		UserID:               userID,
		Tier:                 tier,
		AmountPerWeek:        models.TierWeeklyPrice[tier],
		Status:               models.SUBSCRIPTION_STATUS_ACTIVE,
		StripeSubscriptionID: stripeSubID,
		UpdatedAt:            time.Now(),
	}
	if err := datastore.UpsertSubscription(ctx, service.postgresDB, sub); err != nil {
		return err
	}

	if err := datastore.SetSubscriptionState(ctx, service.postgresDB, userID, tier, models.SUBSCRIPTION_STATUS_ACTIVE); err != nil {
		return err
	}

	if err := service.cache.Delete(ctx, DBKeySubscription(userID)); err != nil {
		log.Println(err)
	}

	return service.serviceUser.ClearUserCache(ctx, userID)
}

// cancelSubscription downgrades to the free tier. Gems already granted stay.
func (service *ServiceBilling) cancelSubscription(ctx context.Context, userID string) error {
	sub, err := datastore.GetSubscriptionByUserID(ctx, service.readonlyPostgresDB, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if sub != nil {
		sub.Tier = models.TIER_FREE
		sub.AmountPerWeek = 0
		sub.Status = models.SUBSCRIPTION_STATUS_INACTIVE
		sub.UpdatedAt = time.Now()
		if err := datastore.UpsertSubscription(ctx, service.postgresDB, sub); err != nil {
			return err
		}
	}

	if err := datastore.SetSubscriptionState(ctx, service.postgresDB, userID, models.TIER_FREE, models.SUBSCRIPTION_STATUS_INACTIVE); err != nil {
		return err
	}

	if err := service.cache.Delete(ctx, DBKeySubscription(userID)); err != nil {
		log.Println(err)
	}

	return service.serviceUser.ClearUserCache(ctx, userID)
}

func (service *ServiceBilling) GetSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	callback := func() (*models.Subscription, error) {
		return datastore.GetSubscriptionByUserID(ctx, service.readonlyPostgresDB, userID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeySubscription(userID), CACHE_TTL_5_MINS, callback)
}

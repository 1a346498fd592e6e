package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/venexhq/venex/internal/domain"
	"github.com/venexhq/venex/internal/store"
)

// Valid webhook event types.
var validWebhookEvents = map[string]bool{
	"deposit.created":    true,
	"withdrawal.created": true,
	"order.created":      true,
	"order.cancelled":    true,
	"trade.executed":     true,
}

// UpsertWebhookRequest represents the input for webhook registration.
type UpsertWebhookRequest struct {
	Account string
	URL     string
	Events  []string
}

// WebhookService handles webhook CRUD and event dispatch.
type WebhookService struct {
	store  *store.WebhookStore
	client *http.Client
}

// NewWebhookService creates a new WebhookService with the given dispatch
// timeout.
func NewWebhookService(webhookStore *store.WebhookStore, webhookTimeout time.Duration) *WebhookService {
	return &WebhookService{
		store: webhookStore,
		client: &http.Client{
			Timeout: webhookTimeout,
		},
	}
}

// Upsert validates the request and creates or updates webhook subscriptions.
// Returns the resulting webhooks, whether any new subscriptions were
// created, and any error.
func (s *WebhookService) Upsert(req UpsertWebhookRequest) ([]*domain.Webhook, bool, error) {
	if !validAccountID(req.Account) {
		return nil, false, &domain.ValidationError{Message: "account must match ^[a-zA-Z0-9_-]{1,64}$"}
	}

	if req.URL == "" {
		return nil, false, &domain.ValidationError{Message: "url is required"}
	}
	if len(req.URL) > 2048 {
		return nil, false, &domain.ValidationError{Message: "url must be at most 2048 characters"}
	}
	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || !parsed.IsAbs() {
		return nil, false, &domain.ValidationError{Message: "url must be a valid absolute URL"}
	}
	if parsed.Scheme != "https" {
		return nil, false, &domain.ValidationError{Message: "url must use https scheme"}
	}

	if len(req.Events) == 0 {
		return nil, false, &domain.ValidationError{Message: "events must be a non-empty array"}
	}

	// Deduplicate events while preserving order and validating.
	seen := make(map[string]bool, len(req.Events))
	dedupedEvents := make([]string, 0, len(req.Events))
	for _, event := range req.Events {
		if !validWebhookEvents[event] {
			return nil, false, &domain.ValidationError{
				Message: "Unknown event type: " + event + ". Must be one of: deposit.created, withdrawal.created, order.created, order.cancelled, trade.executed",
			}
		}
		if !seen[event] {
			seen[event] = true
			dedupedEvents = append(dedupedEvents, event)
		}
	}

	// Upsert each (account, event) pair.
	now := time.Now().UTC().Truncate(time.Second)
	anyCreated := false
	webhooks := make([]*domain.Webhook, 0, len(dedupedEvents))

	for _, event := range dedupedEvents {
		w := &domain.Webhook{
			WebhookID: uuid.New().String(),
			Account:   req.Account,
			Event:     event,
			URL:       req.URL,
			CreatedAt: now,
			UpdatedAt: now,
		}

		created := s.store.Upsert(w)
		if created {
			anyCreated = true
			webhooks = append(webhooks, w)
		} else {
			existing := s.store.GetByAccountEvent(req.Account, event)
			if existing != nil {
				webhooks = append(webhooks, existing)
			}
		}
	}

	return webhooks, anyCreated, nil
}

// List returns all webhook subscriptions for an account.
func (s *WebhookService) List(account string) ([]*domain.Webhook, error) {
	if !validAccountID(account) {
		return nil, &domain.ValidationError{Message: "account must match ^[a-zA-Z0-9_-]{1,64}$"}
	}
	return s.store.ListByAccount(account), nil
}

// Delete removes a webhook subscription by ID.
func (s *WebhookService) Delete(webhookID string) error {
	return s.store.Delete(webhookID)
}

// movementPayload is the JSON payload for deposit.created and
// withdrawal.created webhooks.
type movementPayload struct {
	Event     string       `json:"event"`
	Timestamp string       `json:"timestamp"`
	Data      movementData `json:"data"`
}

type movementData struct {
	Account    string `json:"account"`
	Asset      string `json:"asset"`
	Amount     uint64 `json:"amount"`
	NewBalance uint64 `json:"new_balance"`
}

// orderEventPayload is the JSON payload for order.created and
// order.cancelled webhooks.
type orderEventPayload struct {
	Event     string         `json:"event"`
	Timestamp string         `json:"timestamp"`
	Data      orderEventData `json:"data"`
}

type orderEventData struct {
	OrderID    uint64 `json:"order_id"`
	Account    string `json:"account"`
	GetAsset   string `json:"get_asset"`
	GetAmount  uint64 `json:"get_amount"`
	GiveAsset  string `json:"give_asset"`
	GiveAmount uint64 `json:"give_amount"`
	Status     string `json:"status"`
}

// tradeExecutedPayload is the JSON payload for trade.executed webhooks.
type tradeExecutedPayload struct {
	Event     string            `json:"event"`
	Timestamp string            `json:"timestamp"`
	Data      tradeExecutedData `json:"data"`
}

type tradeExecutedData struct {
	TradeID    string `json:"trade_id"`
	OrderID    uint64 `json:"order_id"`
	Creator    string `json:"creator"`
	Filler     string `json:"filler"`
	GetAsset   string `json:"get_asset"`
	GetAmount  uint64 `json:"get_amount"`
	GiveAsset  string `json:"give_asset"`
	GiveAmount uint64 `json:"give_amount"`
	Fee        uint64 `json:"fee"`
}

// DispatchDeposit dispatches a deposit.created webhook notification to the
// depositing account. Fire-and-forget — errors are silently ignored.
func (s *WebhookService) DispatchDeposit(d *domain.Deposit) {
	wh := s.store.GetByAccountEvent(d.Account, "deposit.created")
	if wh == nil {
		return
	}

	payload := movementPayload{
		Event:     "deposit.created",
		Timestamp: d.OccurredAt.UTC().Truncate(time.Second).Format(time.RFC3339),
		Data: movementData{
			Account:    d.Account,
			Asset:      string(d.Asset),
			Amount:     d.Amount,
			NewBalance: d.NewBalance,
		},
	}

	go s.deliver(wh, payload)
}

// DispatchWithdrawal dispatches a withdrawal.created webhook notification.
// Fire-and-forget.
func (s *WebhookService) DispatchWithdrawal(w *domain.Withdrawal) {
	wh := s.store.GetByAccountEvent(w.Account, "withdrawal.created")
	if wh == nil {
		return
	}

	payload := movementPayload{
		Event:     "withdrawal.created",
		Timestamp: w.OccurredAt.UTC().Truncate(time.Second).Format(time.RFC3339),
		Data: movementData{
			Account:    w.Account,
			Asset:      string(w.Asset),
			Amount:     w.Amount,
			NewBalance: w.NewBalance,
		},
	}

	go s.deliver(wh, payload)
}

// DispatchOrderCreated dispatches an order.created webhook notification to
// the order's creator. Fire-and-forget.
func (s *WebhookService) DispatchOrderCreated(o *domain.Order) {
	s.dispatchOrderEvent("order.created", o, o.CreatedAt)
}

// DispatchOrderCancelled dispatches an order.cancelled webhook notification
// to the order's creator. Fire-and-forget.
func (s *WebhookService) DispatchOrderCancelled(o *domain.Order) {
	at := o.CreatedAt
	if o.CancelledAt != nil {
		at = *o.CancelledAt
	}
	s.dispatchOrderEvent("order.cancelled", o, at)
}

func (s *WebhookService) dispatchOrderEvent(event string, o *domain.Order, at time.Time) {
	wh := s.store.GetByAccountEvent(o.Creator, event)
	if wh == nil {
		return
	}

	payload := orderEventPayload{
		Event:     event,
		Timestamp: at.UTC().Truncate(time.Second).Format(time.RFC3339),
		Data: orderEventData{
			OrderID:    o.ID,
			Account:    o.Creator,
			GetAsset:   string(o.AssetGet),
			GetAmount:  o.AmountGet,
			GiveAsset:  string(o.AssetGive),
			GiveAmount: o.AmountGive,
			Status:     string(o.Status),
		},
	}

	go s.deliver(wh, payload)
}

// DispatchTradeExecuted dispatches a trade.executed webhook notification to
// the specified account. Fire-and-forget.
func (s *WebhookService) DispatchTradeExecuted(account string, t *domain.Trade) {
	wh := s.store.GetByAccountEvent(account, "trade.executed")
	if wh == nil {
		return
	}

	payload := tradeExecutedPayload{
		Event:     "trade.executed",
		Timestamp: t.ExecutedAt.UTC().Truncate(time.Second).Format(time.RFC3339),
		Data: tradeExecutedData{
			TradeID:    t.TradeID,
			OrderID:    t.OrderID,
			Creator:    t.Creator,
			Filler:     t.Filler,
			GetAsset:   string(t.AssetGet),
			GetAmount:  t.AmountGet,
			GiveAsset:  string(t.AssetGive),
			GiveAmount: t.AmountGive,
			Fee:        t.Fee,
		},
	}

	go s.deliver(wh, payload)
}

// deliver posts the payload to the webhook URL. Failures are dropped —
// delivery is best effort with at-least-once semantics per successful call.
func (s *WebhookService) deliver(wh *domain.Webhook, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	resp, err := s.client.Post(wh.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		return
	}
	resp.Body.Close()
}

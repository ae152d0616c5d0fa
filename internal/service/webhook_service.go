package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"
	"relief-credit-ledger/internal/metrics"

	"github.com/rs/zerolog"
)

// webhookRetryIntervals defines the delay before each retry attempt.
var webhookRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

// Webhook event types
const (
	EventAidDistributed    = "AID_DISTRIBUTED"
	EventTransferCompleted = "TRANSFER_COMPLETED"
)

// WebhookPayload is the JSON structure sent to a participant's webhook_url.
type WebhookPayload struct {
	EventType string             `json:"event_type"`
	Data      WebhookPayloadData `json:"data"`
	Signature string             `json:"signature"`
}

// WebhookPayloadData holds the transfer details in the webhook.
type WebhookPayloadData struct {
	ReferenceID string `json:"reference_id"`
	TransferID  string `json:"transfer_id"`
	FromAccount string `json:"from_account,omitempty"`
	ToAccount   string `json:"to_account"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
	Timestamp   int64  `json:"timestamp"`
}

// webhookService implements ports.WebhookService. Events are signed with the
// recipient participant's webhook secret and delivered asynchronously.
type webhookService struct {
	participantRepo ports.ParticipantRepository
	encSvc          ports.EncryptionService
	sigSvc          ports.SignatureService
	httpClient      HTTPClient
	log             zerolog.Logger
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewWebhookService creates a new webhook service.
func NewWebhookService(
	participantRepo ports.ParticipantRepository,
	encSvc ports.EncryptionService,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	log zerolog.Logger,
) ports.WebhookService {
	return &webhookService{
		participantRepo: participantRepo,
		encSvc:          encSvc,
		sigSvc:          sigSvc,
		httpClient:      httpClient,
		log:             log,
	}
}

// EnqueueTransferEvent notifies the receiving participant of a completed
// distribution or transfer. Delivery happens asynchronously with retries;
// participants without a webhook URL are skipped.
func (s *webhookService) EnqueueTransferEvent(ctx context.Context, transfer *domain.Transfer) error {
	recipient, err := s.participantRepo.GetByID(ctx, transfer.ToAccount)
	if err != nil {
		s.log.Error().Err(err).Str("account", transfer.ToAccount.String()).Msg("webhook: failed to fetch recipient")
		return err
	}
	if recipient == nil || recipient.WebhookURL == nil || *recipient.WebhookURL == "" {
		s.log.Debug().Str("account", transfer.ToAccount.String()).Msg("webhook: no webhook URL configured, skipping")
		return nil
	}

	eventType := EventTransferCompleted
	if transfer.Kind == domain.TransferKindDistribution {
		eventType = EventAidDistributed
	}

	data := WebhookPayloadData{
		ReferenceID: transfer.ReferenceID,
		TransferID:  transfer.ID.String(),
		ToAccount:   transfer.ToAccount.String(),
		Amount:      transfer.Amount,
		Category:    transfer.Category.String(),
		Timestamp:   transfer.CreatedAt.Unix(),
	}
	if transfer.FromAccount != nil {
		data.FromAccount = transfer.FromAccount.String()
	}

	secret, err := s.encSvc.Decrypt(recipient.WebhookSecretEnc)
	if err != nil {
		s.log.Error().Err(err).Msg("webhook: failed to decrypt webhook secret")
		return err
	}

	dataBytes, _ := json.Marshal(data)
	signature := s.sigSvc.Sign(secret, string(dataBytes))

	payload := WebhookPayload{
		EventType: eventType,
		Data:      data,
		Signature: signature,
	}

	go s.deliverWithRetries(*recipient.WebhookURL, payload, transfer.ID.String())

	return nil
}

// deliverWithRetries attempts to deliver the webhook with backoff.
func (s *webhookService) deliverWithRetries(url string, payload WebhookPayload, transferID string) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("transfer_id", transferID).Msg("webhook: failed to marshal payload")
		return
	}

	for attempt := 0; attempt <= len(webhookRetryIntervals); attempt++ {
		if attempt > 0 {
			time.Sleep(webhookRetryIntervals[attempt-1])
		}

		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payloadBytes))
		if err != nil {
			s.log.Error().Err(err).Str("transfer_id", transferID).Int("attempt", attempt+1).Msg("webhook: failed to create request")
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			s.log.Warn().Err(err).Str("transfer_id", transferID).Int("attempt", attempt+1).Msg("webhook: delivery failed")
			metrics.ObserveWebhookDelivery(false)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			s.log.Info().Str("transfer_id", transferID).Int("attempt", attempt+1).Int("status", resp.StatusCode).Msg("webhook: delivered successfully")
			metrics.ObserveWebhookDelivery(true)
			return
		}

		s.log.Warn().Str("transfer_id", transferID).Int("attempt", attempt+1).Int("status", resp.StatusCode).Msg("webhook: non-2xx response, retrying")
		metrics.ObserveWebhookDelivery(false)
	}

	s.log.Error().Str("transfer_id", transferID).Msg("webhook: all retry attempts exhausted")
}

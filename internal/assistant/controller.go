// Package assistant orchestrates one conversational turn: extraction,
// conditional record application, transcript and reply.
package assistant

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nvillagra/prodtrack/internal/clock"
	"github.com/nvillagra/prodtrack/internal/connectivity"
	intentdomain "github.com/nvillagra/prodtrack/internal/intent/domain"
	"github.com/nvillagra/prodtrack/internal/metrics"
	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type State string

var (
	StateIdle               State = "IDLE"
	StateAwaitingExtraction State = "AWAITING_EXTRACTION"
	StateApplyingRecords    State = "APPLYING_RECORDS"
)

type Sender string

var (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one ephemeral transcript entry; the transcript lives in memory
// only and resets with the session.
type Message struct {
	ID     uuid.UUID `json:"id"`
	Sender Sender    `json:"sender"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

const (
	replyOffline   = "Estoy sin conexión. Usá el registro manual; tus trabajos quedan guardados en el dispositivo."
	replyBadAPIKey = "Tu clave de la IA no es válida. Revisala en Ajustes e intentá de nuevo."
	replyNoAPIKey  = "Falta configurar la clave de la IA en Ajustes."
	replyAIFailure = "No pude procesar eso. Probá de nuevo en un momento."
	recentContextN = 5
)

type ControllerParam struct {
	fx.In

	Log       *zap.Logger
	Extractor intentdomain.Extractor
	Records   recorddomain.Service
	Checker   connectivity.Checker
	Clock     clock.Clock
	Metrics   *metrics.Metrics `optional:"true"`
}

// Controller runs at most one turn at a time; a second caller blocks until
// the in-flight turn finishes.
type Controller struct {
	mu sync.Mutex

	log       *zap.Logger
	extractor intentdomain.Extractor
	records   recorddomain.Service
	checker   connectivity.Checker
	clock     clock.Clock
	metrics   *metrics.Metrics

	state      State
	transcript []Message
	history    []intentdomain.Turn
}

func NewController(p ControllerParam) *Controller {
	return &Controller{
		log:       p.Log.Named("assistant"),
		extractor: p.Extractor,
		records:   p.Records,
		checker:   p.Checker,
		clock:     p.Clock,
		metrics:   p.Metrics,
		state:     StateIdle,
	}
}

// HandleTurn processes one user message end to end and always comes back with
// the assistant reply; failures surface as assistant-visible messages, never
// as errors, and the controller always terminates in IDLE.
func (c *Controller) HandleTurn(ctx context.Context, text string) Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.state = StateIdle }()

	c.append(SenderUser, text)

	if !c.checker.Online(ctx) {
		c.countTurn("offline")
		return c.append(SenderAssistant, replyOffline)
	}

	c.state = StateAwaitingExtraction
	recent := tail(c.records.List(ctx), recentContextN)

	extraction, err := c.extractor.Extract(ctx, text, recent, c.history)
	if err != nil {
		return c.append(SenderAssistant, c.failureReply(err))
	}

	c.history = append(c.history,
		intentdomain.Turn{Role: "user", Text: text},
		intentdomain.Turn{Role: "model", Text: extraction.Reply},
	)
	c.countTurn(string(extraction.Intent))

	switch extraction.Intent {
	case intentdomain.IntentLogging:
		c.state = StateApplyingRecords
		c.applyDrafts(ctx, extraction.Drafts)
	case intentdomain.IntentCorrection:
		c.state = StateApplyingRecords
		c.applyCorrection(ctx, extraction.NewQuantity)
	}

	return c.append(SenderAssistant, extraction.Reply)
}

// Transcript returns a copy of the session transcript.
func (c *Controller) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset returns the session to its uninitialized state: transcript and
// extraction context are discarded so the next turn starts clean.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = nil
	c.history = nil
	c.state = StateIdle
}

// ValidateCredential checks the AI credential without a real extraction.
func (c *Controller) ValidateCredential(ctx context.Context) error {
	return c.extractor.Ping(ctx)
}

func (c *Controller) failureReply(err error) string {
	// Credential and parse failures poison the session context; discard it so
	// the next turn starts clean.
	switch {
	case errors.Is(err, intentdomain.ErrMissingCredential):
		c.history = nil
		c.countTurn("credential_error")
		return replyNoAPIKey
	case errors.Is(err, intentdomain.ErrInvalidCredential):
		c.history = nil
		c.countTurn("credential_error")
		return replyBadAPIKey
	case errors.Is(err, intentdomain.ErrMalformedResponse):
		c.history = nil
		c.countTurn("parse_error")
		return replyAIFailure
	default:
		c.countTurn("error")
		return replyAIFailure
	}
}

// applyDrafts applies record drafts strictly in order: each application can
// change what "last record" means for a correction later in the same turn.
func (c *Controller) applyDrafts(ctx context.Context, drafts []intentdomain.RecordDraft) {
	for _, draft := range drafts {
		quantity := draft.Quantity
		if quantity < 1 {
			quantity = 1
		}
		_, err := c.records.Add(ctx, recorddomain.AddRequest{
			Type:        draft.Type,
			Quantity:    quantity,
			Date:        draft.Date,
			Description: draft.Description,
			Amount:      draft.Amount,
		})
		if err != nil {
			c.log.Warn("skipping invalid draft",
				zap.String("type", string(draft.Type)),
				zap.Error(err),
			)
		}
	}
}

// applyCorrection resizes the most recent batch to newQuantity. Records are
// never mutated in place: shrinking deletes the newest ones, growing logs
// fresh ones with the batch's type and date.
func (c *Controller) applyCorrection(ctx context.Context, newQuantity int) {
	batch := lastBatch(c.records.List(ctx))
	if len(batch) == 0 {
		return
	}
	current := len(batch)
	switch {
	case newQuantity < current:
		for i := current - 1; i >= newQuantity; i-- {
			c.records.Delete(ctx, batch[i].ID)
		}
	case newQuantity > current:
		last := batch[len(batch)-1]
		_, err := c.records.Add(ctx, recorddomain.AddRequest{
			Type:     last.Type,
			Quantity: newQuantity - current,
			Date:     last.Date,
			Amount:   &last.Amount,
		})
		if err != nil {
			c.log.Warn("correction add failed", zap.Error(err))
		}
	}
}

func (c *Controller) append(sender Sender, text string) Message {
	msg := Message{
		ID:     uuid.New(),
		Sender: sender,
		Text:   text,
		At:     c.clock.Now(),
	}
	c.transcript = append(c.transcript, msg)
	return msg
}

func (c *Controller) countTurn(intent string) {
	if c.metrics != nil {
		c.metrics.AssistantTurns.WithLabelValues(intent).Inc()
	}
}

// lastBatch walks the ordered list backwards collecting the trailing records
// that share the newest record's type and date.
func lastBatch(records []recorddomain.Record) []recorddomain.Record {
	if len(records) == 0 {
		return nil
	}
	last := records[len(records)-1]
	start := len(records)
	for start > 0 {
		prev := records[start-1]
		if prev.Type != last.Type || prev.Date != last.Date {
			break
		}
		start--
	}
	return records[start:]
}

func tail(records []recorddomain.Record, n int) []recorddomain.Record {
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

var Module = fx.Module("assistant",
	fx.Provide(NewController),
)

package ingest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/textforge/smshub/internal/device"
	"github.com/textforge/smshub/internal/mms"
	"github.com/textforge/smshub/internal/models"
	"github.com/textforge/smshub/internal/recipients"
	"github.com/textforge/smshub/internal/repository"
)

// DuplicateWindow is how far back the default save policy looks for an
// identical payload before treating a delivery as a carrier duplicate.
const DuplicateWindow = 10 * time.Second

// SavePolicy decides whether a built message entity should be persisted.
// Returning false vetoes persistence (duplicate suppression being the usual
// reason); returning an error also vetoes, but is logged.
type SavePolicy func(ctx context.Context, message *models.Message, participants string) (bool, error)

// MediaSaver persists the payload of a non-text part. Best-effort.
type MediaSaver interface {
	Save(ctx context.Context, message *models.Message, payload []byte) error
}

// Broadcaster emits the two UI-refresh signals after persistence.
type Broadcaster interface {
	BroadcastConversationUpdated(conversationID uint, snippet string, notificationOnly bool)
	BroadcastMessageAdded(conversationID uint)
}

// Orchestrator runs the end-to-end ingestion sequence for one delivery.
type Orchestrator struct {
	source        mms.Source
	blacklist     repository.BlacklistRepository
	contacts      recipients.ContactLookup
	device        device.Provider
	messages      repository.MessageRepository
	conversations repository.ConversationRepository
	broadcaster   Broadcaster
	saver         MediaSaver
	policy        SavePolicy
	autoSaveMedia bool
	logger        *slog.Logger
}

// OrchestratorConfig holds the collaborators the orchestrator needs.
type OrchestratorConfig struct {
	Source        mms.Source
	Blacklist     repository.BlacklistRepository
	Contacts      recipients.ContactLookup
	Device        device.Provider
	Messages      repository.MessageRepository
	Conversations repository.ConversationRepository
	Broadcaster   Broadcaster
	Saver         MediaSaver
	// Policy may be nil, in which case DefaultSavePolicy applies.
	Policy        SavePolicy
	AutoSaveMedia bool
	Logger        *slog.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(cfg *OrchestratorConfig) *Orchestrator {
	policy := cfg.Policy
	if policy == nil {
		policy = DefaultSavePolicy(cfg.Messages)
	}
	return &Orchestrator{
		source:        cfg.Source,
		blacklist:     cfg.Blacklist,
		contacts:      cfg.Contacts,
		device:        cfg.Device,
		messages:      cfg.Messages,
		conversations: cfg.Conversations,
		broadcaster:   cfg.Broadcaster,
		saver:         cfg.Saver,
		policy:        policy,
		autoSaveMedia: cfg.AutoSaveMedia,
		logger:        cfg.Logger,
	}
}

// DefaultSavePolicy vetoes payloads that already landed in the same
// conversation within DuplicateWindow.
func DefaultSavePolicy(messages repository.MessageRepository) SavePolicy {
	return func(ctx context.Context, message *models.Message, participants string) (bool, error) {
		if message.Data == "" {
			return true, nil
		}
		dup, err := messages.ExistsRecent(ctx, participants, message.Data, DuplicateWindow)
		if err != nil {
			return false, err
		}
		return !dup, nil
	}
}

// Ingest processes the newest pending raw record. Every failure inside the
// run degrades to a partial or empty outcome; nothing here panics or aborts
// the host process.
func (o *Orchestrator) Ingest(ctx context.Context) Outcome {
	record := o.source.Latest()
	if record == nil {
		return Outcome{Status: StatusNoContent}
	}
	// The record is scoped to this run. Double releases and release failures
	// are swallowed, not propagated.
	defer func() { _ = record.Release() }()

	if len(record.Parts) == 0 {
		return Outcome{Status: StatusNoContent}
	}

	from, to := record.From, record.To

	blocked, err := o.blacklist.IsBlacklisted(ctx, from)
	if err != nil {
		o.logError("blacklist check failed", err)
	}
	if blocked {
		o.logDebug("discarding message from blacklisted sender")
		return Outcome{Status: StatusSuppressed}
	}

	localNumbers := o.device.MyPossibleNumbers()
	participants := recipients.Resolve(ctx, from, to, localNumbers, o.contacts)

	// A message "from us" in a group context is an echo of something this
	// device already sent, not new inbound traffic.
	if recipients.IsSelfSender(from, localNumbers) && recipients.IsGroup(participants) {
		o.logDebug("discarding group self-echo")
		return Outcome{Status: StatusSuppressed}
	}

	entities, payloads, snippet := o.buildEntities(ctx, record, from, participants)

	if blocked, err := o.blacklist.ContainsBlockedPhrase(ctx, snippet); err != nil {
		o.logError("blocked-phrase check failed", err)
	} else if blocked {
		o.logDebug("discarding message containing blocked phrase")
		return Outcome{Status: StatusSuppressed}
	}

	return o.persist(ctx, entities, payloads, participants, snippet)
}

// buildEntities turns the record's parts into message entities. The snippet
// tracks the most recent plain-text part's trimmed body.
func (o *Orchestrator) buildEntities(ctx context.Context, record *mms.Record, from, participants string) ([]*models.Message, [][]byte, string) {
	group := recipients.IsGroup(participants)
	sim := o.device.SimPhoneNumber()

	var (
		entities []*models.Message
		payloads [][]byte
		snippet  string
	)
	for _, part := range record.Parts {
		timestamp := part.Timestamp
		if timestamp.IsZero() {
			timestamp = record.Received
		}

		entity := &models.Message{
			Type:         models.MessageTypeReceived,
			Data:         strings.TrimSpace(part.Text),
			Timestamp:    timestamp,
			MimeType:     part.MimeType,
			Read:         false,
			Seen:         false,
			SimNumber:    sim,
			SentDeviceID: models.SentFromLocalDevice,
		}
		// Sender names only matter in groups; a 1:1 thread already names its
		// peer, so the column stays null there.
		if group {
			name := from
			if o.contacts != nil {
				name = o.contacts.DisplayName(ctx, from)
			}
			entity.SenderName = &name
		}
		if entity.IsText() {
			snippet = entity.Data
		}

		entities = append(entities, entity)
		payloads = append(payloads, part.Data)
	}

	return entities, payloads, snippet
}

// persist runs the save policy and storage for each entity, reads back
// conversation mute state, auto-saves media, and fires the UI broadcasts when
// anything landed.
func (o *Orchestrator) persist(ctx context.Context, entities []*models.Message, payloads [][]byte, participants, snippet string) Outcome {
	var (
		persisted      bool
		conversationID uint
		muted          bool
	)

	for i, entity := range entities {
		save, err := o.policy(ctx, entity, participants)
		if err != nil {
			o.logError("save policy failed, skipping entity", err)
			continue
		}
		if !save {
			o.logDebug("save policy vetoed entity")
			continue
		}

		id, err := o.messages.Insert(ctx, entity, participants)
		if err != nil {
			o.logError("failed to persist message", err)
			continue
		}
		persisted = true
		conversationID = id

		if conversation, err := o.conversations.GetByID(ctx, id); err != nil {
			o.logError("failed to read back conversation", err)
		} else if conversation.Mute {
			muted = true
			if err := o.conversations.MarkSeen(ctx, id); err != nil {
				o.logError("failed to mark muted conversation seen", err)
			}
		}

		if !entity.IsText() && o.autoSaveMedia && o.saver != nil {
			if err := o.saver.Save(ctx, entity, payloads[i]); err != nil {
				// Media saving is best-effort; a failure must not block the
				// notification or broadcast steps.
				o.logError("failed to auto-save media", err)
			}
		}
	}

	if !persisted {
		return Outcome{Status: StatusNoContent, Snippet: snippet}
	}

	if o.broadcaster != nil {
		o.broadcaster.BroadcastConversationUpdated(conversationID, snippet, false)
		o.broadcaster.BroadcastMessageAdded(conversationID)
	}

	return Outcome{
		Status:           StatusPersisted,
		Snippet:          snippet,
		ConversationID:   conversationID,
		MuteNotification: muted,
	}
}

func (o *Orchestrator) logError(msg string, err error) {
	if o.logger != nil {
		o.logger.Error(msg, slog.Any("error", err))
	}
}

func (o *Orchestrator) logDebug(msg string) {
	if o.logger != nil {
		o.logger.Debug(msg)
	}
}

package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Rorical/RoriQuery/internal/models"
	"github.com/Rorical/RoriQuery/internal/store"
)

var (
	ErrAwaitingConfirmation = errors.New("a query is awaiting confirmation")
	ErrNoPendingQuery       = errors.New("no query is awaiting confirmation")
)

const saveTimeout = 30 * time.Second

// Asker is the inference API.
type Asker interface {
	Ask(ctx context.Context, question string, confirmed bool) (*models.AskResponse, error)
}

// ConversationStore persists conversations.
type ConversationStore interface {
	List(ctx context.Context) ([]models.Conversation, error)
	Get(ctx context.Context, id int64) (*models.Conversation, error)
	Create(ctx context.Context, title string, msgs []models.Message) (*models.Conversation, error)
	Update(ctx context.Context, id int64, msgs []models.Message) (*models.Conversation, error)
	Delete(ctx context.Context, id int64) error
}

// Controller runs one chat session. At most one question is in flight;
// completed exchanges are saved in the background, one save at a time.
type Controller struct {
	asker  Asker
	store  ConversationStore
	logger *zap.Logger

	mu            sync.Mutex
	state         State
	conversations []models.ConversationSummary
	cancelReq     context.CancelFunc
	reqSeq        uint64
	// epoch changes whenever the visible conversation is swapped out, so
	// late results from the previous one are dropped.
	epoch    uint64
	epochIDs map[uint64]int64
	// saves from epochs below floor belong to a previous account.
	floor uint64

	saveMu   sync.Mutex
	notifyMu sync.Mutex
	onChange func(models.SessionSnapshot)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewController(asker Asker, convs ConversationStore, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		asker:    asker,
		store:    convs,
		logger:   logger,
		state:    InitialState(),
		epochIDs: map[uint64]int64{0: 0},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetOnChange registers the callback that receives every new snapshot.
func (c *Controller) SetOnChange(fn func(models.SessionSnapshot)) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.onChange = fn
}

func (c *Controller) Snapshot() models.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() models.SessionSnapshot {
	snap := models.SessionSnapshot{
		Messages:      models.CloneMessages(c.state.Messages),
		InFlight:      c.state.InFlight,
		FollowUps:     append([]string(nil), c.state.FollowUps...),
		ActiveID:      c.state.ActiveID,
		Conversations: append([]models.ConversationSummary(nil), c.conversations...),
	}
	if c.state.Pending != nil {
		p := *c.state.Pending
		snap.Pending = &p
	}
	return snap
}

func (c *Controller) Gate() GateState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Gate()
}

func (c *Controller) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if c.onChange == nil {
		return
	}
	c.onChange(c.Snapshot())
}

// SendMessage asks a question. Blank input does nothing. While a request is
// in flight the call cancels that request instead of sending a new one.
// While the confirmation gate is open it returns ErrAwaitingConfirmation.
func (c *Controller) SendMessage(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	switch {
	case c.state.InFlight:
		c.cancelInFlightLocked()
		c.mu.Unlock()
		return nil
	case c.state.Gate() == GateAwaitingConfirmation:
		c.mu.Unlock()
		return ErrAwaitingConfirmation
	}

	c.state = Reduce(c.state, SendStarted{Text: text})
	c.startLocked(text, false)
	c.mu.Unlock()

	c.notify()
	return nil
}

// CancelRequest aborts the in-flight request, if any. The request finishes
// with a cancellation notice in the chat.
func (c *Controller) CancelRequest() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelInFlightLocked()
}

// Confirm re-sends the pending question with the confirmation flag.
func (c *Controller) Confirm() error {
	c.mu.Lock()
	if c.state.Gate() != GateAwaitingConfirmation {
		c.mu.Unlock()
		return ErrNoPendingQuery
	}
	query := c.state.Pending.Query
	c.state = Reduce(c.state, ConfirmStarted{})
	c.startLocked(query, true)
	c.mu.Unlock()

	c.notify()
	return nil
}

// Cancel closes the confirmation gate and restores the message list to what
// it was before the question that opened it.
func (c *Controller) Cancel() {
	c.mu.Lock()
	if c.state.Gate() != GateAwaitingConfirmation {
		c.mu.Unlock()
		return
	}
	c.state = Reduce(c.state, PendingCancelled{})
	c.mu.Unlock()

	c.notify()
}

// NewChat resets to the greeting; the next save creates a new conversation.
func (c *Controller) NewChat() {
	c.mu.Lock()
	c.newChatLocked()
	c.mu.Unlock()

	c.notify()
}

func (c *Controller) newChatLocked() {
	c.abandonLocked(0)
	c.state = Reduce(c.state, ChatReset{})
}

// Reset drops the chat and the conversation list, for when the signed-in
// account changes. Pending saves still finish but no longer touch the list.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.newChatLocked()
	c.floor = c.epoch
	c.conversations = nil
	c.mu.Unlock()

	c.notify()
}

// SelectConversation loads a stored conversation and makes it active.
func (c *Controller) SelectConversation(ctx context.Context, id int64) error {
	conv, err := c.store.Get(ctx, id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.abandonLocked(conv.ID)
	c.state = Reduce(c.state, ConversationOpened{Conversation: *conv})
	c.mu.Unlock()

	c.notify()
	return nil
}

// DeleteConversation removes a stored conversation. Deleting the active one
// resets the session as NewChat does.
func (c *Controller) DeleteConversation(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	kept := c.conversations[:0:0]
	for _, s := range c.conversations {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	c.conversations = kept
	if c.state.ActiveID == id {
		c.newChatLocked()
	}
	c.mu.Unlock()

	c.notify()
	return nil
}

// RefreshConversations reloads the sidebar list from the store.
func (c *Controller) RefreshConversations(ctx context.Context) error {
	list, err := c.store.List(ctx)
	if err != nil {
		return err
	}
	summaries := make([]models.ConversationSummary, 0, len(list))
	for _, conv := range list {
		summaries = append(summaries, conv.Summary())
	}

	c.mu.Lock()
	c.conversations = summaries
	c.mu.Unlock()

	c.notify()
	return nil
}

// Wait blocks until in-flight requests and saves have finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels outstanding work and waits for it.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}

// abandonLocked moves the session to a new epoch bound to conversation id.
// Results of requests from the old epoch are discarded.
func (c *Controller) abandonLocked(id int64) {
	if c.cancelReq != nil {
		c.cancelReq()
		c.cancelReq = nil
	}
	c.epoch++
	c.epochIDs[c.epoch] = id
}

func (c *Controller) cancelInFlightLocked() {
	if c.cancelReq != nil {
		c.cancelReq()
	}
}

func (c *Controller) startLocked(question string, confirmed bool) {
	ctx, cancel := context.WithCancel(c.ctx)
	c.reqSeq++
	seq, epoch := c.reqSeq, c.epoch
	c.cancelReq = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		resp, err := c.asker.Ask(ctx, question, confirmed)
		c.finish(seq, epoch, question, confirmed, resp, err)
	}()
}

func (c *Controller) finish(seq, epoch uint64, question string, confirmed bool, resp *models.AskResponse, err error) {
	c.mu.Lock()
	if seq != c.reqSeq || epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	c.cancelReq = nil

	persist := false
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		c.logger.Info("request cancelled", zap.Bool("confirmed", confirmed))
		c.state = Reduce(c.state, RequestCancelled{})
	case err != nil:
		c.logger.Warn("ask failed", zap.Error(err))
		c.state = Reduce(c.state, RequestFailed{Err: err})
	case resp == nil:
		c.state = Reduce(c.state, AnswerReceived{})
	case resp.RequiresConfirmation && !confirmed:
		c.logger.Info("query requires confirmation", zap.String("sql", resp.SQL))
		c.state = Reduce(c.state, ConfirmationRequired{Query: question, Response: *resp})
	default:
		c.state = Reduce(c.state, AnswerReceived{Response: *resp})
		persist = resp.Answer != ""
	}
	msgs := models.CloneMessages(c.state.Messages)
	if persist {
		c.persistLocked(epoch, msgs)
	}
	c.mu.Unlock()

	c.notify()
}

// persistLocked saves msgs for the conversation bound to epoch. Saves run in
// order; a create's id is recorded before the next save for that epoch runs.
func (c *Controller) persistLocked(epoch uint64, msgs []models.Message) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.saveMu.Lock()
		defer c.saveMu.Unlock()

		c.mu.Lock()
		id := c.epochIDs[epoch]
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(c.ctx, saveTimeout)
		defer cancel()

		var conv *models.Conversation
		var err error
		if id == 0 {
			conv, err = c.store.Create(ctx, store.TitleFor(msgs), msgs)
		} else {
			conv, err = c.store.Update(ctx, id, msgs)
		}
		if err != nil {
			c.logger.Warn("save conversation failed", zap.Int64("id", id), zap.Error(err))
			return
		}

		c.mu.Lock()
		if epoch < c.floor {
			c.mu.Unlock()
			return
		}
		c.epochIDs[epoch] = conv.ID
		if epoch == c.epoch {
			c.state = Reduce(c.state, ConversationSaved{ID: conv.ID})
		}
		c.upsertSummaryLocked(conv.Summary())
		c.mu.Unlock()

		c.notify()
	}()
}

func (c *Controller) upsertSummaryLocked(sum models.ConversationSummary) {
	for i, s := range c.conversations {
		if s.ID == sum.ID {
			c.conversations[i] = sum
			return
		}
	}
	c.conversations = append([]models.ConversationSummary{sum}, c.conversations...)
}

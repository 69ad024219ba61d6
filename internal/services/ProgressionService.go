package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"drift/internal/mock"
	"drift/internal/models"
	"drift/internal/persistence/interfaces"
	"drift/internal/progression"
	"drift/internal/providers"
	"drift/internal/simulation"
	"drift/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const defaultReadTimeout = 2 * time.Second

type RateKind string

const (
	RateUp     RateKind = "up"
	RateDown   RateKind = "down"
	RateFlower RateKind = "flower"
)

func (k RateKind) Valid() bool {
	return k == RateUp || k == RateDown || k == RateFlower
}

type ProgressionServiceInterface interface {
	Initialize(ctx context.Context) error
	Cast(content string) bool
	Draw() *models.Message
	CloseReading()
	Rate(kind RateKind) bool
	Reply(content string) bool
	Vote(sentID, replyID string, action models.Vote) bool
	OpenSent(sentID string) (models.SentMessage, bool)
	History() []models.SentMessage
	Reset(ctx context.Context) error
	Snapshot() models.Snapshot
}

// ProgressionService owns the UserProgress aggregate. Every intent and every
// delivery from the network runs under mu, one at a time, to completion.
type ProgressionService struct {
	mu          sync.Mutex
	progress    *models.UserProgress
	persistedXP int
	isReading   bool

	cooldown    time.Duration
	rewards     progression.Rewards
	readTimeout time.Duration
	rnd         *rand.Rand
	now         func() time.Time

	store   interfaces.KeyValueStoreInterface
	writer  interfaces.WriterInterface
	network simulation.NetworkInterface
	hub     providers.EventHubInterface
	logger  providers.Logger
}

func NewProgressionService(conf *structures.Config, logger providers.Logger, store interfaces.KeyValueStoreInterface, writer interfaces.WriterInterface, network simulation.NetworkInterface, hub providers.EventHubInterface) ProgressionServiceInterface {
	return newProgressionService(conf, logger, store, writer, network, hub, time.Now, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

func newProgressionService(conf *structures.Config, logger providers.Logger, store interfaces.KeyValueStoreInterface, writer interfaces.WriterInterface, network simulation.NetworkInterface, hub providers.EventHubInterface, now func() time.Time, rnd *rand.Rand) *ProgressionService {
	cooldown := conf.Progression.Cooldown
	if cooldown <= 0 {
		cooldown = progression.DefaultCooldown
	}
	readTimeout := conf.Storage.Timeout
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}
	return &ProgressionService{
		progress:    models.NewUserProgress(),
		cooldown:    cooldown,
		rewards:     progression.RewardsFromConfig(conf.Progression.Rewards),
		readTimeout: readTimeout,
		rnd:         rnd,
		now:         now,
		store:       store,
		writer:      writer,
		network:     network,
		hub:         hub,
		logger:      logger,
	}
}

// Initialize rehydrates progress from storage. Missing, unreadable or
// malformed values fall back to empty state; it only fails on a cancelled ctx.
func (ps *ProgressionService) Initialize(ctx context.Context) error {
	now := ps.now()
	p := models.NewUserProgress()

	if raw, ok := ps.read(ctx, KeyNextSend); ok {
		if deadline, ok := ps.parseDeadline(KeyNextSend, raw); ok && deadline.After(now) {
			p.NextSendAllowedAt = &deadline
		}
	}
	if raw, ok := ps.read(ctx, KeyNextReceive); ok {
		if deadline, ok := ps.parseDeadline(KeyNextReceive, raw); ok && deadline.After(now) {
			p.NextReceiveAllowedAt = &deadline
		}
	}
	if raw, ok := ps.read(ctx, KeyXP); ok {
		xp, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || xp < 0 {
			ps.logger.Warnf(providers.TypeStorage, "Ignoring malformed %s value %q", KeyXP, raw)
		} else {
			p.XP = xp
		}
	}
	if raw, ok := ps.read(ctx, KeyDailyBottle); ok {
		var msg models.Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil || msg.ID == "" {
			ps.logger.Warnf(providers.TypeStorage, "Ignoring malformed %s: %v", KeyDailyBottle, err)
		} else {
			p.DailyMessage = &msg
		}
	}
	if raw, ok := ps.read(ctx, KeyDailyRated); ok && p.DailyMessage != nil {
		rated, err := cast.ToBoolE(raw)
		if err != nil {
			ps.logger.Warnf(providers.TypeStorage, "Ignoring malformed %s value %q", KeyDailyRated, raw)
		}
		p.HasRatedCurrentDaily = rated
	}
	if raw, ok := ps.read(ctx, KeySentHistory); ok {
		var history []models.SentMessage
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			ps.logger.Warnf(providers.TypeStorage, "Ignoring malformed %s: %s", KeySentHistory, err)
		} else {
			for i := range history {
				if history[i].Replies == nil {
					history[i].Replies = make([]models.Reply, 0)
				}
			}
			if history != nil {
				p.SentHistory = history
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	ps.mu.Lock()
	ps.progress = p
	ps.persistedXP = p.XP
	ps.isReading = false
	ps.mu.Unlock()

	lvl := progression.ResolveLevel(p.XP)
	ps.logger.Infof(providers.TypeGame, "Progress restored: %d XP, level %d (%s), %d bottles sent", p.XP, lvl.Index, lvl.Title, len(p.SentHistory))
	return nil
}

func (ps *ProgressionService) read(ctx context.Context, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, ps.readTimeout)
	defer cancel()

	val, found, err := ps.store.Get(ctx, key)
	if err != nil {
		ps.logger.Errorf(providers.TypeStorage, "Failed to read %s: %s", key, err)
		return "", false
	}
	if !found || strings.TrimSpace(val) == "" {
		return "", false
	}
	return val, true
}

// parseDeadline accepts decimal unix milliseconds or any timestamp string
// cast understands.
func (ps *ProgressionService) parseDeadline(key, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms), true
	}
	if t, err := cast.ToTimeE(raw); err == nil {
		return t, true
	}
	ps.logger.Warnf(providers.TypeStorage, "Ignoring malformed %s value %q", key, raw)
	return time.Time{}, false
}

func (ps *ProgressionService) Cast(content string) bool {
	content = strings.TrimSpace(content)

	ps.mu.Lock()
	now := ps.now()
	if content == "" || !progression.IsOpen(ps.progress.NextSendAllowedAt, now) {
		ps.mu.Unlock()
		ps.logger.Debugf(providers.TypeGame, "Cast rejected")
		return false
	}

	sent := models.SentMessage{
		ID:        mock.NewID(),
		Content:   content,
		CreatedAt: now,
		Location:  mock.SentLocation,
		Replies:   make([]models.Reply, 0),
	}
	ps.progress.SentHistory = append([]models.SentMessage{sent}, ps.progress.SentHistory...)
	ps.progress.NextSendAllowedAt = progression.Lock(now, ps.cooldown)

	ps.persistDeadline(KeyNextSend, ps.progress.NextSendAllowedAt)
	ps.persistHistory()
	ps.applyXP(progression.ReasonBottleCast, ps.rewards.BottleCast)
	ps.mu.Unlock()

	ps.logger.Infof(providers.TypeGame, "Bottle %s cast", sent.ID)
	ps.network.DeliverReplyAsync(sent.ID, func(reply models.Reply) {
		ps.receiveReply(sent.ID, reply)
	})
	return true
}

func (ps *ProgressionService) receiveReply(sentID string, reply models.Reply) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	sent, ok := ps.progress.FindSent(sentID)
	if !ok {
		ps.logger.Debugf(providers.TypeGame, "Reply for unknown bottle %s dropped", sentID)
		return
	}
	sent.Replies = append(sent.Replies, reply)
	sent.HasUnreadReplies = true
	ps.persistHistory()
	ps.info("Someone found your bottle!")
}

// Draw opens the daily bottle, drawing a new one when there is none yet or
// the receive cooldown has passed.
func (ps *ProgressionService) Draw() *models.Message {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	now := ps.now()
	p := ps.progress
	if p.DailyMessage == nil || progression.IsOpen(p.NextReceiveAllowedAt, now) {
		msg := mock.RandomMessage(ps.rnd, now)
		p.DailyMessage = &msg
		p.HasRatedCurrentDaily = false
		p.NextReceiveAllowedAt = progression.Lock(now, ps.cooldown)

		ps.persistDeadline(KeyNextReceive, p.NextReceiveAllowedAt)
		ps.persistRated()
		ps.logger.Infof(providers.TypeGame, "Drew bottle %s from %s", msg.ID, msg.Location)
	}

	p.DailyMessage.IsRead = true
	ps.isReading = true
	ps.persistDaily()

	msg := *p.DailyMessage
	return &msg
}

func (ps *ProgressionService) CloseReading() {
	ps.mu.Lock()
	ps.isReading = false
	ps.mu.Unlock()
}

// Rate awards feedback XP once per daily bottle.
func (ps *ProgressionService) Rate(kind RateKind) bool {
	if !kind.Valid() {
		return false
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.progress.DailyMessage == nil || ps.progress.HasRatedCurrentDaily {
		return false
	}
	ps.progress.HasRatedCurrentDaily = true
	ps.persistRated()
	ps.applyXP(progression.ReasonFeedbackGiven, ps.rewards.FeedbackGiven)
	return true
}

func (ps *ProgressionService) Reply(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}

	ps.mu.Lock()
	if ps.progress.DailyMessage == nil {
		ps.mu.Unlock()
		return false
	}
	ps.isReading = false
	ps.applyXP(progression.ReasonReplySent, ps.rewards.ReplySent)
	ps.info("Reply sent to the stranger.")
	ps.mu.Unlock()

	ps.network.DeliverFeedbackAsync(mock.NewID(), ps.receiveFeedback)
	return true
}

func (ps *ProgressionService) receiveFeedback(roll float64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for _, award := range ps.rewards.FeedbackAwards(roll) {
		ps.applyXP(award.Reason, award.Amount)
	}
}

// Vote toggles the vote on a reply to one of our bottles. Super Thanks is
// sticky and grants its reward on every application, repeats included.
func (ps *ProgressionService) Vote(sentID, replyID string, action models.Vote) bool {
	if !action.Valid() {
		return false
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	sent, ok := ps.progress.FindSent(sentID)
	if !ok {
		return false
	}
	reply, ok := sent.FindReply(replyID)
	if !ok {
		return false
	}
	reply.Toggle(action)
	ps.persistHistory()

	switch action {
	case models.VoteSuper:
		ps.applyXP(progression.ReasonSuperThanks, ps.rewards.SuperThanks)
		ps.info("Gratitude sent!")
	case models.VoteUp:
		ps.info("Marked as helpful")
	}
	return true
}

func (ps *ProgressionService) OpenSent(sentID string) (models.SentMessage, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	sent, ok := ps.progress.FindSent(sentID)
	if !ok {
		return models.SentMessage{}, false
	}
	if sent.HasUnreadReplies {
		sent.HasUnreadReplies = false
		ps.persistHistory()
	}
	return sent.Clone(), true
}

func (ps *ProgressionService) History() []models.SentMessage {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return models.CloneHistory(ps.progress.SentHistory)
}

// Reset wipes the journey in memory and in storage.
func (ps *ProgressionService) Reset(ctx context.Context) error {
	ps.mu.Lock()
	ps.progress = models.NewUserProgress()
	ps.persistedXP = 0
	ps.isReading = false
	for _, key := range progressKeys {
		ps.writer.EnqueueDelete(key)
	}
	ps.info("Your journey starts anew.")
	ps.mu.Unlock()

	ps.logger.Infof(providers.TypeGame, "Journey reset")
	return ps.writer.Flush(ctx)
}

func (ps *ProgressionService) Snapshot() models.Snapshot {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	now := ps.now()
	p := ps.progress
	lvl := progression.ResolveLevel(p.XP)

	snap := models.Snapshot{
		XP:            p.XP,
		Level:         lvl.Index,
		Title:         lvl.Title,
		NextLevelXP:   lvl.NextThreshold,
		Progress:      progression.Progress(p.XP),
		CanSend:       true,
		CanReceive:    true,
		IsReading:     ps.isReading,
		HasRatedDaily: p.HasRatedCurrentDaily,
		SentHistory:   models.CloneHistory(p.SentHistory),
	}
	if left, locked := progression.RemainingUntil(p.NextSendAllowedAt, now); locked {
		snap.CanSend = false
		snap.SendTimeLeft = left.String()
	}
	if left, locked := progression.RemainingUntil(p.NextReceiveAllowedAt, now); locked {
		snap.CanReceive = false
		snap.ReceiveTimeLeft = left.String()
	}
	if p.DailyMessage != nil {
		msg := *p.DailyMessage
		snap.DailyMessage = &msg
	}
	for _, sent := range p.SentHistory {
		if sent.HasUnreadReplies {
			snap.UnreadReplies++
		}
	}
	return snap
}

// applyXP must be called under ps.mu. The previous level is taken from the
// last value handed to storage, before the new one replaces it.
func (ps *ProgressionService) applyXP(reason string, amount int) {
	before := progression.ResolveLevel(ps.persistedXP)

	xp := max(ps.progress.XP+amount, 0)
	ps.progress.XP = xp
	ps.writer.Enqueue(KeyXP, strconv.Itoa(xp))
	ps.persistedXP = xp

	after := progression.ResolveLevel(xp)

	n := models.Notification{
		Kind:    models.NotificationXP,
		Message: fmt.Sprintf("%s +%d XP", reason, amount),
		Reason:  reason,
		Amount:  amount,
		XP:      xp,
		Level:   after.Index,
		At:      ps.now(),
	}
	if amount < 0 {
		n.Kind = models.NotificationInfo
		n.Message = fmt.Sprintf("%s -%d XP", reason, -amount)
	}
	ps.hub.Publish(n)

	if after.Index > before.Index && xp > 0 {
		ps.logger.Infof(providers.TypeGame, "Level up: %s -> %s at %d XP", before.Title, after.Title, xp)
		ps.hub.Publish(models.Notification{
			Kind:      models.NotificationLevelUp,
			Message:   fmt.Sprintf("You are now a %s", after.Title),
			XP:        xp,
			Level:     after.Index,
			FromLevel: before.Index,
			FromTitle: before.Title,
			ToLevel:   after.Index,
			ToTitle:   after.Title,
			At:        ps.now(),
		})
	}
}

func (ps *ProgressionService) info(msg string) {
	ps.hub.Publish(models.Notification{
		Kind:    models.NotificationInfo,
		Message: msg,
		XP:      ps.progress.XP,
		Level:   progression.ResolveLevel(ps.progress.XP).Index,
		At:      ps.now(),
	})
}

func (ps *ProgressionService) persistDeadline(key string, deadline *time.Time) {
	if deadline == nil {
		ps.writer.EnqueueDelete(key)
		return
	}
	ps.writer.Enqueue(key, strconv.FormatInt(deadline.UnixMilli(), 10))
}

func (ps *ProgressionService) persistRated() {
	ps.writer.Enqueue(KeyDailyRated, strconv.FormatBool(ps.progress.HasRatedCurrentDaily))
}

func (ps *ProgressionService) persistDaily() {
	if ps.progress.DailyMessage == nil {
		ps.writer.EnqueueDelete(KeyDailyBottle)
		return
	}
	ps.persistJSON(KeyDailyBottle, ps.progress.DailyMessage)
}

func (ps *ProgressionService) persistHistory() {
	ps.persistJSON(KeySentHistory, ps.progress.SentHistory)
}

func (ps *ProgressionService) persistJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		ps.logger.Errorf(providers.TypeStorage, "Failed to encode %s: %s", key, err)
		return
	}
	ps.writer.Enqueue(key, string(data))
}

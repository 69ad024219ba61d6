package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"drift/internal/models"
	"drift/internal/progression"
	"drift/internal/structures"
	"drift/internal/testutil"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *ProgressionService
	store   *testutil.MockStore
	network *testutil.FakeNetwork
	hub     *testutil.MockHub
	clock   *testutil.FakeClock
	logger  *testutil.MockLogger
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithStore(t, testutil.NewMockStore())
}

func newFixtureWithStore(t *testing.T, store *testutil.MockStore) *fixture {
	t.Helper()
	f := &fixture{
		store:   store,
		network: &testutil.FakeNetwork{},
		hub:     &testutil.MockHub{},
		clock:   testutil.NewFakeClock(epoch),
		logger:  &testutil.MockLogger{},
	}
	f.svc = newProgressionService(&structures.Config{}, f.logger, store, testutil.NewSyncWriter(store), f.network, f.hub, f.clock.Now, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, f.svc.Initialize(context.Background()))
	return f
}

func TestCast_FirstBottle(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.svc.Cast("  hello sea  "))

	snap := f.svc.Snapshot()
	assert.Equal(t, 20, snap.XP)
	assert.Equal(t, 1, snap.Level)
	assert.Equal(t, "Drifter", snap.Title)
	assert.False(t, snap.CanSend)
	assert.Equal(t, "24h 0m 0s", snap.SendTimeLeft)
	require.Len(t, snap.SentHistory, 1)
	assert.Equal(t, "hello sea", snap.SentHistory[0].Content)
	assert.Equal(t, "Drifting...", snap.SentHistory[0].Location)
	assert.Empty(t, snap.SentHistory[0].Replies)

	f.clock.Advance(time.Second)
	assert.Equal(t, "23h 59m 59s", f.svc.Snapshot().SendTimeLeft)

	deadline, ok := f.store.Value(KeyNextSend)
	require.True(t, ok)
	assert.Equal(t, strconv.FormatInt(epoch.Add(24*time.Hour).UnixMilli(), 10), deadline)
	xp, _ := f.store.Value(KeyXP)
	assert.Equal(t, "20", xp)

	xpNotes := f.hub.OfKind(models.NotificationXP)
	require.Len(t, xpNotes, 1)
	assert.Equal(t, "Bottle cast +20 XP", xpNotes[0].Message)
	assert.Equal(t, []string{snap.SentHistory[0].ID}, f.network.PendingReplyIDs())
}

func TestCast_RejectedWhileLocked(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.svc.Cast("first"))

	f.clock.Advance(23 * time.Hour)
	assert.False(t, f.svc.Cast("second"))

	snap := f.svc.Snapshot()
	assert.Equal(t, 20, snap.XP)
	assert.Len(t, snap.SentHistory, 1)
}

func TestCast_ReopensAfterCooldown(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.svc.Cast("first"))

	f.clock.Advance(24 * time.Hour)
	assert.True(t, f.svc.Snapshot().CanSend)
	require.True(t, f.svc.Cast("second"))

	history := f.svc.History()
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Content)
	assert.Equal(t, "first", history[1].Content)
}

func TestCast_EmptyContentRejected(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.svc.Cast("   "))
	assert.True(t, f.svc.Snapshot().CanSend)
	assert.Zero(t, f.network.Pending())
}

func TestCast_StorageFailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.store.SetErr = errors.New("disk full")

	require.True(t, f.svc.Cast("still works"))
	assert.Equal(t, 20, f.svc.Snapshot().XP)
}

func TestReplyDelivery_MarksUnread(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.svc.Cast("anyone?"))
	f.hub.Reset()

	require.True(t, f.network.FireReply(models.Reply{ID: "r1", Content: "yes", Author: "Stranger"}))

	snap := f.svc.Snapshot()
	assert.Equal(t, 1, snap.UnreadReplies)
	require.Len(t, snap.SentHistory[0].Replies, 1)
	assert.True(t, snap.SentHistory[0].HasUnreadReplies)

	infos := f.hub.OfKind(models.NotificationInfo)
	require.Len(t, infos, 1)
	assert.Equal(t, "Someone found your bottle!", infos[0].Message)

	var stored []models.SentMessage
	raw, _ := f.store.Value(KeySentHistory)
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.True(t, stored[0].HasUnreadReplies)

	opened, ok := f.svc.OpenSent(snap.SentHistory[0].ID)
	require.True(t, ok)
	assert.False(t, opened.HasUnreadReplies)
	assert.Zero(t, f.svc.Snapshot().UnreadReplies)
}

func TestReplyDelivery_AfterResetIsDropped(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.svc.Cast("gone soon"))
	require.NoError(t, f.svc.Reset(context.Background()))

	require.True(t, f.network.FireReply(models.Reply{ID: "r1"}))
	assert.Empty(t, f.svc.History())
}

func TestOpenSent_Unknown(t *testing.T) {
	f := newFixture(t)
	_, ok := f.svc.OpenSent("missing")
	assert.False(t, ok)
}

func TestLevelUp_EmittedOnce(t *testing.T) {
	store := testutil.NewMockStore()
	store.Data[KeyXP] = "90"
	f := newFixtureWithStore(t, store)

	require.True(t, f.svc.Cast("over the line"))

	ups := f.hub.OfKind(models.NotificationLevelUp)
	require.Len(t, ups, 1)
	assert.Equal(t, 1, ups[0].FromLevel)
	assert.Equal(t, 2, ups[0].ToLevel)
	assert.Equal(t, "Listener", ups[0].ToTitle)
	assert.Equal(t, 110, ups[0].XP)

	f.clock.Advance(24 * time.Hour)
	f.svc.Draw()
	require.True(t, f.svc.Rate(RateUp))
	assert.Len(t, f.hub.OfKind(models.NotificationLevelUp), 1)
}

func TestLevelUp_FromFeedback(t *testing.T) {
	store := testutil.NewMockStore()
	store.Data[KeyXP] = "200"
	f := newFixtureWithStore(t, store)
	f.svc.Draw()
	require.True(t, f.svc.Reply("hang in there"))
	f.hub.Reset()

	require.True(t, f.network.FireFeedback(0.95))

	assert.Equal(t, 430, f.svc.Snapshot().XP)
	assert.Len(t, f.hub.OfKind(models.NotificationXP), 2)
	ups := f.hub.OfKind(models.NotificationLevelUp)
	require.Len(t, ups, 1)
	assert.Equal(t, "Listener", ups[0].FromTitle)
	assert.Equal(t, "Guide", ups[0].ToTitle)
}

func TestDraw_KeepsBottleUntilCooldown(t *testing.T) {
	f := newFixture(t)

	first := f.svc.Draw()
	require.NotNil(t, first)
	assert.True(t, first.IsRead)
	assert.True(t, f.svc.Snapshot().IsReading)
	assert.False(t, f.svc.Snapshot().CanReceive)

	f.svc.CloseReading()
	assert.False(t, f.svc.Snapshot().IsReading)

	f.clock.Advance(time.Hour)
	again := f.svc.Draw()
	assert.Equal(t, first.ID, again.ID)

	f.clock.Advance(23 * time.Hour)
	fresh := f.svc.Draw()
	assert.NotEqual(t, first.ID, fresh.ID)
}

func TestDraw_NewBottleResetsRating(t *testing.T) {
	f := newFixture(t)
	f.svc.Draw()
	require.True(t, f.svc.Rate(RateFlower))

	f.clock.Advance(24 * time.Hour)
	f.svc.Draw()
	assert.False(t, f.svc.Snapshot().HasRatedDaily)
	assert.True(t, f.svc.Rate(RateDown))
}

func TestRate_OncePerBottle(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.svc.Rate(RateUp), "no daily bottle yet")

	f.svc.Draw()
	assert.False(t, f.svc.Rate(RateKind("meh")))
	assert.True(t, f.svc.Rate(RateUp))
	assert.False(t, f.svc.Rate(RateUp))
	assert.False(t, f.svc.Rate(RateFlower))

	assert.Equal(t, 10, f.svc.Snapshot().XP)
	rated, _ := f.store.Value(KeyDailyRated)
	assert.Equal(t, "true", rated)
}

func TestReply_RequiresContentAndBottle(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.svc.Reply("hello"))

	f.svc.Draw()
	assert.False(t, f.svc.Reply("  "))
	assert.True(t, f.svc.Snapshot().IsReading)

	require.True(t, f.svc.Reply("you are not alone"))
	snap := f.svc.Snapshot()
	assert.Equal(t, 30, snap.XP)
	assert.False(t, snap.IsReading)
	assert.Equal(t, 1, f.network.Pending())
}

func TestFeedback_Thresholds(t *testing.T) {
	cases := []struct {
		name string
		roll float64
		xp   int
	}{
		{"neutral", 0.5, 30},
		{"helpful", 0.8, 80},
		{"helpful and flower", 0.95, 230},
		{"unhelpful", 0.05, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.svc.Draw()
			require.True(t, f.svc.Reply("advice"))
			require.True(t, f.network.FireFeedback(tc.roll))
			assert.Equal(t, tc.xp, f.svc.Snapshot().XP)
		})
	}
}

func TestFeedback_PenaltyFloorsAtZero(t *testing.T) {
	f := newFixture(t)
	f.svc.Draw()
	require.True(t, f.svc.Reply("advice"))
	require.NoError(t, f.svc.Reset(context.Background()))
	f.hub.Reset()

	require.True(t, f.network.FireFeedback(0.01))

	assert.Equal(t, 0, f.svc.Snapshot().XP)
	infos := f.hub.OfKind(models.NotificationInfo)
	require.Len(t, infos, 1)
	assert.Equal(t, "Advice marked unhelpful -20 XP", infos[0].Message)
	assert.Equal(t, -20, infos[0].Amount)
}

func castWithReply(t *testing.T, f *fixture) (string, string) {
	t.Helper()
	require.True(t, f.svc.Cast("help"))
	require.True(t, f.network.FireReply(models.Reply{ID: "reply-1", Content: "here"}))
	return f.svc.History()[0].ID, "reply-1"
}

func TestVote_Toggle(t *testing.T) {
	f := newFixture(t)
	sentID, replyID := castWithReply(t, f)

	require.True(t, f.svc.Vote(sentID, replyID, models.VoteUp))
	assert.Equal(t, models.VoteUp, f.svc.History()[0].Replies[0].Vote)

	require.True(t, f.svc.Vote(sentID, replyID, models.VoteUp))
	assert.Equal(t, models.VoteNone, f.svc.History()[0].Replies[0].Vote)

	require.True(t, f.svc.Vote(sentID, replyID, models.VoteDown))
	require.True(t, f.svc.Vote(sentID, replyID, models.VoteUp))
	assert.Equal(t, models.VoteUp, f.svc.History()[0].Replies[0].Vote)

	var helpful int
	for _, n := range f.hub.OfKind(models.NotificationInfo) {
		if n.Message == "Marked as helpful" {
			helpful++
		}
	}
	assert.Equal(t, 3, helpful)
	assert.Equal(t, 20, f.svc.Snapshot().XP)
}

// Super Thanks stays set and rewards every application, repeats included.
func TestVote_SuperRewardsEveryTime(t *testing.T) {
	f := newFixture(t)
	sentID, replyID := castWithReply(t, f)

	require.True(t, f.svc.Vote(sentID, replyID, models.VoteSuper))
	require.True(t, f.svc.Vote(sentID, replyID, models.VoteSuper))

	assert.Equal(t, models.VoteSuper, f.svc.History()[0].Replies[0].Vote)
	assert.Equal(t, 20+2*progression.DefaultRewards.SuperThanks, f.svc.Snapshot().XP)
}

func TestVote_Rejections(t *testing.T) {
	f := newFixture(t)
	sentID, replyID := castWithReply(t, f)

	assert.False(t, f.svc.Vote("nope", replyID, models.VoteUp))
	assert.False(t, f.svc.Vote(sentID, "nope", models.VoteSuper))
	assert.False(t, f.svc.Vote(sentID, replyID, models.Vote("love")))
	assert.Equal(t, 20, f.svc.Snapshot().XP)
}

func TestInitialize_RoundTrip(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.svc.Cast("remember me"))
	require.True(t, f.network.FireReply(models.Reply{ID: "r1", Content: "I will"}))
	sentID := f.svc.History()[0].ID
	f.svc.receiveReply(sentID, models.Reply{ID: "r2", Content: "Me too"})
	f.svc.receiveReply(sentID, models.Reply{ID: "r3", Content: "Hang in there"})
	require.True(t, f.svc.Vote(sentID, "r1", models.VoteSuper))
	require.True(t, f.svc.Vote(sentID, "r2", models.VoteDown))
	daily := f.svc.Draw()
	require.True(t, f.svc.Rate(RateUp))
	before := f.svc.Snapshot()

	g := newFixtureWithStore(t, f.store)
	g.clock.Advance(time.Minute)
	after := g.svc.Snapshot()

	assert.Equal(t, before.XP, after.XP)
	assert.False(t, after.CanSend)
	assert.False(t, after.CanReceive)
	assert.True(t, after.HasRatedDaily)
	assert.False(t, after.IsReading)
	require.NotNil(t, after.DailyMessage)
	assert.Equal(t, daily.ID, after.DailyMessage.ID)
	require.Len(t, after.SentHistory, 1)
	assert.Equal(t, before.SentHistory[0].ID, after.SentHistory[0].ID)
	assert.True(t, after.SentHistory[0].CreatedAt.Equal(before.SentHistory[0].CreatedAt))
	assert.True(t, after.SentHistory[0].HasUnreadReplies)

	replies := after.SentHistory[0].Replies
	require.Len(t, replies, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, []string{replies[0].ID, replies[1].ID, replies[2].ID})
	assert.Equal(t, "I will", replies[0].Content)
	assert.Equal(t, models.VoteSuper, replies[0].Vote)
	assert.Equal(t, models.VoteDown, replies[1].Vote)
	assert.Equal(t, models.VoteNone, replies[2].Vote)

	assert.Equal(t, daily.ID, g.svc.Draw().ID)
	assert.False(t, g.svc.Rate(RateFlower))
}

func TestInitialize_PastDeadlinesIgnored(t *testing.T) {
	store := testutil.NewMockStore()
	store.Data[KeyNextSend] = strconv.FormatInt(epoch.Add(-time.Minute).UnixMilli(), 10)
	store.Data[KeyNextReceive] = strconv.FormatInt(epoch.Add(-time.Hour).UnixMilli(), 10)

	f := newFixtureWithStore(t, store)
	snap := f.svc.Snapshot()
	assert.True(t, snap.CanSend)
	assert.True(t, snap.CanReceive)
	_, kept := store.Value(KeyNextSend)
	assert.True(t, kept)
}

func TestInitialize_TimestampStrings(t *testing.T) {
	store := testutil.NewMockStore()
	store.Data[KeyNextSend] = epoch.Add(2 * time.Hour).Format(time.RFC3339)

	f := newFixtureWithStore(t, store)
	snap := f.svc.Snapshot()
	assert.False(t, snap.CanSend)
	assert.Equal(t, "2h 0m 0s", snap.SendTimeLeft)
}

func TestInitialize_LeadingZerosAreDecimal(t *testing.T) {
	deadline := epoch.Add(2 * time.Hour)
	store := testutil.NewMockStore()
	store.Data[KeyXP] = "0150"
	store.Data[KeyNextSend] = "0" + strconv.FormatInt(deadline.UnixMilli(), 10)

	f := newFixtureWithStore(t, store)
	snap := f.svc.Snapshot()
	assert.Equal(t, 150, snap.XP)
	assert.False(t, snap.CanSend)
	assert.Equal(t, "2h 0m 0s", snap.SendTimeLeft)
}

func TestInitialize_MalformedValues(t *testing.T) {
	store := testutil.NewMockStore()
	store.Data[KeyXP] = "lots"
	store.Data[KeyNextSend] = "tomorrow-ish"
	store.Data[KeyDailyBottle] = "{broken"
	store.Data[KeySentHistory] = "[{"

	f := newFixtureWithStore(t, store)
	snap := f.svc.Snapshot()
	assert.Zero(t, snap.XP)
	assert.True(t, snap.CanSend)
	assert.Nil(t, snap.DailyMessage)
	assert.Empty(t, snap.SentHistory)
	assert.GreaterOrEqual(t, f.logger.Count("warn"), 4)
}

func TestInitialize_ReadErrorsDegrade(t *testing.T) {
	store := testutil.NewMockStore()
	store.Data[KeyXP] = "500"
	store.GetErr = errors.New("connection refused")

	f := newFixtureWithStore(t, store)
	assert.Zero(t, f.svc.Snapshot().XP)
	assert.Equal(t, len(progressKeys), f.logger.Count("error"))
}

func TestInitialize_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.svc.Initialize(ctx), context.Canceled)
}

func TestReset_ClearsEverything(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.svc.Cast("bye"))
	f.svc.Draw()
	require.True(t, f.svc.Rate(RateUp))

	require.NoError(t, f.svc.Reset(context.Background()))

	snap := f.svc.Snapshot()
	assert.Zero(t, snap.XP)
	assert.True(t, snap.CanSend)
	assert.True(t, snap.CanReceive)
	assert.Nil(t, snap.DailyMessage)
	assert.Empty(t, snap.SentHistory)
	for _, key := range progressKeys {
		_, ok := f.store.Value(key)
		assert.False(t, ok, key)
	}
}

func TestSnapshot_ProgressPastLastLevel(t *testing.T) {
	store := testutil.NewMockStore()
	store.Data[KeyXP] = "4000"
	f := newFixtureWithStore(t, store)

	snap := f.svc.Snapshot()
	assert.Equal(t, 6, snap.Level)
	assert.Equal(t, "Ocean Keeper", snap.Title)
	assert.InDelta(t, 6000, snap.NextLevelXP, 0.001)
	assert.InDelta(t, 66.67, snap.Progress, 0.01)
}

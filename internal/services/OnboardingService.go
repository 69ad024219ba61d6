package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"drift/internal/models"
	"drift/internal/persistence/interfaces"
	"drift/internal/providers"
	"drift/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

const (
	MinTopics      = 3
	gradientCount  = 4
	identityLength = 6
	identityChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var DefaultSteps = []string{"intro", "demo", "bottle", "passport", "topics", "tide", "community", "paywall", "main"}

var Aliases = []string{
	"Mystic River", "Silent Echo", "Wandering Soul", "Velvet Night", "Cosmic Dust",
	"Ocean Whisper", "Azure Sky", "Lunar Tide", "Solar Flare", "Neon Rain",
}

type Topic struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var Topics = []Topic{
	{ID: "anxiety", Label: "Anxiety"},
	{ID: "love", Label: "Love & Loss"},
	{ID: "dreams", Label: "Dreams"},
	{ID: "vent", Label: "Just Venting"},
	{ID: "hope", Label: "Hope"},
	{ID: "calm", Label: "Finding Calm"},
	{ID: "sleep", Label: "Sleepless Nights"},
	{ID: "life", Label: "Life Advice"},
}

var DefaultTide = models.TideTime{Hour: 10, Minute: 10}

var (
	ErrTooFewTopics = errors.New("too few topics")
	ErrUnknownTopic = errors.New("unknown topic")
	ErrInvalidTide  = errors.New("invalid tide time")
)

type OnboardingState struct {
	Step      string         `json:"step"`
	Index     int            `json:"index"`
	Total     int            `json:"total"`
	Completed bool           `json:"completed"`
	Profile   models.Profile `json:"profile"`
	Topics    []Topic        `json:"availableTopics"`
}

type OnboardingServiceInterface interface {
	Load(ctx context.Context) error
	Current() OnboardingState
	Advance() OnboardingState
	ShuffleIdentity() models.Identity
	SelectTopics(ids []string) error
	SetTide(hour, minute int) error
}

type OnboardingService struct {
	mu      sync.Mutex
	profile models.Profile
	steps   []string
	timeout time.Duration
	rnd     *rand.Rand
	store   interfaces.KeyValueStoreInterface
	writer  interfaces.WriterInterface
	logger  providers.Logger
}

func NewOnboardingService(conf *structures.Config, logger providers.Logger, store interfaces.KeyValueStoreInterface, writer interfaces.WriterInterface) OnboardingServiceInterface {
	return newOnboardingService(conf, logger, store, writer, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

func newOnboardingService(conf *structures.Config, logger providers.Logger, store interfaces.KeyValueStoreInterface, writer interfaces.WriterInterface, rnd *rand.Rand) *OnboardingService {
	steps := conf.Onboarding.Steps
	if len(steps) == 0 {
		steps = DefaultSteps
	}
	timeout := conf.Storage.Timeout
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}
	ob := &OnboardingService{
		steps:   steps,
		timeout: timeout,
		rnd:     rnd,
		store:   store,
		writer:  writer,
		logger:  logger,
	}
	ob.profile = ob.freshProfile()
	return ob
}

func (ob *OnboardingService) freshProfile() models.Profile {
	return models.Profile{
		Identity: ob.randomIdentity(),
		Topics:   make([]string, 0),
		Tide:     DefaultTide,
	}
}

// Load restores the saved profile. A missing or malformed profile starts the
// flow from the first step with a freshly shuffled identity.
func (ob *OnboardingService) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ob.timeout)
	defer cancel()

	raw, found, err := ob.store.Get(ctx, KeyProfile)
	if err != nil {
		ob.logger.Errorf(providers.TypeStorage, "Failed to read %s: %s", KeyProfile, err)
		return nil
	}
	if !found {
		return nil
	}

	var p models.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		ob.logger.Warnf(providers.TypeStorage, "Ignoring malformed %s: %s", KeyProfile, err)
		return nil
	}
	if v := validate.Struct(&p.Tide); !v.Validate() {
		ob.logger.Warnf(providers.TypeStorage, "Ignoring stored tide time: %s", v.Errors.One())
		p.Tide = DefaultTide
	}
	if p.Step < 0 || p.Step >= len(ob.steps) {
		p.Step = 0
	}
	if p.Identity.Alias == "" {
		p.Identity = ob.randomIdentity()
	}
	if p.Topics == nil {
		p.Topics = make([]string, 0)
	}

	ob.mu.Lock()
	ob.profile = p
	ob.mu.Unlock()
	return nil
}

func (ob *OnboardingService) Current() OnboardingState {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.state()
}

func (ob *OnboardingService) Advance() OnboardingState {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if ob.profile.Step < len(ob.steps)-1 {
		ob.profile.Step++
		ob.persist()
		ob.logger.Debugf(providers.TypeApp, "Onboarding step %s", ob.steps[ob.profile.Step])
	}
	return ob.state()
}

func (ob *OnboardingService) ShuffleIdentity() models.Identity {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	ob.profile.Identity = ob.randomIdentity()
	ob.persist()
	return ob.profile.Identity
}

func (ob *OnboardingService) SelectTopics(ids []string) error {
	known := make(map[string]struct{}, len(Topics))
	for _, t := range Topics {
		known[t.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(ids))
	selected := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTopic, id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		selected = append(selected, id)
	}
	if len(selected) < MinTopics {
		return fmt.Errorf("%w: need %d, got %d", ErrTooFewTopics, MinTopics, len(selected))
	}

	ob.mu.Lock()
	ob.profile.Topics = selected
	ob.persist()
	ob.mu.Unlock()
	return nil
}

func (ob *OnboardingService) SetTide(hour, minute int) error {
	tide := models.TideTime{Hour: hour, Minute: minute}
	if v := validate.Struct(&tide); !v.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidTide, v.Errors.One())
	}

	ob.mu.Lock()
	ob.profile.Tide = tide
	ob.persist()
	ob.mu.Unlock()
	return nil
}

func (ob *OnboardingService) randomIdentity() models.Identity {
	var id strings.Builder
	for range identityLength {
		id.WriteByte(identityChars[ob.rnd.IntN(len(identityChars))])
	}
	return models.Identity{
		Alias:         Aliases[ob.rnd.IntN(len(Aliases))],
		GradientIndex: ob.rnd.IntN(gradientCount),
		ID:            id.String(),
	}
}

func (ob *OnboardingService) state() OnboardingState {
	p := ob.profile
	p.Topics = append([]string(nil), p.Topics...)
	return OnboardingState{
		Step:      ob.steps[p.Step],
		Index:     p.Step,
		Total:     len(ob.steps),
		Completed: p.Step == len(ob.steps)-1,
		Profile:   p,
		Topics:    Topics,
	}
}

func (ob *OnboardingService) persist() {
	data, err := json.Marshal(ob.profile)
	if err != nil {
		ob.logger.Errorf(providers.TypeStorage, "Failed to encode %s: %s", KeyProfile, err)
		return
	}
	ob.writer.Enqueue(KeyProfile, string(data))
}

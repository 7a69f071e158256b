package player

import (
	"context"
	"math"

	"github.com/yungbote/coursestream-backend/internal/modules/learning/chapters"
	"github.com/yungbote/coursestream-backend/internal/platform/drm"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

type CoordinatorState string

const (
	PlayerIdle    CoordinatorState = "idle"
	PlayerLoading CoordinatorState = "loading"
	PlayerReady   CoordinatorState = "ready"
	PlayerError   CoordinatorState = "error"
)

const (
	// completionPercent is where the content counts as finished.
	completionPercent = 99.5
	// naturalStepSeconds is the largest head movement between two samples
	// still treated as playback rather than a seek.
	naturalStepSeconds = 3.0
)

// playbackEvents receives coordinator callbacks with the session lock held.
type playbackEvents interface {
	playerReady()
	playerFailed(err error)
	progressed(pct float64)
	chapterCompleted(ch chapters.Chapter)
	completed()
	chapterSeeked(ch chapters.Chapter, at float64)
}

// Coordinator owns the player for one section view: token issuance,
// time sampling and chapter boundary detection. All methods run under the
// session lock.
type Coordinator struct {
	loop   *loop
	ctx    context.Context
	log    *logger.Logger
	tokens TokenIssuer
	events playbackEvents

	videoID  string
	chapters []chapters.Chapter

	state      CoordinatorState
	lastErr    string
	tokenCache map[string]drm.PlaybackToken
	mountEpoch int

	currentTime   float64
	duration      float64
	hasSample     bool
	chapterDone   map[string]bool
	completeFired bool
}

func newCoordinator(l *loop, ctx context.Context, log *logger.Logger, tokens TokenIssuer, videoID string, chs []chapters.Chapter, events playbackEvents) *Coordinator {
	return &Coordinator{
		loop:        l,
		ctx:         ctx,
		log:         log,
		tokens:      tokens,
		events:      events,
		videoID:     videoID,
		chapters:    chs,
		state:       PlayerIdle,
		tokenCache:  map[string]drm.PlaybackToken{},
		chapterDone: map[string]bool{},
	}
}

// mount obtains a playback token once per video id. A cached token is reused
// without a second request.
func (c *Coordinator) mount() {
	c.mountEpoch++
	c.lastErr = ""
	c.hasSample = false
	c.chapterDone = map[string]bool{}
	c.completeFired = false

	if _, ok := c.tokenCache[c.videoID]; ok {
		c.state = PlayerReady
		c.events.playerReady()
		return
	}
	if c.tokens == nil {
		c.fail(drm.ErrNotConfigured)
		return
	}
	c.state = PlayerLoading
	epoch, videoID := c.mountEpoch, c.videoID
	c.loop.enqueue(func() {
		tok, err := c.tokens.IssueToken(c.ctx, videoID)
		c.loop.do(func() {
			if epoch != c.mountEpoch || videoID != c.videoID {
				return
			}
			if err != nil {
				c.fail(err)
				return
			}
			c.tokenCache[videoID] = tok
			c.state = PlayerReady
			c.events.playerReady()
		})
	})
}

func (c *Coordinator) fail(err error) {
	c.log.Warn("playback token issuance failed", "video_id", c.videoID, "error", err)
	c.state = PlayerError
	c.lastErr = "video_token_failed"
	c.events.playerFailed(err)
}

func (c *Coordinator) token() (drm.PlaybackToken, bool) {
	if c.state != PlayerReady {
		return drm.PlaybackToken{}, false
	}
	tok, ok := c.tokenCache[c.videoID]
	return tok, ok
}

// sample is the periodic time report from the running player.
func (c *Coordinator) sample(currentTime, duration float64) {
	if c.state != PlayerReady || math.IsNaN(currentTime) || math.IsInf(currentTime, 0) {
		return
	}
	if currentTime < 0 {
		currentTime = 0
	}
	if duration > 0 && !math.IsInf(duration, 0) {
		c.duration = duration
	}

	prev, natural := c.currentTime, false
	if c.hasSample {
		step := currentTime - prev
		natural = step >= 0 && step <= naturalStepSeconds
	}
	c.currentTime = currentTime
	c.hasSample = true

	pct := c.percent()
	if c.duration > 0 {
		c.events.progressed(pct)
	}
	if natural {
		c.detectChapterEnds(prev, currentTime)
	}
	if c.duration > 0 && pct >= completionPercent {
		c.complete()
	}
}

func (c *Coordinator) percent() float64 {
	if c.duration <= 0 {
		return 0
	}
	return math.Max(0, math.Min(100, c.currentTime/c.duration*100))
}

func (c *Coordinator) detectChapterEnds(from, to float64) {
	for i, ch := range c.chapters {
		if !ch.Flashcard || c.chapterDone[ch.ID] {
			continue
		}
		end := chapters.End(c.chapters, i, c.duration)
		if end <= 0 {
			continue
		}
		if from < end && to >= end {
			c.chapterDone[ch.ID] = true
			c.events.chapterCompleted(ch)
		}
	}
}

// ended is the player's own end-of-media signal.
func (c *Coordinator) ended() {
	if c.state != PlayerReady {
		return
	}
	if c.duration > 0 {
		c.currentTime = c.duration
	}
	c.complete()
}

func (c *Coordinator) complete() {
	if c.completeFired {
		return
	}
	c.completeFired = true
	c.events.completed()
}

func (c *Coordinator) seekChapter(id string) error {
	i := chapters.IndexOf(c.chapters, id)
	if i < 0 {
		return ErrUnknownChapter
	}
	ch := c.chapters[i]
	c.currentTime = ch.StartTime
	c.hasSample = true
	c.events.chapterSeeked(ch, ch.StartTime)
	return nil
}

func (c *Coordinator) seekTime(t float64) {
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	if c.duration > 0 && t > c.duration {
		t = c.duration
	}
	c.currentTime = t
	c.hasSample = true
	if ch, _, ok := chapters.CurrentAt(c.chapters, t); ok {
		c.events.chapterSeeked(ch, t)
	}
}

func (c *Coordinator) currentChapter() (chapters.Chapter, bool) {
	ch, _, ok := chapters.CurrentAt(c.chapters, c.currentTime)
	return ch, ok
}

type PlayerView struct {
	State          CoordinatorState   `json:"state"`
	Token          *drm.PlaybackToken `json:"token,omitempty"`
	CurrentTime    float64            `json:"currentTime"`
	Duration       float64            `json:"duration"`
	Percent        float64            `json:"percent"`
	CurrentChapter *chapters.Chapter  `json:"currentChapter,omitempty"`
	Error          string             `json:"error,omitempty"`
}

func (c *Coordinator) view() PlayerView {
	v := PlayerView{
		State:       c.state,
		CurrentTime: c.currentTime,
		Duration:    c.duration,
		Percent:     c.percent(),
		Error:       c.lastErr,
	}
	if tok, ok := c.token(); ok {
		v.Token = &tok
	}
	if ch, ok := c.currentChapter(); ok {
		v.CurrentChapter = &ch
	}
	return v
}

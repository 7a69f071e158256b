package player

import (
	"github.com/yungbote/coursestream-backend/internal/modules/learning/chapters"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/quiz"
	"github.com/yungbote/coursestream-backend/internal/platform/clock"
)

type FlashcardStatus string

const (
	FlashcardLoading   FlashcardStatus = "loading"
	FlashcardReady     FlashcardStatus = "ready"
	FlashcardCorrect   FlashcardStatus = "correct"
	FlashcardIncorrect FlashcardStatus = "incorrect"
)

// flashcardOverlay is the mid-video check shown after a chapter ends. It
// never touches the main playback state.
type flashcardOverlay struct {
	epoch    int
	chapter  chapters.Chapter
	status   FlashcardStatus
	card     *quiz.Flashcard
	selected string
	timer    clock.Timer
}

type FlashcardView struct {
	Chapter  chapters.Chapter `json:"chapter"`
	Status   FlashcardStatus  `json:"status"`
	Question string           `json:"question,omitempty"`
	Choices  []string         `json:"choices,omitempty"`
	Selected string           `json:"selected,omitempty"`
}

func (f *flashcardOverlay) view() *FlashcardView {
	v := &FlashcardView{Chapter: f.chapter, Status: f.status, Selected: f.selected}
	if f.card != nil {
		v.Question = f.card.Question
		v.Choices = f.card.Choices
	}
	return v
}

// chapterCompleted opens the overlay for a flashcard chapter that is not the
// last one. A newer chapter replaces whatever overlay is showing.
func (o *Orchestrator) chapterCompleted(ch chapters.Chapter) {
	if !ch.Flashcard || chapters.IsLast(o.cfg.Chapters, ch) {
		return
	}
	if o.deps.Flashcards == nil || o.state == StateExiting {
		return
	}
	o.dismissFlashcard()
	o.flashEpoch++
	epoch := o.flashEpoch
	o.flash = &flashcardOverlay{epoch: epoch, chapter: ch, status: FlashcardLoading}

	sectionID := o.cfg.SectionID
	o.loop.enqueue(func() {
		raw, err := o.deps.Flashcards.ChapterFlashcard(o.ctx, sectionID, ch)
		o.loop.do(func() {
			if o.flash == nil || o.flash.epoch != epoch {
				o.log.Debug("dropping stale chapter flashcard", "chapter_id", ch.ID)
				return
			}
			if err != nil {
				o.log.Warn("chapter flashcard unavailable", "chapter_id", ch.ID, "error", err)
				o.dismissFlashcard()
				return
			}
			q, ok := quiz.Sanitize(raw, 0)
			card, isCard := q.(*quiz.Flashcard)
			if !ok || !isCard {
				o.log.Warn("chapter flashcard failed validation", "chapter_id", ch.ID)
				o.dismissFlashcard()
				return
			}
			o.flash.card = card
			o.flash.status = FlashcardReady
		})
	})
}

func (o *Orchestrator) answerFlashcard(choice string) (bool, error) {
	f := o.flash
	if f == nil || f.status != FlashcardReady || f.card == nil {
		return false, ErrInvalidTransition
	}
	correct, err := quiz.Grade(f.card, choice)
	if err != nil {
		return false, err
	}
	f.selected = choice
	epoch := f.epoch
	if correct {
		f.status = FlashcardCorrect
		f.timer = o.after(o.policy.Delays.FlashcardDismiss, func() {
			if o.flash != nil && o.flash.epoch == epoch {
				o.dismissFlashcard()
			}
		})
		return true, nil
	}
	f.status = FlashcardIncorrect
	f.timer = o.after(o.policy.Delays.FlashcardRetry, func() {
		if o.flash != nil && o.flash.epoch == epoch && o.flash.status == FlashcardIncorrect {
			o.flash.status = FlashcardReady
			o.flash.selected = ""
			o.flash.timer = nil
		}
	})
	return false, nil
}

func (o *Orchestrator) dismissFlashcard() {
	if o.flash == nil {
		return
	}
	if o.flash.timer != nil {
		o.flash.timer.Stop()
	}
	o.flash = nil
	o.flashEpoch++
}

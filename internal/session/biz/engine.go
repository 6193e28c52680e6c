// Package biz drives the search dialog: a strictly ordered sequence of
// validated inputs per user, persisted between steps so a session
// survives restarts. Invalid input re-issues the current prompt and
// never clears previously validated fields.
package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ViacheslavGolubkov/hotelscout/internal/criteria"
	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels"
	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels/types"
	apperrors "github.com/ViacheslavGolubkov/hotelscout/internal/pkg/errors"
)

// ErrNotFound is returned by CriteriaRepo.Load when no session exists.
var ErrNotFound = errors.New("session not found")

// CriteriaRepo persists the per-user in-progress criteria. WithLock
// serializes the read-modify-write of one user's session; two rapid
// inputs from the same user must not interleave.
type CriteriaRepo interface {
	Load(ctx context.Context, userID int64) (*criteria.Criteria, error)
	Save(ctx context.Context, crit *criteria.Criteria) error
	Delete(ctx context.Context, userID int64) error
	WithLock(ctx context.Context, userID int64, fn func(ctx context.Context) error) error
}

// Searcher executes a completed search.
type Searcher interface {
	Search(ctx context.Context, crit *criteria.Criteria) ([]types.Property, error)
}

// HistoryAppender records a completed search.
type HistoryAppender interface {
	Append(ctx context.Context, record *criteria.HistoryRecord) error
}

// Engine owns the per-user dialog progression.
type Engine struct {
	repo     CriteriaRepo
	gateway  hotels.Gateway
	searcher Searcher
	history  HistoryAppender
	logger   *zap.Logger
}

func NewEngine(repo CriteriaRepo, gateway hotels.Gateway, searcher Searcher, history HistoryAppender, logger *zap.Logger) *Engine {
	return &Engine{
		repo:     repo,
		gateway:  gateway,
		searcher: searcher,
		history:  history,
		logger:   logger,
	}
}

// Begin opens a fresh session for userID in the given mode, replacing
// any session left over from an abandoned dialog.
func (e *Engine) Begin(ctx context.Context, userID int64, mode criteria.Mode) (Reply, error) {
	if !mode.Valid() {
		return Reply{}, apperrors.New(apperrors.ErrInvalidParams, fmt.Sprintf("unknown mode %q", mode))
	}

	var reply Reply
	err := e.repo.WithLock(ctx, userID, func(ctx context.Context) error {
		if err := e.repo.Save(ctx, criteria.New(userID, mode)); err != nil {
			return apperrors.NewPersistenceError(err)
		}
		reply = promptReply(msgAskDestination)
		return nil
	})
	if err != nil {
		e.logger.Error("failed to begin session", zap.Int64("user_id", userID), zap.Error(err))
		return promptReply(msgSearchFailed), nil
	}
	e.logger.Info("session started", zap.Int64("user_id", userID), zap.String("mode", string(mode)))
	return reply, nil
}

// OnText handles a free-text message at whatever step the session is in.
func (e *Engine) OnText(ctx context.Context, userID int64, text string) (Reply, error) {
	return e.step(ctx, userID, func(ctx context.Context, crit *criteria.Criteria) (Reply, error) {
		switch crit.Step {
		case criteria.StepAwaitDestination:
			return e.onDestination(ctx, crit, text)
		case criteria.StepAwaitPriceMin:
			return e.onAmount(ctx, crit, text, amountSpec{
				notANumber: msgPriceMinNotNum,
				next:       criteria.StepAwaitPriceMax,
				nextPrompt: msgAskPriceMax,
				assign:     func(c *criteria.Criteria, v float64) { c.PriceMin = &v },
			})
		case criteria.StepAwaitPriceMax:
			return e.onAmount(ctx, crit, text, amountSpec{
				notANumber:  msgPriceMaxNotNum,
				belowMinMsg: msgPriceMaxBelowMin,
				min:         crit.PriceMin,
				next:        criteria.StepAwaitDistanceMin,
				nextPrompt:  msgAskDistanceMin,
				assign:      func(c *criteria.Criteria, v float64) { c.PriceMax = &v },
			})
		case criteria.StepAwaitDistanceMin:
			return e.onAmount(ctx, crit, text, amountSpec{
				notANumber: msgDistanceMinNotNum,
				next:       criteria.StepAwaitDistanceMax,
				nextPrompt: msgAskDistanceMax,
				assign:     func(c *criteria.Criteria, v float64) { c.DistanceMin = &v },
			})
		case criteria.StepAwaitDistanceMax:
			return e.onAmount(ctx, crit, text, amountSpec{
				notANumber:  msgDistanceMaxNotNum,
				belowMinMsg: msgDistanceMaxBelowMin,
				min:         crit.DistanceMin,
				next:        criteria.StepAwaitCheckIn,
				assign:      func(c *criteria.Criteria, v float64) { c.DistanceMax = &v },
			})
		case criteria.StepAwaitResultCount:
			return e.onResultCount(ctx, crit, text)
		default:
			// A text message at a choice/date step re-issues the prompt.
			return e.promptForStep(crit), nil
		}
	})
}

// OnSelection handles a destination choice.
func (e *Engine) OnSelection(ctx context.Context, userID int64, sel Selection) (Reply, error) {
	return e.step(ctx, userID, func(ctx context.Context, crit *criteria.Criteria) (Reply, error) {
		if crit.Step != criteria.StepAwaitDestinationChoice {
			return e.promptForStep(crit), nil
		}
		if !sel.Mode.Valid() || sel.DestinationID == "" {
			return promptReply(msgPickDestination), nil
		}

		crit.Mode = sel.Mode
		crit.DestinationID = sel.DestinationID
		if sel.Mode == criteria.ModeBestDeal {
			crit.Step = criteria.StepAwaitPriceMin
			if err := e.save(ctx, crit); err != nil {
				return Reply{}, err
			}
			return promptReply(msgAskPriceMin), nil
		}

		crit.Step = criteria.StepAwaitCheckIn
		if err := e.save(ctx, crit); err != nil {
			return Reply{}, err
		}
		return calendarReply(msgPickCheckIn, CalendarCheckIn, today()), nil
	})
}

// OnDateSelected handles a confirmed date from one of the two pickers.
func (e *Engine) OnDateSelected(ctx context.Context, userID int64, calendarID int, date time.Time) (Reply, error) {
	return e.step(ctx, userID, func(ctx context.Context, crit *criteria.Criteria) (Reply, error) {
		switch {
		case calendarID == CalendarCheckIn && crit.Step == criteria.StepAwaitCheckIn:
			day := dateOnly(date)
			if day.Before(today()) {
				return calendarReply(msgCheckInPast, CalendarCheckIn, today()), nil
			}
			crit.CheckIn = day
			crit.Step = criteria.StepAwaitCheckOut
			if err := e.save(ctx, crit); err != nil {
				return Reply{}, err
			}
			return calendarReply(msgPickCheckOut, CalendarCheckOut, day.AddDate(0, 0, 1)), nil

		case calendarID == CalendarCheckOut && crit.Step == criteria.StepAwaitCheckOut:
			day := dateOnly(date)
			if !day.After(crit.CheckIn) {
				return calendarReply(msgCheckOutEarly, CalendarCheckOut, crit.CheckIn.AddDate(0, 0, 1)), nil
			}
			crit.CheckOut = day
			crit.Step = criteria.StepAwaitResultCount
			if err := e.save(ctx, crit); err != nil {
				return Reply{}, err
			}
			return promptReply(msgAskResultCount), nil

		default:
			return e.promptForStep(crit), nil
		}
	})
}

// step runs one dialog transition under the per-user lock and maps
// failures to user-facing replies.
func (e *Engine) step(ctx context.Context, userID int64, fn func(ctx context.Context, crit *criteria.Criteria) (Reply, error)) (Reply, error) {
	var reply Reply
	err := e.repo.WithLock(ctx, userID, func(ctx context.Context) error {
		crit, err := e.repo.Load(ctx, userID)
		if errors.Is(err, ErrNotFound) {
			reply = promptReply(msgWelcome)
			return nil
		}
		if err != nil {
			return apperrors.NewPersistenceError(err)
		}

		reply, err = fn(ctx, crit)
		if err != nil {
			reply = e.replyForFailure(ctx, crit, err)
		}
		return nil
	})
	if err != nil {
		e.logger.Error("dialog step failed", zap.Int64("user_id", userID), zap.Error(err))
		return promptReply(msgSearchFailed), nil
	}
	return reply, nil
}

func (e *Engine) onDestination(ctx context.Context, crit *criteria.Criteria, text string) (Reply, error) {
	if criteria.ContainsCyrillic(text) {
		return promptReply(msgNonLatin), nil
	}

	destinations, err := e.gateway.LookupDestinations(ctx, text)
	if err != nil {
		return Reply{}, err
	}
	if len(destinations) == 0 {
		return promptReply(msgNoDestinations), nil
	}

	choices := make([]Choice, 0, len(destinations))
	for _, d := range destinations {
		choices = append(choices, Choice{
			Label:   d.Label,
			Payload: Selection{Mode: crit.Mode, DestinationID: d.ID},
		})
	}

	crit.Step = criteria.StepAwaitDestinationChoice
	if err := e.save(ctx, crit); err != nil {
		return Reply{}, err
	}
	return Reply{
		Kind:    ReplyChoices,
		Text:    fmt.Sprintf("Found %d matches, pick the best fit.", len(choices)),
		Choices: choices,
	}, nil
}

// amountSpec describes one numeric input step. min is non-nil on the
// max steps and enforces max >= min with a distinct message.
type amountSpec struct {
	notANumber  string
	belowMinMsg string
	min         *float64
	next        criteria.Step
	nextPrompt  string
	assign      func(*criteria.Criteria, float64)
}

func (e *Engine) onAmount(ctx context.Context, crit *criteria.Criteria, text string, spec amountSpec) (Reply, error) {
	v, err := criteria.ParseAmount(text)
	if err != nil {
		return promptReply(spec.notANumber), nil
	}
	if spec.min != nil && v < *spec.min {
		return promptReply(spec.belowMinMsg), nil
	}

	spec.assign(crit, v)
	crit.Step = spec.next
	if err := e.save(ctx, crit); err != nil {
		return Reply{}, err
	}
	if spec.next == criteria.StepAwaitCheckIn {
		return calendarReply(msgPickCheckIn, CalendarCheckIn, today()), nil
	}
	return promptReply(spec.nextPrompt), nil
}

func (e *Engine) onResultCount(ctx context.Context, crit *criteria.Criteria, text string) (Reply, error) {
	count, err := criteria.ParseResultCount(text)
	if err != nil {
		return promptReply(msgResultCountNotNum), nil
	}

	// The executing state is not persisted: a timeout must leave the
	// stored session at the result-count step with no partial write.
	crit.ResultCount = count
	crit.Step = criteria.StepExecuting

	results, err := e.searcher.Search(ctx, crit)
	if err != nil {
		return Reply{}, err
	}

	record := criteria.NewHistoryRecord(crit.UserID, crit.Mode, results)
	if err := e.history.Append(ctx, record); err != nil {
		return Reply{}, apperrors.NewPersistenceError(err)
	}

	if err := e.repo.Delete(ctx, crit.UserID); err != nil {
		// The search already succeeded; a leaked session only expires.
		e.logger.Warn("failed to drop completed session", zap.Int64("user_id", crit.UserID), zap.Error(err))
	}
	crit.Step = criteria.StepComplete

	e.logger.Info("search complete",
		zap.Int64("user_id", crit.UserID),
		zap.String("mode", string(crit.Mode)),
		zap.Int("results", len(results)))
	return Reply{Kind: ReplyResults, Text: msgResultsDone, Results: results}, nil
}

// replyForFailure converts a provider or persistence failure into the
// single user-facing message the step boundary allows. A timeout keeps
// the session; anything else abandons it.
func (e *Engine) replyForFailure(ctx context.Context, crit *criteria.Criteria, err error) Reply {
	switch {
	case errors.Is(err, types.ErrProviderTimeout):
		e.logger.Warn("provider timed out", zap.Int64("user_id", crit.UserID), zap.Error(err))
		return promptReply(msgProviderSlow)
	case errors.Is(err, types.ErrNoResults):
		e.logger.Info("nothing found", zap.Int64("user_id", crit.UserID))
		e.drop(ctx, crit.UserID)
		return farewellReply(msgNothingFound)
	default:
		e.logger.Error("dialog step aborted", zap.Int64("user_id", crit.UserID), zap.Error(err))
		e.drop(ctx, crit.UserID)
		return farewellReply(msgSearchFailed)
	}
}

func (e *Engine) drop(ctx context.Context, userID int64) {
	if err := e.repo.Delete(ctx, userID); err != nil {
		e.logger.Warn("failed to drop session", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (e *Engine) save(ctx context.Context, crit *criteria.Criteria) error {
	if err := e.repo.Save(ctx, crit); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	return nil
}

// promptForStep re-issues the canonical prompt of the current step,
// used when the input type does not match the step.
func (e *Engine) promptForStep(crit *criteria.Criteria) Reply {
	switch crit.Step {
	case criteria.StepAwaitDestination:
		return promptReply(msgAskDestination)
	case criteria.StepAwaitDestinationChoice:
		return promptReply(msgPickDestination)
	case criteria.StepAwaitPriceMin:
		return promptReply(msgAskPriceMin)
	case criteria.StepAwaitPriceMax:
		return promptReply(msgAskPriceMax)
	case criteria.StepAwaitDistanceMin:
		return promptReply(msgAskDistanceMin)
	case criteria.StepAwaitDistanceMax:
		return promptReply(msgAskDistanceMax)
	case criteria.StepAwaitCheckIn:
		return calendarReply(msgPickCheckIn, CalendarCheckIn, today())
	case criteria.StepAwaitCheckOut:
		return calendarReply(msgPickCheckOut, CalendarCheckOut, crit.CheckIn.AddDate(0, 0, 1))
	case criteria.StepAwaitResultCount:
		return promptReply(msgAskResultCount)
	default:
		return promptReply(msgWelcome)
	}
}

func today() time.Time {
	return dateOnly(time.Now())
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

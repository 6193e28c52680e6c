package criteria

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	hoteltypes "github.com/ViacheslavGolubkov/hotelscout/internal/hotels/types"
)

// Mode selects how results are sorted and filtered.
type Mode string

const (
	ModeLowestPrice  Mode = "lowest_price"
	ModeHighestPrice Mode = "highest_price"
	ModeBestDeal     Mode = "best_deal"
)

// SortOrder maps a mode to the provider's sort key.
func (m Mode) SortOrder() string {
	switch m {
	case ModeHighestPrice:
		return "PRICE_HIGHEST_FIRST"
	case ModeBestDeal:
		return "DISTANCE_FROM_LANDMARK"
	default:
		return "PRICE"
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeLowestPrice, ModeHighestPrice, ModeBestDeal:
		return true
	}
	return false
}

// Step is the current position in the dialog. It is serialized with the
// criteria so a session survives a process restart.
type Step string

const (
	StepStart                  Step = "start"
	StepAwaitDestination       Step = "await_destination"
	StepAwaitDestinationChoice Step = "await_destination_choice"
	StepAwaitPriceMin          Step = "await_price_min"
	StepAwaitPriceMax          Step = "await_price_max"
	StepAwaitDistanceMin       Step = "await_distance_min"
	StepAwaitDistanceMax       Step = "await_distance_max"
	StepAwaitCheckIn           Step = "await_check_in"
	StepAwaitCheckOut          Step = "await_check_out"
	StepAwaitResultCount       Step = "await_result_count"
	StepExecuting              Step = "executing"
	StepComplete               Step = "complete"
)

// MaxResultCount bounds how many hotels one search may return.
const MaxResultCount = 10

// Criteria is the in-progress search request of one chat user. It is
// mutated exactly once per validated dialog step and becomes read-only
// once Step reaches StepComplete.
type Criteria struct {
	UserID        int64      `json:"user_id"`
	Mode          Mode       `json:"mode"`
	DestinationID string     `json:"destination_id,omitempty"`
	CheckIn       time.Time  `json:"check_in,omitempty"`
	CheckOut      time.Time  `json:"check_out,omitempty"`
	PriceMin      *float64   `json:"price_min,omitempty"`
	PriceMax      *float64   `json:"price_max,omitempty"`
	DistanceMin   *float64   `json:"distance_min,omitempty"`
	DistanceMax   *float64   `json:"distance_max,omitempty"`
	ResultCount   int        `json:"result_count,omitempty"`
	Step          Step       `json:"step"`
}

// New starts a fresh session for userID. The mode is fixed by the
// command that opened the dialog; the destination choice re-asserts it.
func New(userID int64, mode Mode) *Criteria {
	return &Criteria{
		UserID: userID,
		Mode:   mode,
		Step:   StepAwaitDestination,
	}
}

var ErrNotANumber = errors.New("input is not a number")

// ParseAmount parses a price or distance entered as free text. A
// decimal comma is accepted alongside a decimal point.
func ParseAmount(text string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, ErrNotANumber
	}
	return v, nil
}

// ParseResultCount parses the requested hotel count and clamps it into
// [1, MaxResultCount]. Out-of-range values are clamped, not rejected.
func ParseResultCount(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, ErrNotANumber
	}
	return ClampResultCount(n), nil
}

// ClampResultCount bounds n into [1, MaxResultCount].
func ClampResultCount(n int) int {
	if n > MaxResultCount {
		return MaxResultCount
	}
	if n < 1 {
		return 1
	}
	return n
}

// ContainsCyrillic reports whether s holds any Cyrillic rune. The
// provider only resolves latin destination names.
func ContainsCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

// HistoryRecord is one completed search. Append-only.
type HistoryRecord struct {
	ID        string                `json:"id"`
	UserID    int64                 `json:"user_id"`
	Mode      Mode                  `json:"mode"`
	CreatedAt time.Time             `json:"created_at"`
	Results   []hoteltypes.Property `json:"results"`
}

// NewHistoryRecord snapshots a finished search.
func NewHistoryRecord(userID int64, mode Mode, results []hoteltypes.Property) *HistoryRecord {
	return &HistoryRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mode:      mode,
		CreatedAt: time.Now(),
		Results:   results,
	}
}

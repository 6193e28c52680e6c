package biz

import (
	"time"

	"github.com/ViacheslavGolubkov/hotelscout/internal/criteria"
	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels/types"
)

// ReplyKind tells the renderer what to draw.
type ReplyKind string

const (
	ReplyPrompt   ReplyKind = "prompt"
	ReplyChoices  ReplyKind = "choices"
	ReplyCalendar ReplyKind = "calendar"
	ReplyResults  ReplyKind = "results"

	// ReplyFarewell ends the dialog; the session is gone.
	ReplyFarewell ReplyKind = "farewell"
)

// Calendar identifiers, one per date step.
const (
	CalendarCheckIn  = 1
	CalendarCheckOut = 2
)

// Selection is the payload a destination choice carries back. It
// replaces the provider id and the mode explicitly instead of packing
// both into a prefixed string.
type Selection struct {
	Mode          criteria.Mode `json:"mode"`
	DestinationID string        `json:"destination_id"`
}

// Choice is one selectable option shown to the user.
type Choice struct {
	Label   string    `json:"label"`
	Payload Selection `json:"payload"`
}

// Reply is the directive handed to the out-of-process message
// renderer after each dialog step.
type Reply struct {
	Kind       ReplyKind        `json:"kind"`
	Text       string           `json:"text"`
	Choices    []Choice         `json:"choices,omitempty"`
	CalendarID int              `json:"calendar_id,omitempty"`
	MinDate    time.Time        `json:"min_date,omitempty"`
	Results    []types.Property `json:"results,omitempty"`
}

func promptReply(text string) Reply {
	return Reply{Kind: ReplyPrompt, Text: text}
}

func calendarReply(text string, id int, minDate time.Time) Reply {
	return Reply{Kind: ReplyCalendar, Text: text, CalendarID: id, MinDate: minDate}
}

func farewellReply(text string) Reply {
	return Reply{Kind: ReplyFarewell, Text: text}
}

// User-facing dialog messages.
const (
	msgWelcome = "Hi! I only understand the commands /lowprice, /highprice, /bestdeal and /history."

	msgAskDestination = "Enter the city to search hotels in. Latin letters only."
	msgNonLatin       = "The city name must be written in latin letters.\n" +
		"Let's try again.\nEnter the city to search hotels in."
	msgNoDestinations = "I couldn't find that city.\nLet's try again.\n" +
		"Enter the city to search hotels in."
	msgPickDestination = "Pick the option that fits best."

	msgAskPriceMin      = "Enter the minimum price per night in USD."
	msgPriceMinNotNum   = "The minimum price must be a number.\nLet's try again.\nEnter the minimum price per night in USD."
	msgAskPriceMax      = "Enter the maximum price per night in USD."
	msgPriceMaxNotNum   = "The maximum price must be a number.\nLet's try again.\nEnter the maximum price per night in USD."
	msgPriceMaxBelowMin = "The maximum price cannot be below the minimum.\nLet's try again.\nEnter the maximum price per night in USD."

	msgAskDistanceMin      = "Enter the minimum distance from the center, in kilometers."
	msgDistanceMinNotNum   = "The minimum distance must be a number.\nLet's try again.\nEnter the minimum distance from the center, in kilometers."
	msgAskDistanceMax      = "Enter the maximum distance from the center, in kilometers."
	msgDistanceMaxNotNum   = "The maximum distance must be a number.\nLet's try again.\nEnter the maximum distance from the center, in kilometers."
	msgDistanceMaxBelowMin = "The maximum distance cannot be below the minimum.\nLet's try again.\nEnter the maximum distance from the center, in kilometers."

	msgPickCheckIn   = "Pick the check-in date."
	msgPickCheckOut  = "Pick the check-out date."
	msgCheckInPast   = "The check-in date cannot be in the past.\nPick the check-in date."
	msgCheckOutEarly = "The check-out date must be after the check-in date.\nPick the check-out date."

	msgAskResultCount    = "How many hotels should I show? (max 10)"
	msgResultCountNotNum = "The number of hotels must be a number.\nLet's try again.\nHow many hotels should I show? (max 10)"

	msgResultsDone  = "That is everything I could find for you."
	msgNothingFound = "Looks like I found nothing for your search."
	msgProviderSlow = "The hotel service took too long to answer. Please try again a bit later."
	msgSearchFailed = "Something went wrong with your search. Please start over."
)

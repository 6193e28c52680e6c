package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels/types"
)

const locationFixture = `{
	"suggestions": [
		{
			"group": "CITY_GROUP",
			"entities": [
				{"destinationId": "549499", "caption": "<span class='highlighted'>London</span>, England, United Kingdom"},
				{"destinationId": "1992224", "caption": "<span class='highlighted'>London</span>, Ontario, Canada"}
			]
		},
		{
			"group": "HOTEL_GROUP",
			"entities": [
				{"destinationId": "1", "caption": "London Hilton"}
			]
		}
	]
}`

const propertiesFixture = `{
	"data": {
		"body": {
			"searchResults": {
				"results": [
					{
						"id": 12345,
						"name": "The Savoy",
						"starRating": 5,
						"address": {"streetAddress": "Strand"},
						"ratePlan": {"price": {"current": "$429", "fullyBundledPricePerStay": "total&nbsp;$1,287"}},
						"optimizedThumbUrls": {"srpDesktop": "https://images.example/savoy.jpg"},
						"landmarks": [{"distance": "0.4 miles"}]
					},
					{
						"id": 67890,
						"name": "Budget Inn",
						"starRating": 2,
						"address": {"streetAddress": "Side Street 3"},
						"ratePlan": {"price": {"current": "$59", "fullyBundledPricePerStay": "total&nbsp;$177"}},
						"optimizedThumbUrls": {"srpDesktop": "https://images.example/budget.jpg"},
						"landmarks": []
					}
				]
			}
		}
	}
}`

const photosFixture = `{
	"hotelImages": [
		{"baseUrl": "https://images.example/a_{size}.jpg", "sizes": [{"suffix": "z"}, {"suffix": "w"}]},
		{"baseUrl": "https://images.example/b_{size}.jpg", "sizes": []},
		{"baseUrl": "https://images.example/c_{size}.jpg", "sizes": [{"suffix": "y"}]}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(&types.ProviderConfig{
		APIHost: srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
		// High enough that the paginated tests don't sleep.
		RateLimit: 1000,
	})
	require.NoError(t, err)
	return client
}

func TestProviderTimeouts(t *testing.T) {
	b := NewBaseProvider(&types.ProviderConfig{APIHost: "https://hotels4.p.rapidapi.com", APIKey: "k"})
	assert.Equal(t, 30*time.Second, b.httpClient.Timeout)

	b = NewBaseProvider(&types.ProviderConfig{
		APIHost: "https://hotels4.p.rapidapi.com",
		APIKey:  "k",
		Timeout: 5 * time.Second,
	})
	assert.Equal(t, 5*time.Second, b.httpClient.Timeout)
}

func TestNewClientRejectsBadConfig(t *testing.T) {
	_, err := NewClient(&types.ProviderConfig{APIKey: "k"})
	assert.ErrorIs(t, err, types.ErrInvalidAPIHost)

	_, err = NewClient(&types.ProviderConfig{APIHost: "https://hotels4.p.rapidapi.com"})
	assert.ErrorIs(t, err, types.ErrMissingAPIKey)
}

func TestLookupDestinations(t *testing.T) {
	var gotPath string
	var gotHeaders http.Header
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		assert.Equal(t, "London", r.URL.Query().Get("query"))
		assert.Equal(t, "en_US", r.URL.Query().Get("locale"))
		w.Write([]byte(locationFixture))
	})

	destinations, err := client.LookupDestinations(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, "/locations/v2/search", gotPath)
	assert.Equal(t, "test-key", gotHeaders.Get("x-rapidapi-key"))
	assert.NotEmpty(t, gotHeaders.Get("x-rapidapi-host"))

	require.Len(t, destinations, 2)
	assert.Equal(t, "London, England, United Kingdom", destinations[0].Label)
	assert.Equal(t, "549499", destinations[0].ID)
	assert.Equal(t, "London, Ontario, Canada", destinations[1].Label)
}

func TestLookupDestinationsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"suggestions": []}`))
	})

	destinations, err := client.LookupDestinations(context.Background(), "Xyzzy")
	require.NoError(t, err)
	assert.Empty(t, destinations)
}

func TestListProperties(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(propertiesFixture))
	})

	priceMin, priceMax := 20.0, 500.0
	properties, err := client.ListProperties(context.Background(), types.ListQuery{
		DestinationID: "549499",
		CheckIn:       time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		SortOrder:     "DISTANCE_FROM_LANDMARK",
		PriceMin:      &priceMin,
		PriceMax:      &priceMax,
		PageNumber:    2,
		PageSize:      10,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"549499"}, gotQuery["destinationId"])
	assert.Equal(t, []string{"2026-10-01"}, gotQuery["checkIn"])
	assert.Equal(t, []string{"2026-10-05"}, gotQuery["checkOut"])
	assert.Equal(t, []string{"DISTANCE_FROM_LANDMARK"}, gotQuery["sortOrder"])
	assert.Equal(t, []string{"2"}, gotQuery["pageNumber"])
	assert.Equal(t, []string{"20"}, gotQuery["priceMin"])
	assert.Equal(t, []string{"500"}, gotQuery["priceMax"])

	require.Len(t, properties, 2)
	assert.Equal(t, int64(12345), properties[0].ID)
	assert.Equal(t, "The Savoy", properties[0].Name)
	assert.Equal(t, 5.0, properties[0].StarRating)
	assert.Equal(t, "Strand", properties[0].Address)
	assert.Equal(t, "$429", properties[0].CurrentPrice)
	assert.Equal(t, "total $1,287", properties[0].TotalPrice)
	assert.Equal(t, "0.4 miles", properties[0].LandmarkDistance)
	assert.Empty(t, properties[1].LandmarkDistance)
}

func TestListPropertiesEmptyPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"body": {"searchResults": {"results": []}}}}`))
	})

	properties, err := client.ListProperties(context.Background(), types.ListQuery{
		DestinationID: "549499",
		PageNumber:    9,
		PageSize:      10,
	})
	require.NoError(t, err)
	assert.Empty(t, properties)
}

func TestListPhotos(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/properties/get-hotel-photos", r.URL.Path)
		assert.Equal(t, "12345", r.URL.Query().Get("id"))
		w.Write([]byte(photosFixture))
	})

	urls, err := client.ListPhotos(context.Background(), 12345)
	require.NoError(t, err)
	// Images without sizes are dropped, the first suffix wins.
	assert.Equal(t, []string{
		"https://images.example/a_z.jpg",
		"https://images.example/c_y.jpg",
	}, urls)
}

func TestNon200BecomesProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.LookupDestinations(context.Background(), "London")
	require.Error(t, err)
	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "HTTP_429", provErr.Code)
}

func TestMalformedBodyBecomesDecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	})

	_, err := client.LookupDestinations(context.Background(), "London")
	require.Error(t, err)
	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "DECODE_FAILED", provErr.Code)
}

func TestTimeoutIsClassified(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.LookupDestinations(ctx, "London")
	assert.ErrorIs(t, err, types.ErrProviderTimeout)
}

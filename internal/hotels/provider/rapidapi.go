package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels/types"
)

const (
	locationSearchPath = "/locations/v2/search"
	propertiesListPath = "/properties/list"
	hotelPhotosPath    = "/properties/get-hotel-photos"
)

// The provider wraps the matched part of a destination caption in
// highlight markup; it is stripped before the caption reaches the user.
var captionReplacer = strings.NewReplacer(
	"<span class='highlighted'>", "",
	"</span>", "",
)

// Client talks to the hotels4-style RapidAPI provider.
type Client struct {
	*BaseProvider
}

// NewClient creates a provider client from config.
func NewClient(config *types.ProviderConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{BaseProvider: NewBaseProvider(config)}, nil
}

type locationSearchResponse struct {
	Suggestions []struct {
		Group    string `json:"group"`
		Entities []struct {
			DestinationID string `json:"destinationId"`
			Caption       string `json:"caption"`
		} `json:"entities"`
	} `json:"suggestions"`
}

// LookupDestinations resolves a city query into destination candidates.
func (c *Client) LookupDestinations(ctx context.Context, query string) ([]types.Destination, error) {
	params := c.baseParams()
	params.Set("query", query)

	var body locationSearchResponse
	if err := c.getJSON(ctx, locationSearchPath, params, &body); err != nil {
		return nil, err
	}

	if len(body.Suggestions) == 0 {
		return nil, nil
	}

	// The first suggestion group holds the city-level entities.
	entities := body.Suggestions[0].Entities
	destinations := make([]types.Destination, 0, len(entities))
	for _, e := range entities {
		destinations = append(destinations, types.Destination{
			Label: captionReplacer.Replace(e.Caption),
			ID:    e.DestinationID,
		})
	}
	return destinations, nil
}

type propertiesListResponse struct {
	Data struct {
		Body struct {
			SearchResults struct {
				Results []propertyResult `json:"results"`
			} `json:"searchResults"`
		} `json:"body"`
	} `json:"data"`
}

type propertyResult struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	StarRating float64 `json:"starRating"`
	Address    struct {
		StreetAddress string `json:"streetAddress"`
	} `json:"address"`
	RatePlan struct {
		Price struct {
			Current                  string `json:"current"`
			FullyBundledPricePerStay string `json:"fullyBundledPricePerStay"`
		} `json:"price"`
	} `json:"ratePlan"`
	OptimizedThumbUrls struct {
		SrpDesktop string `json:"srpDesktop"`
	} `json:"optimizedThumbUrls"`
	Landmarks []struct {
		Distance string `json:"distance"`
	} `json:"landmarks"`
}

// ListProperties fetches one page of hotel listings.
func (c *Client) ListProperties(ctx context.Context, q types.ListQuery) ([]types.Property, error) {
	params := c.baseParams()
	params.Set("destinationId", q.DestinationID)
	params.Set("checkIn", q.CheckIn.Format("2006-01-02"))
	params.Set("checkOut", q.CheckOut.Format("2006-01-02"))
	params.Set("sortOrder", q.SortOrder)
	params.Set("pageNumber", strconv.Itoa(q.PageNumber))
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	params.Set("adults1", "1")
	if q.PriceMin != nil {
		params.Set("priceMin", strconv.FormatFloat(*q.PriceMin, 'f', -1, 64))
	}
	if q.PriceMax != nil {
		params.Set("priceMax", strconv.FormatFloat(*q.PriceMax, 'f', -1, 64))
	}

	var body propertiesListResponse
	if err := c.getJSON(ctx, propertiesListPath, params, &body); err != nil {
		return nil, err
	}

	results := body.Data.Body.SearchResults.Results
	properties := make([]types.Property, 0, len(results))
	for _, r := range results {
		p := types.Property{
			ID:           r.ID,
			Name:         r.Name,
			StarRating:   r.StarRating,
			Address:      r.Address.StreetAddress,
			CurrentPrice: r.RatePlan.Price.Current,
			TotalPrice:   strings.ReplaceAll(r.RatePlan.Price.FullyBundledPricePerStay, "&nbsp;", " "),
			ThumbnailURL: r.OptimizedThumbUrls.SrpDesktop,
		}
		if len(r.Landmarks) > 0 {
			p.LandmarkDistance = r.Landmarks[0].Distance
		}
		properties = append(properties, p)
	}
	return properties, nil
}

type hotelPhotosResponse struct {
	HotelImages []struct {
		BaseURL string `json:"baseUrl"`
		Sizes   []struct {
			Suffix string `json:"suffix"`
		} `json:"sizes"`
	} `json:"hotelImages"`
}

// ListPhotos returns photo URLs for one hotel, with the provider's
// {size} placeholder resolved to the first available size suffix.
func (c *Client) ListPhotos(ctx context.Context, hotelID int64) ([]string, error) {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(hotelID, 10))

	var body hotelPhotosResponse
	if err := c.getJSON(ctx, hotelPhotosPath, params, &body); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(body.HotelImages))
	for _, img := range body.HotelImages {
		if len(img.Sizes) == 0 {
			continue
		}
		urls = append(urls, strings.Replace(img.BaseURL, "{size}", img.Sizes[0].Suffix, 1))
	}
	return urls, nil
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	locale := c.config.Locale
	if locale == "" {
		locale = "en_US"
	}
	currency := c.config.Currency
	if currency == "" {
		currency = "USD"
	}
	params.Set("locale", locale)
	params.Set("currency", currency)
	return params
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	apiURL := fmt.Sprintf("%s%s?%s", strings.TrimSuffix(c.config.APIHost, "/"), path, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range c.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.DoRequest(ctx, httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &types.ProviderError{
			Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message: string(respBody),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &types.ProviderError{
			Code:    "DECODE_FAILED",
			Message: "failed to decode response",
			Err:     err,
		}
	}
	return nil
}

package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// EventFilter holds the optional filters for the events listing.
type EventFilter struct {
	Date      string // specific date (YYYY-MM-DD)
	DateFrom  string // range start (YYYY-MM-DD)
	DateTo    string // range end (YYYY-MM-DD)
	SportCode string // sport code (alp, iho, fsk, ...)
	Country   string // country code (USA, ITA, ...)
	Venue     string // venue name
	City      string // Milano, Cortina, ...
	Limit     int    // maximum results (1-500)
}

// Values encodes the filter as query parameters, omitting empty fields.
func (f EventFilter) Values() url.Values {
	params := url.Values{}
	if f.Date != "" {
		params.Set("date", f.Date)
	}
	if f.DateFrom != "" {
		params.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		params.Set("date_to", f.DateTo)
	}
	if f.SportCode != "" {
		params.Set("sport_code", f.SportCode)
	}
	if f.Country != "" {
		params.Set("country", f.Country)
	}
	if f.Venue != "" {
		params.Set("venue", f.Venue)
	}
	if f.City != "" {
		params.Set("city", f.City)
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	return params
}

// Events returns Olympic events matching the filter.
func (c *Client) Events(ctx context.Context, filter EventFilter) (*Response, error) {
	return c.Fetch(ctx, "/events", filter.Values())
}

// TodayEvents returns all events happening today.
func (c *Client) TodayEvents(ctx context.Context) (*Response, error) {
	return c.Fetch(ctx, "/events/today", nil)
}

// Search runs a full-text search across events, disciplines, and venues.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	params := url.Values{}
	params.Set("q", query)
	return c.Fetch(ctx, "/search", params)
}

// Sports returns all Olympic winter sports with event counts.
func (c *Client) Sports(ctx context.Context) (*Response, error) {
	return c.Fetch(ctx, "/sports", nil)
}

// SportEvents returns all events for a sport. A limit of 0 means no limit.
func (c *Client) SportEvents(ctx context.Context, sportCode string, limit int) (*Response, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return c.Fetch(ctx, fmt.Sprintf("/sports/%s/events", sportCode), params)
}

// Countries returns all participating countries.
func (c *Client) Countries(ctx context.Context) (*Response, error) {
	return c.Fetch(ctx, "/countries", nil)
}

// CountryEvents returns all events for a country, optionally filtered by sport.
func (c *Client) CountryEvents(ctx context.Context, countryCode, sportCode string) (*Response, error) {
	params := url.Values{}
	if sportCode != "" {
		params.Set("sport_code", sportCode)
	}
	return c.Fetch(ctx, fmt.Sprintf("/countries/%s/events", countryCode), params)
}

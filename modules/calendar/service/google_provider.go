package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"realite-api/core/config"
	"realite-api/core/constants"
	"realite-api/core/errors"
	"realite-api/core/logger"
	"realite-api/modules/calendar/entity"
	"realite-api/modules/calendar/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	googleFreeBusyAPI     = googleCalendarAPIBase + "/freeBusy"
	googleEventsAPI       = googleCalendarAPIBase + "/calendars/%s/events"
)

type googleProvider struct {
	repo   repository.CalendarRepository
	cache  *BusyCache
	client *http.Client
}

// NewGoogleProvider builds the Google Calendar collaborator. cache may be nil
// when redis is unavailable; lookups then always go to the API.
func NewGoogleProvider(repo repository.CalendarRepository, cache *BusyCache) Provider {
	return &googleProvider{
		repo:   repo,
		cache:  cache,
		client: &http.Client{Timeout: constants.ProviderAPITimeout},
	}
}

// fetchGoogleEmail reads the account email for a freshly exchanged token.
func fetchGoogleEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: constants.ProviderAPITimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("google userinfo API error: %s", string(body))
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", err
	}
	if info.Email == "" {
		return "", fmt.Errorf("no email in userinfo response")
	}
	return info.Email, nil
}

func oauthConfig() *oauth2.Config {
	cfg, ok := config.GetSafe()
	if !ok {
		return &oauth2.Config{Endpoint: google.Endpoint}
	}
	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURL,
		Endpoint:     google.Endpoint,
	}
}

// ensureValidToken returns a usable access token, refreshing through the
// oauth2 token source when the stored one expires within the skew window.
func (p *googleProvider) ensureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, error) {
	if time.Now().Before(conn.TokenExpiresAt.Add(-constants.TokenRefreshSkew)) {
		return conn.AccessToken, nil
	}

	logger.Info("GoogleProvider:ensureValidToken:Refreshing", "user_id", conn.UserID)

	src := oauthConfig().TokenSource(ctx, &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.TokenExpiresAt,
	})

	token, err := src.Token()
	if err != nil {
		logger.Error("GoogleProvider:ensureValidToken:Error", "user_id", conn.UserID, "error", err)
		return "", err
	}

	conn.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		conn.RefreshToken = token.RefreshToken
	}
	conn.TokenExpiresAt = token.Expiry

	if err := p.repo.UpdateConnection(ctx, conn); err != nil {
		logger.Error("GoogleProvider:ensureValidToken:SaveToken:Error", "user_id", conn.UserID, "error", err)
	}

	return token.AccessToken, nil
}

func (p *googleProvider) connection(ctx context.Context, userID uuid.UUID) (*entity.CalendarConnection, error) {
	conn, err := p.repo.GetConnectionByUserAndProvider(ctx, userID, entity.ProviderGoogle)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "No Google Calendar connected", nil)
	}
	return conn, nil
}

// GetBusyWindows fetches the user's busy ranges for [timeMin, timeMax] with a
// single freeBusy call, consulting the short-TTL cache first.
func (p *googleProvider) GetBusyWindows(ctx context.Context, userID uuid.UUID, timeMin, timeMax time.Time) ([]entity.BusyWindow, error) {
	if p.cache != nil {
		if windows, ok := p.cache.Get(ctx, userID, timeMin, timeMax); ok {
			return windows, nil
		}
	}

	conn, err := p.connection(ctx, userID)
	if err != nil {
		return nil, err
	}

	accessToken, err := p.ensureValidToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"timeMin": timeMin.UTC().Format(time.RFC3339),
		"timeMax": timeMax.UTC().Format(time.RFC3339),
		"items": []map[string]string{
			{"id": conn.CalendarEmail},
		},
	}

	payloadJSON, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleFreeBusyAPI, strings.NewReader(string(payloadJSON)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google freeBusy API error: %s", string(body))
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start time.Time `json:"start"`
				End   time.Time `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	var windows []entity.BusyWindow
	if cal, ok := result.Calendars[conn.CalendarEmail]; ok {
		for _, busy := range cal.Busy {
			windows = append(windows, entity.BusyWindow{Start: busy.Start, End: busy.End})
		}
	}

	if p.cache != nil {
		p.cache.Set(ctx, userID, timeMin, timeMax, windows)
	}

	logger.Info("GoogleProvider:GetBusyWindows:Success", "user_id", userID, "count", len(windows))
	return windows, nil
}

// InsertCalendarEvent writes an entry to the user's calendar and returns the
// provider event id. The description is stamped with Realite metadata so the
// entry is recognizable on later syncs.
func (p *googleProvider) InsertCalendarEvent(ctx context.Context, userID uuid.UUID, req InsertEventRequest) (string, error) {
	conn, err := p.connection(ctx, userID)
	if err != nil {
		return "", err
	}

	accessToken, err := p.ensureValidToken(ctx, conn)
	if err != nil {
		return "", err
	}

	calendarID := req.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	event := map[string]any{
		"summary":     req.Title,
		"description": req.Description,
		"start": map[string]string{
			"dateTime": req.Start.UTC().Format(time.RFC3339),
			"timeZone": "UTC",
		},
		"end": map[string]string{
			"dateTime": req.End.UTC().Format(time.RFC3339),
			"timeZone": "UTC",
		},
	}
	if req.Location != "" {
		event["location"] = req.Location
	}

	eventJSON, _ := json.Marshal(event)
	url := fmt.Sprintf(googleEventsAPI, calendarID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(eventJSON)))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("google events API error: %s", string(body))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("no event id in response")
	}

	logger.Info("GoogleProvider:InsertCalendarEvent:Success", "user_id", userID, "event_id", result.ID)
	return result.ID, nil
}

// SyncDecisionStatus updates the user's attendee response on the provider
// entry ("accepted" or "declined").
func (p *googleProvider) SyncDecisionStatus(ctx context.Context, userID uuid.UUID, externalEventID, decision string) error {
	conn, err := p.connection(ctx, userID)
	if err != nil {
		return err
	}

	accessToken, err := p.ensureValidToken(ctx, conn)
	if err != nil {
		return err
	}

	eventURL := fmt.Sprintf(googleEventsAPI+"/%s", "primary", externalEventID)

	patchPayload := map[string]any{
		"attendees": []map[string]any{
			{
				"email":          conn.CalendarEmail,
				"responseStatus": decision,
			},
		},
	}

	jsonBody, _ := json.Marshal(patchPayload)
	patchReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, eventURL, strings.NewReader(string(jsonBody)))
	if err != nil {
		return err
	}
	patchReq.Header.Set("Authorization", "Bearer "+accessToken)
	patchReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(patchReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("google api PATCH returned status %d: %s", resp.StatusCode, string(body))
	}

	logger.Info("GoogleProvider:SyncDecisionStatus:Success", "user_id", userID, "event_id", externalEventID, "decision", decision)
	return nil
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"storefront/app/models/other"
)

// Gateway executes GraphQL query descriptors against the hosted platform.
// All storefront data shapes are owned by the platform schema; this client
// only moves envelopes.
type Gateway interface {
	Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

type platformGateway struct {
	client  *http.Client
	baseURL string
	appID   string
	token   string
}

func NewPlatformGateway(baseURL, appID, token string) Gateway {
	return &platformGateway{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		appID:   appID,
		token:   token,
	}
}

func (g *platformGateway) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	payload, err := json.Marshal(other.GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fetchErr(ErrKindTransport, "failed to encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/graphql", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fetchErr(ErrKindTransport, "failed to create gateway request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-application-id", g.appID)
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("PlatformGateway: request failed: %v", err)
		return nil, fetchErr(ErrKindTransport, "failed to perform gateway request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("PlatformGateway: failed reading response body: %v", err)
		return nil, fetchErr(ErrKindTransport, "failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("PlatformGateway: non-OK status %d, body: %s", resp.StatusCode, string(body))
		return nil, fetchErr(ErrKindTransport, "gateway returned status %d", resp.StatusCode)
	}

	var envelope other.GraphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Printf("PlatformGateway: failed to parse response: %v, raw body: %s", err, string(body))
		return nil, fetchErr(ErrKindTransport, "failed to parse gateway response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		joined := strings.Join(msgs, "; ")
		log.Printf("PlatformGateway: platform returned errors: %s", joined)
		return nil, fetchErr(ErrKindPlatform, "platform error: %s", joined)
	}

	return envelope.Data, nil
}

// ABOUTME: Google People API client for contacts import
// ABOUTME: Wraps the People service behind a small paging interface
package sync

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

const (
	personFields = "names,emailAddresses,phoneNumbers"
	pageSize     = 1000
)

// ConnectionLister returns one page of the signed-in user's connections.
type ConnectionLister interface {
	ListConnections(ctx context.Context, pageToken string) (*people.ListConnectionsResponse, error)
}

// PeopleClient lists connections through the Google People API.
type PeopleClient struct {
	service *people.Service
}

// NewPeopleClient creates a new Google People API client.
func NewPeopleClient(ctx context.Context, oauthConfig *oauth2.Config, token *oauth2.Token) (*PeopleClient, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	client := oauthConfig.Client(ctx, token)

	service, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}

	return &PeopleClient{service: service}, nil
}

func (c *PeopleClient) ListConnections(ctx context.Context, pageToken string) (*people.ListConnectionsResponse, error) {
	call := c.service.People.Connections.List("people/me").
		PageSize(pageSize).
		PersonFields(personFields).
		Context(ctx)

	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	return call.Do()
}

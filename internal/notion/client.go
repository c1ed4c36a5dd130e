// Package notion provides the document-sync client: it mirrors parsed PRPs
// into a Notion database as richly formatted pages.
package notion

import (
	"context"
	"errors"

	"github.com/jomei/notionapi"
	"github.com/rs/zerolog"

	"github.com/jonathan/prp-extractor/internal/retry"
	"github.com/jonathan/prp-extractor/internal/types"
)

// prpIDProperty is the page property holding the embedded PRP identifier used
// to find a mirrored page again without a separate mapping table.
const prpIDProperty = "PRP ID"

// Client wraps the Notion API for PRP page sync.
type Client struct {
	api    *notionapi.Client
	policy retry.Policy
	logger zerolog.Logger
}

// NewClient creates a sync client authenticated with an integration token.
func NewClient(token string, logger zerolog.Logger) *Client {
	return &Client{
		api:    notionapi.NewClient(notionapi.Token(token)),
		policy: retry.DefaultPolicy(),
		logger: logger,
	}
}

// CreatePage validates the target database, then creates a page carrying the
// PRP property set and up to 100 content blocks. Blocks beyond the ceiling are
// dropped, not split across requests.
func (c *Client) CreatePage(ctx context.Context, databaseID string, content *types.PRPContent, src SourceInfo) (string, error) {
	if err := c.checkDatabase(ctx, databaseID); err != nil {
		return "", err
	}

	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: buildPageProperties(content, src),
		Children:   buildPageBlocks(content, src),
	}

	var page *notionapi.Page
	err := retry.Do(ctx, c.policy, "pages.create", isTransient, func(ctx context.Context) error {
		var callErr error
		page, callErr = c.api.Page.Create(ctx, req)
		return classify("pages.create", databaseID, callErr)
	})
	if err != nil {
		return "", err
	}

	c.logger.Info().Str("page_id", page.ID.String()).Str("prp_id", src.PRPID).Msg("notion page created")
	return page.ID.String(), nil
}

// UpdatePage patches the re-syncable property subset of an existing page.
// It does not touch content blocks.
func (c *Client) UpdatePage(ctx context.Context, pageID string, patch PropertyPatch) error {
	req := &notionapi.PageUpdateRequest{Properties: buildPatchProperties(patch)}

	return retry.Do(ctx, c.policy, "pages.update", isTransient, func(ctx context.Context) error {
		_, callErr := c.api.Page.Update(ctx, notionapi.PageID(pageID), req)
		return classify("pages.update", pageID, callErr)
	})
}

// FindPageByPRPID looks up a page by the embedded PRP identifier property.
// It returns an empty string, not an error, when no page matches.
func (c *Client) FindPageByPRPID(ctx context.Context, databaseID, prpID string) (string, error) {
	req := &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: prpIDProperty,
			RichText: &notionapi.TextFilterCondition{Equals: prpID},
		},
	}

	var resp *notionapi.DatabaseQueryResponse
	err := retry.Do(ctx, c.policy, "databases.query", isTransient, func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.api.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
		return classify("databases.query", databaseID, callErr)
	})
	if err != nil {
		return "", err
	}

	if len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].ID.String(), nil
}

// checkDatabase verifies the sync target exists and is reachable.
func (c *Client) checkDatabase(ctx context.Context, databaseID string) error {
	return retry.Do(ctx, c.policy, "databases.get", isTransient, func(ctx context.Context) error {
		_, callErr := c.api.Database.Get(ctx, notionapi.DatabaseID(databaseID))
		return classify("databases.get", databaseID, callErr)
	})
}

// classify maps a Notion API error onto the pipeline taxonomy.
func classify(op, target string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "rate_limited":
			return &retry.RateLimitError{Op: op, Cause: err}
		case "object_not_found":
			return &DatabaseNotFoundError{DatabaseID: target}
		default:
			return &UpstreamError{Op: op, StatusCode: apiErr.Status, Message: apiErr.Message, Cause: err}
		}
	}
	return &UpstreamError{Op: op, Message: "request failed", Cause: err}
}

// isTransient retries server-side failures and bare transport errors.
func isTransient(err error) bool {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode == 0 || upstream.StatusCode >= 500
	}
	return false
}

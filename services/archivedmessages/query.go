package archivedmessages

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"msgarchive/core"
	"msgarchive/models"
	"msgarchive/models/api"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// QueryArchivedMessages normalizes untrusted listing parameters, applies
// the filter and returns one page of results with pagination metadata.
func (s *ArchivedMessagesService) QueryArchivedMessages(
	ctx context.Context,
	query models.ArchiveQuery,
) (*api.PaginatedMessages, error) {
	log.Printf("📋 Starting to query archived messages")

	page, limit := normalizePageParams(query.Page, query.Limit)
	filter, err := buildMessageFilter(query)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	messages, total, err := s.archivedMessagesRepo.ListFiltered(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query archived messages: %w", err)
	}

	log.Printf("📋 Completed successfully - page %d returned %d of %d messages", page, len(messages), total)
	return &api.PaginatedMessages{
		Data:       messages,
		Pagination: api.NewPagination(page, limit, total),
	}, nil
}

// normalizePageParams coerces raw page/limit values: page is floored at 1,
// limit is clamped to [1, maxPageLimit]. Unparseable values fall back to
// the defaults rather than erroring, matching the lenient read surface.
func normalizePageParams(rawPage, rawLimit string) (page, limit int) {
	page = 1
	if p, err := strconv.Atoi(rawPage); err == nil && p > 1 {
		page = p
	}

	limit = defaultPageLimit
	if l, err := strconv.Atoi(rawLimit); err == nil {
		limit = l
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return page, limit
}

// buildMessageFilter converts raw query parameters into the structured
// filter consumed by the repository. Malformed dates are rejected so no
// unvalidated value reaches a storage query.
func buildMessageFilter(query models.ArchiveQuery) (models.MessageFilter, error) {
	var filter models.MessageFilter

	if query.GuildID != "" {
		filter.GuildID = &query.GuildID
	}
	if query.ChannelID != "" {
		filter.ChannelID = &query.ChannelID
	}
	if query.AuthorID != "" {
		filter.AuthorID = &query.AuthorID
	}
	if query.Search != "" {
		filter.Search = &query.Search
	}

	if query.StartDate != "" {
		start, err := parseDateParam(query.StartDate)
		if err != nil {
			return models.MessageFilter{}, fmt.Errorf("invalid startDate %q: %w", query.StartDate, core.ErrValidation)
		}
		filter.StartDate = &start
	}
	if query.EndDate != "" {
		end, err := parseDateParam(query.EndDate)
		if err != nil {
			return models.MessageFilter{}, fmt.Errorf("invalid endDate %q: %w", query.EndDate, core.ErrValidation)
		}
		filter.EndDate = &end
	}

	return filter, nil
}

// parseDateParam accepts RFC 3339 timestamps and bare dates (2006-01-02).
func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

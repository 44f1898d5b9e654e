package chronicler

import (
	"context"
)

// Stream drives the paginated cursor starting at startCursor, sending pages
// on the returned channel in page order. The channel is closed once the
// final page (NextToken=="") has been sent, the context is cancelled, or a
// fetch is fatally aborted — in the last two cases the error is sent on
// errc before both channels close.
//
// Checkpointing discipline (SPEC_FULL.md §4.1, §5 ordering guarantee (iii))
// is the caller's responsibility: a page must not be considered
// checkpointed until every game within it has been durably written by
// component D. Stream itself only fetches; it does not bound how many pages
// are in flight downstream — that bound is the caller's
// ingest_parallelism semaphore, acquired once per game, not once per page.
func (c *Client) Stream(ctx context.Context, kind, startCursor string) (<-chan Page, <-chan error) {
	pages := make(chan Page)
	errc := make(chan error, 1)

	go func() {
		defer close(pages)
		defer close(errc)

		cursor := startCursor
		for {
			page, err := c.FetchPage(ctx, kind, cursor)
			if err != nil {
				errc <- err
				return
			}

			select {
			case pages <- page:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}

			if page.NextToken == "" {
				return
			}
			cursor = page.NextToken
		}
	}()

	return pages, errc
}

package batch

import (
	"context"
	"errors"

	"newsfetch/internal/dataset"
	"newsfetch/internal/models"
	"newsfetch/internal/session"
)

// ListPass lists every symbol and saves its table. A failed symbol is marked
// with the API error marker and keeps whatever table it had. A symbol with no
// articles gets a zero count and no table.
//
// Content already fetched for an article is carried over when its symbol is
// listed again, so re-running a batch only fetches what is missing.
func (r *Runner) ListPass(ctx context.Context, run *session.Run, symbols []string, result *Result) error {
	since, until := run.Window()

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := dataset.ValidateSymbol(symbol); err != nil {
			run.RecordStatus(models.SymbolStatus{Symbol: symbol, Failed: true})
			run.Errorf("Skipping %s: %s", symbol, r.errorText(err))
			result.FailedSymbols++

			continue
		}

		records, err := r.source.ListArticles(ctx, symbol, since, until)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			run.RecordStatus(models.SymbolStatus{Symbol: symbol, Failed: true})
			run.Errorf("Failed to fetch news for %s: %s", symbol, r.errorText(err))
			result.FailedSymbols++

			continue
		}

		run.RecordStatus(models.SymbolStatus{Symbol: symbol, Articles: len(records)})
		result.Articles += len(records)

		if len(records) == 0 {
			run.Infof("No articles found for %s", symbol)
			continue
		}

		if err := r.carryOver(symbol, records); err != nil {
			run.Warnf("Could not read existing table for %s: %s", symbol, r.errorText(err))
		}

		if err := r.store.Save(symbol, records); err != nil {
			return err
		}

		run.Infof("Saved %d articles for %s to %s", len(records), symbol, dataset.FileName(symbol))
	}

	return nil
}

func (r *Runner) carryOver(symbol string, records []models.ArticleRecord) error {
	previous, err := r.store.Load(symbol)
	if errors.Is(err, dataset.ErrNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	byID := make(map[string]models.ArticleRecord, len(previous))
	for _, rec := range previous {
		byID[rec.ID] = rec
	}

	for i := range records {
		if prev, ok := byID[records[i].ID]; ok && prev.HasContent() {
			records[i].Content = prev.Content
			records[i].Extracted = prev.Extracted
		}
	}

	return nil
}

// ContentPass fetches the detail payload for every saved article whose
// content is still empty. A failed fetch leaves the row empty and the pass
// moves on to the next article.
func (r *Runner) ContentPass(ctx context.Context, run *session.Run, result *Result) error {
	symbols, err := r.store.Symbols()
	if err != nil {
		return err
	}

	for _, symbol := range symbols {
		records, err := r.store.Load(symbol)
		if err != nil {
			run.Errorf("Failed to read table for %s: %s", symbol, r.errorText(err))
			continue
		}

		updated := 0

		for i := range records {
			if records[i].HasContent() {
				continue
			}

			content, err := r.source.FetchContent(ctx, records[i].ID)
			if err != nil {
				if ctx.Err() != nil {
					break
				}

				run.Errorf("Failed to fetch content for ID %s: %s", records[i].ID, r.errorText(err))
				result.ContentFailed++

				continue
			}

			records[i].Content = content
			updated++
		}

		if updated > 0 {
			if err := r.store.Save(symbol, records); err != nil {
				return err
			}
		}

		result.ContentFetched += updated
		run.Infof("Updated content for %d articles in %s", updated, dataset.FileName(symbol))

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}

// ExtractPass writes the cleaned text of every saved article.
func (r *Runner) ExtractPass(run *session.Run, result *Result) error {
	symbols, err := r.store.Symbols()
	if err != nil {
		return err
	}

	for _, symbol := range symbols {
		records, err := r.store.Load(symbol)
		if err != nil {
			run.Errorf("Failed to read table for %s: %s", symbol, r.errorText(err))
			continue
		}

		stats := r.processor.Process(records)

		for _, id := range stats.Malformed {
			run.Warnf("Malformed content payload for ID %s", id)
		}

		if stats.Absent > 0 {
			run.Infof("%d articles in %s have no content", stats.Absent, dataset.FileName(symbol))
		}

		if err := r.store.Save(symbol, records); err != nil {
			return err
		}

		result.Cleaned += stats.Cleaned
		result.Absent += stats.Absent
		result.Malformed += len(stats.Malformed)

		run.Infof("Cleaned content for %d articles in %s", stats.Cleaned, dataset.FileName(symbol))
	}

	return nil
}

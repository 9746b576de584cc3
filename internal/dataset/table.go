package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"newsfetch/internal/models"
)

// Table columns, in file order.
const (
	ColID               = "ID"
	ColPublishDate      = "Publish Date"
	ColTitle            = "Title"
	ColAuthorID         = "Author ID"
	ColCommentCount     = "Comment Count"
	ColPrimaryTickers   = "Primary Tickers"
	ColSecondaryTickers = "Secondary Tickers"
	ColImageURL         = "Image URL"
	ColContent          = "Content"
	ColExtracted        = "Extracted"
)

// Columns is the header row of every table.
var Columns = []string{
	ColID, ColPublishDate, ColTitle, ColAuthorID, ColCommentCount,
	ColPrimaryTickers, ColSecondaryTickers, ColImageURL, ColContent, ColExtracted,
}

// Save writes the table for symbol, replacing any previous version.
func (s *Store) Save(symbol string, records []models.ArticleRecord) error {
	if err := ValidateSymbol(symbol); err != nil {
		return err
	}

	if err := s.Ensure(); err != nil {
		return err
	}

	final := filepath.Join(s.dir, FileName(symbol))

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+FileName(symbol))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	defer os.Remove(tmp.Name())

	if err := writeTable(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", FileName(symbol), err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", FileName(symbol), err)
	}

	if err := os.Rename(tmp.Name(), final); err != nil {
		return fmt.Errorf("failed to replace %s: %w", FileName(symbol), err)
	}

	return nil
}

// Load reads the table for symbol. Tables written before the content
// passes ran may lack the Content and Extracted columns.
func (s *Store) Load(symbol string) ([]models.ArticleRecord, error) {
	f, err := os.Open(filepath.Join(s.dir, FileName(symbol)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
		}

		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	records, err := readTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FileName(symbol), err)
	}

	return records, nil
}

func writeTable(w io.Writer, records []models.ArticleRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.ID,
			r.PublishDate,
			r.Title,
			r.AuthorID,
			strconv.Itoa(r.CommentCount),
			models.JoinTickers(r.PrimaryTickers),
			models.JoinTickers(r.SecondaryTickers),
			r.ImageURL,
			r.Content,
			r.Extracted,
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func readTable(r io.Reader) ([]models.ArticleRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.ArticleRecord{}, nil
		}

		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	if _, ok := index[ColID]; !ok {
		return nil, fmt.Errorf("missing %q column", ColID)
	}

	records := []models.ArticleRecord{}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		cell := func(col string) string {
			if i, ok := index[col]; ok && i < len(row) {
				return row[i]
			}

			return ""
		}

		comments, _ := strconv.Atoi(cell(ColCommentCount))

		records = append(records, models.ArticleRecord{
			ID:               cell(ColID),
			PublishDate:      cell(ColPublishDate),
			Title:            cell(ColTitle),
			AuthorID:         cell(ColAuthorID),
			CommentCount:     comments,
			PrimaryTickers:   models.SplitTickers(cell(ColPrimaryTickers)),
			SecondaryTickers: models.SplitTickers(cell(ColSecondaryTickers)),
			ImageURL:         cell(ColImageURL),
			Content:          cell(ColContent),
			Extracted:        cell(ColExtracted),
		})
	}

	return records, nil
}

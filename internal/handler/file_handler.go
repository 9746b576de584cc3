package handler

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"newsfetch/internal/dataset"
	"newsfetch/internal/logger"
)

// FileHandler lists and serves the per-symbol tables.
type FileHandler struct {
	store *dataset.Store
	log   *logger.Logger
}

// NewFileHandler creates a file handler.
func NewFileHandler(store *dataset.Store, log *logger.Logger) *FileHandler {
	return &FileHandler{store: store, log: log}
}

// FileResponse describes one table.
type FileResponse struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Size   int64  `json:"size"`
	Rows   int    `json:"rows"`
}

// GetFiles lists every table in the output directory.
func (h *FileHandler) GetFiles(c *gin.Context) {
	names, err := h.store.Files()
	if err != nil {
		h.log.Error("error listing files", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list files"})
		return
	}

	res := make([]FileResponse, 0, len(names))

	for _, name := range names {
		symbol, _ := dataset.SymbolFromFile(name)
		item := FileResponse{Name: name, Symbol: symbol}

		if path, err := h.store.Path(name); err == nil {
			if info, err := os.Stat(path); err == nil {
				item.Size = info.Size()
			}
		}

		if records, err := h.store.Load(symbol); err == nil {
			item.Rows = len(records)
		} else {
			h.log.Warn("error reading table", "file", name, "error", err)
		}

		res = append(res, item)
	}

	c.JSON(http.StatusOK, res)
}

// DownloadFile serves one table as a CSV attachment.
func (h *FileHandler) DownloadFile(c *gin.Context) {
	name := c.Param("name")

	path, err := h.store.Path(name)

	switch {
	case errors.Is(err, dataset.ErrInvalidFileName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file name"})
		return
	case errors.Is(err, dataset.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	case err != nil:
		h.log.Error("error resolving file", "file", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read file"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.FileAttachment(path, name)
}

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/flowfairy/internal/summary"
	"github.com/samcharles93/flowfairy/pkg/fcs"
)

const (
	defaultEventLimit = 1000
	maxEventLimit     = 100000
)

func (s *Server) handleCreateDataset(c *echo.Context) error {
	body, err := readBody(c.Request().Body, s.maxUpload)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return writeError(c, http.StatusRequestEntityTooLarge, errTypeTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", s.maxUpload), "")
		}
		return writeBadRequest(c, err.Error())
	}
	if len(body) == 0 {
		return writeBadRequest(c, "request body is empty")
	}

	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		name = "upload.fcs"
	}

	fd, err := fcs.DecodeContext(c.Request().Context(), bytes.NewReader(body), name, s.opts...)
	if err != nil {
		s.log.Warn("dataset rejected", "name", name, "bytes", len(body), "error", err)
		return writeDecodeError(c, err)
	}
	h, err := fcs.ReadHeader(bytes.NewReader(body))
	if err != nil {
		return writeDecodeError(c, err)
	}

	ds := s.store.Save(name, len(body), h, fd, s.clock())
	s.log.Info("dataset stored", "id", ds.ID, "name", name, "events", ds.Events, "parameters", len(ds.Parameters))
	return c.JSON(http.StatusCreated, ds)
}

func (s *Server) handleListDatasets(c *echo.Context) error {
	return c.JSON(http.StatusOK, DatasetList{
		Object: "list",
		Data:   s.store.List(),
	})
}

func (s *Server) handleGetDataset(c *echo.Context) error {
	rec, ok := s.lookup(c)
	if !ok {
		return writeNotFound(c, "dataset not found")
	}
	return c.JSON(http.StatusOK, rec.Dataset)
}

func (s *Server) handleDeleteDataset(c *echo.Context) error {
	id := c.Param("id")
	if id == "" || !s.store.Delete(id) {
		return writeNotFound(c, "dataset not found")
	}
	return c.JSON(http.StatusOK, DeleteDatasetResp{
		ID:      id,
		Object:  "dataset",
		Deleted: true,
	})
}

func (s *Server) handleKeywords(c *echo.Context) error {
	rec, ok := s.lookup(c)
	if !ok {
		return writeNotFound(c, "dataset not found")
	}
	return c.JSON(http.StatusOK, KeywordList{
		Object:  "list",
		Dataset: rec.Dataset.ID,
		Data:    summary.Keywords(&rec.Data.Metadata, c.QueryParam("prefix")),
	})
}

func (s *Server) handleEvents(c *echo.Context) error {
	rec, ok := s.lookup(c)
	if !ok {
		return writeNotFound(c, "dataset not found")
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 1 || index > len(rec.Data.Parameters) {
		return writeNotFound(c, fmt.Sprintf("parameter %q not found", c.Param("index")))
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	limit, err := queryInt(c, "limit", defaultEventLimit)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	limit = min(limit, maxEventLimit)

	p := rec.Data.Parameters[index-1]
	events := page(p.Events, offset, limit)
	return c.JSON(http.StatusOK, EventPage{
		Object:    "events",
		Dataset:   rec.Dataset.ID,
		Index:     index,
		Parameter: p.ID,
		Offset:    offset,
		Total:     len(p.Events),
		Events:    summary.Values(events),
	})
}

func (s *Server) lookup(c *echo.Context) (*datasetRecord, bool) {
	id := c.Param("id")
	if id == "" {
		return nil, false
	}
	return s.store.Get(id)
}

var errBodyTooLarge = newInvalidRequest("request body too large")

func readBody(r io.Reader, limit int64) ([]byte, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, newInvalidRequest(fmt.Sprintf("read body: %v", err))
	}
	if n > limit {
		return nil, errBodyTooLarge
	}
	return buf.Bytes(), nil
}

func queryInt(c *echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, newInvalidRequest(fmt.Sprintf("%s must be a non-negative integer", name))
	}
	return v, nil
}

// page returns events[offset:offset+limit] clipped to the slice bounds.
func page(events []float64, offset, limit int) []float64 {
	if offset >= len(events) {
		return []float64{}
	}
	end := min(offset+limit, len(events))
	return events[offset:end]
}

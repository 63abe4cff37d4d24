package api

import (
	"github.com/samcharles93/flowfairy/internal/summary"
	"github.com/samcharles93/flowfairy/pkg/fcs"
)

type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Keyword string `json:"keyword,omitempty"`
}

// Dataset is the public view of a stored upload.
type Dataset struct {
	ID         string              `json:"id"`
	Object     string              `json:"object"`
	Name       string              `json:"name"`
	CreatedAt  int64               `json:"created_at"`
	Bytes      int                 `json:"bytes"`
	Version    string              `json:"version"`
	Events     int                 `json:"events"`
	Parameters []summary.Parameter `json:"parameters"`
	Header     *fcs.Header         `json:"header,omitempty"`
}

type DatasetList struct {
	Object string    `json:"object"`
	Data   []Dataset `json:"data"`
}

type KeywordList struct {
	Object  string            `json:"object"`
	Dataset string            `json:"dataset"`
	Data    []summary.Keyword `json:"data"`
}

type EventPage struct {
	Object    string         `json:"object"`
	Dataset   string         `json:"dataset"`
	Index     int            `json:"index"`
	Parameter string         `json:"parameter"`
	Offset    int            `json:"offset"`
	Total     int            `json:"total"`
	Events    summary.Values `json:"events"`
}

type DeleteDatasetResp struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

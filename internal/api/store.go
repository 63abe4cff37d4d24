package api

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/flowfairy/internal/summary"
	"github.com/samcharles93/flowfairy/pkg/fcs"
)

type datasetRecord struct {
	Dataset Dataset
	Data    *fcs.FlowData
}

// DatasetStore keeps decoded uploads in memory.
type DatasetStore struct {
	mu       sync.Mutex
	datasets map[string]*datasetRecord
}

func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		datasets: make(map[string]*datasetRecord),
	}
}

// Save stores fd and returns its public view. Summaries are computed once
// here so reads do not walk the events again.
func (s *DatasetStore) Save(name string, size int, h fcs.Header, fd *fcs.FlowData, now time.Time) Dataset {
	ds := Dataset{
		ID:         newDatasetID(),
		Object:     "dataset",
		Name:       name,
		CreatedAt:  now.Unix(),
		Bytes:      size,
		Version:    fd.Metadata.Version,
		Events:     fd.EventCount(),
		Parameters: summary.Parameters(fd),
		Header:     &h,
	}

	s.mu.Lock()
	s.datasets[ds.ID] = &datasetRecord{Dataset: ds, Data: fd}
	s.mu.Unlock()

	return ds
}

func (s *DatasetStore) Get(id string) (*datasetRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.datasets[id]
	return rec, ok
}

// List returns all datasets, oldest first.
func (s *DatasetStore) List() []Dataset {
	s.mu.Lock()
	out := make([]Dataset, 0, len(s.datasets))
	for _, rec := range s.datasets {
		out = append(out, rec.Dataset)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *DatasetStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[id]; !ok {
		return false
	}
	delete(s.datasets, id)
	return true
}

func newDatasetID() string {
	return "ds_" + uuid.NewString()
}

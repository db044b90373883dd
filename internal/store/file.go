package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ablejobs/matchcore/internal/match"
)

// fixture is the on-disk layout of a file store.
type fixture struct {
	Jobs         []map[string]any `json:"jobs"`
	Candidates   []map[string]any `json:"candidates"`
	Users        []map[string]any `json:"users"`
	Applications []struct {
		JobID       string `json:"jobId"`
		CandidateID string `json:"candidateId"`
	} `json:"applications"`
}

// FileStore serves documents from a JSON export loaded once at open.
type FileStore struct {
	jobs       map[string]match.JobRecord
	candidates map[string]match.CandidateRecord
	users      map[string]match.UserProfile
	applicants map[string][]string
}

func OpenFile(path string) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store file is not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading store file %q: %w", path, err)
	}

	var f fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing store file %q: %w", path, err)
	}

	s := &FileStore{
		jobs:       make(map[string]match.JobRecord, len(f.Jobs)),
		candidates: make(map[string]match.CandidateRecord, len(f.Candidates)),
		users:      make(map[string]match.UserProfile, len(f.Users)),
		applicants: make(map[string][]string),
	}

	for _, doc := range f.Jobs {
		job, err := decodeJob(doc, "")
		if err != nil {
			return nil, err
		}
		s.jobs[job.ID] = job
	}
	for _, doc := range f.Candidates {
		c, err := decodeCandidate(doc, "")
		if err != nil {
			return nil, err
		}
		s.candidates[c.ID] = c
	}
	for _, doc := range f.Users {
		u, err := decodeUser(doc, "")
		if err != nil {
			return nil, err
		}
		s.users[u.ID] = u
	}
	for _, a := range f.Applications {
		s.applicants[a.JobID] = append(s.applicants[a.JobID], a.CandidateID)
	}

	return s, nil
}

func (s *FileStore) Job(_ context.Context, id string) (match.JobRecord, error) {
	job, ok := s.jobs[id]
	if !ok {
		return match.JobRecord{}, notFound(collectionJobs, id)
	}
	return job, nil
}

func (s *FileStore) Candidate(_ context.Context, id string) (match.CandidateRecord, error) {
	c, ok := s.candidates[id]
	if !ok {
		return match.CandidateRecord{}, notFound(collectionCandidates, id)
	}
	return c, nil
}

func (s *FileStore) ApplicantsForJob(_ context.Context, jobID string) ([]match.CandidateRecord, error) {
	if _, ok := s.jobs[jobID]; !ok {
		return nil, notFound(collectionJobs, jobID)
	}

	out := make([]match.CandidateRecord, 0, len(s.applicants[jobID]))
	for _, id := range s.applicants[jobID] {
		if c, ok := s.candidates[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *FileStore) User(_ context.Context, id string) (match.UserProfile, error) {
	u, ok := s.users[id]
	if !ok {
		return match.UserProfile{}, notFound(collectionUsers, id)
	}
	return u, nil
}

func (s *FileStore) Users(_ context.Context) ([]match.UserProfile, error) {
	out := make([]match.UserProfile, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

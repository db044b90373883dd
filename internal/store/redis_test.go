package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newRedisFixture(t *testing.T) *RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	mr.Set("matchcore:jobs:job-1", `{"title":"Frontend Developer","requiredSkills":["React"]}`)
	mr.Set("matchcore:candidates:cand-a", `{"skillCategory":"React"}`)
	mr.Set("matchcore:candidates:cand-b", `{"id":"cand-b","resumeContent":{"summary":"Support","years":3}}`)
	if _, err := mr.Push("matchcore:jobs:job-1:applicants", "cand-b", "missing", "cand-a"); err != nil {
		t.Fatalf("push: %v", err)
	}
	mr.Set("matchcore:users:u1", `{"displayName":"Al","interests":["chess"]}`)
	mr.Set("matchcore:users:u2", `{"displayName":"Bo","activityCount":4}`)
	if _, err := mr.SetAdd("matchcore:users", "u2", "u1"); err != nil {
		t.Fatalf("sadd: %v", err)
	}

	s, err := OpenRedis(context.Background(), RedisConfig{Address: mr.Addr()})
	if err != nil {
		t.Fatalf("open redis: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStore(t *testing.T) {
	s := newRedisFixture(t)
	ctx := context.Background()

	job, err := s.Job(ctx, "job-1")
	if err != nil {
		t.Fatalf("job: %v", err)
	}
	if job.ID != "job-1" || job.Title != "Frontend Developer" {
		t.Fatalf("unexpected job %+v", job)
	}

	applicants, err := s.ApplicantsForJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("applicants: %v", err)
	}
	if len(applicants) != 2 || applicants[0].ID != "cand-b" || applicants[1].ID != "cand-a" {
		t.Fatalf("unexpected applicants %+v", applicants)
	}
	if applicants[0].ResumeContent != "summary: Support\nyears: 3" {
		t.Fatalf("expected structured résumé to be flattened, got %q", applicants[0].ResumeContent)
	}
	if applicants[1].SkillCategory != "React" {
		t.Fatalf("expected decoded skill category, got %+v", applicants[1])
	}

	users, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(users) != 2 || users[0].ID != "u1" || users[1].ActivityCount != 4 {
		t.Fatalf("unexpected users %+v", users)
	}

	if _, err := s.Candidate(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.ApplicantsForJob(ctx, "job-404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown job, got %v", err)
	}
}

func TestRedisStoreBadDocument(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.Set("matchcore:users:u1", `not json`)

	s, err := OpenRedis(context.Background(), RedisConfig{Address: mr.Addr()})
	if err != nil {
		t.Fatalf("open redis: %v", err)
	}
	defer s.Close()

	if _, err := s.User(context.Background(), "u1"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestOpenRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := OpenRedis(context.Background(), RedisConfig{Address: addr}); err == nil {
		t.Fatalf("expected ping error")
	}
}

package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type fakePollRepo struct {
	mu    sync.Mutex
	polls map[uuid.UUID]*domain.Poll
	votes *fakeVoteRepo

	listRecentCalls int
	listFeedCalls   int
	err             error
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{polls: make(map[uuid.UUID]*domain.Poll)}
}

func (r *fakePollRepo) Save(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.polls[poll.ID] = poll
	return nil
}

func (r *fakePollRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return p, nil
}

func (r *fakePollRepo) has(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.polls[id]
	return ok
}

// sorted returns polls newest first, ties broken by id descending.
func (r *fakePollRepo) sorted() []*domain.Poll {
	out := make([]*domain.Poll, 0, len(r.polls))
	for _, p := range r.polls {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out
}

func (r *fakePollRepo) ListRecent(_ context.Context, limit int) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listRecentCalls++
	if r.err != nil {
		return nil, r.err
	}
	all := r.sorted()
	return all[:min(limit, len(all))], nil
}

func (r *fakePollRepo) filtered(q ports.FeedQuery) []*domain.Poll {
	var out []*domain.Poll
	for _, p := range r.sorted() {
		if !p.HasAnyTag(q.Tags) {
			continue
		}
		if q.ExcludeVotedBy != nil && r.votes != nil && r.votes.acted(*q.ExcludeVotedBy, p.ID) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *fakePollRepo) ListFeed(_ context.Context, q ports.FeedQuery) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listFeedCalls++
	if r.err != nil {
		return nil, r.err
	}
	all := r.filtered(q)
	if q.Offset >= len(all) {
		return nil, nil
	}
	return all[q.Offset:min(q.Offset+q.Limit, len(all))], nil
}

func (r *fakePollRepo) CountFeed(_ context.Context, q ports.FeedQuery) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return len(r.filtered(q)), nil
}

type voteKey struct {
	user uuid.UUID
	poll uuid.UUID
}

// fakeVoteRepo enforces one row per (user, poll) like the unique constraint,
// and a poll foreign key when polls is set.
type fakeVoteRepo struct {
	mu    sync.Mutex
	votes map[voteKey]*domain.Vote
	polls *fakePollRepo
	err   error
}

func newFakeVoteRepo(polls *fakePollRepo) *fakeVoteRepo {
	r := &fakeVoteRepo{votes: make(map[voteKey]*domain.Vote), polls: polls}
	if polls != nil {
		polls.votes = r
	}
	return r
}

func (r *fakeVoteRepo) acted(userID, pollID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.votes[voteKey{userID, pollID}]
	return ok
}

func (r *fakeVoteRepo) SaveVote(_ context.Context, vote *domain.Vote) error {
	if r.polls != nil && !r.polls.has(vote.PollID) {
		return domain.ErrPollNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	key := voteKey{vote.UserID, vote.PollID}
	if _, ok := r.votes[key]; ok {
		return domain.ErrAlreadyActed
	}
	r.votes[key] = vote
	return nil
}

func (r *fakeVoteRepo) GetByUserAndPoll(_ context.Context, userID, pollID uuid.UUID) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.votes[voteKey{userID, pollID}], nil
}

func (r *fakeVoteRepo) CountVotesSince(_ context.Context, userID uuid.UUID, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var n int
	for k, v := range r.votes {
		if k.user == userID && !v.IsSkip && !v.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeVoteRepo) ActedPollIDs(_ context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[uuid.UUID]struct{})
	for _, id := range pollIDs {
		if _, ok := r.votes[voteKey{userID, id}]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (r *fakeVoteRepo) CountByOption(_ context.Context, pollID uuid.UUID) (map[int]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[int]int64)
	for k, v := range r.votes {
		if k.poll == pollID && !v.IsSkip && v.OptionIndex != nil {
			out[*v.OptionIndex]++
		}
	}
	return out, nil
}

// fakeStore is a SnapshotStore that counts calls and can be made to fail.
type fakeStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    int
	deletes int
	getErr  error
	setErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	delete(s.data, key)
	return nil
}

// seedPolls stores n polls one minute apart and returns them newest first.
// tags, when set, picks the tags of the i-th oldest poll.
func seedPolls(repo *fakePollRepo, n int, tags func(i int) []string) []*domain.Poll {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out := make([]*domain.Poll, n)
	for i := 0; i < n; i++ {
		p := &domain.Poll{
			ID:        uuid.New(),
			Title:     "Poll",
			Options:   []string{"A", "B", "C"},
			Tags:      []string{},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if tags != nil {
			p.Tags = tags(i)
		}
		repo.polls[p.ID] = p
		out[n-1-i] = p
	}
	return out
}

func ids(polls []*domain.Poll) []uuid.UUID {
	out := make([]uuid.UUID, len(polls))
	for i, p := range polls {
		out[i] = p.ID
	}
	return out
}

package devbackend

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash string
	IsSuperuser  bool
	IsStaff      bool
	LastLogin    *time.Time
}

type Comment struct {
	ID        int
	Project   int
	Example   int
	User      int
	Username  string
	Text      string
	Label     *int
	CreatedAt time.Time
}

type Annotation struct {
	ID          int
	Project     int
	Example     int
	User        int
	StartOffset int
	EndOffset   int
	Label       int
	Text        string
}

type VotingSession struct {
	ID          int
	Project     int
	Questions   []string
	VoteEndDate *string
	Finish      bool
	CreatedAt   time.Time
}

type VoteAnswer struct {
	ID        int
	Session   int
	User      int
	Username  string
	Answer    []string
	CreatedAt time.Time
}

// HistoryTask is an annotation history export that becomes ready at ReadyAt.
type HistoryTask struct {
	ID      uuid.UUID
	Project int
	Dataset *string
	Status  string
	ReadyAt time.Time
	Records []map[string]any
}

func (t HistoryTask) Ready(now time.Time) bool {
	return !now.Before(t.ReadyAt)
}

// CommentFilter narrows ListComments. Nil fields match everything.
type CommentFilter struct {
	Example *int
	Label   *int
	Q       string
}

// Store keeps every dev backend resource in memory.
type Store struct {
	mu sync.RWMutex

	nextID      int
	users       []User
	comments    []Comment
	annotations []Annotation
	sessions    []VotingSession
	answers     []VoteAnswer
	tasks       map[uuid.UUID]HistoryTask

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		tasks: make(map[uuid.UUID]HistoryTask),
		now:   time.Now,
	}
}

func (s *Store) id() int {
	s.nextID++
	return s.nextID
}

//
// Users
//

func (s *Store) CreateUser(u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.users, func(x User) bool { return strings.EqualFold(x.Username, u.Username) }) {
		return User{}, ErrUsernameTaken
	}

	u.ID = s.id()
	s.users = append(s.users, u)
	return u, nil
}

func (s *Store) ListUsers() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

func (s *Store) UserByID(id int) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.users, func(u User) bool { return u.ID == id })
	if i < 0 {
		return User{}, ErrNotFound
	}
	return s.users[i], nil
}

func (s *Store) UserByUsername(username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.users, func(u User) bool { return u.Username == username })
	if i < 0 {
		return User{}, ErrNotFound
	}
	return s.users[i], nil
}

// UpdateUser applies fn to the stored user and returns the result.
func (s *Store) UpdateUser(id int, fn func(*User)) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.users, func(u User) bool { return u.ID == id })
	if i < 0 {
		return User{}, ErrNotFound
	}

	updated := s.users[i]
	fn(&updated)
	if slices.ContainsFunc(s.users, func(x User) bool {
		return x.ID != id && strings.EqualFold(x.Username, updated.Username)
	}) {
		return User{}, ErrUsernameTaken
	}

	s.users[i] = updated
	return updated, nil
}

func (s *Store) DeleteUser(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.users)
	s.users = slices.DeleteFunc(s.users, func(u User) bool { return u.ID == id })
	if len(s.users) == n {
		return ErrNotFound
	}
	return nil
}

//
// Comments
//

// ListComments returns the project's comments oldest first.
func (s *Store) ListComments(projectID int, f CommentFilter) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(f.Q)
	out := []Comment{}
	for _, c := range s.comments {
		if c.Project != projectID {
			continue
		}
		if f.Example != nil && c.Example != *f.Example {
			continue
		}
		if f.Label != nil && (c.Label == nil || *c.Label != *f.Label) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Text), q) && !strings.Contains(strings.ToLower(c.Username), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *Store) AddComment(c Comment) Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.id()
	c.CreatedAt = s.now().UTC()
	s.comments = append(s.comments, c)
	return c
}

func (s *Store) Comment(projectID, id int) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.comments, func(c Comment) bool { return c.Project == projectID && c.ID == id })
	if i < 0 {
		return Comment{}, ErrNotFound
	}
	return s.comments[i], nil
}

func (s *Store) UpdateComment(c Comment) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.comments, func(x Comment) bool { return x.Project == c.Project && x.ID == c.ID })
	if i < 0 {
		return Comment{}, ErrNotFound
	}

	stored := s.comments[i]
	stored.Text = c.Text
	stored.Label = c.Label
	s.comments[i] = stored
	return stored, nil
}

// DeleteComments removes the given ids from the project and reports how many were found.
func (s *Store) DeleteComments(projectID int, ids ...int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.comments)
	s.comments = slices.DeleteFunc(s.comments, func(c Comment) bool {
		return c.Project == projectID && slices.Contains(ids, c.ID)
	})
	return n - len(s.comments)
}

//
// Annotations
//

func (s *Store) AddAnnotation(a Annotation) Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.id()
	s.annotations = append(s.annotations, a)
	return a
}

func (s *Store) Annotations(projectID, exampleID, userID int) []Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Annotation{}
	for _, a := range s.annotations {
		if a.Project == projectID && a.Example == exampleID && a.User == userID {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) projectAnnotations(projectID int) []Annotation {
	out := []Annotation{}
	for _, a := range s.annotations {
		if a.Project == projectID {
			out = append(out, a)
		}
	}
	return out
}

//
// Voting
//

func (s *Store) ListSessions(projectID int) []VotingSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []VotingSession{}
	for _, v := range s.sessions {
		if v.Project == projectID {
			out = append(out, v)
		}
	}
	return out
}

func (s *Store) CreateSession(v VotingSession) VotingSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	v.ID = s.id()
	v.CreatedAt = s.now().UTC()
	s.sessions = append(s.sessions, v)
	return v
}

func (s *Store) Session(projectID, id int) (VotingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.sessions, func(v VotingSession) bool { return v.Project == projectID && v.ID == id })
	if i < 0 {
		return VotingSession{}, ErrNotFound
	}
	return s.sessions[i], nil
}

func (s *Store) SetSessionFinished(projectID, id int, finish bool) (VotingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.sessions, func(v VotingSession) bool { return v.Project == projectID && v.ID == id })
	if i < 0 {
		return VotingSession{}, ErrNotFound
	}
	s.sessions[i].Finish = finish
	return s.sessions[i], nil
}

func (s *Store) ListVoteAnswers(sessionID int) []VoteAnswer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []VoteAnswer{}
	for _, a := range s.answers {
		if a.Session == sessionID {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) AddVoteAnswer(a VoteAnswer) VoteAnswer {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.id()
	a.CreatedAt = s.now().UTC()
	s.answers = append(s.answers, a)
	return a
}

//
// Annotation history
//

// CreateTask snapshots the project's annotations into a task that is ready after delay.
func (s *Store) CreateTask(projectID int, dataset *string, status string, delay time.Duration) HistoryTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := []map[string]any{}
	for _, a := range s.projectAnnotations(projectID) {
		records = append(records, map[string]any{
			"example_id":   a.Example,
			"annotator_id": a.User,
			"label":        a.Label,
			"text":         a.Text,
			"start_offset": a.StartOffset,
			"end_offset":   a.EndOffset,
		})
	}

	task := HistoryTask{
		ID:      uuid.New(),
		Project: projectID,
		Dataset: dataset,
		Status:  status,
		ReadyAt: s.now().Add(delay),
		Records: records,
	}
	s.tasks[task.ID] = task
	return task
}

func (s *Store) Task(projectID int, id uuid.UUID) (HistoryTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok || task.Project != projectID {
		return HistoryTask{}, ErrNotFound
	}
	return task, nil
}

// Now is the store clock.
func (s *Store) Now() time.Time {
	return s.now()
}

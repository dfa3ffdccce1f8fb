package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
	"bibliotheque/kernel/workflow"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the identity repository, clock
// and id generator ports. It is intended for tests and local development.
type Store struct {
	mu sync.RWMutex

	users       map[string]entities.User
	byEmail     map[string]string
	assignments map[string]map[workflow.Role]entities.RoleAssignment
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]entities.User),
		byEmail:     make(map[string]string),
		assignments: make(map[string]map[workflow.Role]entities.RoleAssignment),
	}
}

func (s *Store) CreateUser(_ context.Context, user entities.User, initial entities.RoleAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return domainerrors.ErrEmailTaken
	}
	if _, exists := s.users[user.UserID]; exists {
		return domainerrors.ErrEmailTaken
	}
	s.users[user.UserID] = user
	s.byEmail[user.Email] = user.UserID
	s.assignments[user.UserID] = map[workflow.Role]entities.RoleAssignment{
		initial.Role: initial,
	}
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[strings.TrimSpace(userID)]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return s.users[userID], nil
}

func (s *Store) ListRoleAssignments(_ context.Context, userID string) ([]entities.RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.RoleAssignment, 0, len(s.assignments[userID]))
	for _, assignment := range s.assignments[userID] {
		items = append(items, assignment)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].GrantedAt.Before(items[j].GrantedAt)
	})
	return items, nil
}

func (s *Store) GrantRole(_ context.Context, assignment entities.RoleAssignment) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[assignment.UserID]; !ok {
		return false, domainerrors.ErrUserNotFound
	}
	roles := s.assignments[assignment.UserID]
	if roles == nil {
		roles = make(map[workflow.Role]entities.RoleAssignment)
		s.assignments[assignment.UserID] = roles
	}
	if _, exists := roles[assignment.Role]; exists {
		return false, nil
	}
	roles[assignment.Role] = assignment
	return true, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

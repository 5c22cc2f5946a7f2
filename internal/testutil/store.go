// Package testutil provides in-memory stores that satisfy the service
// boundaries, for tests that do not need Postgres.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cytutor/backend/internal/model"
	"github.com/cytutor/backend/internal/service"
)

type account struct {
	model.Account
	passwordHash string
}

type solve struct {
	userID      int64
	challengeID int64
	solvedAt    time.Time
}

// MemoryStore keeps accounts, revocations, challenges and solves in maps.
type MemoryStore struct {
	mu         sync.Mutex
	now        func() time.Time
	nextUserID int64
	accounts   map[int64]*account
	revoked    map[string]model.RevokedToken
	nextChalID int64
	challenges map[int64]*model.Challenge
	flags      map[int64]string
	solves     []solve

	// RevocationChecks counts IsRevoked calls.
	RevocationChecks int
	// AccountLookups counts GetAccountByID calls.
	AccountLookups int
	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:        time.Now,
		accounts:   make(map[int64]*account),
		revoked:    make(map[string]model.RevokedToken),
		challenges: make(map[int64]*model.Challenge),
		flags:      make(map[int64]string),
	}
}

// SetClock replaces the clock used for expiry and timestamps.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryStore) FindAccountByLogin(ctx context.Context, login string) (*model.AccountCredentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	email := strings.ToLower(login)
	for _, a := range m.accounts {
		if a.Username == login || a.Email == email {
			return &model.AccountCredentials{Account: a.Account, PasswordHash: a.passwordHash}, nil
		}
	}
	return nil, service.ErrUserNotFound
}

func (m *MemoryStore) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AccountLookups++
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.accounts[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	acc := a.Account
	return &acc, nil
}

func (m *MemoryStore) AccountExists(ctx context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	return m.conflicts(username, email), nil
}

func (m *MemoryStore) conflicts(username, email string) bool {
	for _, a := range m.accounts {
		if a.Username == username || a.Email == email {
			return true
		}
	}
	return false
}

// CreateAccount enforces the same uniqueness the UNIQUE constraints do.
func (m *MemoryStore) CreateAccount(ctx context.Context, params model.NewAccount) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.conflicts(params.Username, params.Email) {
		return nil, service.ErrUserExists
	}
	m.nextUserID++
	now := m.now()
	a := &account{
		Account: model.Account{
			ID:        m.nextUserID,
			Username:  params.Username,
			Email:     params.Email,
			FirstName: params.FirstName,
			LastName:  params.LastName,
			Role:      params.Role,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: params.PasswordHash,
	}
	if a.Role == "" {
		a.Role = model.RoleStudent
	}
	m.accounts[a.ID] = a
	acc := a.Account
	return &acc, nil
}

func (m *MemoryStore) SetAccountActive(ctx context.Context, id int64, active bool) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.accounts[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	a.IsActive = active
	a.UpdatedAt = m.now()
	acc := a.Account
	return &acc, nil
}

// SetRole changes an account's role; there is no HTTP route for it.
func (m *MemoryStore) SetRole(id int64, role model.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok {
		a.Role = role
	}
}

// SetPasswordHash overwrites the stored hash, e.g. to simulate corruption.
func (m *MemoryStore) SetPasswordHash(id int64, hash string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok {
		a.passwordHash = hash
	}
}

func (m *MemoryStore) GetAccountStats(ctx context.Context, id int64) (model.AccountStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return model.AccountStats{}, m.Err
	}
	var stats model.AccountStats
	for _, s := range m.solves {
		if s.userID != id {
			continue
		}
		stats.ChallengesSolved++
		if c, ok := m.challenges[s.challengeID]; ok {
			stats.TotalPoints += int64(c.Points)
		}
	}
	return stats, nil
}

func (m *MemoryStore) Revoke(ctx context.Context, accountID int64, tokenHash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.revoked[tokenHash]; ok {
		return nil
	}
	m.revoked[tokenHash] = model.RevokedToken{
		ID:        int64(len(m.revoked) + 1),
		UserID:    accountID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: m.now(),
	}
	return nil
}

func (m *MemoryStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RevocationChecks++
	if m.Err != nil {
		return false, m.Err
	}
	record, ok := m.revoked[tokenHash]
	return ok && record.ExpiresAt.After(m.now()), nil
}

func (m *MemoryStore) PruneExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var pruned int64
	now := m.now()
	for hash, record := range m.revoked {
		if !record.ExpiresAt.After(now) {
			delete(m.revoked, hash)
			pruned++
		}
	}
	return pruned, nil
}

// RevokedCount returns the number of stored revocation records.
func (m *MemoryStore) RevokedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.revoked)
}

// AddChallenge seeds a challenge with its flag and returns its id.
func (m *MemoryStore) AddChallenge(c model.Challenge, flag string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextChalID++
	c.ID = m.nextChalID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.now().Add(time.Duration(c.ID) * time.Second)
	}
	c.UpdatedAt = c.CreatedAt
	m.challenges[c.ID] = &c
	m.flags[c.ID] = flag
	return c.ID
}

func (m *MemoryStore) solvedAt(userID, challengeID int64) (time.Time, bool) {
	for _, s := range m.solves {
		if s.userID == userID && s.challengeID == challengeID {
			return s.solvedAt, true
		}
	}
	return time.Time{}, false
}

func (m *MemoryStore) ListChallenges(ctx context.Context, filter model.ChallengeFilter) ([]model.ChallengeSummary, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	var matched []model.ChallengeSummary
	for _, c := range m.challenges {
		if !c.IsActive {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if filter.Difficulty != "" && c.Difficulty != filter.Difficulty {
			continue
		}
		_, solved := m.solvedAt(filter.UserID, c.ID)
		matched = append(matched, model.ChallengeSummary{Challenge: *c, Solved: solved})
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *MemoryStore) GetChallengeDetail(ctx context.Context, userID, challengeID int64) (*model.ChallengeDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.challenges[challengeID]
	if !ok || !c.IsActive {
		return nil, service.ErrChallengeNotFound
	}
	detail := &model.ChallengeDetail{Challenge: *c}
	if at, solved := m.solvedAt(userID, challengeID); solved {
		attempts, hints := int32(1), int32(0)
		detail.Solved = true
		detail.SolvedAt = &at
		detail.Attempts = &attempts
		detail.HintsUsed = &hints
	}
	return detail, nil
}

func (m *MemoryStore) GetChallengeSecret(ctx context.Context, challengeID int64) (*model.ChallengeSecret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.challenges[challengeID]
	if !ok || !c.IsActive {
		return nil, service.ErrChallengeNotFound
	}
	return &model.ChallengeSecret{ID: c.ID, Name: c.Name, Flag: m.flags[c.ID], Points: c.Points}, nil
}

func (m *MemoryStore) HasSolved(ctx context.Context, userID, challengeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, solved := m.solvedAt(userID, challengeID)
	return solved, nil
}

func (m *MemoryStore) RecordSolve(ctx context.Context, userID, challengeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, solved := m.solvedAt(userID, challengeID); solved {
		return service.ErrAlreadySolved
	}
	m.solves = append(m.solves, solve{userID: userID, challengeID: challengeID, solvedAt: m.now()})
	return nil
}

func (m *MemoryStore) GetProgress(ctx context.Context, userID int64, recentLimit int) (*model.ProgressResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	progress := &model.ProgressResponse{}
	solvedCategories := make(map[string]struct{})
	for i := len(m.solves) - 1; i >= 0; i-- {
		s := m.solves[i]
		if s.userID != userID {
			continue
		}
		c := m.challenges[s.challengeID]
		progress.Overall.TotalSolved++
		progress.Overall.TotalPoints += int64(c.Points)
		solvedCategories[c.Category] = struct{}{}
		if len(progress.RecentSolves) < recentLimit {
			progress.RecentSolves = append(progress.RecentSolves, model.RecentSolve{
				Name: c.Name, Category: c.Category, Difficulty: c.Difficulty, Points: c.Points, SolvedAt: s.solvedAt,
			})
		}
	}
	progress.Overall.CategoriesCompleted = int64(len(solvedCategories))

	byCategory := make(map[string]*model.CategoryProgress)
	for _, c := range m.challenges {
		if !c.IsActive {
			continue
		}
		cp, ok := byCategory[c.Category]
		if !ok {
			cp = &model.CategoryProgress{Category: c.Category}
			byCategory[c.Category] = cp
		}
		cp.TotalChallenges++
		if _, solved := m.solvedAt(userID, c.ID); solved {
			cp.SolvedChallenges++
			cp.PointsEarned += int64(c.Points)
		}
	}
	for _, cp := range byCategory {
		progress.Categories = append(progress.Categories, *cp)
	}
	sort.Slice(progress.Categories, func(i, j int) bool {
		return progress.Categories[i].Category < progress.Categories[j].Category
	})
	return progress, nil
}

func (m *MemoryStore) CreateChallenge(ctx context.Context, req model.CreateChallengeRequest) (*model.Challenge, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	description := req.Description
	c := model.Challenge{
		Name:        req.Name,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		Description: &description,
		DockerImage: req.DockerImage,
		Port:        req.Port,
		IsActive:    true,
	}
	if req.Points != nil {
		c.Points = *req.Points
	}
	id := m.AddChallenge(c, req.Flag)

	m.mu.Lock()
	defer m.mu.Unlock()
	created := *m.challenges[id]
	return &created, nil
}

func (m *MemoryStore) UpdateChallenge(ctx context.Context, challengeID int64, req model.UpdateChallengeRequest) (*model.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.challenges[challengeID]
	if !ok {
		return nil, service.ErrChallengeNotFound
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Category != nil {
		c.Category = *req.Category
	}
	if req.Difficulty != nil {
		c.Difficulty = *req.Difficulty
	}
	if req.Description != nil {
		description := *req.Description
		c.Description = &description
	}
	if req.Flag != nil {
		m.flags[challengeID] = *req.Flag
	}
	if req.Points != nil {
		c.Points = *req.Points
	}
	if req.DockerImage != nil {
		c.DockerImage = req.DockerImage
	}
	if req.Port != nil {
		c.Port = req.Port
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	c.UpdatedAt = m.now()
	updated := *c
	return &updated, nil
}

var (
	_ service.AccountStore    = (*MemoryStore)(nil)
	_ service.RevocationStore = (*MemoryStore)(nil)
	_ service.ChallengeStore  = (*MemoryStore)(nil)
)

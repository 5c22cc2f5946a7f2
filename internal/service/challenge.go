package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cytutor/backend/internal/model"
)

const (
	defaultPage       = 1
	defaultPageLimit  = 20
	maxPageLimit      = 100
	maxPage           = 100000
	defaultPoints     = 100
	recentSolvesLimit = 10
)

// ChallengeStore is the persistence boundary for challenges and progress.
// Missing or inactive challenges are ErrChallengeNotFound.
type ChallengeStore interface {
	ListChallenges(ctx context.Context, filter model.ChallengeFilter) ([]model.ChallengeSummary, int64, error)
	GetChallengeDetail(ctx context.Context, userID, challengeID int64) (*model.ChallengeDetail, error)
	GetChallengeSecret(ctx context.Context, challengeID int64) (*model.ChallengeSecret, error)
	HasSolved(ctx context.Context, userID, challengeID int64) (bool, error)
	RecordSolve(ctx context.Context, userID, challengeID int64) error
	GetProgress(ctx context.Context, userID int64, recentLimit int) (*model.ProgressResponse, error)
	CreateChallenge(ctx context.Context, req model.CreateChallengeRequest) (*model.Challenge, error)
	UpdateChallenge(ctx context.Context, challengeID int64, req model.UpdateChallengeRequest) (*model.Challenge, error)
}

type ChallengeService struct {
	store ChallengeStore
	log   logrus.FieldLogger
}

func NewChallengeService(store ChallengeStore, log logrus.FieldLogger) *ChallengeService {
	return &ChallengeService{store: store, log: log}
}

func (s *ChallengeService) List(ctx context.Context, userID int64, query model.ListChallengesQuery) (*model.ChallengeListResponse, error) {
	if query.Page == 0 {
		query.Page = defaultPage
	}
	if query.Limit == 0 {
		query.Limit = defaultPageLimit
	}
	if query.Page < 1 || query.Page > maxPage || query.Limit < 1 || query.Limit > maxPageLimit {
		return nil, ErrInvalidInput
	}

	filter := model.ChallengeFilter{
		UserID:     userID,
		Category:   strings.TrimSpace(query.Category),
		Difficulty: strings.TrimSpace(query.Difficulty),
		Page:       query.Page,
		Limit:      query.Limit,
	}
	challenges, total, err := s.store.ListChallenges(ctx, filter)
	if err != nil {
		return nil, err
	}
	if challenges == nil {
		challenges = []model.ChallengeSummary{}
	}

	return &model.ChallengeListResponse{
		Challenges: challenges,
		Pagination: model.Pagination{
			CurrentPage: filter.Page,
			TotalPages:  int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
			TotalCount:  total,
			Limit:       filter.Limit,
		},
	}, nil
}

func (s *ChallengeService) Get(ctx context.Context, userID, challengeID int64) (*model.ChallengeDetail, error) {
	if challengeID <= 0 {
		return nil, ErrChallengeNotFound
	}
	return s.store.GetChallengeDetail(ctx, userID, challengeID)
}

// Submit checks a flag trimmed and case-insensitively and records the first
// correct submission.
func (s *ChallengeService) Submit(ctx context.Context, userID, challengeID int64, flag string) (*model.SubmitFlagResponse, error) {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return nil, ErrMissingFlag
	}
	if challengeID <= 0 {
		return nil, ErrChallengeNotFound
	}

	challenge, err := s.store.GetChallengeSecret(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	solved, err := s.store.HasSolved(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if solved {
		return nil, ErrAlreadySolved
	}

	if !flagsMatch(flag, challenge.Flag) {
		s.log.WithFields(logrus.Fields{"user_id": userID, "challenge_id": challengeID}).Debug("incorrect flag")
		return nil, ErrIncorrectFlag
	}

	if err := s.store.RecordSolve(ctx, userID, challengeID); err != nil {
		if errors.Is(err, ErrAlreadySolved) || isUniqueViolation(err) {
			return nil, ErrAlreadySolved
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "challenge_id": challengeID, "points": challenge.Points}).Info("challenge solved")
	return &model.SubmitFlagResponse{
		Message: "Congratulations! Flag is correct!",
		Success: true,
		Points:  challenge.Points,
	}, nil
}

func (s *ChallengeService) Progress(ctx context.Context, userID int64) (*model.ProgressResponse, error) {
	progress, err := s.store.GetProgress(ctx, userID, recentSolvesLimit)
	if err != nil {
		return nil, err
	}
	for i := range progress.Categories {
		c := &progress.Categories[i]
		if c.TotalChallenges > 0 {
			c.CompletionRate = (c.SolvedChallenges*100 + c.TotalChallenges/2) / c.TotalChallenges
		}
	}
	if progress.Categories == nil {
		progress.Categories = []model.CategoryProgress{}
	}
	if progress.RecentSolves == nil {
		progress.RecentSolves = []model.RecentSolve{}
	}
	return progress, nil
}

func (s *ChallengeService) Create(ctx context.Context, req model.CreateChallengeRequest) (*model.Challenge, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	req.Difficulty = strings.TrimSpace(req.Difficulty)
	req.Flag = strings.TrimSpace(req.Flag)
	if req.Name == "" || req.Category == "" || req.Difficulty == "" || strings.TrimSpace(req.Description) == "" || req.Flag == "" {
		return nil, ErrMissingFields
	}
	if req.Points == nil {
		points := int32(defaultPoints)
		req.Points = &points
	}
	return s.store.CreateChallenge(ctx, req)
}

func (s *ChallengeService) Update(ctx context.Context, challengeID int64, req model.UpdateChallengeRequest) (*model.Challenge, error) {
	if challengeID <= 0 {
		return nil, ErrChallengeNotFound
	}
	if req.Flag != nil {
		flag := strings.TrimSpace(*req.Flag)
		if flag == "" {
			return nil, ErrInvalidInput
		}
		req.Flag = &flag
	}
	return s.store.UpdateChallenge(ctx, challengeID, req)
}

func flagsMatch(submitted, expected string) bool {
	a := []byte(strings.ToLower(submitted))
	b := []byte(strings.ToLower(strings.TrimSpace(expected)))
	return subtle.ConstantTimeCompare(a, b) == 1
}

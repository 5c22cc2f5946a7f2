package model

import "time"

type Challenge struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	Description *string   `json:"description"`
	Points      int32     `json:"points"`
	DockerImage *string   `json:"dockerImage"`
	Port        *int32    `json:"port"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ChallengeSummary is a challenge as seen by one user.
type ChallengeSummary struct {
	Challenge
	Solved bool `json:"solved"`
}

type ChallengeDetail struct {
	Challenge
	Solved    bool       `json:"solved"`
	SolvedAt  *time.Time `json:"solvedAt"`
	Attempts  *int32     `json:"attempts"`
	HintsUsed *int32     `json:"hintsUsed"`
}

// ChallengeSecret holds the flag used for submission checks; never serialized.
type ChallengeSecret struct {
	ID     int64
	Name   string
	Flag   string
	Points int32
}

type ChallengeFilter struct {
	UserID     int64
	Category   string
	Difficulty string
	Page       int
	Limit      int
}

func (f ChallengeFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type ListChallengesQuery struct {
	Category   string `form:"category"`
	Difficulty string `form:"difficulty"`
	Page       int    `form:"page,default=1" binding:"min=1,max=100000"`
	Limit      int    `form:"limit,default=20" binding:"min=1,max=100"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
}

type ChallengeListResponse struct {
	Challenges []ChallengeSummary `json:"challenges"`
	Pagination Pagination         `json:"pagination"`
}

type ChallengeDetailResponse struct {
	Challenge ChallengeDetail `json:"challenge"`
}

type CreateChallengeRequest struct {
	Name        string  `json:"name" binding:"max=100"`
	Category    string  `json:"category" binding:"max=50"`
	Difficulty  string  `json:"difficulty" binding:"max=20"`
	Description string  `json:"description"`
	Flag        string  `json:"flag" binding:"max=255"`
	Points      *int32  `json:"points" binding:"omitempty,min=0"`
	DockerImage *string `json:"dockerImage" binding:"omitempty,max=200"`
	Port        *int32  `json:"port" binding:"omitempty,min=1,max=65535"`
}

// UpdateChallengeRequest applies only the fields that are present.
type UpdateChallengeRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Category    *string `json:"category" binding:"omitempty,min=1,max=50"`
	Difficulty  *string `json:"difficulty" binding:"omitempty,min=1,max=20"`
	Description *string `json:"description"`
	Flag        *string `json:"flag" binding:"omitempty,min=1,max=255"`
	Points      *int32  `json:"points" binding:"omitempty,min=0"`
	DockerImage *string `json:"dockerImage" binding:"omitempty,max=200"`
	Port        *int32  `json:"port" binding:"omitempty,min=1,max=65535"`
	IsActive    *bool   `json:"isActive"`
}

type ChallengeMutationResponse struct {
	Message   string    `json:"message"`
	Challenge Challenge `json:"challenge"`
}

type SubmitFlagRequest struct {
	Flag string `json:"flag"`
}

type SubmitFlagResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Points  int32  `json:"points,omitempty"`
	Error   string `json:"error,omitempty"`
}

type OverallProgress struct {
	TotalSolved         int64 `json:"totalSolved"`
	TotalPoints         int64 `json:"totalPoints"`
	CategoriesCompleted int64 `json:"categoriesCompleted"`
}

type CategoryProgress struct {
	Category         string `json:"category"`
	TotalChallenges  int64  `json:"totalChallenges"`
	SolvedChallenges int64  `json:"solvedChallenges"`
	PointsEarned     int64  `json:"pointsEarned"`
	CompletionRate   int64  `json:"completionRate"`
}

type RecentSolve struct {
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	Points     int32     `json:"points"`
	SolvedAt   time.Time `json:"solvedAt"`
}

type ProgressResponse struct {
	Overall      OverallProgress    `json:"overall"`
	Categories   []CategoryProgress `json:"categories"`
	RecentSolves []RecentSolve      `json:"recentSolves"`
}

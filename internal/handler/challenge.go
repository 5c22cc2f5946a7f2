package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cytutor/backend/internal/model"
	"github.com/cytutor/backend/internal/service"
)

type ChallengeHandler struct {
	svc *service.ChallengeService
	log logrus.FieldLogger
}

func NewChallengeHandler(svc *service.ChallengeService, log logrus.FieldLogger) *ChallengeHandler {
	return &ChallengeHandler{svc: svc, log: log}
}

// List godoc
// @Summary List active challenges
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category filter"
// @Param difficulty query string false "Difficulty filter"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} model.ChallengeListResponse
// @Failure 400 {object} model.ValidationErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/challenges [get]
func (h *ChallengeHandler) List(c *gin.Context) {
	var query model.ListChallengesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), GetIdentity(c).Account.ID, query)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Challenge detail with the caller's progress
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} model.ChallengeDetailResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/challenges/{id} [get]
func (h *ChallengeHandler) Get(c *gin.Context) {
	id, ok := h.challengeID(c)
	if !ok {
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), GetIdentity(c).Account.ID, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.ChallengeDetailResponse{Challenge: *detail})
}

// Submit godoc
// @Summary Submit a flag
// @Tags challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Param request body model.SubmitFlagRequest true "Flag"
// @Success 200 {object} model.SubmitFlagResponse
// @Failure 400 {object} model.SubmitFlagResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/challenges/{id}/submit [post]
func (h *ChallengeHandler) Submit(c *gin.Context) {
	id, ok := h.challengeID(c)
	if !ok {
		return
	}

	var req model.SubmitFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, service.ErrMissingFlag)
		return
	}

	resp, err := h.svc.Submit(c.Request.Context(), GetIdentity(c).Account.ID, id, req.Flag)
	if err != nil {
		if errors.Is(err, service.ErrIncorrectFlag) {
			c.JSON(http.StatusBadRequest, model.SubmitFlagResponse{
				Message: "Incorrect flag. Try again!",
				Success: false,
				Error:   string(service.KindIncorrectFlag),
			})
			return
		}
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Progress godoc
// @Summary Caller's solve statistics
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ProgressResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/progress [get]
func (h *ChallengeHandler) Progress(c *gin.Context) {
	progress, err := h.svc.Progress(c.Request.Context(), GetIdentity(c).Account.ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Create godoc
// @Summary Create a challenge
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateChallengeRequest true "Challenge"
// @Success 201 {object} model.ChallengeMutationResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.PermissionErrorResponse
// @Router /api/challenges [post]
func (h *ChallengeHandler) Create(c *gin.Context) {
	var req model.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	challenge, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.WithFields(logrus.Fields{"challenge_id": challenge.ID, "admin_id": GetIdentity(c).Account.ID}).Info("challenge created")
	c.JSON(http.StatusCreated, model.ChallengeMutationResponse{
		Message:   "Challenge created successfully",
		Challenge: *challenge,
	})
}

// Update godoc
// @Summary Update a challenge
// @Description Only the fields present in the body change.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Param request body model.UpdateChallengeRequest true "Fields to change"
// @Success 200 {object} model.ChallengeMutationResponse
// @Failure 400 {object} model.ValidationErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.PermissionErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/challenges/{id} [put]
func (h *ChallengeHandler) Update(c *gin.Context) {
	id, ok := h.challengeID(c)
	if !ok {
		return
	}

	var req model.UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	challenge, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.WithFields(logrus.Fields{"challenge_id": challenge.ID, "admin_id": GetIdentity(c).Account.ID}).Info("challenge updated")
	c.JSON(http.StatusOK, model.ChallengeMutationResponse{
		Message:   "Challenge updated successfully",
		Challenge: *challenge,
	})
}

func (h *ChallengeHandler) challengeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, h.log, service.ErrChallengeNotFound)
		return 0, false
	}
	return id, true
}

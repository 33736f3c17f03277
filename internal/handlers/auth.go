package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hjarnor/hjarnor/internal/events"
	"github.com/hjarnor/hjarnor/internal/hash"
	"github.com/hjarnor/hjarnor/internal/logging"
	"github.com/hjarnor/hjarnor/internal/models"
	"github.com/hjarnor/hjarnor/internal/tokens"
)

type AuthHandler struct {
	DB       *gorm.DB
	Tokens   *tokens.Service
	Producer *events.Producer
}

type registerBrainRequest struct {
	Name                 string `json:"name"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginAsBrainRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func publish(c echo.Context, p *events.Producer, topic, key string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "error", err)
	}
}

func (h *AuthHandler) RegisterBrain(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "register_brain")

	var req registerBrainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and password must not be empty")
	}
	if req.Password != req.PasswordConfirmation {
		return echo.NewHTTPError(http.StatusBadRequest, "passwords do not match")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong registering the brain")
	}

	var existing models.Brain
	err = h.DB.Where("brainname = ?", req.Name).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "brainname already taken")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong registering the brain")
	}

	brain := models.Brain{
		Brainname:    req.Name,
		PasswordHash: pwHash,
	}
	if err := h.DB.Create(&brain).Error; err != nil {
		// The unique index on brainname is the authoritative gate; the
		// pre-check above only exists for a friendlier message.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusBadRequest, "brainname already taken")
		}
		l.Error("register_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong registering the brain")
	}

	token, err := h.Tokens.Issue(brain.ID, brain.Brainname)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong registering the brain")
	}

	publish(c, h.Producer, events.BrainTopic, brain.ID.String(), map[string]interface{}{
		"type":      "brain_registered",
		"brainID":   brain.ID,
		"brainname": brain.Brainname,
	})

	l.Info("brain_registered", "brain_id", brain.ID)
	return c.JSON(http.StatusCreated, token)
}

func (h *AuthHandler) LoginAsBrain(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "login_as_brain")

	var req loginAsBrainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var brain models.Brain
	if err := h.DB.Where("brainname = ?", req.Name).First(&brain).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("login_failed", "status", 500, "error", err)
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "Unknown brain!")
	}

	if !hash.CheckPassword(brain.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "password verification failed")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid password!")
	}

	token, err := h.Tokens.Issue(brain.ID, brain.Brainname)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong logging in")
	}

	publish(c, h.Producer, events.BrainTopic, brain.ID.String(), map[string]interface{}{
		"type":      "brain_logged_in",
		"brainID":   brain.ID,
		"brainname": brain.Brainname,
	})

	l.Info("login_successful", "brain_id", brain.ID)
	return c.JSON(http.StatusAccepted, token)
}

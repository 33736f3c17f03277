package handlers

import (
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hjarnor/hjarnor/internal/events"
	"github.com/hjarnor/hjarnor/internal/logging"
	authmw "github.com/hjarnor/hjarnor/internal/middleware/auth"
	"github.com/hjarnor/hjarnor/internal/models"
	"github.com/hjarnor/hjarnor/internal/reactions"
	"github.com/hjarnor/hjarnor/internal/service/search"
)

type BrainfartHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
	ES       *elasticsearch.Client
	Index    string
}

// BrainfartInformation is the wire shape of one post: the fart itself, its
// mastermind's display name and the two reactor lists.
type BrainfartInformation struct {
	ID             uuid.UUID             `json:"id"`
	Title          string                `json:"title"`
	Content        string                `json:"content"`
	Birthdate      time.Time             `json:"birthdate"`
	MastermindName string                `json:"mastermind_name"`
	BlewMinds      []reactions.BrainInfo `json:"blew_minds"`
	ImplodedMinds  []reactions.BrainInfo `json:"imploded_minds"`
}

type createBrainfartRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type mindReactionRequest struct {
	BrainfartID string `json:"brainfart_id"`
}

func (h *BrainfartHandler) CreateBrainfart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_brainfart")

	claims, ok := authmw.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	mastermind, err := uuid.Parse(claims.BrainID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	var req createBrainfartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Title == "" || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and content must not be empty")
	}

	fart := models.Brainfart{
		Title:      req.Title,
		Content:    req.Content,
		Mastermind: mastermind,
	}
	if err := h.DB.Create(&fart).Error; err != nil {
		l.Error("create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong creating the brainfart!")
	}

	if h.ES != nil {
		doc := search.Document{
			ID:             fart.ID.String(),
			Title:          fart.Title,
			Content:        fart.Content,
			Birthdate:      fart.Birthdate,
			MastermindName: claims.Brainname,
		}
		if err := search.Index(ctx, h.ES, h.Index, doc); err != nil {
			l.Warn("search index failed", "brainfart_id", fart.ID, "error", err)
		}
	}

	publish(c, h.Producer, events.BrainfartTopic, fart.ID.String(), map[string]interface{}{
		"type":        "brainfart_created",
		"brainfartID": fart.ID,
		"brainID":     mastermind,
		"title":       fart.Title,
	})

	l.Info("brainfart_created", "brainfart_id", fart.ID)
	return c.JSON(http.StatusCreated, BrainfartInformation{
		ID:             fart.ID,
		Title:          fart.Title,
		Content:        fart.Content,
		Birthdate:      fart.Birthdate,
		MastermindName: claims.Brainname,
		BlewMinds:      []reactions.BrainInfo{},
		ImplodedMinds:  []reactions.BrainInfo{},
	})
}

func (h *BrainfartHandler) GetBrainfarts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_brainfarts")

	var rows []struct {
		ID             uuid.UUID
		Title          string
		Content        string
		Birthdate      time.Time
		MastermindName string
	}
	err := h.DB.Table("brainfarts").
		Select("brainfarts.id, brainfarts.title, brainfarts.content, brainfarts.birthdate, brains.brainname AS mastermind_name").
		Joins("JOIN brains ON brains.id = brainfarts.mastermind").
		Order("brainfarts.birthdate DESC").
		Scan(&rows).Error
	if err != nil {
		l.Error("fetch_failed", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "could not fetch brainfarts")
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	reactors, err := reactions.ReactorsFor(h.DB, ids)
	if err != nil {
		l.Error("fetch_failed", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "could not fetch brainfarts")
	}

	result := make([]BrainfartInformation, len(rows))
	for i, row := range rows {
		lists := reactors[row.ID]
		result[i] = BrainfartInformation{
			ID:             row.ID,
			Title:          row.Title,
			Content:        row.Content,
			Birthdate:      row.Birthdate,
			MastermindName: row.MastermindName,
			BlewMinds:      orEmpty(lists.BlewMinds),
			ImplodedMinds:  orEmpty(lists.ImplodedMinds),
		}
	}
	return c.JSON(http.StatusOK, result)
}

func (h *BrainfartHandler) RegisterMindExplosion(c echo.Context) error {
	return h.react(c, true)
}

func (h *BrainfartHandler) RegisterMindImplosion(c echo.Context) error {
	return h.react(c, false)
}

func (h *BrainfartHandler) react(c echo.Context, explosion bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "register_mind_reaction")

	claims, ok := authmw.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	brainID, err := uuid.Parse(claims.BrainID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	var req mindReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	fartID, err := uuid.Parse(req.BrainfartID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid brainfart id")
	}

	if err := reactions.Toggle(h.DB, fartID, brainID, explosion); err != nil {
		l.Error("reaction_failed", "status", 500, "explosion", explosion, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong registering the reaction!")
	}

	eventType := "mind_imploded"
	if explosion {
		eventType = "mind_exploded"
	}
	publish(c, h.Producer, events.BrainfartTopic, fartID.String(), map[string]interface{}{
		"type":        eventType,
		"brainfartID": fartID,
		"brainID":     brainID,
	})

	l.Info(eventType, "brainfart_id", fartID, "brain_id", brainID)
	return c.NoContent(http.StatusCreated)
}

func orEmpty(list []reactions.BrainInfo) []reactions.BrainInfo {
	if list == nil {
		return []reactions.BrainInfo{}
	}
	return list
}

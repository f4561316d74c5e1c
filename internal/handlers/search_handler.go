package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"creator-marketplace/internal/models"
	"creator-marketplace/internal/services"
)

// SearchHandler handles brand-side creator search
type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// SearchCreators runs a filtered, paginated creator search
// GET /api/creators/search?q=&trade_id=&location=&platforms=a,b&min_followers=&max_followers=&min_engagement=&max_engagement=&page=&page_size=
func (h *SearchHandler) SearchCreators(c *gin.Context) {
	filter, err := parseSearchFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.search.SearchCreators(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseSearchFilter(c *gin.Context) (models.CreatorSearchFilter, error) {
	f := models.CreatorSearchFilter{
		Keyword:  strings.TrimSpace(c.Query("q")),
		Location: strings.TrimSpace(c.Query("location")),
	}

	if raw := c.Query("trade_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, fmt.Errorf("invalid trade_id")
		}
		f.TradeID = &id
	}
	for _, raw := range c.QueryArray("platforms") {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				f.Platforms = append(f.Platforms, p)
			}
		}
	}

	var err error
	if f.MinFollowers, err = queryInt64(c, "min_followers"); err != nil {
		return f, err
	}
	if f.MaxFollowers, err = queryInt64(c, "max_followers"); err != nil {
		return f, err
	}
	if f.MinEngagement, err = queryFloat(c, "min_engagement"); err != nil {
		return f, err
	}
	if f.MaxEngagement, err = queryFloat(c, "max_engagement"); err != nil {
		return f, err
	}

	if f.Page, err = queryPositive(c, "page"); err != nil {
		return f, err
	}
	if f.PageSize, err = queryPositive(c, "page_size"); err != nil {
		return f, err
	}
	return f, nil
}

func queryInt64(c *gin.Context, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &v, nil
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &v, nil
}

func queryPositive(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

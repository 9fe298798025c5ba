package handlers

import (
	"net/http"

	"github.com/aDevMister/my-assesment/internal/dashboard"
	"github.com/aDevMister/my-assesment/internal/models"
	"github.com/aDevMister/my-assesment/internal/view"
	"github.com/gin-gonic/gin"
)

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type pageResponse struct {
	Items      []models.User `json:"items"`
	Page       int           `json:"page"`
	Size       int           `json:"size"`
	TotalPages int           `json:"total_pages"`
	Total      int           `json:"total"`
	HasPrev    bool          `json:"has_prev"`
	HasNext    bool          `json:"has_next"`
	FirstIndex int           `json:"first_index"`
	Query      string        `json:"q"`
	Sort       string        `json:"sort"`
	Dir        string        `json:"dir"`
	Loaded     bool          `json:"loaded"`
}

type pendingResponse struct {
	LocalID string `json:"local_id"`
	State   string `json:"state"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// RegisterAPI mounts the JSON users API on rg.
func (h *Console) RegisterAPI(rg *gin.RouterGroup) {
	rg.GET("/users", h.listUsers)
	rg.GET("/users/pending", h.pendingUsers)
	rg.GET("/users/:id", h.getUser)
	rg.POST("/users", h.createUser)
	rg.POST("/users/refresh", h.refreshUsers)
	rg.POST("/users/export", h.exportUsers)
	rg.PUT("/users/:id", h.updateUser)
	rg.DELETE("/users/:id", h.deleteUser)
}

func (h *Console) listUsers(c *gin.Context) {
	snap := h.session(c.Request.URL.Query()).View()
	p, s := snap.Page, snap.State
	c.JSON(http.StatusOK, pageResponse{
		Items:      p.Items,
		Page:       p.Page,
		Size:       p.Size,
		TotalPages: p.TotalPages,
		Total:      p.Total,
		HasPrev:    p.HasPrev,
		HasNext:    p.HasNext,
		FirstIndex: p.FirstIndex,
		Query:      s.Query,
		Sort:       s.Sort,
		Dir:        s.Dir,
		Loaded:     h.store.Loaded(),
	})
}

func (h *Console) pendingUsers(c *gin.Context) {
	entries := h.store.Pending()
	out := make([]pendingResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, pendingResponse{LocalID: e.LocalID.String(), State: e.State.String(), Name: e.User.Name, Email: e.User.Email})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Console) getUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	u, ok := h.store.Get(id)
	if !ok {
		writeError(c, dashboard.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Console) createUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.session(nil).OnCreate(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Console) updateUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.session(nil).OnSave(c.Request.Context(), models.User{ID: id, Name: req.Name, Email: req.Email})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Console) deleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Console) refreshUsers(c *gin.Context) {
	list, err := h.store.Fetch(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list)})
}

func (h *Console) exportUsers(c *gin.Context) {
	s := h.session(c.Request.URL.Query()).State()
	res, err := h.exporter.Export(c.Request.Context(), h.store.Users(), view.State{Query: s.Query, Sort: s.Sort, Dir: s.Dir, Size: s.Size})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aDevMister/my-assesment/internal/dashboard"
	"github.com/aDevMister/my-assesment/internal/models"
	"github.com/aDevMister/my-assesment/internal/view"
	"github.com/gin-gonic/gin"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"max1": func(n int) int {
		if n < 1 {
			return 1
		}
		return n
	},
	"arrow": func(dir string) string {
		if dir == view.Desc {
			return "▼"
		}
		return "▲"
	},
	"modalHref": func(v url.Values, modal string, id int) string {
		q := cloneValues(v)
		q.Set(dashboard.ParamModal, modal)
		q.Set(dashboard.ParamID, strconv.Itoa(id))
		return href(q)
	},
}).ParseFS(templateFS, "templates/dashboard.html"))

// noticeParam carries a one-shot message across the post/redirect/get cycle.
const noticeParam = "notice"

type pageData struct {
	Snap          dashboard.Snapshot
	Loaded        bool
	Notice        string
	Values        url.Values
	Return        string
	SelfHref      string
	CreateHref    string
	PrevHref      string
	NextHref      string
	NameSortHref  string
	EmailSortHref string
	DebounceMS    int64
}

// RegisterPages mounts the HTML dashboard and its form actions.
func (h *Console) RegisterPages(r gin.IRoutes) {
	r.GET("/", h.renderDashboard)
	r.POST("/users", h.submitCreate)
	r.POST("/users/refresh", h.submitRefresh)
	r.POST("/users/notice/dismiss", h.dismissNotice)
	r.POST("/users/:id", h.submitSave)
	r.POST("/users/:id/delete", h.submitDelete)
}

func (h *Console) renderDashboard(c *gin.Context) {
	q := c.Request.URL.Query()
	ctl := h.session(q)
	snap := ctl.View()
	values := ctl.Encode(snap.State)

	data := pageData{
		Snap:          snap,
		Loaded:        h.store.Loaded(),
		Notice:        q.Get(noticeParam),
		Values:        values,
		Return:        values.Encode(),
		SelfHref:      href(values),
		NameSortHref:  href(ctl.Encode(snap.State.ToggleSort(view.SortName))),
		EmailSortHref: href(ctl.Encode(snap.State.ToggleSort(view.SortEmail))),
		PrevHref:      href(withPage(ctl, snap.State, snap.Page.Page-1)),
		NextHref:      href(withPage(ctl, snap.State, snap.Page.Page+1)),
		DebounceMS:    h.searchDelay.Milliseconds(),
	}
	create := cloneValues(values)
	create.Set(dashboard.ParamCreate, "1")
	data.CreateHref = href(create)

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(c.Writer, data); err != nil {
		h.log.Errorf("render dashboard: %v", err)
	}
}

func (h *Console) submitCreate(c *gin.Context) {
	ctl := h.returnSession(c)
	_, err := ctl.OnCreate(c.Request.Context(), c.PostForm("name"), c.PostForm("email"))
	h.redirect(c, ctl, err)
}

func (h *Console) submitSave(c *gin.Context) {
	ctl := h.returnSession(c)
	id, err := pathID(c)
	if err == nil {
		_, err = ctl.OnSave(c.Request.Context(), models.User{ID: id, Name: c.PostForm("name"), Email: c.PostForm("email")})
	}
	h.redirect(c, ctl, err)
}

func (h *Console) submitDelete(c *gin.Context) {
	ctl := h.returnSession(c)
	id, err := pathID(c)
	if err == nil {
		if err = ctl.OpenDelete(id); err == nil {
			err = ctl.OnDelete(c.Request.Context())
		}
	}
	h.redirect(c, ctl, err)
}

func (h *Console) submitRefresh(c *gin.Context) {
	ctl := h.returnSession(c)
	h.redirect(c, ctl, ctl.Refresh(c.Request.Context()))
}

func (h *Console) dismissNotice(c *gin.Context) {
	h.store.ClearFailure()
	h.redirect(c, h.returnSession(c), nil)
}

// returnSession restores the view the form was posted from.
func (h *Console) returnSession(c *gin.Context) *dashboard.Controller {
	q, err := url.ParseQuery(c.PostForm("return"))
	if err != nil {
		q = url.Values{}
	}
	return h.session(q)
}

func (h *Console) redirect(c *gin.Context, ctl *dashboard.Controller, err error) {
	v := ctl.Values()
	if err != nil {
		h.log.Warnf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		v.Set(noticeParam, err.Error())
	}
	c.Redirect(http.StatusSeeOther, href(v))
}

func withPage(ctl *dashboard.Controller, s view.State, page int) url.Values {
	s.Page = page
	return ctl.Encode(s)
}

func href(v url.Values) string {
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

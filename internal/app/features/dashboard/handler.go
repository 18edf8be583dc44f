// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/chapelstack/chapelhub/internal/apiclient"
	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/app/system/auth"
	"github.com/chapelstack/chapelhub/internal/app/system/authz"
	"github.com/chapelstack/chapelhub/internal/app/system/format"
	"github.com/chapelstack/chapelhub/internal/app/system/refresh"
	"github.com/chapelstack/chapelhub/internal/app/system/timeouts"
	"github.com/chapelstack/chapelhub/internal/app/system/viewdata"
	"github.com/chapelstack/chapelhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	API   *apiclient.Client
	State *state.Store
	Log   *zap.Logger
}

func NewHandler(api *apiclient.Client, st *state.Store, logger *zap.Logger) *Handler {
	return &Handler{
		API:   api,
		State: st,
		Log:   logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type statCard struct {
	Label string
	Value string
	Note  string
}

type attendanceRow struct {
	models.AttendanceRecord
	DateDisplay string
}

type paymentRow struct {
	models.Payment
	DateDisplay   string
	AmountDisplay string
	TypeDisplay   string
}

type chartBar struct {
	Label string
	Value string
	Pct   int
}

type pageData struct {
	viewdata.BaseVM

	Cards []statCard

	ShowAttendance   bool
	ShowPayments     bool
	RecentAttendance []attendanceRow
	RecentPayments   []paymentRow
	HeadcountBars    []chartBar
}

const recentLimit = 5

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s := h.State.Get(u.SID)
	s.EnsureLoggedIn(u.Identity)
	s.SelectTab(authz.TabDashboard)

	// The dashboard summarizes every collection the role may see, so
	// refresh them all.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()
	refresh.All(ctx, h.API, s, u, h.Log)

	view := s.Snapshot()
	role := u.Role()

	data := pageData{
		BaseVM:         viewdata.NewBaseVM(r, "Dashboard", authz.TabDashboard, s.TakeToast()),
		Cards:          buildCards(role, view),
		ShowAttendance: authz.CanFetch(role, authz.ResourceAttendance),
		ShowPayments:   authz.CanFetch(role, authz.ResourcePayments),
	}

	for i, rec := range view.Attendance {
		if i == recentLimit {
			break
		}
		data.RecentAttendance = append(data.RecentAttendance, attendanceRow{
			AttendanceRecord: rec,
			DateDisplay:      format.Date(rec.ServiceDate),
		})
	}
	data.HeadcountBars = headcountBars(view.Attendance)

	for i, p := range view.Payments {
		if i == recentLimit {
			break
		}
		data.RecentPayments = append(data.RecentPayments, paymentRow{
			Payment:       p,
			DateDisplay:   format.Date(p.Date),
			AmountDisplay: format.Currency(p.Amount),
			TypeDisplay:   models.PaymentTypeDisplay(p.PaymentType),
		})
	}

	templates.Render(w, r, "dashboard", data)
}

// headcountBars turns the most recent services into bars scaled against
// the highest headcount in the window, oldest first.
func headcountBars(recs []models.AttendanceRecord) []chartBar {
	n := len(recs)
	if n > recentLimit {
		n = recentLimit
	}
	if n == 0 {
		return nil
	}

	max := 0
	for _, rec := range recs[:n] {
		if rec.TotalHeadcount > max {
			max = rec.TotalHeadcount
		}
	}

	bars := make([]chartBar, 0, n)
	for i := n - 1; i >= 0; i-- {
		rec := recs[i]
		pct := 0
		if max > 0 {
			pct = rec.TotalHeadcount * 100 / max
		}
		bars = append(bars, chartBar{
			Label: format.Date(rec.ServiceDate),
			Value: format.Count(rec.TotalHeadcount),
			Pct:   pct,
		})
	}
	return bars
}

func buildCards(role authz.Role, view state.View) []statCard {
	var cards []statCard

	if authz.CanFetch(role, authz.ResourceAttendance) {
		card := statCard{Label: "Last Service Headcount", Value: "0"}
		if len(view.Attendance) > 0 {
			last := view.Attendance[0]
			card.Value = format.Count(last.TotalHeadcount)
			card.Note = format.Date(last.ServiceDate)
		}
		cards = append(cards, card)
		cards = append(cards, statCard{
			Label: "Services Recorded",
			Value: format.Count(len(view.Attendance)),
		})
	}

	if authz.CanFetch(role, authz.ResourcePayments) {
		var total float64
		for _, p := range view.Payments {
			total += p.Amount
		}
		cards = append(cards, statCard{
			Label: "Payments Recorded",
			Value: format.Count(len(view.Payments)),
			Note:  format.Currency(total) + " total",
		})
	}

	if authz.CanFetch(role, authz.ResourceUsers) {
		members := 0
		for _, usr := range view.Users {
			if usr.Role != string(authz.RoleRegionalAdmin) {
				members++
			}
		}
		cards = append(cards, statCard{
			Label: "Members",
			Value: format.Count(members),
		})
	}

	if authz.CanFetch(role, authz.ResourceProjects) {
		active := 0
		for _, p := range view.Projects {
			if p.Status == "active" {
				active++
			}
		}
		cards = append(cards, statCard{
			Label: "Active Projects",
			Value: format.Count(active),
			Note:  format.Count(len(view.Projects)) + " total",
		})
	}

	return cards
}

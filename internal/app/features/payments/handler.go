// internal/app/features/payments/handler.go
package payments

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/chapelstack/chapelhub/internal/apiclient"
	uierrors "github.com/chapelstack/chapelhub/internal/app/features/errors"
	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/app/system/auth"
	"github.com/chapelstack/chapelhub/internal/app/system/authz"
	"github.com/chapelstack/chapelhub/internal/app/system/format"
	"github.com/chapelstack/chapelhub/internal/app/system/refresh"
	"github.com/chapelstack/chapelhub/internal/app/system/timeouts"
	"github.com/chapelstack/chapelhub/internal/app/system/upload"
	"github.com/chapelstack/chapelhub/internal/app/system/viewdata"
	"github.com/chapelstack/chapelhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// maxReceiptBytes bounds the uploaded receipt size.
const maxReceiptBytes = 10 << 20

type Handler struct {
	API      *apiclient.Client
	State    *state.Store
	Validate *validator.Validate
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(api *apiclient.Client, st *state.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		API:      api,
		State:    st,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
		ErrLog:   errLog,
		Log:      logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type row struct {
	models.Payment
	DateDisplay   string
	AmountDisplay string
	TypeDisplay   string
	HasReceipt    bool
}

type typeOption struct {
	Value    string
	Label    string
	Selected bool
}

type accountOption struct {
	Label    string
	Selected bool
}

type pageData struct {
	viewdata.BaseVM
	Rows  []row
	Draft models.PaymentDraft

	TypeOptions    []typeOption
	AccountOptions []accountOption
	UploadHint     string

	ShowRecordModal bool
	Preview         *row
	PreviewIsImage  bool
	PreviewIsPDF    bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /payments                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s := h.State.Get(u.SID)
	restored := s.EnsureLoggedIn(u.Identity)
	s.SelectTab(authz.TabPayments)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	if restored {
		refresh.All(ctx, h.API, s, u, h.Log)
	} else {
		// Accounts feed the record-payment form's account picker.
		refresh.One(ctx, h.API, s, u, authz.ResourcePayments, h.Log)
		refresh.One(ctx, h.API, s, u, authz.ResourceAccounts, h.Log)
	}

	h.render(w, r, s)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, s *state.Session) {
	view := s.Snapshot()

	data := pageData{
		BaseVM:          viewdata.NewBaseVM(r, "Payments", authz.TabPayments, s.TakeToast()),
		Draft:           view.PaymentDraft,
		UploadHint:      upload.SizeHint,
		ShowRecordModal: view.Modal.Kind == state.ModalRecordPayment,
	}

	for _, p := range view.Payments {
		pr := row{
			Payment:       p,
			DateDisplay:   format.Date(p.Date),
			AmountDisplay: format.Currency(p.Amount),
			TypeDisplay:   models.PaymentTypeDisplay(p.PaymentType),
			HasReceipt:    p.ReceiptPath != "",
		}
		data.Rows = append(data.Rows, pr)
		if view.Modal.Kind == state.ModalPreviewReceipt && view.Modal.PaymentID == p.ID {
			preview := pr
			data.Preview = &preview
			data.PreviewIsImage = upload.Classify(p.ReceiptPath) == upload.KindImage
			data.PreviewIsPDF = upload.Classify(p.ReceiptPath) == upload.KindPDF
		}
	}

	for _, t := range models.PaymentTypes {
		data.TypeOptions = append(data.TypeOptions, typeOption{
			Value:    t,
			Label:    models.PaymentTypeDisplay(t),
			Selected: t == view.PaymentDraft.PaymentType,
		})
	}
	for _, a := range view.Accounts {
		data.AccountOptions = append(data.AccountOptions, accountOption{
			Label:    a.Label(),
			Selected: a.Label() == view.PaymentDraft.AccountDetails,
		})
	}

	templates.Render(w, r, "payments", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Modal open / cancel / preview                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		s := h.State.Get(u.SID)
		s.EnsureLoggedIn(u.Identity)
		s.OpenModal(state.Modal{Kind: state.ModalRecordPayment})
	}
	http.Redirect(w, r, "/payments", http.StatusSeeOther)
}

func (h *Handler) ServeCancel(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.State.Get(u.SID).Cancel()
	}
	http.Redirect(w, r, "/payments", http.StatusSeeOther)
}

// ServePreview handles GET /payments/receipt/{id}: open the receipt
// preview modal for one payment.
func (h *Handler) ServePreview(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err == nil {
			s := h.State.Get(u.SID)
			s.EnsureLoggedIn(u.Identity)
			s.OpenModal(state.Modal{Kind: state.ModalPreviewReceipt, PaymentID: id})
		}
	}
	http.Redirect(w, r, "/payments", http.StatusSeeOther)
}

// ServeReceiptFile handles GET /payments/receipt/{id}/file: stream the
// receipt bytes from the upstream API so the browser never needs direct
// access to it.
func (h *Handler) ServeReceiptFile(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s := h.State.Get(u.SID)
	var path string
	for _, p := range s.Snapshot().Payments {
		if p.ID == id {
			path = p.ReceiptPath
			break
		}
	}
	if path == "" {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	raw, contentType, err := h.API.ReceiptFile(ctx, u.Token, path)
	if err != nil {
		h.Log.Warn("receipt fetch failed", zap.Int("payment_id", id), zap.Error(err))
		http.Error(w, "receipt unavailable", http.StatusBadGateway)
		return
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(raw)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /payments                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse multipart form failed", err, "Invalid form data.", "/payments")
		return
	}

	s := h.State.Get(u.SID)
	s.EnsureLoggedIn(u.Identity)

	draft := models.PaymentDraft{
		Date:           strings.TrimSpace(r.FormValue("date")),
		PaymentType:    r.FormValue("payment_type"),
		Amount:         strings.TrimSpace(r.FormValue("amount")),
		Description:    strings.TrimSpace(r.FormValue("description")),
		AccountDetails: r.FormValue("account_details"),
	}

	// A newly uploaded receipt replaces whatever the draft carried.
	file, header, err := r.FormFile("receipt")
	switch {
	case err == nil:
		defer file.Close()
		enc, encErr := upload.Encode(header.Filename, header.Header.Get("Content-Type"), file)
		if encErr != nil {
			s.SetPaymentDraft(draft)
			s.ShowToast("Could not read the receipt file.", state.ToastError)
			s.OpenModal(state.Modal{Kind: state.ModalRecordPayment})
			http.Redirect(w, r, "/payments", http.StatusSeeOther)
			return
		}
		draft.ReceiptData = enc.DataURL
		draft.ReceiptFilename = enc.Filename
	case errors.Is(err, http.ErrMissingFile):
		prev := s.Snapshot().PaymentDraft
		draft.ReceiptData = prev.ReceiptData
		draft.ReceiptFilename = prev.ReceiptFilename
	default:
		h.ErrLog.LogBadRequest(w, r, "read receipt upload failed", err, "Invalid form data.", "/payments")
		return
	}
	s.SetPaymentDraft(draft)

	if err := h.Validate.Struct(draft); err != nil {
		s.ShowToast("Please fill in the date, payment type, and amount.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalRecordPayment})
		http.Redirect(w, r, "/payments", http.StatusSeeOther)
		return
	}
	if amt, err := strconv.ParseFloat(draft.Amount, 64); err != nil || amt <= 0 {
		s.ShowToast("Please enter a valid amount.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalRecordPayment})
		http.Redirect(w, r, "/payments", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	err = h.API.CreatePayment(ctx, u.Token, draft)
	var subErr *apiclient.SubmitError
	switch {
	case err == nil:
		s.SubmitSucceeded(state.ModalRecordPayment)
		s.ShowToast("Payment recorded successfully!", state.ToastSuccess)
	case errors.As(err, &subErr):
		msg := subErr.Message
		if msg == "" {
			msg = "Failed to record payment."
		}
		s.ShowToast(msg, state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalRecordPayment})
	case apiclient.IsNetwork(err):
		s.ShowToast("Network error. Please try again.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalRecordPayment})
	default:
		h.Log.Error("payment submit failed", zap.Error(err))
		s.ShowToast("Failed to record payment.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalRecordPayment})
	}

	http.Redirect(w, r, "/payments", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /payments/pdf                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePDF(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	raw, contentType, err := h.API.PaymentsPDF(ctx, u.Token)
	if err != nil {
		h.Log.Warn("payments export failed", zap.Error(err))
		s := h.State.Get(u.SID)
		s.ShowToast("Failed to download payment records.", state.ToastError)
		http.Redirect(w, r, "/payments", http.StatusSeeOther)
		return
	}

	if contentType == "" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="payment_records.pdf"`)
	w.Write(raw)
}

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/example/storefront/internal/activity"
	"github.com/example/storefront/internal/backend"
	"github.com/example/storefront/internal/domain/contact"
	"github.com/example/storefront/internal/domain/customer"
)

const maxUploadBytes = 10 << 20

type profileData struct {
	Customer *customer.Customer
	Editing  bool
	Edit     customer.ProfileEdit
}

// Profile shows the user's record; ?edit=1 opens the edit form.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	me, err := h.backend.GetCustomer(r.Context(), s.AccessToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	v := h.newView(w, r, "My Profile")
	v.Data = profileData{
		Customer: me,
		Editing:  r.URL.Query().Get("edit") == "1",
		Edit:     customer.EditFor(*me),
	}
	h.render(w, http.StatusOK, "profile.html", v)
}

// UpdateProfile sends only the fields that changed, plus an optional new picture.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	me, err := h.backend.GetCustomer(r.Context(), s.AccessToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	edit := customer.ProfileEdit{
		CustomerName: r.FormValue("customer_name"),
		PhoneNumber:  r.FormValue("phone_number"),
		Address:      r.FormValue("address"),
		City:         r.FormValue("city"),
		State:        r.FormValue("state"),
	}
	changes := edit.Changes(*me)

	picture, closeFile, err := formUpload(r, "profile_picture")
	if err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}
	defer closeFile()

	if len(changes) == 0 && picture == nil {
		setFlash(w, "info", "No changes to save.")
		redirect(w, r, "/profile")
		return
	}

	if _, err := h.backend.UpdateCustomer(r.Context(), s.AccessToken, changes, picture); err != nil {
		v := h.newView(w, r, "My Profile")
		v.Data = profileData{Customer: me, Editing: true, Edit: edit}
		if formFailure(err, &v) {
			h.render(w, http.StatusUnprocessableEntity, "profile.html", v)
			return
		}
		h.fail(w, r, err)
		return
	}

	fields := make([]string, 0, len(changes)+1)
	for k := range changes {
		fields = append(fields, k)
	}
	if picture != nil {
		fields = append(fields, "profile_picture")
	}
	h.publish(r, activity.New(activity.ProfileUpdated, s.Username, "").With("fields", strings.Join(fields, ",")))

	setFlash(w, "success", "Profile updated successfully!")
	redirect(w, r, "/profile")
}

// formUpload returns the named file part, or nil when none was chosen.
func formUpload(r *http.Request, field string) (*backend.Upload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	if hdr.Size == 0 || hdr.Filename == "" {
		f.Close()
		return nil, noop, nil
	}
	return &backend.Upload{Filename: hdr.Filename, Content: f}, func() { f.Close() }, nil
}

func (h *Handlers) ContactForm(w http.ResponseWriter, r *http.Request) {
	v := h.newView(w, r, "Contact Us")
	v.Data = contact.Message{}
	h.render(w, http.StatusOK, "contact.html", v)
}

func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	msg := contact.Message{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}

	v := h.newView(w, r, "Contact Us")
	v.Data = msg
	if errs := msg.Validate(); !errs.Empty() {
		v.Fields = errs
		h.render(w, http.StatusUnprocessableEntity, "contact.html", v)
		return
	}

	if err := h.backend.SubmitContact(r.Context(), msg); err != nil {
		if formFailure(err, &v) {
			h.render(w, http.StatusUnprocessableEntity, "contact.html", v)
			return
		}
		h.fail(w, r, err)
		return
	}
	username := ""
	if s := currentSession(r); s != nil {
		username = s.Username
	}
	h.publish(r, activity.New(activity.ContactSubmitted, username, ""))

	setFlash(w, "success", "Thank you for contacting us! We will get back to you soon.")
	redirect(w, r, "/contact")
}

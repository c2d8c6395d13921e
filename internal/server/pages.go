package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"seulink/internal/domain"
	"seulink/internal/editor"
	"seulink/internal/i18n"
	"seulink/internal/router"
	"seulink/internal/scraper"
	"seulink/internal/store"
	"seulink/internal/viewer"
)

type flashView struct {
	Kind    string
	Message string
	// TTLMillis is how long the message stays on screen; zero keeps it.
	TTLMillis int64
}

type cardView struct {
	Lang i18n.Lang
	Card viewer.Card
}

type authView struct {
	SignUp bool
}

type dashboardView struct {
	Profile        domain.UserProfile
	Preview        cardView
	ShareURL       string
	Palette        []string
	LoadError      string
	PreviewEnabled bool
}

type profileView struct {
	Found    bool
	Username string
	PageURL  string
	Card     cardView
}

type viewData struct {
	Lang      i18n.Lang
	Other     i18n.Lang
	Flash     *flashView
	Auth      *authView
	Dashboard *dashboardView
	Profile   *profileView
}

func (s *Server) newViewData(ctx context.Context) viewData {
	lang := langFrom(ctx)
	return viewData{Lang: lang, Other: lang.Other()}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.WithError(err).WithField("template", name).Error("Failed to render template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleShell serves the page frame. Its script swaps in /view for the
// current fragment on load and on every hash change.
func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	s.render(w, "shell", s.newViewData(r.Context()))
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := s.newViewData(ctx)
	account, signedIn := accountFrom(ctx)

	flash, hasFlash := popFlashCookie(w, r)
	if hasFlash {
		data.Flash = s.flashView(data.Lang, flash.Kind, flash.Key, flash.Text)
	}

	route := router.Match(r.URL.Query().Get("fragment"), router.AuthState{SignedIn: signedIn})
	switch route.Kind {
	case router.PublicProfile:
		data.Profile = s.profileView(r, route.Username, data.Lang)
		s.render(w, "profile", data)
	case router.Auth:
		mode := r.URL.Query().Get("mode")
		if hasFlash && flash.Mode != "" {
			mode = flash.Mode
		}
		data.Auth = &authView{SignUp: mode == "signup"}
		s.render(w, "auth", data)
	default:
		d, err := s.drafts.Get(ctx, account)
		dv := s.dashboardView(r, d, data.Lang)
		if err != nil {
			dv.LoadError = errorMessage(err)
		}
		now := s.now()
		if f := d.Flash(now); f != nil {
			data.Flash = s.flashView(data.Lang, string(f.Kind), f.Key, f.Text)
			data.Flash.TTLMillis = f.ExpiresAt.Sub(now).Milliseconds()
		}
		data.Dashboard = dv
		s.render(w, "dashboard", data)
	}
}

func (s *Server) flashView(lang i18n.Lang, kind, key, text string) *flashView {
	msg := text
	if key != "" {
		msg = i18n.T(lang, key)
	}
	return &flashView{Kind: kind, Message: msg}
}

func (s *Server) profileView(r *http.Request, username string, lang i18n.Lang) *profileView {
	res := s.viewer.Lookup(r.Context(), username)
	if !res.OK() {
		return &profileView{Username: username}
	}
	return &profileView{
		Found:    true,
		Username: res.Profile.Username,
		PageURL:  viewer.PublicURL(s.baseURLFor(r), res.Profile.Username),
		Card:     cardView{Lang: lang, Card: viewer.NewCard(res.Profile)},
	}
}

func (s *Server) dashboardView(r *http.Request, d *editor.Draft, lang i18n.Lang) *dashboardView {
	p := d.Profile()
	_, disabled := s.scraper.(scraper.Disabled)
	return &dashboardView{
		Profile:        p,
		Preview:        cardView{Lang: lang, Card: viewer.NewCard(p)},
		ShareURL:       viewer.PublicURL(s.baseURLFor(r), p.Username),
		Palette:        domain.Palette,
		PreviewEnabled: !disabled,
	}
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	switch r.PostFormValue("action") {
	case "signup":
		if _, err := s.client.Auth().SignUp(ctx, email, password); err != nil {
			setFlashCookie(w, pageFlash{Kind: string(editor.FlashError), Text: errorMessage(err), Mode: "signup"})
		} else {
			setFlashCookie(w, pageFlash{Kind: string(editor.FlashSuccess), Key: "reg_success", Mode: "signin"})
		}
	case "signin", "":
		session, err := s.client.Auth().SignIn(ctx, email, password)
		if err != nil {
			setFlashCookie(w, pageFlash{Kind: string(editor.FlashError), Text: errorMessage(err), Mode: "signin"})
			break
		}
		setSessionCookie(w, r, session)
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if token := store.AccessToken(r.Context()); token != "" {
		if err := s.client.Auth().SignOut(r.Context(), token); err != nil {
			s.log.WithError(err).Warn("Sign out failed")
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDashboard binds the submitted form into the draft, then runs the action.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	account, _ := accountFrom(ctx)
	d, err := s.drafts.Get(ctx, account)
	if err != nil {
		s.log.WithError(err).Warn("Dashboard action dropped, profile not loaded")
		setFlashCookie(w, pageFlash{Kind: string(editor.FlashError), Key: "load_failed"})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	bindDraft(d, r)

	action, target := r.PostFormValue("action"), r.PostFormValue("link")
	for _, a := range []string{"remove_link", "fill_title"} {
		if id := r.PostFormValue(a); id != "" {
			action, target = a, id
		}
	}
	switch action {
	case "save":
		_, _ = s.editor.Save(ctx, d)
	case "add_link":
		d.AddLink()
	case "remove_link":
		d.RemoveLink(target)
	case "fill_title":
		_ = s.editor.FillTitle(ctx, d, target, s.fetchTitle)
	case "":
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// bindDraft copies the dashboard form fields that are present into d.
func bindDraft(d *editor.Draft, r *http.Request) {
	form := r.PostForm
	if _, ok := form["username"]; ok {
		d.SetUsername(form.Get("username"))
	}
	if _, ok := form["full_name"]; ok {
		d.SetFullName(form.Get("full_name"))
	}
	if _, ok := form["bio"]; ok {
		d.SetBio(form.Get("bio"))
	}
	if _, ok := form["avatar_url"]; ok {
		d.SetAvatarURL(form.Get("avatar_url"))
	}
	if _, ok := form["theme_color"]; ok {
		d.SetThemeColor(form.Get("theme_color"))
	}
	for _, id := range form["link_id"] {
		_ = d.UpdateLink(id, editor.LinkTitle, form.Get("link_title_"+id))
		_ = d.UpdateLink(id, editor.LinkURL, form.Get("link_url_"+id))
		active := "false"
		if form.Get("link_active_"+id) != "" {
			active = "true"
		}
		_ = d.UpdateLink(id, editor.LinkActive, active)
	}
}

func (s *Server) fetchTitle(ctx context.Context, url string) (string, error) {
	md, err := s.scraper.ScrapeMetadata(ctx, url)
	if err != nil {
		return "", err
	}
	return md.Title, nil
}

// errorMessage is the user-facing text of err.
func errorMessage(err error) string {
	var serr *store.Error
	if errors.As(err, &serr) && serr.Message != "" {
		return serr.Message
	}
	return err.Error()
}

package web

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

type loginForm struct {
	Name string `validate:"required"`
}

type signupForm struct {
	Name  string `validate:"required,min=2"`
	Email string `validate:"required,contains=@"`
	Phone string `validate:"required,min=10"`
}

// signupFieldMessages maps failed validations to the copy shown under
// the form.
func signupFieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "Name must be at least 2 characters"
	case "Email":
		return "Please enter a valid email address"
	case "Phone":
		return "Phone number must be at least 10 digits"
	}
	return "Please check your input"
}

type loginPage struct {
	basePage
	Name string
}

type signupPage struct {
	basePage
	Name  string
	Email string
	Phone string
}

// LoginPage renders the entry screen. An existing session skips straight
// to the feed.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, "login.html.tmpl", loginPage{
		basePage: basePage{Title: "Sign In"},
	})
}

// Login handles the name-only login form.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	form := loginForm{Name: strings.TrimSpace(r.FormValue("name"))}

	if err := h.validate.Struct(form); err != nil {
		h.render(w, http.StatusUnprocessableEntity, "login.html.tmpl", loginPage{
			basePage: basePage{Title: "Sign In", Error: "Please enter your name"},
		})
		return
	}

	user, err := h.sessions.Login(r.Context(), w, form.Name)
	if err != nil {
		h.logger.Info("login rejected", "name", form.Name, "error", err)
		h.render(w, http.StatusUnprocessableEntity, "login.html.tmpl", loginPage{
			basePage: basePage{Title: "Sign In", Error: errorText(err, "Login failed. Please try again.")},
			Name:     form.Name,
		})
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// SignupPage renders the student signup form.
func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, "signup.html.tmpl", signupPage{
		basePage: basePage{Title: "Sign Up"},
	})
}

// Signup validates the form locally first; no request reaches the
// backend until every field passes.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	form := signupForm{
		Name:  strings.TrimSpace(r.FormValue("name")),
		Email: strings.TrimSpace(r.FormValue("email")),
		Phone: strings.TrimSpace(r.FormValue("phone")),
	}
	page := signupPage{
		basePage: basePage{Title: "Sign Up"},
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
	}

	if err := h.validate.Struct(form); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			page.Error = signupFieldMessage(errs[0])
		} else {
			page.Error = "Please check your input"
		}
		h.render(w, http.StatusUnprocessableEntity, "signup.html.tmpl", page)
		return
	}

	if _, exists, err := h.client.GetUserByName(r.Context(), form.Name); err == nil && exists {
		page.Error = "That name is already taken"
		h.render(w, http.StatusUnprocessableEntity, "signup.html.tmpl", page)
		return
	}

	user, err := h.sessions.Signup(r.Context(), w, form.Name, form.Email, form.Phone)
	if err != nil {
		h.logger.Info("signup rejected", "name", form.Name, "error", err)
		page.Error = errorText(err, "Signup failed. Please try again.")
		h.render(w, http.StatusUnprocessableEntity, "signup.html.tmpl", page)
		return
	}

	h.logger.Info("user signed up", "user_id", user.ID)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// Logout destroys the session and returns to the entry screen.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context(), w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

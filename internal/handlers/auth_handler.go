package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"lexio/internal/models"
	"lexio/internal/security"
	"lexio/internal/service"
	"lexio/internal/validation"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	google      *oauth2.Config
}

// NewAuthHandler creates a new auth handler. google may be nil when Google
// sign-in is not configured
func NewAuthHandler(authService *service.AuthService, google *oauth2.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		google:      google,
	}
}

type professionalView struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Specialty string `json:"specialty"`
}

type authResponse struct {
	Token        string           `json:"token"`
	Professional professionalView `json:"professional"`
}

func viewOf(p *models.Professional) professionalView {
	return professionalView{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Specialty: p.Specialty,
	}
}

// Register creates a professional account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FullName  string `json:"full_name"`
		Specialty string `json:"specialty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	professional, token, err := h.authService.Register(req.Email, req.Password, req.FullName, req.Specialty)
	if err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondWithJSONError(w, http.StatusConflict, "email already registered")
		case errors.As(err, &vErr):
			respondWithJSONError(w, http.StatusBadRequest, vErr.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to register", err)
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, authResponse{Token: token, Professional: viewOf(professional)})
}

// Login authenticates a professional
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	professional, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithJSONError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to log in", err)
		return
	}

	respondWithJSON(w, http.StatusOK, authResponse{Token: token, Professional: viewOf(professional)})
}

// Me returns the authenticated professional's account
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	professional, err := h.authService.Professional(claims.ProfessionalID)
	if err != nil {
		respondWithJSONError(w, http.StatusUnauthorized, "account not found")
		return
	}
	respondWithJSON(w, http.StatusOK, viewOf(professional))
}

// StartGoogleOAuth initiates the Google sign-in flow
func (h *AuthHandler) StartGoogleOAuth(w http.ResponseWriter, r *http.Request) {
	if h.google == nil || h.google.ClientID == "" || h.google.ClientSecret == "" {
		respondWithJSONError(w, http.StatusBadRequest, "Google sign-in not configured")
		return
	}

	state := security.GenerateSessionURL()
	h.setTempCookie(w, r, "oauth_state", state, 10*time.Minute)

	authURL := h.google.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// GoogleCallback handles the redirect back from Google and signs the
// professional in
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil || h.google.ClientID == "" || h.google.ClientSecret == "" {
		respondWithJSONError(w, http.StatusBadRequest, "Google sign-in not configured")
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithJSONError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		respondWithJSONError(w, http.StatusBadRequest, "invalid OAuth state")
		return
	}
	h.clearTempCookie(w, r, "oauth_state")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := h.google.Exchange(ctx, code)
	if err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "failed to exchange OAuth code")
		return
	}

	userInfo, err := h.fetchGoogleUser(ctx, token)
	if err != nil {
		respondWithJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	professional, apiToken, err := h.authService.GoogleLogin(userInfo.ID, userInfo.Email, userInfo.Name)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Google sign-in failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, authResponse{Token: apiToken, Professional: viewOf(professional)})
}

type googleUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *AuthHandler) fetchGoogleUser(ctx context.Context, token *oauth2.Token) (googleUser, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return googleUser{}, fmt.Errorf("failed to fetch Google user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUser{}, fmt.Errorf("failed to fetch Google user info")
	}

	var payload googleUser
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return googleUser{}, fmt.Errorf("failed to parse Google user info")
	}
	return payload, nil
}

func (h *AuthHandler) setTempCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTempCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, security.CreateDeleteCookie(r, name))
}

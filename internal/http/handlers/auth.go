package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/arkodev/learnhub/internal/apperr"
	"github.com/arkodev/learnhub/internal/auth"
	"github.com/arkodev/learnhub/internal/domain/user"
	"github.com/arkodev/learnhub/internal/http/middlewares"
	"github.com/arkodev/learnhub/internal/media"
	"github.com/arkodev/learnhub/internal/security"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error)
	UpdateProfile(ctx context.Context, id, name, photoURL, photoKey string) (user.User, error)
	EnrolledCourseIDs(ctx context.Context, userID string) ([]string, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthHandler struct {
	users  UserStore
	jwt    TokenIssuer
	cookie auth.CookiePolicy
	media  media.Store
	log    *slog.Logger
}

func NewAuthHandler(users UserStore, jwt TokenIssuer, cookie auth.CookiePolicy, mediaStore media.Store, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		jwt:    jwt,
		cookie: cookie,
		media:  mediaStore,
		log:    log,
	}
}

// Register creates the account but never issues a token; logging in is a
// separate step.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondAppError(ctx, err, "Could not create account")
		return
	}

	_, err = h.users.Create(cctx, req.Name, req.Email, hash, user.RoleStudent)

	if err != nil {
		if errors.Is(err, user.ErrEmailInUse) {
			err = apperr.Wrap(apperr.KindConflict, "User already exists with this email", err)
		}

		RespondAppError(ctx, err, "Could not create account")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created successfully",
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			err = apperr.Wrap(apperr.KindInvalidCredentials, "User does not exist", err)
		}

		RespondAppError(ctx, err, "Failed to log in")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		// A verification failure that is not a mismatch is an internal
		// problem, never "no match".
		if errors.Is(err, security.ErrPasswordMismatch) {
			err = apperr.Wrap(apperr.KindInvalidCredentials, "Incorrect email or password", err)
		}

		RespondAppError(ctx, err, "Failed to log in")
		return
	}

	token, err := h.jwt.Issue(foundUser.ID)

	if err != nil {
		RespondAppError(ctx, err, "Could not create session")
		return
	}

	enrolled, err := h.users.EnrolledCourseIDs(cctx, foundUser.ID)

	if err != nil {
		RespondAppError(ctx, err, "Failed to log in")
		return
	}

	foundUser.EnrolledCourses = enrolled

	h.cookie.Attach(ctx, token)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Welcome back " + foundUser.Name,
		"user":    foundUser,
	})
}

// Logout clears the cookie unconditionally: idempotent, succeeds with or
// without a live session.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.cookie.Clear(ctx)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) GetProfile(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondAppError(ctx, errNotAuthenticated(), "")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	enrolled, err := h.users.EnrolledCourseIDs(cctx, u.ID)

	if err != nil {
		RespondAppError(ctx, err, "Failed to load profile")
		return
	}

	u.EnrolledCourses = enrolled

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    u,
	})
}

type updateProfileForm struct {
	Name string `form:"name" binding:"omitempty,min=2,max=80"`
}

func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondAppError(ctx, errNotAuthenticated(), "")
		return
	}

	var form updateProfileForm

	if !BindForm(ctx, &form) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 10*time.Second)
	defer cancel()

	name := form.Name
	if name == "" {
		name = u.Name
	}

	photoURL := u.PhotoURL
	photoKey := u.PhotoKey

	fileHeader, err := ctx.FormFile("profilePhoto")

	if err == nil && fileHeader != nil {
		file, err := fileHeader.Open()

		if err != nil {
			RespondAppError(ctx, apperr.Wrap(apperr.KindValidation, "Could not read uploaded photo", err), "")
			return
		}
		defer file.Close()

		key := media.ObjectKey("photos", fileHeader.Filename)

		url, err := h.media.Upload(cctx, key, fileHeader.Header.Get("Content-Type"), file)

		if err != nil {
			RespondAppError(ctx, err, "Failed to upload profile photo")
			return
		}

		// Best effort: a leaked old object is preferable to a failed update.
		if u.PhotoKey != "" {
			if err := h.media.Delete(cctx, u.PhotoKey); err != nil {
				h.log.WarnContext(cctx, "delete old profile photo", "key", u.PhotoKey, "err", err)
			}
		}

		photoURL = url
		photoKey = key
	}

	updated, err := h.users.UpdateProfile(cctx, u.ID, name, photoURL, photoKey)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			err = apperr.Wrap(apperr.KindNotFound, "User not found", err)
		}

		RespondAppError(ctx, err, "Failed to update profile")
		return
	}

	enrolled, err := h.users.EnrolledCourseIDs(cctx, u.ID)

	if err == nil {
		updated.EnrolledCourses = enrolled
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

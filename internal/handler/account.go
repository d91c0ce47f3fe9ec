package handler

import (
	"log"
	"net/http"

	"shopmobile/internal/model"
	"shopmobile/pkg/response"

	"github.com/gin-gonic/gin"
)

func userJSON(u *model.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"full_name": u.FullName,
		"is_staff":  u.IsStaff,
	}
}

type registerReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	user, token, err := h.accounts.Register(req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"token": token,
		"user":  userJSON(user),
	})
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	user, token, err := h.accounts.Login(req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"token": token,
		"user":  userJSON(user),
	})
}

// ForgotPassword always responds with the same message so the endpoint
// cannot be used to probe which emails are registered. The token goes out
// through the mail path, never in the response.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := h.accounts.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		log.Printf("password reset request for %s: %v", req.Email, err)
	}
	response.SuccessMsg(c, "If the email is registered, a reset link has been sent", nil)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.accounts.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMsg(c, "Password has been reset", nil)
}

func (h *Handler) Profile(c *gin.Context) {
	user, err := h.accounts.Get(currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, userJSON(user))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.accounts.UpdateProfile(currentUserID(c), req.FullName, req.Email)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, userJSON(user))
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.accounts.ChangePassword(currentUserID(c), req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMsg(c, "Password changed", nil)
}

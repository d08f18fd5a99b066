package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skill-auth-service/internal/auth"
	"skill-auth-service/internal/auth/flow"
)

type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type federatedLoginRequest struct {
	Token    string `json:"token"`
	Provider string `json:"provider"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, flow.FlowSignup, auth.ErrValidation)
		return
	}

	if _, err := h.flows.Signup(c.Request.Context(), flow.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}); err != nil {
		writeError(c, flow.FlowSignup, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": flow.MessageUserCreated})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, flow.FlowPassword, auth.ErrValidation)
		return
	}

	res, err := h.flows.Login(c.Request.Context(), flow.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, flow.FlowPassword, err)
		return
	}

	writeResult(c, res)
}

func (h *Handler) FederatedLogin(c *gin.Context) {
	var req federatedLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, flow.FlowFederated, auth.ErrValidation)
		return
	}

	res, err := h.flows.FederatedLogin(c.Request.Context(), req.Provider, req.Token)
	if err != nil {
		writeError(c, flow.FlowFederated, err)
		return
	}

	writeResult(c, res)
}

package handler

import (
	"net/http"
	"strconv"

	"shopmobile/internal/model"
	"shopmobile/pkg/response"

	"github.com/gin-gonic/gin"
)

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) ListAddresses(c *gin.Context) {
	addrs, err := h.addresses.List(currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, addrs)
}

type addressReq struct {
	FullName      string `json:"full_name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Province      string `json:"province" binding:"required"`
	District      string `json:"district" binding:"required"`
	Ward          string `json:"ward"`
	AddressDetail string `json:"address_detail" binding:"required"`
	IsDefault     bool   `json:"is_default"`
}

func (h *Handler) AddAddress(c *gin.Context) {
	var req addressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	addr := &model.Address{
		FullName:      req.FullName,
		Phone:         req.Phone,
		Province:      req.Province,
		District:      req.District,
		Ward:          req.Ward,
		AddressDetail: req.AddressDetail,
		IsDefault:     req.IsDefault,
	}
	if err := h.addresses.Add(currentUserID(c), addr); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, addr)
}

func (h *Handler) SetDefaultAddress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.addresses.SetDefault(currentUserID(c), id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMsg(c, "Default address updated", nil)
}

func (h *Handler) DeleteAddress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.addresses.Delete(currentUserID(c), id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMsg(c, "Address deleted", nil)
}

package model

import "go-checklist-api/pkg/apierror"

type APIResponse struct {
	Success bool               `json:"success"`
	Data    any                `json:"data,omitempty"`
	Error   *apierror.APIError `json:"error,omitempty"`
	Meta    *PageMeta          `json:"meta,omitempty"`
}

// PageMeta describes one page of a listing. NextPage and PrevPage are nil
// at the ends of the range.
type PageMeta struct {
	TotalItems int  `json:"totalItems"`
	Limit      int  `json:"limit"`
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	NextPage   *int `json:"nextPage"`
	PrevPage   *int `json:"prevPage"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type LoginResponse struct {
	JWT     string `json:"jwt"`
	Message string `json:"message"`
	User    User   `json:"user"`
}

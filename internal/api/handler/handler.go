package handler

import (
	"crimewatch/backend/internal/auth"
	"crimewatch/backend/internal/feedhub"
	"crimewatch/backend/internal/media"
	"crimewatch/backend/internal/notify"
	"crimewatch/backend/internal/report"
	"crimewatch/backend/internal/storage"
)

// Handler carries the services every endpoint dispatches into.
type Handler struct {
	Reports    *report.Service
	Auth       *auth.Service
	Dispatcher *notify.Dispatcher
	Storage    storage.Storage
	Media      media.Store
	Hub        *feedhub.Hub
	Secret     []byte
	Production bool
}

func NewHandler(
	reports *report.Service,
	authSvc *auth.Service,
	dispatcher *notify.Dispatcher,
	s storage.Storage,
	m media.Store,
	hub *feedhub.Hub,
	secret []byte,
	production bool,
) *Handler {
	return &Handler{
		Reports:    reports,
		Auth:       authSvc,
		Dispatcher: dispatcher,
		Storage:    s,
		Media:      m,
		Hub:        hub,
		Secret:     secret,
		Production: production,
	}
}

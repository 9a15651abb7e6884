package grpcserver

import (
	"rezzai/jobsearch/internal/kanban"
	"rezzai/jobsearch/internal/model"
)

// SearchJobsRequest mirrors the GET /jobs query parameters.
type SearchJobsRequest struct {
	Location string `json:"location"`
	Page     int    `json:"page"`
	Country  string `json:"country"`
	What     string `json:"what"`
}

type ListApplicationsRequest struct{}

type ListApplicationsResponse struct {
	Applications []model.Application `json:"applications"`
}

type CreateApplicationRequest = kanban.NewApplication

type UpdateApplicationStatusRequest struct {
	ApplicationID string `json:"applicationId"`
	Status        string `json:"status"`
}

type DeleteApplicationRequest struct {
	ApplicationID string `json:"applicationId"`
}

type DeleteApplicationResponse struct {
	Success bool `json:"success"`
}

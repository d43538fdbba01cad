package status

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// StatusOutput is the Huma output for the status endpoint.
type StatusOutput struct {
	Body StatusResponse
}

// StatusResponse is the response body for the status endpoint.
type StatusResponse struct {
	Status string `json:"status" doc:"Service status"`
}

// Handler handles GET /status.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Register registers the status endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Service status",
		Tags:        []string{"Status"},
	}, h.handle)
}

func (h *Handler) handle(_ context.Context, _ *struct{}) (*StatusOutput, error) {
	return &StatusOutput{Body: StatusResponse{Status: "ok"}}, nil
}

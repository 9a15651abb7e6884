package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"rezzai/jobsearch/internal/model"
	"rezzai/jobsearch/internal/search"
)

// Client calls the JobSearch service over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithUser attaches the x-user-id metadata the tracker methods require.
func WithUser(ctx context.Context, userID string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "x-user-id", userID)
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, resp, grpc.CallContentSubtype(CodecName))
}

func (c *Client) SearchJobs(ctx context.Context, req *SearchJobsRequest) (*search.Response, error) {
	resp := new(search.Response)
	if err := c.invoke(ctx, "SearchJobs", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ListApplications(ctx context.Context) (*ListApplicationsResponse, error) {
	resp := new(ListApplicationsResponse)
	if err := c.invoke(ctx, "ListApplications", &ListApplicationsRequest{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreateApplication(ctx context.Context, req *CreateApplicationRequest) (*model.Application, error) {
	resp := new(model.Application)
	if err := c.invoke(ctx, "CreateApplication", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, req *UpdateApplicationStatusRequest) (*model.Application, error) {
	resp := new(model.Application)
	if err := c.invoke(ctx, "UpdateApplicationStatus", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) DeleteApplication(ctx context.Context, req *DeleteApplicationRequest) (*DeleteApplicationResponse, error) {
	resp := new(DeleteApplicationResponse)
	if err := c.invoke(ctx, "DeleteApplication", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

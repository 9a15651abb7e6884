// Package grpcserver implements the jobsearch.v1.JobSearch gRPC service.
//
// It delegates all business logic to search.Service and kanban.Service and
// handles only the transport concerns: metadata extraction, error mapping,
// and the JSON wire codec.
package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"rezzai/jobsearch/internal/kanban"
	"rezzai/jobsearch/internal/model"
	"rezzai/jobsearch/internal/scraper"
	"rezzai/jobsearch/internal/search"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "jobsearch.v1.JobSearch"

// Server implements the JobSearch service.
type Server struct {
	search  *search.Service
	tracker *kanban.Service
}

// NewServer constructs a Server backed by the given services.
func NewServer(searchSvc *search.Service, tracker *kanban.Service) *Server {
	return &Server{search: searchSvc, tracker: tracker}
}

// Register attaches s to gs.
func Register(gs *grpc.Server, s *Server) {
	gs.RegisterService(&serviceDesc, s)
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// SearchJobs runs a ranked search. It needs no user id.
func (s *Server) SearchJobs(ctx context.Context, req *SearchJobsRequest) (*search.Response, error) {
	resp, err := s.search.Search(ctx, search.Request{
		Location: req.Location,
		Page:     req.Page,
		Country:  req.Country,
		What:     req.What,
	})
	if err != nil {
		return nil, toGRPCError(err)
	}
	return resp, nil
}

// ListApplications returns all applications belonging to the caller.
func (s *Server) ListApplications(ctx context.Context, _ *ListApplicationsRequest) (*ListApplicationsResponse, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.tracker.List(ctx, userID)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return &ListApplicationsResponse{Applications: apps}, nil
}

// CreateApplication starts tracking a job for the caller.
func (s *Server) CreateApplication(ctx context.Context, req *CreateApplicationRequest) (*model.Application, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	app, err := s.tracker.Create(ctx, userID, *req)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return app, nil
}

// UpdateApplicationStatus moves an application to a new status.
func (s *Server) UpdateApplicationStatus(ctx context.Context, req *UpdateApplicationStatusRequest) (*model.Application, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	app, err := s.tracker.UpdateStatus(ctx, userID, req.ApplicationID, req.Status)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return app, nil
}

// DeleteApplication stops tracking an application.
func (s *Server) DeleteApplication(ctx context.Context, req *DeleteApplicationRequest) (*DeleteApplicationResponse, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.tracker.Delete(ctx, userID, req.ApplicationID); err != nil {
		return nil, toGRPCError(err)
	}
	return &DeleteApplicationResponse{Success: true}, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// userIDFromCtx extracts the x-user-id value forwarded by the gateway
// via gRPC metadata.
func userIDFromCtx(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing metadata")
	}
	vals := md.Get("x-user-id")
	if len(vals) == 0 || vals[0] == "" {
		return "", status.Error(codes.Unauthenticated, "missing x-user-id metadata")
	}
	return vals[0], nil
}

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	var (
		ve *kanban.ValidationError
		pe *scraper.ProviderError
	)
	switch {
	case errors.Is(err, kanban.ErrNotFound):
		return status.Error(codes.NotFound, "application not found")
	case errors.Is(err, kanban.ErrDuplicate):
		return status.Error(codes.AlreadyExists, "application already exists for this job")
	case errors.Is(err, kanban.ErrConflict):
		return status.Error(codes.Aborted, "application status changed, reload and retry")
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Msg)
	case errors.As(err, &pe):
		return status.Errorf(codes.Unavailable, "Adzuna request failed: %d", pe.Status)
	case errors.Is(err, scraper.ErrMissingCredentials):
		return status.Error(codes.Internal, "Missing ADZUNA_APP_ID or ADZUNA_APP_KEY")
	}
	return status.Error(codes.Internal, "internal server error")
}

// ─── Service descriptor ───────────────────────────────────────────────────────

// unary adapts a typed Server method to a grpc.MethodDesc.
func unary[Req, Resp any](name string, h func(*Server, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			req := new(Req)
			if err := dec(req); err != nil {
				return nil, err
			}
			s := srv.(*Server)
			if interceptor == nil {
				return h(s, ctx, req)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, req, info, func(ctx context.Context, r any) (any, error) {
				return h(s, ctx, r.(*Req))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		unary("SearchJobs", (*Server).SearchJobs),
		unary("ListApplications", (*Server).ListApplications),
		unary("CreateApplication", (*Server).CreateApplication),
		unary("UpdateApplicationStatus", (*Server).UpdateApplicationStatus),
		unary("DeleteApplication", (*Server).DeleteApplication),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobsearch/v1/jobsearch",
}

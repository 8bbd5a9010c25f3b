package backend

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lzjever/wsm/internal/catalog"
	"github.com/lzjever/wsm/internal/core"
	"github.com/lzjever/wsm/internal/observability"
)

// Store is the durable state behind the backend service.
type Store interface {
	Insert(ctx context.Context, ws *core.Workspace) error
	List(ctx context.Context) ([]*core.Workspace, error)
	Activate(ctx context.Context, id string, now time.Time, usage core.ResourceUsage) (*core.Workspace, error)
	Deactivate(ctx context.Context, id string) (*core.Workspace, error)
	Update(ctx context.Context, id string, patch core.WorkspacePatch) (*core.Workspace, error)
	Delete(ctx context.Context, id string) error
}

type Server struct {
	store  Store
	userID string
	log    *zap.Logger
	now    func() time.Time
}

func NewServer(store Store, userID string, log *zap.Logger) *Server {
	return &Server{store: store, userID: userID, log: log, now: time.Now}
}

func (s *Server) CreateWorkspace(ctx context.Context, req *CreateWorkspaceRequest) (*WorkspaceResponse, error) {
	if err := req.Request.Validate(); err != nil {
		return nil, toStatus(err)
	}
	ws := catalog.NewWorkspace(core.NewID(), req.Request, s.userID, s.now().UTC())
	if err := s.store.Insert(ctx, ws); err != nil {
		s.log.Error("insert workspace failed", zap.Error(err))
		return nil, toStatus(err)
	}
	return &WorkspaceResponse{Workspace: ws}, nil
}

func (s *Server) GetWorkspaces(ctx context.Context, _ *GetWorkspacesRequest) (*WorkspacesResponse, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		s.log.Error("list workspaces failed", zap.Error(err))
		return nil, toStatus(err)
	}
	return &WorkspacesResponse{Workspaces: list}, nil
}

func (s *Server) ActivateWorkspace(ctx context.Context, req *WorkspaceIDRequest) (*WorkspaceResponse, error) {
	ws, err := s.store.Activate(ctx, req.ID, s.now().UTC(), core.SimulatedUsage())
	if err != nil {
		return nil, toStatus(err)
	}
	return &WorkspaceResponse{Workspace: ws}, nil
}

func (s *Server) DeactivateWorkspace(ctx context.Context, req *WorkspaceIDRequest) (*WorkspaceResponse, error) {
	ws, err := s.store.Deactivate(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &WorkspaceResponse{Workspace: ws}, nil
}

func (s *Server) DeleteWorkspace(ctx context.Context, req *WorkspaceIDRequest) (*Empty, error) {
	if err := s.store.Delete(ctx, req.ID); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *Server) UpdateWorkspace(ctx context.Context, req *UpdateWorkspaceRequest) (*WorkspaceResponse, error) {
	if err := req.Updates.Validate(); err != nil {
		return nil, toStatus(err)
	}
	ws, err := s.store.Update(ctx, req.ID, req.Updates)
	if err != nil {
		return nil, toStatus(err)
	}
	return &WorkspaceResponse{Workspace: ws}, nil
}

func toStatus(err error) error {
	switch core.CodeOf(err) {
	case core.ErrNotFound:
		return status.Error(codes.NotFound, err.Error())
	case core.ErrValidation, core.ErrBadRequest:
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// UnaryInterceptor logs and counts every backend call.
func UnaryInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		observability.BackendRPCTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
		observability.BackendRPCDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		log.Info("rpc",
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}

package backend

import (
	"context"

	"google.golang.org/grpc"

	"github.com/lzjever/wsm/internal/core"
)

const ServiceName = "wsm.backend.v1.WorkspaceBackend"

const (
	MethodCreateWorkspace     = "CreateWorkspace"
	MethodGetWorkspaces       = "GetWorkspaces"
	MethodActivateWorkspace   = "ActivateWorkspace"
	MethodDeactivateWorkspace = "DeactivateWorkspace"
	MethodDeleteWorkspace     = "DeleteWorkspace"
	MethodUpdateWorkspace     = "UpdateWorkspace"
)

// FullMethod returns the gRPC path for method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type CreateWorkspaceRequest struct {
	Request core.CreateWorkspaceRequest `json:"request"`
}

type GetWorkspacesRequest struct{}

type WorkspaceIDRequest struct {
	ID string `json:"id"`
}

type UpdateWorkspaceRequest struct {
	ID      string              `json:"id"`
	Updates core.WorkspacePatch `json:"updates"`
}

type WorkspaceResponse struct {
	Workspace *core.Workspace `json:"workspace"`
}

type WorkspacesResponse struct {
	Workspaces []*core.Workspace `json:"workspaces"`
}

type Empty struct{}

type WorkspaceBackendServer interface {
	CreateWorkspace(context.Context, *CreateWorkspaceRequest) (*WorkspaceResponse, error)
	GetWorkspaces(context.Context, *GetWorkspacesRequest) (*WorkspacesResponse, error)
	ActivateWorkspace(context.Context, *WorkspaceIDRequest) (*WorkspaceResponse, error)
	DeactivateWorkspace(context.Context, *WorkspaceIDRequest) (*WorkspaceResponse, error)
	DeleteWorkspace(context.Context, *WorkspaceIDRequest) (*Empty, error)
	UpdateWorkspace(context.Context, *UpdateWorkspaceRequest) (*WorkspaceResponse, error)
}

func RegisterWorkspaceBackendServer(s grpc.ServiceRegistrar, srv WorkspaceBackendServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WorkspaceBackendServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodCreateWorkspace, Handler: unary(MethodCreateWorkspace, WorkspaceBackendServer.CreateWorkspace)},
		{MethodName: MethodGetWorkspaces, Handler: unary(MethodGetWorkspaces, WorkspaceBackendServer.GetWorkspaces)},
		{MethodName: MethodActivateWorkspace, Handler: unary(MethodActivateWorkspace, WorkspaceBackendServer.ActivateWorkspace)},
		{MethodName: MethodDeactivateWorkspace, Handler: unary(MethodDeactivateWorkspace, WorkspaceBackendServer.DeactivateWorkspace)},
		{MethodName: MethodDeleteWorkspace, Handler: unary(MethodDeleteWorkspace, WorkspaceBackendServer.DeleteWorkspace)},
		{MethodName: MethodUpdateWorkspace, Handler: unary(MethodUpdateWorkspace, WorkspaceBackendServer.UpdateWorkspace)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/backend/service.go",
}

func unary[Req, Resp any](method string, call func(WorkspaceBackendServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(WorkspaceBackendServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(WorkspaceBackendServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

package backendclient

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/lzjever/wsm/internal/backend"
)

type Client struct {
	conn *grpc.ClientConn
}

func New(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(backend.CodecName)),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial backend %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) CreateWorkspace(ctx context.Context, req *backend.CreateWorkspaceRequest) (*backend.WorkspaceResponse, error) {
	out := new(backend.WorkspaceResponse)
	return out, c.invoke(ctx, backend.MethodCreateWorkspace, req, out)
}

func (c *Client) GetWorkspaces(ctx context.Context) (*backend.WorkspacesResponse, error) {
	out := new(backend.WorkspacesResponse)
	return out, c.invoke(ctx, backend.MethodGetWorkspaces, &backend.GetWorkspacesRequest{}, out)
}

func (c *Client) ActivateWorkspace(ctx context.Context, id string) (*backend.WorkspaceResponse, error) {
	out := new(backend.WorkspaceResponse)
	return out, c.invoke(ctx, backend.MethodActivateWorkspace, &backend.WorkspaceIDRequest{ID: id}, out)
}

func (c *Client) DeactivateWorkspace(ctx context.Context, id string) (*backend.WorkspaceResponse, error) {
	out := new(backend.WorkspaceResponse)
	return out, c.invoke(ctx, backend.MethodDeactivateWorkspace, &backend.WorkspaceIDRequest{ID: id}, out)
}

func (c *Client) DeleteWorkspace(ctx context.Context, id string) error {
	return c.invoke(ctx, backend.MethodDeleteWorkspace, &backend.WorkspaceIDRequest{ID: id}, new(backend.Empty))
}

func (c *Client) UpdateWorkspace(ctx context.Context, req *backend.UpdateWorkspaceRequest) (*backend.WorkspaceResponse, error) {
	out := new(backend.WorkspaceResponse)
	return out, c.invoke(ctx, backend.MethodUpdateWorkspace, req, out)
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	return c.conn.Invoke(ctx, backend.FullMethod(method), in, out)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

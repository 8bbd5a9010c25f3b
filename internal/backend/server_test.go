package backend

import (
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lzjever/wsm/internal/core"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{core.NotFound("x"), codes.NotFound},
		{core.Validation("bad"), codes.InvalidArgument},
		{core.NewAppError(core.ErrBadRequest, "bad"), codes.InvalidArgument},
		{core.NewAppError(core.ErrInternal, "boom"), codes.Internal},
	}
	for _, tt := range tests {
		if got := status.Code(toStatus(tt.err)); got != tt.want {
			t.Errorf("toStatus(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	c := jsonCodec{}
	if c.Name() != CodecName {
		t.Fatalf("codec name = %s", c.Name())
	}
	name := "n"
	in := &UpdateWorkspaceRequest{ID: "ws-1", Updates: core.WorkspacePatch{Name: &name}}
	data, err := c.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out UpdateWorkspaceRequest
	if err := c.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.ID != "ws-1" || out.Updates.Name == nil || *out.Updates.Name != "n" {
		t.Errorf("unexpected decode: %+v", out)
	}
	if out.Updates.Status != nil {
		t.Error("absent fields must stay nil")
	}
}

func TestFullMethod(t *testing.T) {
	if got := FullMethod(MethodActivateWorkspace); got != "/wsm.backend.v1.WorkspaceBackend/ActivateWorkspace" {
		t.Errorf("FullMethod = %s", got)
	}
}

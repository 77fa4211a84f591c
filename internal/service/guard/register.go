package guard

import (
	"google.golang.org/grpc"

	"github.com/hey-granth/profile-guard/internal/app"
	pb "github.com/hey-granth/profile-guard/internal/proto/guard"
)

// Registrar ties the Guard service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Guard service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Guard service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	pb.RegisterGuardServer(s, NewGuardService(r.appCtx))
}

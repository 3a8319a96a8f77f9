package extent

// PutArgs/PutReply and friends are the net/rpc-shaped argument/reply
// pairs exposed by RPCService, mirroring the request/reply pairing
// convention pkg/lockproto uses for the lock service's RPC surface.

type PutArgs struct {
	ID   ID
	Data []byte
}
type PutReply struct{}

type GetArgs struct{ ID ID }
type GetReply struct{ Data []byte }

type GetAttrArgs struct{ ID ID }
type GetAttrReply struct{ Attr Attr }

type SetAttrArgs struct {
	ID   ID
	Size int64
}
type SetAttrReply struct{}

type RemoveArgs struct{ ID ID }
type RemoveReply struct{}

// RPCService adapts a *Service to the net/rpc calling convention (each
// method takes an args value and a reply pointer, returns error), so it
// can be registered directly with a net/rpc server.
type RPCService struct {
	svc *Service
}

// NewRPCService wraps svc for net/rpc registration.
func NewRPCService(svc *Service) *RPCService {
	return &RPCService{svc: svc}
}

func (r *RPCService) Put(args PutArgs, reply *PutReply) error {
	return r.svc.Put(args.ID, args.Data)
}

func (r *RPCService) Get(args GetArgs, reply *GetReply) error {
	data, err := r.svc.Get(args.ID)
	if err != nil {
		return err
	}
	reply.Data = data
	return nil
}

func (r *RPCService) GetAttr(args GetAttrArgs, reply *GetAttrReply) error {
	attr, err := r.svc.GetAttr(args.ID)
	if err != nil {
		return err
	}
	reply.Attr = attr
	return nil
}

func (r *RPCService) SetAttr(args SetAttrArgs, reply *SetAttrReply) error {
	return r.svc.SetAttr(args.ID, args.Size)
}

func (r *RPCService) Remove(args RemoveArgs, reply *RemoveReply) error {
	return r.svc.Remove(args.ID)
}

// Client is the interface the filesystem client uses to reach an extent
// service, satisfied both by a direct *Service (in-process) and by a
// transport-backed stub (internal/transport/rpc).
type Client interface {
	Put(id ID, data []byte) error
	Get(id ID) ([]byte, error)
	GetAttr(id ID) (Attr, error)
	SetAttr(id ID, size int64) error
	Remove(id ID) error
}

var _ Client = (*Service)(nil)

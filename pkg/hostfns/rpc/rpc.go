// Package rpc implements a dynamic (codegen-free) gRPC client as host
// functions: `grpc.load_proto`, `grpc.dial`, `grpc.invoke`, `grpc.close`.
// .proto files are parsed at runtime with protoreflect/protoparse and
// methods are invoked through dynamic.Message rather than generated
// stubs, matching this DSL's dotted host names ("svc.method").
package rpc

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/flowscript/flowscript/internal/registry"
	"github.com/flowscript/flowscript/internal/value"
)

const action = "rpc"

// Client holds the loaded proto descriptors and open connections a
// script has created through the host functions below, scoped to one
// Client instance so multiple Runtimes never share connections.
type Client struct {
	mu       sync.RWMutex
	files    map[string]*desc.FileDescriptor
	conns    map[string]*grpc.ClientConn
	nextConn int
}

// NewClient creates an empty Client ready for Register.
func NewClient() *Client {
	return &Client{
		files: make(map[string]*desc.FileDescriptor),
		conns: make(map[string]*grpc.ClientConn),
	}
}

// Register installs grpc.load_proto/grpc.dial/grpc.invoke/grpc.close
// into reg, bound to this Client's state.
func (c *Client) Register(reg *registry.Registry) {
	reg.Register("grpc.load_proto", c.hostLoadProto, false, 1)
	reg.Register("grpc.dial", c.hostDial, false, 1)
	reg.Register("grpc.invoke", c.hostInvoke, false, 3)
	reg.Register("grpc.close", c.hostClose, false, 1)
}

func fail(msg string) value.Value {
	return value.NewFailureEnvelope("RuntimeError", msg, action, "")
}

func typeErr(msg string) value.Value {
	return value.NewFailureEnvelope("TypeError", msg, action, "")
}

func (c *Client) hostLoadProto(a registry.Args) value.Value {
	if len(a.Pos) != 1 || a.Pos[0].Kind() != value.String {
		return typeErr("grpc.load_proto expects a file path string")
	}
	parser := protoparse.Parser{ImportPaths: []string{"."}}
	fds, err := parser.ParseFiles(a.Pos[0].Str())
	if err != nil {
		return fail("failed to parse proto: " + err.Error())
	}

	c.mu.Lock()
	for _, fd := range fds {
		c.files[fd.GetName()] = fd
	}
	c.mu.Unlock()

	return value.NewSuccessEnvelope(value.Nil, action, "")
}

// hostDial connects to target and returns an opaque connection handle
// string (this runtime's eight-variant Value has no room for a foreign
// *grpc.ClientConn, so the connection lives in Client.conns keyed by a
// handle the script threads through grpc.invoke/grpc.close).
func (c *Client) hostDial(a registry.Args) value.Value {
	if len(a.Pos) != 1 || a.Pos[0].Kind() != value.String {
		return typeErr("grpc.dial expects a target string")
	}
	conn, err := grpc.NewClient(a.Pos[0].Str(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fail("dial failed: " + err.Error())
	}

	c.mu.Lock()
	c.nextConn++
	handle := fmt.Sprintf("grpc-conn-%d", c.nextConn)
	c.conns[handle] = conn
	c.mu.Unlock()

	return value.NewSuccessEnvelope(value.NewString(handle), action, "")
}

func (c *Client) hostClose(a registry.Args) value.Value {
	if len(a.Pos) != 1 || a.Pos[0].Kind() != value.String {
		return typeErr("grpc.close expects a connection handle")
	}
	c.mu.Lock()
	conn, ok := c.conns[a.Pos[0].Str()]
	delete(c.conns, a.Pos[0].Str())
	c.mu.Unlock()
	if !ok {
		return fail("unknown connection handle")
	}
	if err := conn.Close(); err != nil {
		return fail("close failed: " + err.Error())
	}
	return value.NewSuccessEnvelope(value.Nil, action, "")
}

// hostInvoke calls method (shaped "package.Service/Method") on the
// connection identified by handle, building the request message from a
// dict Value and converting the response back to a dict Value.
func (c *Client) hostInvoke(a registry.Args) value.Value {
	if len(a.Pos) != 3 || a.Pos[0].Kind() != value.String || a.Pos[1].Kind() != value.String {
		return typeErr("grpc.invoke expects (connection handle, method, request)")
	}
	c.mu.RLock()
	conn, ok := c.conns[a.Pos[0].Str()]
	c.mu.RUnlock()
	if !ok {
		return fail("unknown connection handle")
	}

	md, err := c.findMethod(a.Pos[1].Str())
	if err != nil {
		return fail(err.Error())
	}

	reqMsg := dynamic.NewMessage(md.GetInputType())
	if err := valueToDynamicMessage(a.Pos[2], reqMsg); err != nil {
		return fail("failed to build request: " + err.Error())
	}
	respMsg := dynamic.NewMessage(md.GetOutputType())

	fullMethod := a.Pos[1].Str()
	if fullMethod[0] != '/' {
		fullMethod = "/" + fullMethod
	}
	if err := conn.Invoke(context.Background(), fullMethod, reqMsg, respMsg); err != nil {
		return fail("RPC failed: " + err.Error())
	}

	return value.NewSuccessEnvelope(dynamicMessageToValue(respMsg), action, "")
}

func (c *Client) findMethod(path string) (*desc.MethodDescriptor, error) {
	slash := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			slash = i
			break
		}
	}
	if slash < 0 {
		return nil, fmt.Errorf("invalid method path %q, expected 'package.Service/Method'", path)
	}
	serviceName, methodName := path[:slash], path[slash+1:]

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, fd := range c.files {
		if svc := fd.FindService(serviceName); svc != nil {
			if m := svc.FindMethodByName(methodName); m != nil {
				return m, nil
			}
		}
	}
	return nil, fmt.Errorf("method %q not found (did you grpc.load_proto it?)", path)
}

func valueToDynamicMessage(v value.Value, msg *dynamic.Message) error {
	if v.Kind() != value.Dict {
		return fmt.Errorf("expected a dict request, got %s", v.Kind())
	}
	d := v.DictVal()
	for _, name := range d.Keys() {
		fv, _ := d.Get(name)
		fd := msg.GetMessageDescriptor().FindFieldByName(name)
		if fd == nil {
			continue
		}
		pv, err := valueToProtoField(fv, fd)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		if pv != nil {
			msg.SetField(fd, pv)
		}
	}
	return nil
}

func valueToProtoField(v value.Value, fd *desc.FieldDescriptor) (interface{}, error) {
	if fd.IsRepeated() {
		if v.Kind() != value.List {
			return nil, fmt.Errorf("expected a list for repeated field")
		}
		out := make([]interface{}, 0, len(v.List()))
		for _, item := range v.List() {
			pv, err := valueToProtoScalar(item, fd)
			if err != nil {
				return nil, err
			}
			out = append(out, pv)
		}
		return out, nil
	}
	return valueToProtoScalar(v, fd)
}

func valueToProtoScalar(v value.Value, fd *desc.FieldDescriptor) (interface{}, error) {
	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_INT32, descriptorpb.FieldDescriptorProto_TYPE_SINT32, descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return int32(v.Int()), nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT64, descriptorpb.FieldDescriptorProto_TYPE_SINT64, descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return v.Int(), nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32, descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return uint32(v.Int()), nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64, descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return uint64(v.Int()), nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return float32(v.AsFloat64()), nil
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return v.AsFloat64(), nil
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return v.Bool(), nil
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return v.Str(), nil
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		nested := dynamic.NewMessage(fd.GetMessageType())
		if err := valueToDynamicMessage(v, nested); err != nil {
			return nil, err
		}
		return nested, nil
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		if v.Kind() == value.String {
			if ev := fd.GetEnumType().FindValueByName(v.Str()); ev != nil {
				return ev.GetNumber(), nil
			}
		}
		return int32(v.Int()), nil
	default:
		return nil, fmt.Errorf("unsupported field type %v", fd.GetType())
	}
}

func dynamicMessageToValue(msg *dynamic.Message) value.Value {
	out := value.NewOrderedMap()
	for _, fd := range msg.GetMessageDescriptor().GetFields() {
		out.Set(fd.GetName(), protoFieldToValue(msg.GetField(fd), fd))
	}
	return value.NewDict(out)
}

func protoFieldToValue(v interface{}, fd *desc.FieldDescriptor) value.Value {
	if fd.IsRepeated() {
		items, ok := v.([]interface{})
		if !ok {
			return value.NewList(nil)
		}
		out := make([]value.Value, len(items))
		for i, it := range items {
			out[i] = protoScalarToValue(it)
		}
		return value.NewList(out)
	}
	return protoScalarToValue(v)
}

func protoScalarToValue(v interface{}) value.Value {
	switch x := v.(type) {
	case nil:
		return value.Nil
	case int32:
		return value.NewInt(int64(x))
	case int64:
		return value.NewInt(x)
	case uint32:
		return value.NewInt(int64(x))
	case uint64:
		return value.NewInt(int64(x))
	case float32:
		return value.NewFloat(float64(x))
	case float64:
		return value.NewFloat(x)
	case bool:
		return value.NewBool(x)
	case string:
		return value.NewString(x)
	case []byte:
		return value.NewString(string(x))
	case *dynamic.Message:
		return dynamicMessageToValue(x)
	default:
		return value.Nil
	}
}

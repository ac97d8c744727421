package grpc

// proto.go defines the gRPC server interface for credia.contract.v1.ContractService.
// This file serves as a stand-in for buf-generated code; the JSON codec in
// json_codec.go carries the wire payloads until proto definitions land.

import (
	"context"
	"encoding/json"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/naufallariff/credia-system/internal/application/dto"
)

// Request wire types. Money travels as decimal strings, dates as RFC 3339.

type CreateContractRequest struct {
	ClientID       string `json:"client_id"`
	OTRPrice       string `json:"otr_price"`
	DPAmount       string `json:"dp_amount"`
	DurationMonths int    `json:"duration_months"`
	StartDate      string `json:"start_date"`
}

type GetContractRequest struct {
	ContractID string `json:"contract_id"`
}

type PayInstallmentRequest struct {
	ContractID       string `json:"contract_id"`
	InstallmentMonth int    `json:"installment_month"`
	Amount           string `json:"amount"`
}

type CreateTicketRequest struct {
	TargetType   string          `json:"target_type"`
	TargetID     string          `json:"target_id"`
	RequestType  string          `json:"request_type"`
	ProposedData json.RawMessage `json:"proposed_data,omitempty"`
	Reason       string          `json:"reason"`
}

type ProcessTicketRequest struct {
	TicketID string `json:"ticket_id"`
	Action   string `json:"action"`
	Note     string `json:"note,omitempty"`
}

// Response wire types mirror the application DTOs.

type ContractResponse = dto.ContractResponse

type PayInstallmentResponse = dto.SettlementResponse

type TicketResponse = dto.TicketResponse

// ContractServiceServer is the server API for ContractService.
type ContractServiceServer interface {
	CreateContract(context.Context, *CreateContractRequest) (*ContractResponse, error)
	GetContract(context.Context, *GetContractRequest) (*ContractResponse, error)
	PayInstallment(context.Context, *PayInstallmentRequest) (*PayInstallmentResponse, error)
	CreateTicket(context.Context, *CreateTicketRequest) (*TicketResponse, error)
	ProcessTicket(context.Context, *ProcessTicketRequest) (*TicketResponse, error)
	mustEmbedUnimplementedContractServiceServer()
}

// UnimplementedContractServiceServer provides forward-compatible default implementations.
type UnimplementedContractServiceServer struct{}

func (UnimplementedContractServiceServer) CreateContract(context.Context, *CreateContractRequest) (*ContractResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateContract not implemented")
}
func (UnimplementedContractServiceServer) GetContract(context.Context, *GetContractRequest) (*ContractResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetContract not implemented")
}
func (UnimplementedContractServiceServer) PayInstallment(context.Context, *PayInstallmentRequest) (*PayInstallmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PayInstallment not implemented")
}
func (UnimplementedContractServiceServer) CreateTicket(context.Context, *CreateTicketRequest) (*TicketResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateTicket not implemented")
}
func (UnimplementedContractServiceServer) ProcessTicket(context.Context, *ProcessTicketRequest) (*TicketResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ProcessTicket not implemented")
}
func (UnimplementedContractServiceServer) mustEmbedUnimplementedContractServiceServer() {}

// RegisterContractServiceServer registers the ContractServiceServer with the gRPC server.
func RegisterContractServiceServer(s *grpclib.Server, srv ContractServiceServer) {
	s.RegisterService(&_ContractService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _ContractService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "credia.contract.v1.ContractService",
	HandlerType: (*ContractServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "CreateContract", Handler: _ContractService_CreateContract_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "GetContract", Handler: _ContractService_GetContract_Handler},       //nolint:revive // gRPC handler registration
		{MethodName: "PayInstallment", Handler: _ContractService_PayInstallment_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "CreateTicket", Handler: _ContractService_CreateTicket_Handler},     //nolint:revive // gRPC handler registration
		{MethodName: "ProcessTicket", Handler: _ContractService_ProcessTicket_Handler},   //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _ContractService_CreateContract_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateContractRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).CreateContract(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/credia.contract.v1.ContractService/CreateContract",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ContractServiceServer).CreateContract(ctx, req.(*CreateContractRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ContractService_GetContract_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetContractRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).GetContract(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/credia.contract.v1.ContractService/GetContract",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ContractServiceServer).GetContract(ctx, req.(*GetContractRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ContractService_PayInstallment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(PayInstallmentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).PayInstallment(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/credia.contract.v1.ContractService/PayInstallment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ContractServiceServer).PayInstallment(ctx, req.(*PayInstallmentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ContractService_CreateTicket_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateTicketRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).CreateTicket(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/credia.contract.v1.ContractService/CreateTicket",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ContractServiceServer).CreateTicket(ctx, req.(*CreateTicketRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ContractService_ProcessTicket_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ProcessTicketRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).ProcessTicket(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/credia.contract.v1.ContractService/ProcessTicket",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ContractServiceServer).ProcessTicket(ctx, req.(*ProcessTicketRequest))
	}
	return interceptor(ctx, in, info, handler)
}

package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/naufallariff/credia-system/internal/application/dto"
	"github.com/naufallariff/credia-system/internal/application/usecase"
	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/pkg/auth"
)

// ContractHandler implements ContractServiceServer on top of the use cases.
// The auth interceptor has already validated the caller's token; the handler
// turns the claims into the acting identity every use case receives.
type ContractHandler struct {
	UnimplementedContractServiceServer

	createContract *usecase.CreateContractUseCase
	getContract    *usecase.GetContractUseCase
	settlePayment  *usecase.SettlePaymentUseCase
	createTicket   *usecase.CreateTicketUseCase
	processTicket  *usecase.ProcessTicketUseCase
}

// NewContractHandler creates a handler with all use-case dependencies.
func NewContractHandler(
	createContract *usecase.CreateContractUseCase,
	getContract *usecase.GetContractUseCase,
	settlePayment *usecase.SettlePaymentUseCase,
	createTicket *usecase.CreateTicketUseCase,
	processTicket *usecase.ProcessTicketUseCase,
) *ContractHandler {
	return &ContractHandler{
		createContract: createContract,
		getContract:    getContract,
		settlePayment:  settlePayment,
		createTicket:   createTicket,
		processTicket:  processTicket,
	}
}

// CreateContract drafts a new contract.
func (h *ContractHandler) CreateContract(ctx context.Context, req *CreateContractRequest) (*ContractResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	otrPrice, err := decimal.NewFromString(req.OTRPrice)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid otr_price: %v", err)
	}
	dpAmount, err := decimal.NewFromString(req.DPAmount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid dp_amount: %v", err)
	}
	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid start_date: %v", err)
	}

	resp, err := h.createContract.Execute(ctx, dto.CreateContractRequest{
		Actor:          actor,
		ClientID:       req.ClientID,
		OTRPrice:       otrPrice,
		DPAmount:       dpAmount,
		DurationMonths: req.DurationMonths,
		StartDate:      startDate,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resp, nil
}

// GetContract retrieves a contract with its schedule and ledger.
func (h *ContractHandler) GetContract(ctx context.Context, req *GetContractRequest) (*ContractResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := h.getContract.Execute(ctx, dto.GetContractRequest{
		Actor:      actor,
		ContractID: req.ContractID,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resp, nil
}

// PayInstallment settles one installment month.
func (h *ContractHandler) PayInstallment(ctx context.Context, req *PayInstallmentRequest) (*PayInstallmentResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount: %v", err)
	}

	resp, err := h.settlePayment.Execute(ctx, dto.SettlePaymentRequest{
		Actor:            actor,
		ContractID:       req.ContractID,
		InstallmentMonth: req.InstallmentMonth,
		Amount:           amount,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resp, nil
}

// CreateTicket opens a maker-checker ticket.
func (h *ContractHandler) CreateTicket(ctx context.Context, req *CreateTicketRequest) (*TicketResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := h.createTicket.Execute(ctx, dto.CreateTicketRequest{
		Actor:        actor,
		TargetType:   req.TargetType,
		TargetID:     req.TargetID,
		RequestType:  req.RequestType,
		ProposedData: req.ProposedData,
		Reason:       req.Reason,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resp, nil
}

// ProcessTicket resolves a pending ticket.
func (h *ContractHandler) ProcessTicket(ctx context.Context, req *ProcessTicketRequest) (*TicketResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := h.processTicket.Execute(ctx, dto.ProcessTicketRequest{
		Actor:    actor,
		TicketID: req.TicketID,
		Action:   req.Action,
		Note:     req.Note,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resp, nil
}

// actorFromContext builds the acting identity from validated JWT claims.
func actorFromContext(ctx context.Context) (model.Actor, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return model.Actor{}, status.Error(codes.Unauthenticated, "missing credentials")
	}
	return model.Actor{
		ID:   claims.UserID.String(),
		Name: claims.Name,
		Role: claims.PrimaryRole(),
	}, nil
}

// toStatusError maps domain error kinds onto gRPC status codes.
func toStatusError(err error) error {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return status.Error(codes.Internal, "internal error")
	}

	var code codes.Code
	switch appErr.Kind {
	case apperror.KindValidation:
		code = codes.InvalidArgument
	case apperror.KindNotFound:
		code = codes.NotFound
	case apperror.KindConflict:
		code = codes.AlreadyExists
	case apperror.KindAuthorization:
		code = codes.PermissionDenied
	case apperror.KindConfiguration:
		code = codes.FailedPrecondition
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, appErr.Message)
}

package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dtroode/tododash/internal/api/grpc/rpc"
	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
)

// TablesService defines caller-scoped table operations.
type TablesService interface {
	Select(ctx context.Context, caller uuid.UUID, table, orderBy string, ascending bool) ([]model.Row, error)
	Insert(ctx context.Context, caller uuid.UUID, table string, rows []model.Row) ([]model.Row, error)
	Update(ctx context.Context, caller uuid.UUID, table string, key model.Key, patch model.Row) error
	Delete(ctx context.Context, caller uuid.UUID, table string, key model.Key) error
	Export(ctx context.Context, caller uuid.UUID, table string) (string, error)
}

var _ rpc.TablesServer = (*Tables)(nil)

// Tables handles gRPC endpoints for table access. The caller is uuid.Nil
// for anonymous requests.
type Tables struct {
	tablesService  TablesService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewTables creates a new Tables handler.
func NewTables(tablesService TablesService, contextManager model.ContextManager, logger *logger.Logger) *Tables {
	return &Tables{
		tablesService:  tablesService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Tables) caller(ctx context.Context) uuid.UUID {
	userID, _ := h.contextManager.GetUserIDFromContext(ctx)
	return userID
}

func (h *Tables) Select(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	r, err := rpc.SelectRequestFromStruct(req)
	if err != nil {
		return nil, invalidRequest(err)
	}

	rows, err := h.tablesService.Select(ctx, h.caller(ctx), r.Table, r.OrderBy, r.Ascending)
	if err != nil {
		return nil, handleError(err)
	}
	return rowsToList(rows)
}

func (h *Tables) Insert(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	r, err := rpc.InsertRequestFromStruct(req)
	if err != nil {
		return nil, invalidRequest(err)
	}

	rows, err := h.tablesService.Insert(ctx, h.caller(ctx), r.Table, r.Rows)
	if err != nil {
		return nil, handleError(err)
	}
	return rowsToList(rows)
}

func (h *Tables) Update(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	r, err := rpc.UpdateRequestFromStruct(req)
	if err != nil {
		return nil, invalidRequest(err)
	}

	key := model.Key{Column: r.KeyColumn, Value: r.KeyValue}
	if err := h.tablesService.Update(ctx, h.caller(ctx), r.Table, key, r.Patch); err != nil {
		return nil, handleError(err)
	}
	return &emptypb.Empty{}, nil
}

func (h *Tables) Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	r, err := rpc.DeleteRequestFromStruct(req)
	if err != nil {
		return nil, invalidRequest(err)
	}

	key := model.Key{Column: r.KeyColumn, Value: r.KeyValue}
	if err := h.tablesService.Delete(ctx, h.caller(ctx), r.Table, key); err != nil {
		return nil, handleError(err)
	}
	return &emptypb.Empty{}, nil
}

// Export archives the caller's rows to object storage.
func (h *Tables) Export(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	table, err := rpc.TableFromStruct(req)
	if err != nil {
		return nil, invalidRequest(err)
	}

	key, err := h.tablesService.Export(ctx, h.caller(ctx), table)
	if err != nil {
		h.logger.Info("Tables handler: export failed",
			"table", table,
			"error", err.Error())
		return nil, handleError(err)
	}
	return wrapperspb.String(key), nil
}

func rowsToList(rows []model.Row) (*structpb.ListValue, error) {
	out, err := rpc.RowsToList(rows)
	if err != nil {
		return nil, handleError(err)
	}
	return out, nil
}
